package api

import (
	"net/http"
	"strings"

	"github.com/okian/closet/internal/domain/garment"
)

// GarmentsHandler serves the wardrobe.
type GarmentsHandler struct {
	deps GarmentDependencies
}

// NewGarmentsHandler creates a new garments handler.
func NewGarmentsHandler(deps GarmentDependencies) *GarmentsHandler {
	return &GarmentsHandler{deps: deps}
}

// HandleList handles GET /garments[?category=c].
func (h *GarmentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_garments"
	var filter garment.Category
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, err := garment.ParseCategory(raw)
		if err != nil {
			writeError(w, Wrap(op, err))
			return
		}
		filter = c
	}

	items, err := h.deps.Garments(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	out := make([]garment.Garment, 0, len(items))
	for _, g := range items {
		if filter == "" || g.Category == filter {
			out = append(out, g)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// garmentRequest mirrors the OpenAPI schema for POST /garments.
type garmentRequest struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Formality int      `json:"formality"`
	StyleTags []string `json:"style_tags"`
	Brand     string   `json:"brand"`
	ImageRef  string   `json:"image_ref"`
}

func (g garmentRequest) toGarment() (garment.Garment, error) {
	c, err := garment.ParseCategory(g.Category)
	if err != nil {
		return garment.Garment{}, err
	}
	return garment.Garment{
		ID:        strings.TrimSpace(g.ID),
		Name:      strings.TrimSpace(g.Name),
		Category:  c,
		Formality: g.Formality,
		StyleTags: g.StyleTags,
		Brand:     g.Brand,
		ImageRef:  g.ImageRef,
	}, nil
}

// HandleAdd handles POST /garments.
func (h *GarmentsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_garment"
	var req garmentRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := req.toGarment()
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	stored, err := h.deps.AddGarment(r.Context(), g)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// HandleDelete handles DELETE /garments/{id}.
func (h *GarmentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_garment"
	if err := h.deps.DeleteGarment(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
