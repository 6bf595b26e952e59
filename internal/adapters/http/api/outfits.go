package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/query"
)

// defaultTopLimit is used when GET /outfits/top has no limit.
const defaultTopLimit = 10

// OutfitsHandler serves generation and the outfit catalogue.
type OutfitsHandler struct {
	deps     OutfitDependencies
	maxLimit int
}

// NewOutfitsHandler creates a new outfits handler.
func NewOutfitsHandler(deps OutfitDependencies, maxLimit int) *OutfitsHandler {
	if maxLimit < 1 {
		maxLimit = 100
	}
	return &OutfitsHandler{deps: deps, maxLimit: maxLimit}
}

// buildCriteria validates filter values shared by GET /outfits and search sessions.
func buildCriteria(op string, minScore int, source string, loved bool, categories []string) (query.Criteria, error) {
	c := query.Criteria{LovedOnly: loved}
	if minScore < 0 || minScore > 100 {
		return c, badRequest(op, "min_score must be in 0..100")
	}
	c.MinScore = minScore

	switch src := garment.Source(strings.ToLower(strings.TrimSpace(source))); src {
	case "":
	case garment.SourceCurated, garment.SourceGenerated:
		c.Source = src
	default:
		return c, badRequest(op, "unknown source %q", src)
	}

	for _, raw := range categories {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part == "" {
				continue
			}
			cat, err := garment.ParseCategory(part)
			if err != nil {
				return c, Wrap(op, err)
			}
			c.Categories = append(c.Categories, cat)
		}
	}
	return c, nil
}

// parseCriteria reads filter parameters from the query string.
func parseCriteria(op string, r *http.Request) (query.Criteria, error) {
	v := r.URL.Query()
	minScore := 0
	if raw := v.Get("min_score"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query.Criteria{}, badRequest(op, "min_score must be an integer")
		}
		minScore = n
	}
	loved := false
	if raw := v.Get("loved"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return query.Criteria{}, badRequest(op, "loved must be a boolean")
		}
		loved = b
	}
	return buildCriteria(op, minScore, v.Get("source"), loved, v["category"])
}

// HandleList handles GET /outfits?q=&min_score=&source=&loved=&category=.
func (h *OutfitsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_outfits"
	c, err := parseCriteria(op, r)
	if err != nil {
		writeError(w, err)
		return
	}
	outfits, err := h.deps.Outfits(r.Context(), r.URL.Query().Get("q"), c)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if outfits == nil {
		outfits = []garment.GeneratedOutfit{}
	}
	writeJSON(w, http.StatusOK, outfits)
}

// HandleRandom handles GET /outfits/random.
func (h *OutfitsHandler) HandleRandom(w http.ResponseWriter, r *http.Request) {
	const op = "api.random_outfit"
	res, err := h.deps.RandomOutfit(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleAnchor handles GET /outfits/anchor/{id}.
func (h *OutfitsHandler) HandleAnchor(w http.ResponseWriter, r *http.Request) {
	const op = "api.anchor_outfits"
	outfits, err := h.deps.OutfitsForAnchor(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if outfits == nil {
		outfits = []garment.GeneratedOutfit{}
	}
	writeJSON(w, http.StatusOK, outfits)
}

// HandleTop handles GET /outfits/top?limit=N.
func (h *OutfitsHandler) HandleTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_outfits"
	n := min(defaultTopLimit, h.maxLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, NewKind(op, ErrBadRequest))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, badRequest(op, "limit exceeds %d", h.maxLimit))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRegenerate handles POST /outfits/regenerate.
func (h *OutfitsHandler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	const op = "api.regenerate"
	res, err := h.deps.Regenerate(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleCurate handles POST /outfits with {"items": [...]}.
func (h *OutfitsHandler) HandleCurate(w http.ResponseWriter, r *http.Request) {
	const op = "api.curate"
	var req selectionRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	o, err := h.deps.Curate(r.Context(), req.Items)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// HandleGet handles GET /outfits/key/{key}.
func (h *OutfitsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_outfit"
	entry, err := h.deps.Outfit(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// HandleLove handles POST /outfits/key/{key}/love.
func (h *OutfitsHandler) HandleLove(w http.ResponseWriter, r *http.Request) {
	h.setLoved(w, r, true)
}

// HandleUnlove handles DELETE /outfits/key/{key}/love.
func (h *OutfitsHandler) HandleUnlove(w http.ResponseWriter, r *http.Request) {
	h.setLoved(w, r, false)
}

func (h *OutfitsHandler) setLoved(w http.ResponseWriter, r *http.Request, loved bool) {
	const op = "api.set_loved"
	o, err := h.deps.SetLoved(r.Context(), r.PathValue("key"), loved)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, o)
}
