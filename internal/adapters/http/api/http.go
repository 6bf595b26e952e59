// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/generation"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GarmentDependencies
	EvaluateDependencies
	OutfitDependencies
	SearchDependencies
}

// GarmentDependencies covers wardrobe reads and edits.
type GarmentDependencies interface {
	Garments(ctx context.Context) ([]garment.Garment, error)
	AddGarment(ctx context.Context, g garment.Garment) (garment.Garment, error)
	DeleteGarment(ctx context.Context, id string) error
}

// EvaluateDependencies covers scoring and validation of ad hoc selections.
type EvaluateDependencies interface {
	Evaluate(ctx context.Context, ids []string) (types.Evaluation, error)
	ValidatePartial(ctx context.Context, ids []string, candidateID string, target garment.Category) (bool, error)
	Compatible(ctx context.Context, ids []string, target garment.Category) ([]garment.Garment, error)
}

// OutfitDependencies covers generation and the catalogue.
type OutfitDependencies interface {
	RandomOutfit(ctx context.Context) (generation.RandomResult, error)
	OutfitsForAnchor(ctx context.Context, id string) ([]garment.GeneratedOutfit, error)
	Regenerate(ctx context.Context) (types.RegenerateResult, error)
	Curate(ctx context.Context, ids []string) (garment.GeneratedOutfit, error)
	SetLoved(ctx context.Context, key string, loved bool) (garment.GeneratedOutfit, error)
	Outfit(ctx context.Context, key string) (types.Entry, error)
	TopN(ctx context.Context, n int) ([]types.Entry, error)
	Outfits(ctx context.Context, term string, c query.Criteria) ([]garment.GeneratedOutfit, error)
}

// SearchDependencies covers incremental search sessions.
type SearchDependencies interface {
	OpenSearch() (*query.Session, error)
	Search(ctx context.Context, id, term string, c query.Criteria) (uint64, error)
	SearchResult(ctx context.Context, id string, wait time.Duration) (query.Result, bool, error)
	CloseSearch(id string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	garmentsHandler *GarmentsHandler
	evaluateHandler *EvaluateHandler
	outfitsHandler  *OutfitsHandler
	searchHandler   *SearchHandler
}

// NewServer creates a new API server with all handlers. maxTopLimit caps
// GET /outfits/top?limit.
func NewServer(deps Dependencies, status StatusProvider, maxTopLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(status),
		statsHandler:    NewStatsHandler(status),
		garmentsHandler: NewGarmentsHandler(deps),
		evaluateHandler: NewEvaluateHandler(deps),
		outfitsHandler:  NewOutfitsHandler(deps, maxTopLimit),
		searchHandler:   NewSearchHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, name string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, name))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /readyz", "readyz", s.healthHandler.HandleReady)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("GET /garments", "garments", s.garmentsHandler.HandleList)
	route("POST /garments", "garments", s.garmentsHandler.HandleAdd)
	route("DELETE /garments/{id}", "garments", s.garmentsHandler.HandleDelete)

	route("POST /score", "score", s.evaluateHandler.HandleScore)
	route("POST /validate", "validate", s.evaluateHandler.HandleValidate)
	route("POST /compatible", "compatible", s.evaluateHandler.HandleCompatible)

	route("GET /outfits", "outfits", s.outfitsHandler.HandleList)
	route("POST /outfits", "outfits", s.outfitsHandler.HandleCurate)
	route("GET /outfits/random", "outfits_random", s.outfitsHandler.HandleRandom)
	route("GET /outfits/anchor/{id}", "outfits_anchor", s.outfitsHandler.HandleAnchor)
	route("GET /outfits/top", "outfits_top", s.outfitsHandler.HandleTop)
	route("POST /outfits/regenerate", "outfits_regenerate", s.outfitsHandler.HandleRegenerate)
	route("GET /outfits/key/{key}", "outfits_get", s.outfitsHandler.HandleGet)
	route("POST /outfits/key/{key}/love", "outfits_love", s.outfitsHandler.HandleLove)
	route("DELETE /outfits/key/{key}/love", "outfits_love", s.outfitsHandler.HandleUnlove)

	route("POST /search/sessions", "search", s.searchHandler.HandleOpen)
	route("PUT /search/sessions/{id}", "search", s.searchHandler.HandleSubmit)
	route("GET /search/sessions/{id}", "search", s.searchHandler.HandleResult)
	route("DELETE /search/sessions/{id}", "search", s.searchHandler.HandleClose)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err and writes it as {code, message}.
func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(op string, r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest(op, "empty body")
		}
		return badRequest(op, "invalid json: %v", err)
	}
	return nil
}
