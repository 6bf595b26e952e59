package api

import (
	"net/http"
	"time"

	"github.com/okian/closet/internal/domain/query"
)

// maxSearchWait caps ?wait on GET /search/sessions/{id}.
const maxSearchWait = 30 * time.Second

// SearchHandler serves incremental search sessions.
type SearchHandler struct {
	deps SearchDependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps SearchDependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

type sessionResponse struct {
	ID string `json:"id"`
}

type submitResponse struct {
	ID  string `json:"id"`
	Seq uint64 `json:"seq"`
}

type resultResponse struct {
	ID      string       `json:"id"`
	Ready   bool         `json:"ready"`
	Result  query.Result `json:"result"`
	Elapsed string       `json:"elapsed,omitempty"`
}

// HandleOpen handles POST /search/sessions.
func (h *SearchHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	const op = "api.open_search"
	sess, err := h.deps.OpenSearch()
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/search/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sessionResponse{ID: sess.ID()})
}

// submitRequest carries the current search input. Criteria fields mirror the
// GET /outfits query parameters.
type submitRequest struct {
	Term       string   `json:"term"`
	MinScore   int      `json:"min_score"`
	Source     string   `json:"source"`
	LovedOnly  bool     `json:"loved"`
	Categories []string `json:"categories"`
}

// HandleSubmit handles PUT /search/sessions/{id}.
func (h *SearchHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_search"
	var req submitRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := buildCriteria(op, req.MinScore, req.Source, req.LovedOnly, req.Categories)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	seq, err := h.deps.Search(r.Context(), id, req.Term, c)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, submitResponse{ID: id, Seq: seq})
}

// HandleResult handles GET /search/sessions/{id}?wait=500ms.
func (h *SearchHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_result"
	var wait time.Duration
	if raw := r.URL.Query().Get("wait"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			writeError(w, badRequest(op, "wait must be a duration such as 500ms"))
			return
		}
		wait = min(d, maxSearchWait)
	}

	id := r.PathValue("id")
	res, ok, err := h.deps.SearchResult(r.Context(), id, wait)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	out := resultResponse{ID: id, Ready: ok, Result: res}
	if ok {
		out.Elapsed = res.Elapsed.String()
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleClose handles DELETE /search/sessions/{id}.
func (h *SearchHandler) HandleClose(w http.ResponseWriter, r *http.Request) {
	const op = "api.close_search"
	if err := h.deps.CloseSearch(r.PathValue("id")); err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
