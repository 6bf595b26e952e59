package api

import (
	"net/http"

	"github.com/okian/closet/internal/domain/garment"
)

// EvaluateHandler scores and validates selections sent by clients.
type EvaluateHandler struct {
	deps EvaluateDependencies
}

// NewEvaluateHandler creates a new evaluate handler.
func NewEvaluateHandler(deps EvaluateDependencies) *EvaluateHandler {
	return &EvaluateHandler{deps: deps}
}

// selectionRequest names garments by id. Candidate and target are used by
// /validate and /compatible.
type selectionRequest struct {
	Items     []string `json:"items"`
	Candidate string   `json:"candidate,omitempty"`
	Target    string   `json:"target,omitempty"`
}

type validateResponse struct {
	Valid     bool   `json:"valid"`
	Complete  bool   `json:"complete"`
	Candidate string `json:"candidate,omitempty"`
	Target    string `json:"target,omitempty"`
	Fits      *bool  `json:"fits,omitempty"`
	Report    any    `json:"report,omitempty"`
}

// HandleScore handles POST /score.
func (h *EvaluateHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"
	var req selectionRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	ev, err := h.deps.Evaluate(r.Context(), req.Items)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleValidate handles POST /validate. With a candidate and a target it answers
// whether the candidate fits into the selection; otherwise it validates the
// selection as a whole.
func (h *EvaluateHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate"
	var req selectionRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.Candidate == "" && req.Target == "" {
		ev, err := h.deps.Evaluate(r.Context(), req.Items)
		if err != nil {
			writeError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, validateResponse{
			Valid:    ev.Report.Valid(),
			Complete: ev.Report.Complete,
			Report:   ev.Report,
		})
		return
	}

	if req.Candidate == "" || req.Target == "" {
		writeError(w, badRequest(op, "candidate and target go together"))
		return
	}
	target, err := garment.ParseCategory(req.Target)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	fits, err := h.deps.ValidatePartial(r.Context(), req.Items, req.Candidate, target)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:     fits,
		Candidate: req.Candidate,
		Target:    string(target),
		Fits:      &fits,
	})
}

// HandleCompatible handles POST /compatible.
func (h *EvaluateHandler) HandleCompatible(w http.ResponseWriter, r *http.Request) {
	const op = "api.compatible"
	var req selectionRequest
	if err := decode(op, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Target == "" {
		writeError(w, badRequest(op, "missing target"))
		return
	}
	target, err := garment.ParseCategory(req.Target)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	items, err := h.deps.Compatible(r.Context(), req.Items, target)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, items)
}
