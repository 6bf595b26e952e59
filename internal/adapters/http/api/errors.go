package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/closet/internal/app"
	"github.com/okian/closet/internal/adapters/repository"
	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/generation"
	"github.com/okian/closet/internal/domain/query"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
	ErrNotFound     = errors.New("not found")
)

// Error carries the operation that failed and the underlying kind.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Err: kind}
}

// Wrap annotates err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// badRequest builds a bad-request error with a message.
func badRequest(op, format string, args ...any) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: "+format, append([]any{ErrBadRequest}, args...)...)}
}

// classify maps an error to a status code and a machine readable code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, garment.ErrUnknownCategory),
		errors.Is(err, garment.ErrInvalidFormality),
		errors.Is(err, garment.ErrMissingID),
		errors.Is(err, garment.ErrNilGarment),
		errors.Is(err, generation.ErrInvalidTarget),
		errors.Is(err, generation.ErrInvalidAnchor),
		errors.Is(err, service.ErrDuplicateCategory),
		errors.Is(err, service.ErrEmptySelection),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, repository.ErrInvalidOutfit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrInvalidOutfit):
		return http.StatusUnprocessableEntity, "invalid_outfit"
	case errors.Is(err, ErrNotFound),
		errors.Is(err, service.ErrGarmentNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, query.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrReadOnly):
		return http.StatusConflict, "read_only"
	case errors.Is(err, query.ErrSessionClosed):
		return http.StatusGone, "session_closed"
	case errors.Is(err, ErrBackpressure), errors.Is(err, query.ErrQueueRejected):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
