package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

// ErrorKindHeader carries the domain error kind on failed responses, so
// clients can tell InvalidRelation apart from InvalidArgument.
const ErrorKindHeader = "Error-Kind"

// Error kinds as sent in ErrorKindHeader.
const (
	KindNotFound         = "not_found"
	KindConflict         = "conflict"
	KindInvalidRelation  = "invalid_relation"
	KindInvalidState     = "invalid_state"
	KindInvalidArgument  = "invalid_argument"
	KindPermissionDenied = "permission_denied"
	KindInternal         = "internal"
)

var errInternal = errors.New("internal error")

// toConnectError maps a domain error onto a Connect code and tags it with
// its kind. Unclassified errors are logged and hidden from the client.
func toConnectError(logger *slog.Logger, op string, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var (
		code connect.Code
		kind string
	)
	switch {
	case errors.Is(err, models.ErrNotFound):
		code, kind = connect.CodeNotFound, KindNotFound
	case errors.Is(err, models.ErrConflict):
		code, kind = connect.CodeAlreadyExists, KindConflict
	case errors.Is(err, models.ErrInvalidRelation):
		code, kind = connect.CodeInvalidArgument, KindInvalidRelation
	case errors.Is(err, models.ErrInvalidState):
		code, kind = connect.CodeFailedPrecondition, KindInvalidState
	case errors.Is(err, models.ErrInvalidArgument):
		code, kind = connect.CodeInvalidArgument, KindInvalidArgument
	case errors.Is(err, models.ErrPermissionDenied):
		code, kind = connect.CodePermissionDenied, KindPermissionDenied
	default:
		logger.Error(op+" failed", "error", err)
		e := connect.NewError(connect.CodeInternal, errInternal)
		e.Meta().Set(ErrorKindHeader, KindInternal)
		return e
	}

	e := connect.NewError(code, err)
	e.Meta().Set(ErrorKindHeader, kind)
	return e
}

// ErrorKind extracts the kind from an error returned by a Connect client.
func ErrorKind(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(ErrorKindHeader)
}
