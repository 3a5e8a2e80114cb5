package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
	"github.com/audiohive/audiohive-backend/pkg/logger"
	"github.com/audiohive/audiohive-backend/pkg/types"
)

const statusSuccess = "success"

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Status: statusSuccess, Data: data})
}

// WriteSuccessToken shapes the auth envelope: the token rides both here and
// in the jwt cookie set by the caller.
func WriteSuccessToken(w http.ResponseWriter, status int, token string, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Status: statusSuccess, Token: token, Data: data})
}

// WriteList includes the result count alongside the collection payload.
func WriteList(w http.ResponseWriter, results int, data any) {
	writeJSON(w, http.StatusOK, types.SuccessEnvelope{Status: statusSuccess, Results: &results, Data: data})
}

// ErrorWriter is the single translator from store/service failures to the
// error envelope. Internals (cause chain, stack) leak only when
// ExposeInternals is set, never in production.
type ErrorWriter struct {
	Log             *logger.Logger
	ExposeInternals bool
}

// NewErrorWriter builds the translator used by every controller.
func NewErrorWriter(logg *logger.Logger, exposeInternals bool) *ErrorWriter {
	return &ErrorWriter{Log: logg, ExposeInternals: exposeInternals}
}

func (ew *ErrorWriter) Write(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeDuplicate,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := types.ErrorEnvelope{
		Status:  meta.Status,
		Message: msg,
	}

	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Details = details
		}
	}

	if ew.ExposeInternals {
		payload.Cause = typed.Error()
		if cause := typed.Unwrap(); cause != nil {
			payload.Cause = typed.Error() + ": " + cause.Error()
		}
		if meta.HTTPStatus >= http.StatusInternalServerError {
			payload.Stack = string(debug.Stack())
		}
	}

	if ew.Log != nil {
		ctx = ew.Log.WithFields(ctx, pkgerrors.LogFields(err))
		ew.Log.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
