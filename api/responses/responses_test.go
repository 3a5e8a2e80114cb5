package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/audiohive/audiohive-backend/pkg/errors"
	"github.com/audiohive/audiohive-backend/pkg/types"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]any{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %s", ct)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Status != "success" {
		t.Fatalf("expected success status, got %s", envelope.Status)
	}
	if envelope.Token != "" || envelope.Results != nil {
		t.Fatalf("token and results should be absent: %+v", envelope)
	}
}

func TestWriteSuccessToken(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccessToken(rec, http.StatusOK, "jwt-token", nil)

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Token != "jwt-token" {
		t.Fatalf("expected token in envelope, got %q", envelope.Token)
	}
}

func TestWriteList(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList(rec, 3, []string{"a", "b", "c"})

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Results == nil || *envelope.Results != 3 {
		t.Fatalf("expected results 3, got %v", envelope.Results)
	}
}

func TestErrorWriterClientError(t *testing.T) {
	ew := NewErrorWriter(nil, false)
	rec := httptest.NewRecorder()

	ew.Write(context.Background(), rec, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Status != "fail" {
		t.Fatalf("expected fail status on 4xx, got %s", envelope.Status)
	}
	if envelope.Message != "Product not found" {
		t.Fatalf("client-code message should pass through, got %q", envelope.Message)
	}
	if envelope.Cause != "" || envelope.Stack != "" {
		t.Fatalf("internals must stay hidden in production mode: %+v", envelope)
	}
}

func TestErrorWriterHidesInternalMessage(t *testing.T) {
	ew := NewErrorWriter(nil, false)
	rec := httptest.NewRecorder()

	ew.Write(context.Background(), rec, pkgerrors.Wrap(
		pkgerrors.CodeInternal, errors.New("pq: connection refused"), "lookup user"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Status != "error" {
		t.Fatalf("expected error status on 5xx, got %s", envelope.Status)
	}
	if envelope.Message != "Something went wrong." {
		t.Fatalf("internal details leaked into message: %q", envelope.Message)
	}
	if envelope.Cause != "" || envelope.Stack != "" {
		t.Fatalf("internals must stay hidden in production mode: %+v", envelope)
	}
}

func TestErrorWriterExposesInternalsInDev(t *testing.T) {
	ew := NewErrorWriter(nil, true)
	rec := httptest.NewRecorder()

	ew.Write(context.Background(), rec, pkgerrors.Wrap(
		pkgerrors.CodeInternal, errors.New("pq: connection refused"), "lookup user"))

	envelope := decodeError(t, rec)
	if envelope.Cause == "" {
		t.Fatalf("expected cause chain in dev mode")
	}
	if envelope.Stack == "" {
		t.Fatalf("expected stack on 5xx in dev mode")
	}
}

func TestErrorWriterNoStackBelow500(t *testing.T) {
	ew := NewErrorWriter(nil, true)
	rec := httptest.NewRecorder()

	ew.Write(context.Background(), rec, pkgerrors.New(pkgerrors.CodeValidation, "bad input"))

	envelope := decodeError(t, rec)
	if envelope.Stack != "" {
		t.Fatalf("stack must not ride on 4xx responses")
	}
}

func TestErrorWriterWrapsUntypedErrors(t *testing.T) {
	ew := NewErrorWriter(nil, false)
	rec := httptest.NewRecorder()

	ew.Write(context.Background(), rec, errors.New("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for untyped error, got %d", rec.Code)
	}
	envelope := decodeError(t, rec)
	if envelope.Message != "Something went wrong." {
		t.Fatalf("untyped errors must not leak, got %q", envelope.Message)
	}
}
