package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAsAppErrorResolvesWrappedChain(t *testing.T) {
	cause := errors.New("quote not found")
	appErr := NotFoundError("NOT_FOUND", cause)
	wrapped := errors.Join(errors.New("outer"), appErr)

	got := AsAppError(wrapped)
	if got.Code != "NOT_FOUND" || got.Status != http.StatusNotFound {
		t.Fatalf("unexpected classification: %+v", got)
	}
	if !errors.Is(got, cause) {
		t.Fatal("original cause must survive unwrapping")
	}
}

func TestAsAppErrorDefaultsToInternal(t *testing.T) {
	got := AsAppError(errors.New("pq: connection refused"))
	if got.Code != "INTERNAL" || got.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected classification: %+v", got)
	}
	if got.Message != "unexpected error" {
		t.Fatalf("internal errors must not leak detail, got %q", got.Message)
	}
}

func TestRenderErrorWritesCanonicalShape(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderError(rec, ConflictError("LIMIT_EXCEEDED", errors.New("promotion redemption limit exceeded")))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body struct {
		Error ErrorBody `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "LIMIT_EXCEEDED" {
		t.Fatalf("expected LIMIT_EXCEEDED, got %q", body.Error.Code)
	}
	if body.Error.Message != "promotion redemption limit exceeded" {
		t.Fatalf("unexpected message %q", body.Error.Message)
	}
}
