package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestErrorSentenceCasesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, "group not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "Group not found" {
		t.Fatalf("expected sentence-cased message, got %q", body.Error)
	}
}

func TestErrorKeepsCapitalizedMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	BadRequest(rec, "Invalid request body")

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error != "Invalid request body" {
		t.Fatalf("expected message unchanged, got %q", body.Error)
	}
}

func TestCapitalizeEmpty(t *testing.T) {
	if got := capitalize(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
