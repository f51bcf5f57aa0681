package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestErrorMessageWithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Failed to load reservation", cause)

	want := "INTERNAL_ERROR: Failed to load reservation (caused by: connection refused)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestConstructorsStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Reservation"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad input", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{"forbidden", Forbidden("not the owner"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("slot contended"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"unavailable", Unavailable("notifier"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("%s: code = %q, want %q", tc.name, tc.err.Code, tc.code)
		}
		if tc.err.StatusCode() != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, tc.err.StatusCode(), tc.status)
		}
	}
}

func TestNotFoundWithIDDetails(t *testing.T) {
	err := NotFoundWithID("Reservation", "abc123")
	if err.Details["resource"] != "Reservation" || err.Details["id"] != "abc123" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(Conflict("busy"), CodeConflict) {
		t.Error("IsCode should match a conflict error")
	}
	if IsCode(Conflict("busy"), CodeNotFound) {
		t.Error("IsCode should not match a different code")
	}
	if IsCode(errors.New("plain"), CodeConflict) {
		t.Error("IsCode should not match a non-AppError")
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	plain := errors.New("plain failure")
	appErr := AsAppError(plain)
	if appErr.Code != CodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", appErr.Code)
	}
	if !errors.Is(appErr, plain) {
		t.Error("expected cause to be preserved")
	}
}
