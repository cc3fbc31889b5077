package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		expose    bool
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, expose: true, detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, expose: true, detailsOK: true},
		{code: CodeSlotConflict, status: http.StatusBadRequest, expose: true},
		{code: CodeStateConflict, status: http.StatusConflict, expose: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, expose: true},
		{code: CodeInternal, status: http.StatusInternalServerError, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.ExposeMessage != tt.expose {
			t.Fatalf("code %s expected expose %v got %v", tt.code, tt.expose, meta.ExposeMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", tt.code)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
	if meta.PublicMessage != "Something went wrong!" {
		t.Fatalf("unexpected public message %q", meta.PublicMessage)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "foo"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "count reservations")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
	if wrapped.Error() != "DEPENDENCY_ERROR: count reservations: boom" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestPublicMessageOverride(t *testing.T) {
	err := Wrap(CodeInternal, stdErrors.New("db down"), "list ingredients").
		WithPublicMessage("Error fetching ingredients.")
	if err.PublicMessage() != "Error fetching ingredients." {
		t.Fatalf("unexpected public message %q", err.PublicMessage())
	}
	if err.Message() != "list ingredients" {
		t.Fatalf("internal message should be untouched, got %q", err.Message())
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeSlotConflict, "taken"))
	if got := As(err); got == nil || got.Code() != CodeSlotConflict {
		t.Fatalf("As failed to return typed error")
	}
	if !IsCode(err, CodeSlotConflict) {
		t.Fatalf("IsCode should find slot conflict")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatalf("IsCode matched the wrong code")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}

func TestDumpIncludesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "ux_reservations_active_slot",
		TableName:      "reservations",
		Message:        "duplicate key value violates unique constraint",
	}
	err := Wrap(CodeSlotConflict, pgErr, "insert reservation")

	dump := Dump(err)
	if dump.Code != CodeSlotConflict {
		t.Fatalf("expected code in dump, got %q", dump.Code)
	}
	if dump.Driver != "pgx" || dump.SQLState != "23505" || dump.Constraint != "ux_reservations_active_slot" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
}

func TestDumpNil(t *testing.T) {
	if d := Dump(nil); d.TopMessage != "" || len(d.Chain) != 0 {
		t.Fatalf("expected empty dump, got %+v", d)
	}
}
