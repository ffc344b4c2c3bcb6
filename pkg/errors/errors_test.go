package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("disk full")
	err := Wrap(CodeDependency, cause, "writing enriched items")

	if !stdErrors.Is(err, cause) {
		t.Fatalf("expected wrapped error to match cause")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %q", err.Code())
	}
}

func TestAsFindsNestedError(t *testing.T) {
	inner := New(CodeValidation, "bad header")
	outer := fmt.Errorf("reading ledger: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("unexpected code %q", typed.Code())
	}
}

func TestExitCodeOf(t *testing.T) {
	if got := ExitCodeOf(nil); got != 0 {
		t.Fatalf("nil error should exit 0, got %d", got)
	}
	if got := ExitCodeOf(New(CodeConfig, "bad bounds")); got != 2 {
		t.Fatalf("config error should exit 2, got %d", got)
	}
	if got := ExitCodeOf(stdErrors.New("plain")); got != 1 {
		t.Fatalf("plain error should exit 1, got %d", got)
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("BOGUS"))
	if meta.ExitCode != 1 {
		t.Fatalf("unknown codes should map to internal metadata, got %+v", meta)
	}
}
