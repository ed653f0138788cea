package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"invalid record", ErrInvalidRecord, true},
		{"invalid config", ErrInvalidConfig, true},
		{"unknown config key", ErrUnknownConfigKey, true},
		{"nil operation", ErrNilOperation, true},
		{"no engine", ErrNoEngine, true},
		{"empty cache key", ErrEmptyKey, true},
		{"retries exceeded", ErrMaxRetriesExceeded, false},
		{"arbitrary error", fmt.Errorf("boom"), false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"retries exceeded", ErrMaxRetriesExceeded, true},
		{"attempt timeout", ErrAttemptTimeout, true},
		{"invalid record", ErrInvalidRecord, false},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"invalid record", ErrInvalidRecord, ErrorInvalid},
		{"retries exceeded", ErrMaxRetriesExceeded, ErrorTransient},
		{"unknown error defaults to transient", fmt.Errorf("weird"), ErrorTransient},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Classify(test.err); got != test.expected {
				t.Errorf("expected %v, got %v", test.expected, got)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := fmt.Errorf("connection refused")
	wrapped := Wrap(base, "Engine", "Process", "execute operation")

	if wrapped == nil {
		t.Fatal("expected non-nil wrapped error")
	}
	expected := "Engine.Process: execute operation failed: connection refused"
	if wrapped.Error() != expected {
		t.Errorf("expected %q, got %q", expected, wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to base")
	}
	if Wrap(nil, "Engine", "Process", "anything") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapPreservesClassification(t *testing.T) {
	invalid := WrapInvalid(ErrInvalidRecord, "Engine", "Process", "validate record")
	if !IsInvalid(invalid) {
		t.Error("WrapInvalid should produce an invalid-classified error")
	}
	if !errors.Is(invalid, ErrInvalidRecord) {
		t.Error("classification wrapper should preserve the sentinel")
	}

	transient := WrapTransient(ErrMaxRetriesExceeded, "Engine", "Process", "retry loop")
	if !IsTransient(transient) {
		t.Error("WrapTransient should produce a transient-classified error")
	}

	fatal := WrapFatal(fmt.Errorf("corrupted state"), "Engine", "Process", "internal")
	if !IsFatal(fatal) {
		t.Error("WrapFatal should produce a fatal-classified error")
	}

	var ce *ClassifiedError
	if !errors.As(invalid, &ce) {
		t.Fatal("expected ClassifiedError in chain")
	}
	if ce.Component != "Engine" || ce.Operation != "Process" {
		t.Errorf("unexpected component/operation: %s/%s", ce.Component, ce.Operation)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if WrapInvalid(nil, "a", "b", "c") != nil {
		t.Error("WrapInvalid(nil) should be nil")
	}
	if WrapTransient(nil, "a", "b", "c") != nil {
		t.Error("WrapTransient(nil) should be nil")
	}
	if WrapFatal(nil, "a", "b", "c") != nil {
		t.Error("WrapFatal(nil) should be nil")
	}
}
