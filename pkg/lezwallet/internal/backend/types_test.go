package backend

import (
	"errors"
	"testing"
)

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{Success, "success"},
		{InvalidAccountID, "invalid_account_id"},
		{SerializationError, "serialization_error"},
		{InternalError, "internal_error"},
		{Code(42), "code(42)"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("Code(%d).String() = %q, want %q", int(tt.code), got, tt.want)
		}
	}
}

func TestCodeKnown(t *testing.T) {
	for code := range codeNames {
		if !code.Known() {
			t.Errorf("%v should be known", code)
		}
	}
	if Code(17).Known() {
		t.Error("code 17 is not part of the enumeration")
	}
}

func TestFreeFuncNil(t *testing.T) {
	var f FreeFunc
	f.Free()
}

func TestNativeWithoutTag(t *testing.T) {
	if Linked() {
		t.Skip("native engine linked")
	}
	e, err := Native()
	if !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("Native() error = %v, want ErrNotBuilt", err)
	}
	if e != nil {
		t.Fatalf("Native() engine = %v, want nil", e)
	}
	if got := errors.Is(err, ErrCGONotEnabled); got != !cgoEnabled {
		t.Fatalf("errors.Is(%v, ErrCGONotEnabled) = %v with cgo enabled = %v", err, got, cgoEnabled)
	}
}
