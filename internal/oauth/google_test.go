package oauth

import (
	"errors"
	"testing"
)

func TestVerifyState(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		got      string
		wantErr  bool
	}{
		{"matching state", "abc123", "abc123", false},
		{"mismatched state", "abc123", "def456", true},
		{"empty cookie state", "", "abc123", true},
		{"empty provider state", "abc123", "", true},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyState(tt.expected, tt.got)
			if tt.wantErr && !errors.Is(err, ErrStateMismatch) {
				t.Errorf("VerifyState() = %v, want ErrStateMismatch", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("VerifyState() = %v, want nil", err)
			}
		})
	}
}

func TestNewState(t *testing.T) {
	a, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	b, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	if a == "" || a == b {
		t.Errorf("states %q and %q should be non-empty and distinct", a, b)
	}
}
