package errors

import (
	"strings"
	"testing"
)

func TestValidateIdentifierLength(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"at limit", strings.Repeat("a", 256), false},
		{"over limit", strings.Repeat("a", 257), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateIdentifier(len %d) error = %v, wantErr %v", len(tt.id), err, tt.wantErr)
			}
		})
	}
}

func TestValidateIdentifierCode(t *testing.T) {
	err := ValidateIdentifier("")
	if !Is(err, ErrCodeInvalidInput) {
		t.Errorf("ValidateIdentifier returned wrong error code: %v", err)
	}
}

func TestValidateColorCode(t *testing.T) {
	err := ValidateColor("cornflower")
	if !Is(err, ErrCodeInvalidStyle) {
		t.Errorf("ValidateColor returned wrong error code: %v", err)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidSection,
		ErrCodeInvalidConfig,
		ErrCodeInvalidStyle,
		ErrCodeGraphCycle,
		ErrCodeUnknownStation,
		ErrCodeInvalidGraph,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
