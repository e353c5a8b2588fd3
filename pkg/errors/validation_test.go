package errors

import (
	"strings"
	"testing"
)

func TestValidateTaskCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "excavation", false},
		{"with dash", "pour-slab", false},
		{"mixed case", "firstRoot", false},
		{"inner space", "wall A", false},
		{"unicode", "základy", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxTaskCodeLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"control char", "foo\x01bar", true},
		{"leading space", " foo", true},
		{"trailing tab", "foo\t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTaskCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTaskCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateTaskCode(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateInputPath(t *testing.T) {
	exts := []string{".json", ".toml"}
	tests := []struct {
		name    string
		input   string
		exts    []string
		wantErr bool
	}{
		{"json", "tasks.json", exts, false},
		{"upper ext", "TASKS.JSON", exts, false},
		{"absolute", "/srv/plans/tasks.toml", exts, false},
		{"any ext when unrestricted", "tasks.txt", nil, false},

		{"empty", "", exts, true},
		{"too long", strings.Repeat("a", 5000) + ".json", exts, true},
		{"null byte", "foo\x00.json", exts, true},
		{"wrong ext", "tasks.yaml", exts, true},
		{"no ext", "tasks", exts, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputPath(tt.input, tt.exts...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateInputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidateInputPath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}
