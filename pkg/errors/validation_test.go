package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "requests", false},
		{"valid dotted", "os.path", false},
		{"valid with spaces", "my module", false},
		{"valid path-like", "src/app/main.py", false},
		{"valid at limit", strings.Repeat("a", MaxNodeIDLength), false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", MaxNodeIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDescriptor) {
				t.Errorf("ValidateNodeID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidDescriptor)
			}
		})
	}
}

func TestValidatePackageType(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"Local", false},
		{"Site", false},
		{"StandardLib", false},
		{"Unknown", false},
		{"stdlib", true},
		{"local", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidatePackageType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/graph.svg", false},
		{"absolute", "/tmp/graph.svg", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"control char", "graph\x01.svg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	supported := []string{"svg", "dot", "png", "pdf"}
	tests := []struct {
		name    string
		input   []string
		wantErr bool
	}{
		{"single", []string{"svg"}, false},
		{"multiple", []string{"svg", "png"}, false},
		{"case insensitive", []string{"SVG"}, false},
		{"padded", []string{" pdf "}, false},
		{"empty", nil, true},
		{"unknown", []string{"svg", "jpeg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormats(tt.input, supported...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidFormat) {
				t.Errorf("ValidateFormats(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidFormat)
			}
		})
	}
}
