package errors

import (
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds the length of a module id in a descriptor.
const MaxNodeIDLength = 512

// ValidateNodeID validates a module id taken from a descriptor.
//
// The rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of [MaxNodeIDLength] characters
//
// Ids end up as SVG text and DOT identifiers, so anything printable is fine.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDescriptor, "module id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidDescriptor, "module id too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDescriptor, "module id %q contains control characters", id)
		}
	}

	return nil
}

// ValidatePackageType checks a descriptor package type against the known set.
// An empty type is accepted and treated as Unknown by callers.
func ValidatePackageType(typ string) error {
	switch typ {
	case "", "Local", "Site", "StandardLib", "Unknown":
		return nil
	}
	return New(ErrCodeInvalidDescriptor, "unknown package type %q", typ)
}

// ValidateOutputPath validates an output path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormats checks a list of requested output formats against the
// supported set. Formats are compared case-insensitively.
func ValidateFormats(formats []string, supported ...string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "no output format given")
	}
	for _, f := range formats {
		ok := false
		for _, s := range supported {
			if strings.EqualFold(strings.TrimSpace(f), s) {
				ok = true
				break
			}
		}
		if !ok {
			return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", f, strings.Join(supported, ", "))
		}
	}
	return nil
}
