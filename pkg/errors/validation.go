package errors

import (
	"errors"
	"strings"
	"unicode"

	"github.com/matzehuels/smilesdraw/pkg/graph"
	"github.com/matzehuels/smilesdraw/pkg/render"
	"github.com/matzehuels/smilesdraw/pkg/smiles"
)

// MaxSMILESLength bounds accepted SMILES strings. Layout cost grows
// quadratically with atom count, so the server rejects anything longer.
const MaxSMILESLength = 4096

// ValidateSMILES checks that s is a syntactically valid SMILES string of
// bounded length. Syntax errors keep their position in the cause.
func ValidateSMILES(s string) error {
	if s == "" {
		return New(ErrCodeInvalidSMILES, "SMILES cannot be empty")
	}
	if len(s) > MaxSMILESLength {
		return New(ErrCodeInvalidSMILES, "SMILES too long (max %d characters)", MaxSMILESLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSMILES, "SMILES contains whitespace or control characters")
		}
	}
	if _, err := smiles.Parse(s); err != nil {
		var se *smiles.SyntaxError
		if errors.As(err, &se) {
			return Wrap(ErrCodeInvalidSMILES, err, "invalid SMILES at position %d", se.Pos)
		}
		return Wrap(ErrCodeInvalidSMILES, err, "invalid SMILES")
	}
	return nil
}

// ValidateFormat checks that f names a supported output format.
func ValidateFormat(f string) error {
	if !graph.IsFormat(f) {
		return New(ErrCodeInvalidFormat, "unknown format %q (want one of %s)", f, strings.Join(graph.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every format and rejects an empty list.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "at least one format is required")
	}
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that name selects a theme. The empty name selects
// the default theme and is valid.
func ValidateTheme(name string) error {
	if _, err := render.LookupTheme(name); err != nil {
		return New(ErrCodeInvalidTheme, "unknown theme %q (want one of %s)", name, strings.Join(render.ThemeNames(), ", "))
	}
	return nil
}

// ValidateName validates a molecule name used as an output file base name.
// It rejects anything that could escape the output directory.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "name cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidPath, "name too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidPath, "name cannot contain path separators")
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "name cannot be a hidden file")
	}
	return nil
}

// ValidatePath validates a relative output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}
