package io

import (
	"mime"
	"path/filepath"
	"strings"

	errs "github.com/matzehuels/critpath/pkg/errors"
)

// Format identifies a task file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

var extFormats = map[string]Format{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
	".hcl":  FormatHCL,
}

var mediaFormats = map[string]Format{
	"application/json":   FormatJSON,
	"application/yaml":   FormatYAML,
	"application/x-yaml": FormatYAML,
	"text/yaml":          FormatYAML,
	"application/toml":   FormatTOML,
	"application/hcl":    FormatHCL,
}

// Extensions returns every file extension a task file may have.
func Extensions() []string {
	return []string{".json", ".yaml", ".yml", ".toml", ".hcl"}
}

// DetectFormat returns the format implied by the extension of path.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extFormats[ext]; ok {
		return f, nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unsupported task file extension %q", ext)
}

// FormatFromContentType maps an HTTP Content-Type to a format. An empty
// header means JSON.
func FormatFromContentType(contentType string) (Format, error) {
	if contentType == "" {
		return FormatJSON, nil
	}
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse content type")
	}
	if f, ok := mediaFormats[media]; ok {
		return f, nil
	}
	return "", errs.New(errs.ErrCodeUnsupported, "unsupported content type %q", media)
}
