package template

import (
	"errors"
	"log/slog"
)

// ErrMalformedTemplate is returned by dialect parsers and never escapes
// Extract, which falls back to tag stripping instead.
var ErrMalformedTemplate = errors.New("malformed template")

type Extractor struct {
	registry *Registry
	logger   *slog.Logger
}

// NewExtractor uses the default registry. A nil logger means slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		registry: DefaultRegistry(),
		logger:   logger.With("component", "template_extractor"),
	}
}

// Extract always returns a document. Text with no known dialect, or whose
// dialect fails to parse, comes back as Unrecognized with tags stripped.
func (e *Extractor) Extract(text string) Document {
	d, ok := e.registry.match(text)
	if !ok {
		return Unrecognized{Content: Clean(text)}
	}

	doc, err := d.extract(text)
	if err != nil {
		e.logger.Warn("template fallback to tag stripping", "dialect", d.name, "err", err)
		return Unrecognized{Content: Clean(text)}
	}
	return doc
}

func Extract(text string) Document {
	return NewExtractor(nil).Extract(text)
}
