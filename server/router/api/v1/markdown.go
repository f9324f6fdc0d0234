package v1

import (
	"bytes"
	"log/slog"
)

// renderHTML converts agent text to HTML. Raw HTML in the text is not passed through.
func (s *APIV1Service) renderHTML(text string) string {
	if text == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		slog.Warn("failed to render markdown", slog.String("error", err.Error()))
		return ""
	}
	return buf.String()
}
