package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ExportedCharacter is one entry as written by Export. Level and HP stay text
// so entries with non-numeric fields are exported as they are stored.
type ExportedCharacter struct {
	Line       int      `json:"line" yaml:"line"`
	Name       string   `json:"name" yaml:"name"`
	Profession string   `json:"class" yaml:"class"`
	Level      string   `json:"level" yaml:"level"`
	HP         string   `json:"hp" yaml:"hp"`
	Equipment  []string `json:"equipment" yaml:"equipment"`
}

// Export is the document written by Service.Export.
type Export struct {
	File       string              `json:"file" yaml:"file"`
	Characters []ExportedCharacter `json:"characters" yaml:"characters"`
	Skipped    []SkippedLine       `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// ParseExportFormat accepts "json", "yaml" or "yml" in any case.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// NewExport converts a roster to its export document.
func NewExport(file string, r Roster) Export {
	out := Export{
		File:       file,
		Characters: make([]ExportedCharacter, 0, len(r.Entries)),
		Skipped:    r.Skipped,
	}
	for _, e := range r.Entries {
		out.Characters = append(out.Characters, ExportedCharacter{
			Line:       e.Line + 1,
			Name:       e.Fields.Name,
			Profession: e.Fields.Profession,
			Level:      e.Fields.Level,
			HP:         e.Fields.HP,
			Equipment:  e.Fields.Equipment,
		})
	}
	return out
}

// Export writes the current roster to w in the given format.
func (s *Service) Export(ctx context.Context, w io.Writer, format ExportFormat) error {
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	roster, err := s.List(ctx)
	if err != nil {
		return err
	}
	doc := NewExport(s.store.Path(), roster)

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
}
