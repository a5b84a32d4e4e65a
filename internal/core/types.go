package core

import (
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/roster/internal/record"
)

// Entry is one successfully parsed roster line.
type Entry struct {
	Line      int           `json:"line" yaml:"line"`           // Zero-based line index in the file
	Selection int           `json:"selection" yaml:"selection"` // 1-based position among valid entries
	Fields    record.Fields `json:"-" yaml:"-"`
}

// SkippedLine is a non-blank, non-header line that failed to parse.
type SkippedLine struct {
	Line   int    `json:"line" yaml:"line"`
	Text   string `json:"text" yaml:"text"`
	Reason string `json:"reason" yaml:"reason"`
}

// Roster is a snapshot of the roster file.
type Roster struct {
	Entries []Entry
	Skipped []SkippedLine
}

// Len returns the number of selectable entries.
func (r Roster) Len() int {
	return len(r.Entries)
}

// NewCharacter is user input for a character to append. Level and HP are
// raw text and are validated by [Service.Add].
type NewCharacter struct {
	Name       string `json:"name"`
	Profession string `json:"class"`
	Level      string `json:"level"`
	HP         string `json:"hp"`
	Equipment  string `json:"equipment"` // '|' separated
}

// UnmarshalJSON accepts level and hp as JSON strings or numbers, so both
// {"level":"5"} and {"level":5} decode to the text "5".
func (in *NewCharacter) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string          `json:"name"`
		Profession string          `json:"class"`
		Level      json.RawMessage `json:"level"`
		HP         json.RawMessage `json:"hp"`
		Equipment  string          `json:"equipment"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	level, err := numberText("level", raw.Level)
	if err != nil {
		return err
	}
	hp, err := numberText("hp", raw.HP)
	if err != nil {
		return err
	}

	*in = NewCharacter{
		Name:       raw.Name,
		Profession: raw.Profession,
		Level:      level,
		HP:         hp,
		Equipment:  raw.Equipment,
	}
	return nil
}

// numberText returns a JSON string or number as text. Absent and null give "".
func numberText(field string, raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%s must be a number or a string", field)
	}
	return n.String(), nil
}

// LevelUpResult describes a completed level-up.
type LevelUpResult struct {
	Name           string `json:"name"`
	Profession     string `json:"class"`
	OldLevel       int    `json:"oldLevel"`
	NewLevel       int    `json:"newLevel"`
	HP             int    `json:"hp"`
	EquipmentCount int    `json:"equipmentCount"`
}

// ExportFormat selects the serialization used by [Service.Export].
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)
