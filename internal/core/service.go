package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/roster/internal/logging"
	"github.com/JonMunkholm/roster/internal/record"
)

var (
	// ErrNoCharacters is returned when the roster has no lines, or no valid
	// entries when one must be selected.
	ErrNoCharacters = errors.New("no characters found")

	// ErrSelectionOutOfRange is returned when a selection number does not
	// refer to a listed entry.
	ErrSelectionOutOfRange = errors.New("selection out of range")

	// ErrInvalidCharacter is returned when new character input is rejected.
	ErrInvalidCharacter = errors.New("invalid character")

	// ErrInvalidSelection is returned when a selection is not a number.
	ErrInvalidSelection = errors.New("selection is not a number")
)

// Service provides the roster operations shared by all front ends.
type Service struct {
	store Store
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Store returns the underlying store.
func (s *Service) Store() Store {
	return s.store
}

// List reads the roster. The header is skipped only at index 0 and blank
// lines are ignored. Malformed lines are collected in Roster.Skipped.
func (s *Service) List(ctx context.Context) (Roster, error) {
	lines, err := s.store.ReadLines(ctx)
	if err != nil {
		return Roster{}, err
	}
	if len(lines) == 0 {
		return Roster{}, fmt.Errorf("%w: %s is empty", ErrNoCharacters, s.store.Path())
	}

	roster := buildRoster(lines)

	logger := logging.FromContext(ctx)
	for _, sk := range roster.Skipped {
		logger.Warn("skipping malformed line",
			"file", s.store.Path(),
			"line", sk.Line+1,
			"reason", sk.Reason,
		)
	}
	logger.Debug("roster listed",
		"file", s.store.Path(),
		"entries", len(roster.Entries),
		"skipped", len(roster.Skipped),
	)

	return roster, nil
}

// buildRoster parses lines in file order.
func buildRoster(lines []string) Roster {
	var roster Roster
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if i == 0 && record.IsHeader(line) {
			continue
		}

		fields, err := record.ParseLine(line)
		if err != nil {
			roster.Skipped = append(roster.Skipped, SkippedLine{
				Line:   i,
				Text:   line,
				Reason: err.Error(),
			})
			continue
		}

		roster.Entries = append(roster.Entries, Entry{
			Line:      i,
			Selection: len(roster.Entries) + 1,
			Fields:    fields,
		})
	}
	return roster
}

// Add validates input and appends the character to the roster.
func (s *Service) Add(ctx context.Context, in NewCharacter) (record.Character, error) {
	c, err := in.Validate()
	if err != nil {
		return record.Character{}, err
	}

	line := record.BuildLine(c)
	if err := s.store.AppendLine(ctx, line); err != nil {
		return record.Character{}, fmt.Errorf("add character: %w", err)
	}

	logging.FromContext(ctx).Info("character added",
		"file", s.store.Path(),
		"name", c.Name,
		"class", c.Profession,
		"level", c.Level,
	)
	return c, nil
}

// Validate trims text fields, checks the numeric fields and normalizes the
// equipment list.
func (in NewCharacter) Validate() (record.Character, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return record.Character{}, fmt.Errorf("%w: name is required", ErrInvalidCharacter)
	}
	if strings.ContainsAny(name, "\r\n") || strings.ContainsAny(in.Profession, "\r\n") {
		return record.Character{}, fmt.Errorf("%w: text fields must be a single line", ErrInvalidCharacter)
	}
	// A stored line must read back as the same character; BuildLine
	// escapes nothing beyond quoting a name with a comma.
	if strings.Contains(name, `"`) {
		return record.Character{}, fmt.Errorf("%w: name must not contain '\"'", ErrInvalidCharacter)
	}
	if strings.ContainsAny(in.Profession, ",|") {
		return record.Character{}, fmt.Errorf("%w: class must not contain ',' or '|'", ErrInvalidCharacter)
	}
	if strings.Contains(in.Equipment, ",") {
		return record.Character{}, fmt.Errorf("%w: equipment items are separated by '|', not ','", ErrInvalidCharacter)
	}

	level, err := record.ParseNumber("level", in.Level)
	if err != nil {
		return record.Character{}, err
	}
	hp, err := record.ParseNumber("hp", in.HP)
	if err != nil {
		return record.Character{}, err
	}

	return record.Character{
		Name:       name,
		Profession: strings.TrimSpace(in.Profession),
		Level:      level,
		HP:         hp,
		Equipment:  record.SplitEquipment(strings.ReplaceAll(in.Equipment, "\n", " ")),
	}, nil
}

// ParseSelection parses a 1-based selection typed by a user.
func ParseSelection(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}
	return n, nil
}

// LevelUp increments the level of the character at the 1-based selection
// and rewrites the roster. The file is not touched unless every check passes.
func (s *Service) LevelUp(ctx context.Context, selection int) (LevelUpResult, error) {
	var result LevelUpResult

	err := s.store.ReplaceLines(ctx, func(lines []string) ([]string, error) {
		roster := buildRoster(lines)
		if roster.Len() == 0 {
			return nil, ErrNoCharacters
		}
		if selection < 1 || selection > roster.Len() {
			return nil, fmt.Errorf("%w: %d not in 1-%d", ErrSelectionOutOfRange, selection, roster.Len())
		}

		entry := roster.Entries[selection-1]
		c, err := entry.Fields.Character()
		if err != nil {
			return nil, fmt.Errorf("character %q: %w", entry.Fields.Name, err)
		}

		oldLevel := c.Level
		c.Level++

		updated := make([]string, len(lines))
		copy(updated, lines)
		updated[entry.Line] = record.BuildLine(c)

		result = LevelUpResult{
			Name:           c.Name,
			Profession:     c.Profession,
			OldLevel:       oldLevel,
			NewLevel:       c.Level,
			HP:             c.HP,
			EquipmentCount: len(c.Equipment),
		}
		return updated, nil
	})
	if err != nil {
		return LevelUpResult{}, err
	}

	logging.FromContext(ctx).Info("character leveled up",
		"file", s.store.Path(),
		"name", result.Name,
		"from", result.OldLevel,
		"to", result.NewLevel,
	)
	return result, nil
}
