// Package record converts between one line of the roster CSV file and a
// structured character record.
//
// A line has one of two shapes:
//
//	"<name, with commas>",<class>,<level>,<hp>,<equipment>
//	<name>,<class>,<level>,<hp>,<equipment>
//
// Equipment is a '|' separated sub-list inside the fifth column.
//
// Known limitations: a quoted name cannot contain a double quote (the first
// quote after the opening one always closes the name), and commas or pipes
// inside class or equipment text are never escaped on write.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Header is the reserved first line of a roster file.
const Header = "Name,Class,Level,HP,Equipment"

// EquipmentSeparator joins equipment items inside the equipment column.
const EquipmentSeparator = "|"

var (
	// ErrParse is returned when a line cannot be split into a record.
	ErrParse = errors.New("malformed line")

	// ErrNonNumericField is returned when a level or HP field is not an integer.
	ErrNonNumericField = errors.New("non-numeric field")
)

// Character is one fully typed roster record.
type Character struct {
	Name       string   `json:"name" yaml:"name"`
	Profession string   `json:"class" yaml:"class"`
	Level      int      `json:"level" yaml:"level"`
	HP         int      `json:"hp" yaml:"hp"`
	Equipment  []string `json:"equipment" yaml:"equipment"`
}

// Fields is the textual result of parsing a line. Level and HP are kept as
// text so listing works even when they are not numbers.
type Fields struct {
	Name       string
	Profession string
	Level      string
	HP         string
	Equipment  []string
}

// Character converts the numeric fields and returns the typed record.
func (f Fields) Character() (Character, error) {
	level, err := ParseNumber("level", f.Level)
	if err != nil {
		return Character{}, err
	}
	hp, err := ParseNumber("hp", f.HP)
	if err != nil {
		return Character{}, err
	}
	return Character{
		Name:       f.Name,
		Profession: f.Profession,
		Level:      level,
		HP:         hp,
		Equipment:  f.Equipment,
	}, nil
}

// ParseLine parses one roster line. It fails atomically: on error the
// returned Fields is always the zero value.
func ParseLine(line string) (Fields, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Fields{}, fmt.Errorf("%w: empty line", ErrParse)
	}

	if strings.HasPrefix(line, `"`) {
		return parseQuoted(line)
	}

	cols := strings.Split(line, ",")
	if len(cols) < 5 {
		return Fields{}, fmt.Errorf("%w: expected 5 fields, got %d", ErrParse, len(cols))
	}

	return Fields{
		Name:       strings.TrimSpace(cols[0]),
		Profession: strings.TrimSpace(cols[1]),
		Level:      strings.TrimSpace(cols[2]),
		HP:         strings.TrimSpace(cols[3]),
		Equipment:  SplitEquipment(cols[4]),
	}, nil
}

func parseQuoted(line string) (Fields, error) {
	closing := strings.IndexByte(line[1:], '"')
	if closing < 0 {
		return Fields{}, fmt.Errorf("%w: missing closing quote", ErrParse)
	}
	closing++ // index into line

	name := strings.TrimSpace(line[1:closing])

	after := closing + 1
	if after >= len(line) || line[after] != ',' {
		return Fields{}, fmt.Errorf("%w: expected comma after quoted name", ErrParse)
	}

	rest := strings.Split(line[after+1:], ",")
	if len(rest) < 4 {
		return Fields{}, fmt.Errorf("%w: expected 4 fields after quoted name, got %d", ErrParse, len(rest))
	}

	return Fields{
		Name:       name,
		Profession: strings.TrimSpace(rest[0]),
		Level:      strings.TrimSpace(rest[1]),
		HP:         strings.TrimSpace(rest[2]),
		Equipment:  SplitEquipment(rest[3]),
	}, nil
}

// BuildLine serializes a character. The name is quoted only when it
// contains a comma.
func BuildLine(c Character) string {
	name := c.Name
	if strings.Contains(name, ",") {
		name = `"` + name + `"`
	}

	var b strings.Builder
	b.WriteString(name)
	b.WriteByte(',')
	b.WriteString(c.Profession)
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(c.Level))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(c.HP))
	b.WriteByte(',')
	b.WriteString(JoinEquipment(c.Equipment))
	return b.String()
}

// SplitEquipment splits an equipment column into trimmed, non-empty items in
// their original order.
func SplitEquipment(raw string) []string {
	items := make([]string, 0, strings.Count(raw, EquipmentSeparator)+1)
	for _, item := range strings.Split(raw, EquipmentSeparator) {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// JoinEquipment joins items as they are given.
func JoinEquipment(items []string) string {
	return strings.Join(items, EquipmentSeparator)
}

// IsHeader reports whether line is the reserved header, ignoring case and
// surrounding whitespace. Only the first line of a file may be a header.
func IsHeader(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), Header)
}

// ParseNumber parses a level or HP field as a decimal integer.
func ParseNumber(field, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", ErrNonNumericField, field, raw)
	}
	return n, nil
}
