package application

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/pgsync"
)

const separator = "___________________________________"

// FormatRoster renders every entry the way the Display screen shows it.
func FormatRoster(r core.Roster) string {
	var b strings.Builder
	if r.Len() == 0 {
		b.WriteString("No characters found.\n")
	}
	for _, e := range r.Entries {
		f := e.Fields
		fmt.Fprintf(&b, "Name: %s\nProfession: %s\nLevel: %s\nHP: %s\nEquipment:\n",
			f.Name, f.Profession, f.Level, f.HP)
		if len(f.Equipment) == 0 {
			b.WriteString(" - (none)\n")
		}
		for _, item := range f.Equipment {
			fmt.Fprintf(&b, " - %s\n", item)
		}
		b.WriteString(separator + "\n")
	}
	if n := len(r.Skipped); n > 0 {
		fmt.Fprintf(&b, "Skipped %d malformed line(s).\n", n)
	}
	return b.String()
}

// FormatSelectionList numbers the entries for a level-up choice.
func FormatSelectionList(r core.Roster) string {
	var b strings.Builder
	b.WriteString("Character List:\n")
	for _, e := range r.Entries {
		fmt.Fprintf(&b, "%d. %s: Level %s\n", e.Selection, e.Fields.Name, e.Fields.Level)
	}
	return b.String()
}

// FormatLevelUp describes a completed level-up.
func FormatLevelUp(r core.LevelUpResult) string {
	return fmt.Sprintf("Leveled up %s: %s, Level %d -> %d, HP %d, Equipment items: %d.",
		r.Name, r.Profession, r.OldLevel, r.NewLevel, r.HP, r.EquipmentCount)
}

// FormatSync describes a completed database sync.
func FormatSync(r pgsync.Result) string {
	return fmt.Sprintf("Synced %d character(s) from %s (skipped %d). Sync ID: %s",
		r.Characters, r.File, r.Skipped, r.ID)
}
