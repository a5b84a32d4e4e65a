package application

import (
	"testing"

	"github.com/JonMunkholm/roster/internal/core"
)

func TestFormatLevelUp(t *testing.T) {
	got := FormatLevelUp(core.LevelUpResult{
		Name:           "Aria",
		Profession:     "Mage",
		OldLevel:       3,
		NewLevel:       4,
		HP:             42,
		EquipmentCount: 2,
	})
	want := "Leveled up Aria: Mage, Level 3 -> 4, HP 42, Equipment items: 2."
	if got != want {
		t.Errorf("FormatLevelUp() = %q, want %q", got, want)
	}
}

func TestFormatRoster_Empty(t *testing.T) {
	if got := FormatRoster(core.Roster{}); got != "No characters found.\n" {
		t.Errorf("FormatRoster() = %q", got)
	}
}
