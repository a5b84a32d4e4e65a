package application

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/record"
)

const (
	stepName = iota
	stepClass
	stepLevel
	stepHP
	stepEquipment
	stepCount
)

var addPrompts = [stepCount]string{
	"Enter character name: ",
	"Enter character class: ",
	"Enter character level (number): ",
	"Enter character HP (number): ",
	"Enter character equipment (separate items with '|'): ",
}

// addForm collects a new character one field at a time.
type addForm struct {
	input   textinput.Model
	step    int
	values  [stepCount]string
	problem string
}

func newAddForm() addForm {
	f := addForm{input: textinput.New()}
	f.input.CharLimit = 256
	f.input.Prompt = addPrompts[stepName]
	f.input.Focus()
	return f
}

// submit validates the current field and advances. It reports true once
// every field has been accepted.
func (f *addForm) submit() bool {
	v := strings.TrimSpace(f.input.Value())

	switch f.step {
	case stepName:
		if v == "" {
			f.problem = "Name is required."
			return false
		}
	case stepLevel:
		if _, err := record.ParseNumber("level", v); err != nil {
			f.problem = "Invalid level. Please enter a number."
			f.input.Reset()
			return false
		}
	case stepHP:
		if _, err := record.ParseNumber("hp", v); err != nil {
			f.problem = "Invalid HP. Please enter a number."
			f.input.Reset()
			return false
		}
	}

	f.problem = ""
	f.values[f.step] = v
	f.step++
	f.input.Reset()
	if f.step == stepCount {
		return true
	}
	f.input.Prompt = addPrompts[f.step]
	return false
}

func (f addForm) character() core.NewCharacter {
	return core.NewCharacter{
		Name:       f.values[stepName],
		Profession: f.values[stepClass],
		Level:      f.values[stepLevel],
		HP:         f.values[stepHP],
		Equipment:  f.values[stepEquipment],
	}
}
