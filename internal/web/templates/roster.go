// Package templates renders the roster HTML views as templ components.
package templates

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/roster/internal/core"
)

// RosterPage renders the full roster page for doc.
func RosterPage(doc core.Export) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>Roster</title></head><body>`)
		b.WriteString(`<main><h1>Characters</h1><p class="file">`)
		b.WriteString(templ.EscapeString(doc.File))
		b.WriteString(`</p>`)

		if len(doc.Characters) == 0 {
			b.WriteString(`<p class="empty">No characters found.</p>`)
		} else {
			writeTable(&b, doc.Characters)
		}

		if n := len(doc.Skipped); n > 0 {
			b.WriteString(`<p class="skipped">Skipped `)
			b.WriteString(strconv.Itoa(n))
			b.WriteString(` malformed line(s).</p>`)
		}

		b.WriteString(`</main></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeTable(b *strings.Builder, characters []core.ExportedCharacter) {
	b.WriteString(`<table><thead><tr><th>#</th><th>Name</th><th>Profession</th><th>Level</th><th>HP</th><th>Equipment</th></tr></thead><tbody>`)
	for i, c := range characters {
		b.WriteString(`<tr><td>`)
		b.WriteString(strconv.Itoa(i + 1))
		for _, cell := range []string{c.Name, c.Profession, c.Level, c.HP, EquipmentText(c.Equipment)} {
			b.WriteString(`</td><td>`)
			b.WriteString(templ.EscapeString(cell))
		}
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

// EquipmentText joins items for display, or "(none)".
func EquipmentText(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// ErrorAlert renders an error fragment for HTMX requests.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="alert alert-error" role="alert"><p>`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</p>`)
		if action != "" {
			b.WriteString(`<p class="action">`)
			b.WriteString(templ.EscapeString(action))
			b.WriteString(`</p>`)
		}
		b.WriteString(`<span class="code">`)
		b.WriteString(templ.EscapeString(code))
		b.WriteString(`</span></div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
