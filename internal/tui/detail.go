package tui

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jask/recruitdesk/internal/listing"
	"github.com/jask/recruitdesk/internal/projection"
)

// detailModal shows one record of a list until the user closes it.
type detailModal struct {
	view   *listView
	detail listing.Detail
}

func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		r := []rune(w)
		if len(r) > 0 && unicode.IsLetter(r[0]) {
			out = append(out, unicode.ToUpper(r[0]))
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func fieldLines(f formatter, fields []projection.Field, avatar bool) []string {
	width := 0
	for _, fd := range fields {
		width = max(width, lipgloss.Width(fd.Key))
	}
	lines := make([]string, 0, len(fields))
	for _, fd := range fields {
		value := f.Value(fd)
		if avatar {
			if ident, ok := fd.Value.(projection.Identity); ok {
				value = avatarStyle.Render("("+initials(ident.Name)+")") + " " + value
				if ident.Email != "" {
					value += mutedStyle.Render(" <" + ident.Email + ">")
				}
			}
		}
		lines = append(lines, labelStyle.Render(padRight(fd.Key, width))+"  "+value)
	}
	return lines
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func (m *detailModal) View() string {
	d := m.detail
	f := m.view.fmt
	var lines []string

	header := avatarStyle.Render("("+initials(d.Row.Name)+")") + " " + titleStyle.Render(d.Row.Name)
	lines = append(lines, header)
	if d.Row.Avatar != "" {
		lines = append(lines, mutedStyle.Render(d.Row.Avatar))
	}
	lines = append(lines, "")
	lines = append(lines, fieldLines(f, d.Row.Fields, false)...)
	if len(d.Row.AvatarFields) > 0 {
		lines = append(lines, "")
		lines = append(lines, fieldLines(f, d.Row.AvatarFields, true)...)
		if d.Degraded {
			lines = append(lines, warnStyle.Render("people could not be looked up, showing ids"))
		}
	}
	if d.HasRelated {
		lines = append(lines, "", titleStyle.Render("Job application"))
		lines = append(lines, fieldLines(f, d.Related.Fields, false)...)
	}
	lines = append(lines, "", mutedStyle.Render("[enter] ok  [o] open record page  [esc] close"))
	return strings.Join(lines, "\n")
}

// recordPage is the navigation target: every field of a single record.
type recordPage struct {
	object string
	record projection.Record
	fmt    formatter
}

func (p *recordPage) View() string {
	name, _ := p.record.Resolve("name")
	title := cases.Title(language.English).String(strings.ReplaceAll(p.object, "_", " "))
	lines := []string{titleStyle.Render(fmt.Sprintf("%s · %v", title, name)), ""}

	// nested objects flatten one level, child lists go last
	var fields []projection.Field
	var nested []string
	for _, k := range p.record.Keys() {
		switch t := p.record[k].(type) {
		case []any:
			nested = append(nested, k)
		case map[string]any:
			for _, sub := range projection.Record(t).Keys() {
				if _, deeper := t[sub].(map[string]any); deeper {
					continue
				}
				path := k + "." + sub
				fields = append(fields, projection.Field{Key: path, Path: path, Value: t[sub], Present: true})
			}
		default:
			fields = append(fields, projection.Field{Key: k, Path: k, Value: t, Present: true})
		}
	}
	lines = append(lines, fieldLines(p.fmt, fields, false)...)

	for _, k := range nested {
		children, _ := p.record[k].([]any)
		lines = append(lines, "", titleStyle.Render(fmt.Sprintf("%s (%d)", k, len(children))))
		for _, child := range children {
			m, ok := child.(map[string]any)
			if !ok {
				continue
			}
			rec := projection.Record(m)
			var parts []string
			for _, ck := range rec.Keys() {
				if ck == "id" {
					continue
				}
				parts = append(parts, ck+"="+p.fmt.Value(projection.Field{Path: ck, Value: rec[ck], Present: true}))
			}
			lines = append(lines, "  • "+strings.Join(parts, "  "))
		}
	}
	lines = append(lines, "", mutedStyle.Render("[esc] back"))
	return strings.Join(lines, "\n")
}
