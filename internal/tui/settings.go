package tui

import (
	"fmt"
	"strings"

	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/settings"
)

// settingsView lets the user pick the field set of each slot for the
// current variant. Choices are pending until saved.
type settingsView struct {
	resolved settings.Resolved
	options  map[settings.Slot][]string
	choice   map[settings.Slot]int
	cursor   int
	preview  []projection.FieldSpec
	loaded   bool
}

func newSettingsView() *settingsView {
	return &settingsView{choice: map[settings.Slot]int{}}
}

// load installs a resolution and the available options, pointing each slot
// at its current field set.
func (s *settingsView) load(r settings.Resolved, options map[settings.Slot][]string) {
	s.resolved = r
	s.options = options
	s.loaded = true
	for _, slot := range settings.Slots {
		s.choice[slot] = 0
		for i, name := range options[slot] {
			if name == r.Names[slot] {
				s.choice[slot] = i
			}
		}
	}
	s.preview = r.Sets[s.slot()]
}

func (s *settingsView) slot() settings.Slot { return settings.Slots[s.cursor] }

// chosen returns the pending field set name of the focused slot.
func (s *settingsView) chosen() string {
	opts := s.options[s.slot()]
	if len(opts) == 0 {
		return ""
	}
	return opts[s.choice[s.slot()]]
}

func (s *settingsView) moveCursor(delta int) {
	s.cursor = (s.cursor + delta + len(settings.Slots)) % len(settings.Slots)
}

// cycle moves the focused slot to the next or previous option and returns
// the new name.
func (s *settingsView) cycle(delta int) string {
	slot := s.slot()
	n := len(s.options[slot])
	if n == 0 {
		return ""
	}
	s.choice[slot] = (s.choice[slot] + delta + n) % n
	return s.chosen()
}

func (s *settingsView) dirty() bool {
	return s.chosen() != "" && s.chosen() != s.resolved.Names[s.slot()]
}

func (s *settingsView) View(pageSize int) string {
	if !s.loaded {
		return mutedStyle.Render("loading settings...")
	}
	var lines []string
	lines = append(lines, titleStyle.Render("Field sets"), mutedStyle.Render(fmt.Sprintf("role %s · variant %s", orDash(s.resolved.Role), orDash(s.resolved.Variant))), "")

	width := 0
	for _, slot := range settings.Slots {
		width = max(width, len(slot.Label()))
	}
	for i, slot := range settings.Slots {
		marker := "  "
		if i == s.cursor {
			marker = titleStyle.Render("▶ ")
		}
		name := "-"
		if opts := s.options[slot]; len(opts) > 0 {
			name = opts[s.choice[slot]]
		}
		line := marker + labelStyle.Render(padRight(slot.Label(), width)) + "  ‹ " + name + " ›"
		if name != s.resolved.Names[slot] && name != "-" {
			line += warnStyle.Render("  unsaved")
		}
		if s.resolved.IsDegraded(slot) {
			line += warnStyle.Render("  using built-in fields")
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", titleStyle.Render("Preview"))
	if len(s.preview) == 0 {
		lines = append(lines, mutedStyle.Render("no fields"))
	}
	for _, spec := range s.preview {
		lines = append(lines, "  "+padRight(spec.DisplayKey, 14)+mutedStyle.Render(spec.Path))
	}
	lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("page size %d", pageSize)))
	lines = append(lines, mutedStyle.Render("[↑/↓] slot  [←/→] field set  [enter] save  [R] reset database"))
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
