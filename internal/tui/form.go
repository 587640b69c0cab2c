package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/recruitdesk/internal/service"
)

type formField struct {
	Key   string
	Label string
}

var candidateFields = []formField{
	{Key: "first_name", Label: "First name"},
	{Key: "last_name", Label: "Last name"},
	{Key: "email", Label: "Email"},
	{Key: "phone", Label: "Phone"},
	{Key: "education", Label: "Education"},
	{Key: "years_experience", Label: "Years of experience"},
}

type formAction int

const (
	formContinue formAction = iota
	formCancel
	formSubmit
)

// candidateForm collects a new candidate. Rejected fields are shown under
// their input until the next submit.
type candidateForm struct {
	inputs []textinput.Model
	focus  int
	errs   map[string]string

	positionID    string
	positionTitle string
	submitting    bool
}

func newCandidateForm(positionID, positionTitle string) *candidateForm {
	inputs := make([]textinput.Model, 0, len(candidateFields))
	width := 0
	for _, f := range candidateFields {
		width = max(width, len(f.Label))
	}
	for i, f := range candidateFields {
		in := textinput.New()
		in.Prompt = padRight(f.Label, width) + "  "
		in.CharLimit = 120
		if f.Key == "years_experience" {
			in.Placeholder = "0"
		}
		if i == 0 {
			in.Focus()
		}
		inputs = append(inputs, in)
	}
	return &candidateForm{inputs: inputs, positionID: positionID, positionTitle: positionTitle}
}

func (f *candidateForm) value(key string) string {
	for i, fd := range candidateFields {
		if fd.Key == key {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

func (f *candidateForm) setValue(key, v string) {
	for i, fd := range candidateFields {
		if fd.Key == key {
			f.inputs[i].SetValue(v)
		}
	}
}

// candidate reads the inputs. The second result holds fields that could not
// be parsed at all.
func (f *candidateForm) candidate() (service.NewCandidate, map[string]string) {
	n := service.NewCandidate{
		FirstName:  f.value("first_name"),
		LastName:   f.value("last_name"),
		Email:      f.value("email"),
		Phone:      f.value("phone"),
		Education:  f.value("education"),
		PositionID: f.positionID,
	}
	if raw := f.value("years_experience"); raw != "" {
		years, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return n, map[string]string{"years_experience": "must be a number"}
		}
		n.YearsExperience = years
	}
	return n, nil
}

func (f *candidateForm) setErrors(errs map[string]string) {
	f.errs = errs
	f.submitting = false
	for i, fd := range candidateFields {
		if _, bad := errs[fd.Key]; bad {
			f.moveFocus(i - f.focus)
			return
		}
	}
}

func (f *candidateForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f *candidateForm) Update(msg tea.Msg) (tea.Cmd, formAction) {
	if f.submitting {
		return nil, formContinue
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return nil, formCancel
		case "tab", "down":
			f.moveFocus(1)
			return nil, formContinue
		case "shift+tab", "up":
			f.moveFocus(-1)
			return nil, formContinue
		case "enter":
			if f.focus < len(f.inputs)-1 {
				f.moveFocus(1)
				return nil, formContinue
			}
			return nil, formSubmit
		case "ctrl+s":
			return nil, formSubmit
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, formContinue
}

func (f *candidateForm) View() string {
	lines := []string{titleStyle.Render("New candidate")}
	if f.positionTitle != "" {
		lines = append(lines, mutedStyle.Render("applying for "+f.positionTitle))
	}
	lines = append(lines, "")
	for i, fd := range candidateFields {
		lines = append(lines, f.inputs[i].View())
		if msg, bad := f.errs[fd.Key]; bad {
			lines = append(lines, statusErrStyle.Render("  "+fd.Label+" "+msg))
		}
	}
	if msg, bad := f.errs["position"]; bad {
		lines = append(lines, statusErrStyle.Render("position "+msg))
	}
	lines = append(lines, "")
	if f.submitting {
		lines = append(lines, mutedStyle.Render("saving..."))
	} else {
		lines = append(lines, mutedStyle.Render("[tab] next field  [enter] next / save  [ctrl+s] save  [esc] cancel"))
	}
	return strings.Join(lines, "\n")
}
