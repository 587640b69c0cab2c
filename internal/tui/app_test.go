package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/recruitdesk/internal/config"
	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/service"
	"github.com/jask/recruitdesk/internal/settings"
)

type fakeRecords struct {
	data    map[string][]projection.Record
	queries []service.Query
	fail    error
}

func (f *fakeRecords) Fetch(_ context.Context, q service.Query) ([]projection.Record, error) {
	f.queries = append(f.queries, q)
	if f.fail != nil {
		return nil, f.fail
	}
	var out []projection.Record
	for _, r := range f.data[q.Object] {
		if s := q.Filter.Status; s != "" && s != service.StatusNone && r["status"] != s {
			continue
		}
		if q.Filter.PositionID != "" && r["position_id"] != q.Filter.PositionID {
			continue
		}
		if q.Filter.Search != "" && !service.MatchName(r["name"].(string), q.Filter.Search) {
			continue
		}
		out = append(out, r.Clone())
	}
	return service.TrimToPaths(out, q.Paths), nil
}

func (f *fakeRecords) last(object string) service.Query {
	for i := len(f.queries) - 1; i >= 0; i-- {
		if f.queries[i].Object == object {
			return f.queries[i]
		}
	}
	return service.Query{}
}

type fakeIdentities struct{}

func (fakeIdentities) Fetch(_ context.Context, ids []string) (map[string]projection.Identity, error) {
	out := map[string]projection.Identity{}
	for _, id := range ids {
		out[id] = projection.Identity{ID: id, Name: "User " + id}
	}
	return out, nil
}

type fakeCreator struct{ created []service.NewCandidate }

func (f *fakeCreator) Create(_ context.Context, n service.NewCandidate) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}
	f.created = append(f.created, n)
	return "c-new", nil
}

type fakeResetter struct{ calls int }

func (f *fakeResetter) Reset(context.Context) error {
	f.calls++
	return nil
}

var (
	compactTile  = []projection.FieldSpec{{DisplayKey: "Email", Path: "email"}}
	detailedTile = []projection.FieldSpec{
		{DisplayKey: "Email", Path: "email"},
		{DisplayKey: "Phone", Path: "phone"},
		{DisplayKey: "Owner", Path: "owner_id"},
	}
)

type fakeSettings struct {
	names  map[settings.Slot]string
	chosen []string
}

func (f *fakeSettings) sets(name string) []projection.FieldSpec {
	if name == "detailed" {
		return detailedTile
	}
	return compactTile
}

func (f *fakeSettings) Resolve(context.Context) (settings.Resolved, error) {
	r := settings.Resolved{Role: "recruiter", Variant: "recruiter", Names: map[settings.Slot]string{}, Sets: map[settings.Slot][]projection.FieldSpec{}}
	for _, slot := range settings.Slots {
		r.Names[slot] = f.names[slot]
		r.Sets[slot] = f.sets(f.names[slot])
	}
	r.Sets[settings.SlotJobApplicationModal] = []projection.FieldSpec{{DisplayKey: "Status", Path: "status"}}
	return r, nil
}

func (f *fakeSettings) Options(context.Context) (map[settings.Slot][]string, error) {
	return map[settings.Slot][]string{
		settings.SlotCandidateTile:       {"compact", "detailed"},
		settings.SlotCandidateModal:      {"compact", "detailed"},
		settings.SlotJobApplicationModal: {"basic"},
	}, nil
}

func (f *fakeSettings) Preview(_ context.Context, _ settings.Slot, name string) ([]projection.FieldSpec, error) {
	return f.sets(name), nil
}

func (f *fakeSettings) Choose(ctx context.Context, variant string, slot settings.Slot, name string) (settings.Resolved, error) {
	f.chosen = append(f.chosen, variant+":"+string(slot)+"="+name)
	f.names[slot] = name
	return f.Resolve(ctx)
}

type harness struct {
	app      *App
	records  *fakeRecords
	creator  *fakeCreator
	resetter *fakeResetter
	settings *fakeSettings
}

func testData() map[string][]projection.Record {
	data := map[string][]projection.Record{}
	for i := 0; i < 3; i++ {
		data[service.ObjectAccount] = append(data[service.ObjectAccount], projection.Record{
			"id": fmt.Sprintf("a-%d", i), "name": fmt.Sprintf("Account %d", i), "industry": "Software",
		})
	}
	statuses := []string{"Open", "Open", "Closed", "Open Hot", "Open", "Closed", "Open"}
	for i, s := range statuses {
		data[service.ObjectPosition] = append(data[service.ObjectPosition], projection.Record{
			"id": fmt.Sprintf("p-%d", i), "name": fmt.Sprintf("Position %d", i), "title": fmt.Sprintf("Position %d", i), "status": s,
		})
	}
	for i := 0; i < 12; i++ {
		data[service.ObjectCandidate] = append(data[service.ObjectCandidate], projection.Record{
			"id":          fmt.Sprintf("c-%02d", i),
			"name":        fmt.Sprintf("Candidate %02d", i),
			"email":       fmt.Sprintf("c%02d@example.com", i),
			"owner_id":    "u-1",
			"position_id": fmt.Sprintf("p-%d", i%3),
			"job_applications": []any{
				map[string]any{"status": "Open", "position_id": fmt.Sprintf("p-%d", i%3)},
			},
		})
	}
	return data
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		records:  &fakeRecords{data: testData()},
		creator:  &fakeCreator{},
		resetter: &fakeResetter{},
		settings: &fakeSettings{names: map[settings.Slot]string{
			settings.SlotCandidateTile:       "compact",
			settings.SlotCandidateModal:      "detailed",
			settings.SlotJobApplicationModal: "basic",
		}},
	}
	cfg := config.Config{
		Paging:  config.PagingConfig{PageSize: 5, Window: 5},
		Backend: config.BackendConfig{Timeout: time.Second},
		UI:      config.UIConfig{Locale: "en-US", Currency: "USD"},
	}
	h.app = New(context.Background(), cfg, Services{
		Records:     h.records,
		Identities:  fakeIdentities{},
		Candidates:  h.creator,
		Maintenance: h.resetter,
		Settings:    h.settings,
	}, nil)
	t.Cleanup(h.app.Close)
	h.drain(t, h.app.Init())
	h.msg(t, tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

// drain runs cmd and everything it leads to, expanding batches.
func (h *harness) drain(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		require.Less(t, steps, 64, "command chain too long")
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		_, follow := h.app.Update(msg)
		queue = append(queue, follow)
	}
}

func (h *harness) msg(t *testing.T, msg tea.Msg) {
	t.Helper()
	_, cmd := h.app.Update(msg)
	h.drain(t, cmd)
}

func (h *harness) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		h.msg(t, keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func visibleIDs(v *listView) []string {
	var out []string
	for _, r := range v.ctrl.Visible() {
		out = append(out, r.ID())
	}
	return out
}

func TestInitLoadsListsAndSettings(t *testing.T) {
	h := newHarness(t)
	a := h.app

	require.Equal(t, viewCandidates, a.state)
	require.Equal(t, 3, a.lists[service.ObjectAccount].ctrl.Len())
	require.Equal(t, 7, a.lists[service.ObjectPosition].ctrl.Len())

	cands := a.lists[service.ObjectCandidate]
	require.Equal(t, 12, cands.ctrl.Len())
	require.Equal(t, []string{"c-00", "c-01", "c-02", "c-03", "c-04"}, visibleIDs(cands))
	require.Equal(t, compactTile, cands.ctrl.FieldSets().Tile)
	require.Contains(t, h.records.last(service.ObjectCandidate).Paths, "email")
	require.True(t, a.settings.loaded)

	view := a.View()
	require.Contains(t, view, "Candidates (1-5/12)")
	require.Contains(t, view, "Candidate 00")
}

func TestPagingMovesOnlyTheCurrentList(t *testing.T) {
	h := newHarness(t)
	cands := h.app.lists[service.ObjectCandidate]
	positions := h.app.lists[service.ObjectPosition]

	h.press(t, "right")
	require.Equal(t, 2, cands.pager.State().CurrentPage)
	require.Equal(t, []string{"c-05", "c-06", "c-07", "c-08", "c-09"}, visibleIDs(cands))
	require.Equal(t, 1, positions.pager.State().CurrentPage)

	h.press(t, "3")
	require.Equal(t, []string{"c-10", "c-11"}, visibleIDs(cands))

	// past the last page nothing moves
	h.press(t, "right")
	require.Equal(t, 3, cands.pager.State().CurrentPage)

	h.press(t, "-")
	require.Equal(t, 4, cands.pager.State().PageSize)
	require.Contains(t, h.app.View(), "Candidates (")
}

func TestStatusFilterCyclesAndResetsPage(t *testing.T) {
	h := newHarness(t)
	h.press(t, "tab", "tab", "tab") // candidates -> settings -> accounts -> positions
	require.Equal(t, viewPositions, h.app.state)

	positions := h.app.lists[service.ObjectPosition]
	h.press(t, "right")
	require.Equal(t, 2, positions.pager.State().CurrentPage)

	h.press(t, "s")
	require.Equal(t, service.StatusFilters[1], positions.filter.Status)
	require.Equal(t, service.StatusFilters[1], h.records.last(service.ObjectPosition).Filter.Status)
	require.Equal(t, 1, positions.pager.State().CurrentPage)
	require.Equal(t, 4, positions.ctrl.Len())

	h.press(t, "x")
	require.Empty(t, positions.filter.Status)
	require.Equal(t, 7, positions.ctrl.Len())
}

func TestCandidatesForSelectedPosition(t *testing.T) {
	h := newHarness(t)
	h.app.state = viewPositions
	h.press(t, "down", "c")

	require.Equal(t, viewCandidates, h.app.state)
	cands := h.app.lists[service.ObjectCandidate]
	require.Equal(t, "p-1", cands.filter.PositionID)
	require.Equal(t, "Position 1", h.app.positionTitle)
	require.Equal(t, 4, cands.ctrl.Len())
	require.Contains(t, h.app.View(), "applied to Position 1")
}

func TestDetailAcknowledgeAndNavigate(t *testing.T) {
	h := newHarness(t)

	h.press(t, "enter")
	require.Equal(t, modalDetail, h.app.modal)
	require.Equal(t, "c-00", h.app.detail.detail.Record.ID())
	require.Contains(t, h.app.View(), "User u-1")
	require.True(t, h.app.detail.detail.HasRelated)
	require.Contains(t, h.app.View(), "Job application")

	h.press(t, "enter")
	require.Equal(t, modalNone, h.app.modal)
	require.Equal(t, viewCandidates, h.app.state)

	h.press(t, "down", "enter", "o")
	require.Equal(t, viewRecord, h.app.state)
	require.NotNil(t, h.app.record)
	require.Equal(t, "c-01", h.app.record.record.ID())
	require.Empty(t, h.records.last(service.ObjectCandidate).Paths, "record page asks for every field")
	require.Contains(t, h.app.View(), "job_applications (1)")

	h.press(t, "esc")
	require.Equal(t, viewCandidates, h.app.state)
}

func TestDetailCancel(t *testing.T) {
	h := newHarness(t)
	h.press(t, "enter", "esc")
	require.Equal(t, modalNone, h.app.modal)
	require.Equal(t, viewCandidates, h.app.state)
}

func TestNewCandidateShowsFieldErrors(t *testing.T) {
	h := newHarness(t)
	h.press(t, "n")
	require.Equal(t, modalNewCandidate, h.app.modal)

	h.press(t, "ctrl+s")
	require.Equal(t, modalNewCandidate, h.app.modal)
	require.Contains(t, h.app.form.errs, "first_name")
	require.Contains(t, h.app.form.errs, "email")
	require.Empty(t, h.creator.created)

	h.app.form.setValue("first_name", "Ada")
	h.app.form.setValue("last_name", "Lovelace")
	h.app.form.setValue("email", "ada@example")
	h.press(t, "ctrl+s")
	require.Equal(t, "is not an email address", h.app.form.errs["email"])

	h.app.form.setValue("email", "ada@example.com")
	h.app.form.setValue("years_experience", "many")
	h.press(t, "ctrl+s")
	require.Equal(t, "must be a number", h.app.form.errs["years_experience"])

	h.app.form.setValue("years_experience", "7")
	h.press(t, "ctrl+s")
	require.Equal(t, modalNone, h.app.modal)
	require.Len(t, h.creator.created, 1)
	require.Equal(t, 7.0, h.creator.created[0].YearsExperience)
	require.Equal(t, "candidate created", h.app.status)
}

func TestNewCandidateAppliesToSelectedPosition(t *testing.T) {
	h := newHarness(t)
	h.app.state = viewPositions
	h.press(t, "down", "down", "n")
	require.Equal(t, "p-2", h.app.form.positionID)
	require.Contains(t, h.app.View(), "applying for Position 2")
}

func TestSearchFiltersCurrentList(t *testing.T) {
	h := newHarness(t)
	h.press(t, "/")
	require.Equal(t, modalSearch, h.app.modal)

	h.app.search.SetValue("Candidate 07")
	h.press(t, "enter")
	cands := h.app.lists[service.ObjectCandidate]
	require.Equal(t, "Candidate 07", cands.filter.Search)
	require.Equal(t, "Candidate 07", h.records.last(service.ObjectCandidate).Filter.Search)
	require.Equal(t, []string{"c-07"}, visibleIDs(cands))
}

func TestSettingsSaveUpdatesCandidateList(t *testing.T) {
	h := newHarness(t)
	h.app.state = viewSettings
	require.Contains(t, h.app.View(), "variant recruiter")

	h.press(t, "right")
	require.Equal(t, "detailed", h.app.settings.chosen())
	require.Equal(t, detailedTile, h.app.settings.preview)
	require.Contains(t, h.app.View(), "unsaved")

	h.press(t, "enter")
	require.Equal(t, []string{"recruiter:candidate_tile=detailed"}, h.settings.chosen)
	cands := h.app.lists[service.ObjectCandidate]
	require.Equal(t, detailedTile, cands.ctrl.FieldSets().Tile)
	require.Contains(t, h.records.last(service.ObjectCandidate).Paths, "phone")
	require.Equal(t, "field set saved", h.app.status)
}

func TestResetAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	h.press(t, "R", "n")
	require.Zero(t, h.resetter.calls)
	require.Equal(t, "reset cancelled", h.app.status)

	h.press(t, "R")
	require.Contains(t, h.app.View(), "Reset the database?")
	h.press(t, "y")
	require.Equal(t, 1, h.resetter.calls)
	require.Equal(t, "database reset", h.app.status)
}

func TestLoadFailureShowsStatus(t *testing.T) {
	h := newHarness(t)
	h.records.fail = errors.New("database is locked")
	h.press(t, "x")
	require.True(t, h.app.statusErr)
	require.Contains(t, h.app.status, "database is locked")
	require.Equal(t, 12, h.app.lists[service.ObjectCandidate].ctrl.Len(), "old data stays")
}

func TestStaleLoadIsDropped(t *testing.T) {
	h := newHarness(t)
	v := h.app.lists[service.ObjectAccount]
	first := v.beginLoad()
	second := v.beginLoad()
	require.False(t, v.applyRecords(first, nil))
	require.Equal(t, 3, v.ctrl.Len())
	require.True(t, v.applyRecords(second, testData()[service.ObjectAccount][:1]))
	require.Equal(t, 1, v.ctrl.Len())
}

func TestTabBarMarksActiveTab(t *testing.T) {
	h := newHarness(t)
	bar := h.app.renderTabs()
	for _, name := range []string{"Accounts", "Positions", "Candidates", "Settings"} {
		require.True(t, strings.Contains(bar, name), name)
	}
}
