package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/recruitdesk/internal/apperr"
	"github.com/jask/recruitdesk/internal/config"
	"github.com/jask/recruitdesk/internal/listing"
	"github.com/jask/recruitdesk/internal/logging"
	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/service"
	"github.com/jask/recruitdesk/internal/settings"
)

// Records fetches the records of one type.
type Records interface {
	Fetch(ctx context.Context, q service.Query) ([]projection.Record, error)
}

// CandidateCreator stores new candidates.
type CandidateCreator interface {
	Create(ctx context.Context, n service.NewCandidate) (string, error)
}

// Resetter wipes the database back to its defaults.
type Resetter interface {
	Reset(ctx context.Context) error
}

// SettingsResolver is the field set resolution the settings screen drives.
type SettingsResolver interface {
	Resolve(ctx context.Context) (settings.Resolved, error)
	Options(ctx context.Context) (map[settings.Slot][]string, error)
	Preview(ctx context.Context, slot settings.Slot, name string) ([]projection.FieldSpec, error)
	Choose(ctx context.Context, variant string, slot settings.Slot, name string) (settings.Resolved, error)
}

type Services struct {
	Records     Records
	Identities  listing.IdentityResolver
	Candidates  CandidateCreator
	Maintenance Resetter
	Settings    SettingsResolver
}

type appState string

const (
	viewAccounts   appState = "accounts"
	viewPositions  appState = "positions"
	viewCandidates appState = "candidates"
	viewSettings   appState = "settings"
	viewRecord     appState = "record"
)

var tabs = []appState{viewAccounts, viewPositions, viewCandidates, viewSettings}

type modalState string

const (
	modalNone         modalState = ""
	modalDetail       modalState = "detail"
	modalNewCandidate modalState = "newCandidate"
	modalSearch       modalState = "search"
	modalConfirmReset modalState = "confirmReset"
)

type navTarget struct {
	entity string
	id     string
}

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	services Services
	logger   *slog.Logger
	keys     keyMap
	help     help.Model

	state appState
	// back is the tab the record page returns to.
	back  appState
	modal modalState

	lists    map[string]*listView
	detail   *detailModal
	form     *candidateForm
	search   textinput.Model
	settings *settingsView
	record   *recordPage
	target   *navTarget

	// positionTitle names the position the candidates list is narrowed to.
	positionTitle string

	status    string
	statusErr bool
	width     int
	height    int
}

type (
	recordsMsg struct {
		object string
		seq    int
		recs   []projection.Record
		err    error
	}
	detailMsg struct {
		object string
		detail listing.Detail
	}
	recordMsg struct {
		object string
		record projection.Record
	}
	settingsMsg struct {
		resolved settings.Resolved
		// options is nil when unchanged.
		options map[settings.Slot][]string
		err     error
		saved   bool
	}
	previewMsg struct {
		slot  settings.Slot
		name  string
		specs []projection.FieldSpec
		err   error
	}
	candidateCreatedMsg struct{ id string }
	formErrMsg          map[string]string
	resetDoneMsg        struct{}
	statusMsg           string
	errMsg              struct{ error }
)

func New(ctx context.Context, cfg config.Config, services Services, logger *slog.Logger) *App {
	logger = logging.OrDiscard(logger)
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		services: services,
		logger:   logger,
		keys:     defaultKeys(),
		help:     help.New(),
		state:    viewCandidates,
		lists:    map[string]*listView{},
		settings: newSettingsView(),
	}
	search := textinput.New()
	search.Prompt = "search: "
	search.CharLimit = 64
	a.search = search

	f := newFormatter(cfg.UI.Locale, cfg.UI.Currency)
	projector := projection.DefaultProjector()
	if len(cfg.Identity.Suffixes) > 0 {
		projector.IdentitySuffix = cfg.Identity.Suffixes
	}
	add := func(title, object, related string) {
		sets, ok := settings.ObjectSets(object)
		if !ok {
			sets = settings.BuiltinSets()
		}
		a.lists[object] = newListView(listOptions{
			title:    title,
			object:   object,
			pageSize: cfg.Paging.PageSize,
			window:   cfg.Paging.Window,
			fmt:      f,
			logger:   logger.With("list", object),
			ctrl: listing.Config{
				Entity:      object,
				RelatedPath: related,
				FieldSets:   sets,
				Projector:   projector,
				Identities:  services.Identities,
				Navigator:   a,
				Timeout:     cfg.Backend.Timeout,
			},
		})
	}
	add("Accounts", service.ObjectAccount, "")
	add("Positions", service.ObjectPosition, "")
	add("Candidates", service.ObjectCandidate, "job_applications")
	return a
}

// Close releases the list views.
func (a *App) Close() {
	for _, v := range a.lists {
		v.close()
	}
}

// Candidates load once the field sets are resolved, so the first query
// already asks for the right paths.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadList(a.lists[service.ObjectAccount]),
		a.loadList(a.lists[service.ObjectPosition]),
		a.loadSettings(),
	)
}

func (a *App) loadList(v *listView) tea.Cmd {
	seq := v.beginLoad()
	q := v.query()
	return func() tea.Msg {
		recs, err := a.services.Records.Fetch(a.ctx, q)
		return recordsMsg{object: v.object, seq: seq, recs: recs, err: err}
	}
}

func (a *App) loadSettings() tea.Cmd {
	return func() tea.Msg {
		resolved, err := a.services.Settings.Resolve(a.ctx)
		opts, optErr := a.services.Settings.Options(a.ctx)
		if optErr != nil {
			err = optErr
		}
		return settingsMsg{resolved: resolved, options: opts, err: err}
	}
}

func (a *App) loadPreview(slot settings.Slot, name string) tea.Cmd {
	return func() tea.Msg {
		specs, err := a.services.Settings.Preview(a.ctx, slot, name)
		return previewMsg{slot: slot, name: name, specs: specs, err: err}
	}
}

func (a *App) saveChoice(variant string, slot settings.Slot, name string) tea.Cmd {
	return func() tea.Msg {
		resolved, err := a.services.Settings.Choose(a.ctx, variant, slot, name)
		if apperr.Is(err, apperr.KindValidation) || apperr.Is(err, apperr.KindBackend) {
			return errMsg{err}
		}
		return settingsMsg{resolved: resolved, err: err, saved: true}
	}
}

func (a *App) openDetail(v *listView, id string) tea.Cmd {
	return func() tea.Msg {
		d, err := v.ctrl.Detail(a.ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return detailMsg{object: v.object, detail: d}
	}
}

// loadRecord fetches the navigation target with every field.
func (a *App) loadRecord(t navTarget) tea.Cmd {
	return func() tea.Msg {
		recs, err := a.services.Records.Fetch(a.ctx, service.Query{Object: t.entity})
		if err != nil {
			return errMsg{err}
		}
		for _, r := range recs {
			if r.ID() == t.id {
				return recordMsg{object: t.entity, record: r}
			}
		}
		return errMsg{apperr.NotFound(t.entity, t.id)}
	}
}

func (a *App) createCandidate(n service.NewCandidate) tea.Cmd {
	return func() tea.Msg {
		id, err := a.services.Candidates.Create(a.ctx, n)
		if fields := apperr.FieldErrors(err); fields != nil {
			return formErrMsg(fields)
		}
		if err != nil {
			return errMsg{err}
		}
		return candidateCreatedMsg{id: id}
	}
}

func (a *App) resetDatabase() tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Maintenance.Reset(a.ctx); err != nil {
			return errMsg{err}
		}
		return resetDoneMsg{}
	}
}

// NavigateTo opens the record page of entity id. The record is fetched by
// the command returned from the update that triggered the navigation.
func (a *App) NavigateTo(entity, id string) {
	a.logger.Info("navigate", "entity", entity, "id", id)
	if a.state != viewRecord {
		a.back = a.state
	}
	a.state = viewRecord
	a.record = nil
	a.target = &navTarget{entity: entity, id: id}
}

func (a *App) pendingNavigation() tea.Cmd {
	if a.target == nil {
		return nil
	}
	t := *a.target
	a.target = nil
	return a.loadRecord(t)
}

func (a *App) current() *listView {
	switch a.state {
	case viewAccounts:
		return a.lists[service.ObjectAccount]
	case viewPositions:
		return a.lists[service.ObjectPosition]
	case viewCandidates:
		return a.lists[service.ObjectCandidate]
	}
	return nil
}

func (a *App) setStatus(s string, isErr bool) {
	a.status = s
	a.statusErr = isErr
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)
	case recordsMsg:
		v := a.lists[m.object]
		if v == nil {
			return a, nil
		}
		if m.err != nil {
			v.loadFailed(m.seq)
			a.logger.Error("load records", "object", m.object, "error", m.err)
			a.setStatus(m.err.Error(), true)
			return a, nil
		}
		v.applyRecords(m.seq, m.recs)
		return a, nil
	case detailMsg:
		if v := a.lists[m.object]; v != nil {
			a.detail = &detailModal{view: v, detail: m.detail}
			a.modal = modalDetail
			if m.detail.Degraded {
				a.setStatus("people lookup unavailable", true)
			}
		}
		return a, nil
	case recordMsg:
		a.record = &recordPage{object: m.object, record: m.record, fmt: a.lists[service.ObjectCandidate].fmt}
		return a, nil
	case settingsMsg:
		return a, a.applySettings(m)
	case previewMsg:
		if m.slot == a.settings.slot() && m.name == a.settings.chosen() {
			if m.err != nil {
				a.settings.preview = nil
				a.setStatus(m.err.Error(), true)
			} else {
				a.settings.preview = m.specs
			}
		}
		return a, nil
	case candidateCreatedMsg:
		a.form = nil
		a.modal = modalNone
		a.setStatus("candidate created", false)
		a.logger.Info("candidate created", "id", m.id)
		return a, a.loadList(a.lists[service.ObjectCandidate])
	case formErrMsg:
		if a.form != nil {
			a.form.setErrors(m)
		}
		return a, nil
	case resetDoneMsg:
		a.setStatus("database reset", false)
		cmds := []tea.Cmd{a.loadSettings()}
		for _, obj := range []string{service.ObjectAccount, service.ObjectPosition} {
			cmds = append(cmds, a.loadList(a.lists[obj]))
		}
		return a, tea.Batch(cmds...)
	case statusMsg:
		a.setStatus(string(m), false)
		return a, nil
	case errMsg:
		a.logger.Error("request failed", "error", m.error)
		if a.form != nil {
			a.form.submitting = false
		}
		if a.state == viewRecord && a.record == nil {
			a.state = a.back
		}
		a.setStatus(m.Error(), true)
		return a, nil
	}
	return a, nil
}

// applySettings installs a resolution. The candidates list takes the new
// field sets and reloads because the query paths may have changed.
func (a *App) applySettings(m settingsMsg) tea.Cmd {
	opts := m.options
	if opts == nil {
		opts = a.settings.options
	}
	a.settings.load(m.resolved, opts)

	switch {
	case m.err != nil:
		a.logger.Warn("settings resolved with fallbacks", "error", m.err)
		a.setStatus("some field sets are unavailable, using built-in fields", true)
	case m.saved:
		a.setStatus("field set saved", false)
	}
	v := a.lists[service.ObjectCandidate]
	v.setFieldSets(m.resolved.ListingSets())
	return a.loadList(v)
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		return a, tea.Quit
	case a.state == viewRecord:
		if key.Matches(m, a.keys.Back) {
			a.state = a.back
			a.record = nil
		}
		return a, nil
	case key.Matches(m, a.keys.NextTab):
		a.switchTab(1)
		return a, nil
	case key.Matches(m, a.keys.PrevTab):
		a.switchTab(-1)
		return a, nil
	case key.Matches(m, a.keys.Reset):
		a.modal = modalConfirmReset
		return a, nil
	}
	if a.state == viewSettings {
		return a.handleSettingsKey(m)
	}
	v := a.current()
	if v == nil {
		return a, nil
	}
	if v.handleKey(m, a.keys) {
		return a, nil
	}

	switch {
	case key.Matches(m, a.keys.Open):
		if id := v.selectedID(); id != "" {
			return a, a.openDetail(v, id)
		}
	case key.Matches(m, a.keys.Search):
		a.search.SetValue(v.filter.Search)
		a.search.CursorEnd()
		a.search.Focus()
		a.modal = modalSearch
		return a, textinput.Blink
	case key.Matches(m, a.keys.Clear):
		f := v.filter
		f.Search = ""
		f.Status = ""
		if v.object == service.ObjectCandidate {
			f.PositionID = ""
			a.positionTitle = ""
		}
		v.setFilter(f)
		return a, a.loadList(v)
	case key.Matches(m, a.keys.Status) && a.state == viewPositions:
		f := v.filter
		f.Status = nextStatus(f.Status)
		v.setFilter(f)
		a.setStatus("status filter: "+f.Status, false)
		return a, a.loadList(v)
	case key.Matches(m, a.keys.Candidates) && a.state == viewPositions:
		rec, ok := v.selected()
		if !ok {
			return a, nil
		}
		return a, a.showCandidatesFor(rec)
	case key.Matches(m, a.keys.New):
		return a, a.openCandidateForm()
	}
	return a, nil
}

func nextStatus(cur string) string {
	if cur == "" {
		cur = service.StatusNone
	}
	for i, s := range service.StatusFilters {
		if s == cur {
			return service.StatusFilters[(i+1)%len(service.StatusFilters)]
		}
	}
	return service.StatusFilters[0]
}

// showCandidatesFor narrows the candidates list to one position.
func (a *App) showCandidatesFor(position projection.Record) tea.Cmd {
	v := a.lists[service.ObjectCandidate]
	f := v.filter
	f.PositionID = position.ID()
	title, _ := position.Resolve("name")
	a.positionTitle = fmt.Sprint(title)
	v.setFilter(f)
	a.state = viewCandidates
	return a.loadList(v)
}

// openCandidateForm opens the form, applying for the selected position on
// the positions tab or the position the candidates list is narrowed to.
func (a *App) openCandidateForm() tea.Cmd {
	var id, title string
	switch a.state {
	case viewPositions:
		if rec, ok := a.lists[service.ObjectPosition].selected(); ok {
			id = rec.ID()
			t, _ := rec.Resolve("name")
			title = fmt.Sprint(t)
		}
	case viewCandidates:
		id = a.lists[service.ObjectCandidate].filter.PositionID
		title = a.positionTitle
	}
	a.form = newCandidateForm(id, title)
	a.modal = modalNewCandidate
	return textinput.Blink
}

func (a *App) switchTab(delta int) {
	i := 0
	for j, t := range tabs {
		if t == a.state {
			i = j
		}
	}
	a.state = tabs[(i+delta+len(tabs))%len(tabs)]
}

func (a *App) handleSettingsKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := a.settings
	if !s.loaded {
		return a, nil
	}
	switch {
	case key.Matches(m, a.keys.Up):
		s.moveCursor(-1)
		return a, a.loadPreview(s.slot(), s.chosen())
	case key.Matches(m, a.keys.Down):
		s.moveCursor(1)
		return a, a.loadPreview(s.slot(), s.chosen())
	case key.Matches(m, a.keys.Cycle):
		delta := 1
		if key.Matches(m, a.keys.PrevPage) {
			delta = -1
		}
		if name := s.cycle(delta); name != "" {
			return a, a.loadPreview(s.slot(), name)
		}
	case key.Matches(m, a.keys.Save):
		if !s.dirty() {
			return a, nil
		}
		return a, a.saveChoice(s.resolved.Variant, s.slot(), s.chosen())
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalDetail:
		switch {
		case key.Matches(m, a.keys.Open):
			return a, a.closeDetail(listing.Acknowledge())
		case key.Matches(m, a.keys.Navigate):
			return a, a.closeDetail(listing.NavigateTo(""))
		case key.Matches(m, a.keys.Back), key.Matches(m, a.keys.Quit):
			return a, a.closeDetail(listing.Cancelled())
		}
	case modalNewCandidate:
		cmd, action := a.form.Update(m)
		switch action {
		case formCancel:
			a.form = nil
			a.modal = modalNone
		case formSubmit:
			n, bad := a.form.candidate()
			if bad != nil {
				a.form.setErrors(bad)
				return a, nil
			}
			a.form.submitting = true
			return a, a.createCandidate(n)
		}
		return a, cmd
	case modalSearch:
		switch m.String() {
		case "esc":
			a.search.Blur()
			a.modal = modalNone
			return a, nil
		case "enter":
			a.search.Blur()
			a.modal = modalNone
			v := a.current()
			if v == nil {
				return a, nil
			}
			f := v.filter
			f.Search = strings.TrimSpace(a.search.Value())
			v.setFilter(f)
			return a, a.loadList(v)
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(m)
		return a, cmd
	case modalConfirmReset:
		a.modal = modalNone
		if m.String() == "y" {
			a.setStatus("resetting...", false)
			return a, a.resetDatabase()
		}
		a.setStatus("reset cancelled", false)
	}
	return a, nil
}

// closeDetail hands the user's choice to the list controller, which
// navigates when asked to.
func (a *App) closeDetail(token listing.ActionToken) tea.Cmd {
	d := a.detail
	a.detail = nil
	a.modal = modalNone
	if d == nil {
		return nil
	}
	d.view.ctrl.Complete(d.detail, token)
	return a.pendingNavigation()
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(a.renderBody())
	b.WriteString("\n\n")
	if a.status != "" {
		style := statusStyle
		if a.statusErr {
			style = statusErrStyle
		}
		b.WriteString(style.Render(a.status) + "\n")
	}
	b.WriteString(a.help.View(a.keys))
	base := b.String()

	card := a.renderModalCard()
	if card == "" {
		return base
	}
	width, height := a.width, a.height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = lipgloss.Height(base)
	}
	return renderModal(base, cardStyle.Render(card), width, height)
}

func (a *App) renderTabs() string {
	var parts []string
	for _, t := range tabs {
		label := t.title()
		if t == a.state || (a.state == viewRecord && t == a.back) {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(label))
		}
	}
	return tabBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (s appState) title() string {
	switch s {
	case viewAccounts:
		return "Accounts"
	case viewPositions:
		return "Positions"
	case viewCandidates:
		return "Candidates"
	case viewSettings:
		return "Settings"
	}
	return string(s)
}

func (a *App) renderBody() string {
	switch a.state {
	case viewSettings:
		return a.settings.View(a.cfg.Paging.PageSize)
	case viewRecord:
		if a.record == nil {
			return mutedStyle.Render("loading record...")
		}
		return a.record.View()
	}
	v := a.current()
	if v == nil {
		return ""
	}
	return v.View(a.heading(v))
}

func (a *App) heading(v *listView) string {
	var parts []string
	if v.filter.Status != "" && v.filter.Status != service.StatusNone {
		parts = append(parts, "status "+v.filter.Status)
	}
	if v.object == service.ObjectCandidate && v.filter.PositionID != "" {
		parts = append(parts, "applied to "+a.positionTitle)
	}
	if v.filter.Search != "" {
		parts = append(parts, fmt.Sprintf("matching %q", v.filter.Search))
	}
	return strings.Join(parts, " · ")
}

func (a *App) renderModalCard() string {
	switch a.modal {
	case modalDetail:
		if a.detail != nil {
			return a.detail.View()
		}
	case modalNewCandidate:
		if a.form != nil {
			return a.form.View()
		}
	case modalSearch:
		return a.search.View() + "\n\n" + mutedStyle.Render("[enter] apply  [esc] cancel")
	case modalConfirmReset:
		return warnStyle.Render("Reset the database?") + "\n" +
			"Every record is deleted and the default field sets restored.\n\n" +
			mutedStyle.Render("[y] reset  [any other key] cancel")
	}
	return ""
}
