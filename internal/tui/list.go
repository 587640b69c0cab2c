package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/recruitdesk/internal/bus"
	"github.com/jask/recruitdesk/internal/listing"
	"github.com/jask/recruitdesk/internal/paging"
	"github.com/jask/recruitdesk/internal/projection"
	"github.com/jask/recruitdesk/internal/service"
)

// listView is one paginated record list. The list controller, paginator and
// summary share a bus of their own, so paging one list never moves another.
type listView struct {
	title  string
	object string

	bus     *bus.Bus
	pager   *paging.Paginator
	summary *paging.Summary
	ctrl    *listing.Controller
	table   table.Model
	fmt     formatter

	filter  service.Filter
	loading bool
	loaded  bool
	// seq drops responses of superseded loads.
	seq int
}

type listOptions struct {
	title    string
	object   string
	pageSize int
	window   int
	ctrl     listing.Config
	fmt      formatter
	logger   *slog.Logger
}

func newListView(o listOptions) *listView {
	b := bus.New(o.logger)
	o.ctrl.Logger = o.logger
	v := &listView{
		title:   o.title,
		object:  o.object,
		bus:     b,
		pager:   paging.New(b, paging.WithPageSize(o.pageSize), paging.WithWindow(o.window), paging.WithLogger(o.logger)),
		summary: paging.NewSummary(b, o.title),
		ctrl:    listing.New(b, o.ctrl),
		fmt:     o.fmt,
	}
	t := table.New(table.WithFocused(true), table.WithHeight(o.pageSize))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorSurface2).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(colorMantle).Background(colorFocus).Bold(false)
	t.SetStyles(styles)
	v.table = t
	v.refresh()
	return v
}

func (v *listView) close() {
	v.ctrl.Close()
	v.summary.Close()
	v.pager.Close()
	v.bus.Close()
}

func (v *listView) query() service.Query {
	return service.Query{Object: v.object, Filter: v.filter, Paths: v.ctrl.QueryPaths()}
}

// beginLoad marks a load in flight and returns its sequence number.
func (v *listView) beginLoad() int {
	v.seq++
	v.loading = true
	return v.seq
}

// applyRecords installs a load result unless a newer load superseded it.
func (v *listView) applyRecords(seq int, recs []projection.Record) bool {
	if seq != v.seq {
		return false
	}
	v.loading = false
	v.loaded = true
	v.ctrl.SetData(recs)
	v.refresh()
	return true
}

func (v *listView) loadFailed(seq int) {
	if seq == v.seq {
		v.loading = false
	}
}

// setFilter swaps the filter and tells the paginator to start over. The
// caller reloads.
func (v *listView) setFilter(f service.Filter) {
	v.filter = f
	v.bus.Publish(bus.FilterChanged{})
	v.refresh()
}

func (v *listView) setFieldSets(sets listing.FieldSets) {
	v.ctrl.SetFieldSets(sets)
	v.refresh()
}

func (v *listView) columns() []string {
	cols := []string{"Name"}
	for _, spec := range v.ctrl.FieldSets().Tile {
		cols = append(cols, spec.DisplayKey)
	}
	return cols
}

// refresh rebuilds the table from the visible page.
func (v *listView) refresh() {
	names := v.columns()
	rows := v.ctrl.VisibleRows()

	widths := make([]int, len(names))
	cells := make([]table.Row, 0, len(rows))
	for i, n := range names {
		widths[i] = lipgloss.Width(n)
	}
	for _, r := range rows {
		cell := make(table.Row, len(names))
		cell[0] = r.Name
		for i, spec := range v.ctrl.FieldSets().Tile {
			f, _ := r.Field(spec.DisplayKey)
			cell[i+1] = v.fmt.Value(f)
		}
		for i, c := range cell {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
		cells = append(cells, cell)
	}
	cols := make([]table.Column, len(names))
	for i, n := range names {
		cols[i] = table.Column{Title: n, Width: min(widths[i], 32)}
	}

	cursor := v.table.Cursor()
	// rows must never be wider than the columns while they change
	v.table.SetRows(nil)
	v.table.SetColumns(cols)
	v.table.SetRows(cells)
	v.table.SetHeight(max(len(cells), 1) + 1)
	if cursor >= len(cells) {
		cursor = max(len(cells)-1, 0)
	}
	v.table.SetCursor(cursor)
}

// selectedID returns the id of the highlighted record on the current page.
func (v *listView) selectedID() string {
	visible := v.ctrl.Visible()
	i := v.table.Cursor()
	if i < 0 || i >= len(visible) {
		return ""
	}
	return visible[i].ID()
}

func (v *listView) selected() (projection.Record, bool) {
	id := v.selectedID()
	if id == "" {
		return nil, false
	}
	rec, err := v.ctrl.Lookup(id)
	return rec, err == nil
}

// handleKey runs the list keys. Rejected page moves are ignored.
func (v *listView) handleKey(msg tea.KeyMsg, keys keyMap) bool {
	switch {
	case key.Matches(msg, keys.Up), key.Matches(msg, keys.Down):
		v.table, _ = v.table.Update(msg)
		return true
	case key.Matches(msg, keys.PrevPage):
		_ = v.pager.Prev()
	case key.Matches(msg, keys.NextPage):
		_ = v.pager.Next()
	case key.Matches(msg, keys.SelectPage):
		window := v.pager.Window()
		n := int(msg.String()[0] - '0')
		if n >= 1 && n <= len(window) {
			_ = v.pager.SelectPage(window[n-1])
		}
	case key.Matches(msg, keys.Bigger):
		_ = v.pager.SetPageSize(v.pager.State().PageSize + 1)
	case key.Matches(msg, keys.Smaller):
		_ = v.pager.SetPageSize(v.pager.State().PageSize - 1)
	default:
		return false
	}
	v.refresh()
	return true
}

func (v *listView) pagerBar() string {
	st := v.pager.State()
	if st.NumberOfPages() == 0 {
		return ""
	}
	var parts []string
	edge := pageEdgeStyle
	if !v.pager.HasPrev() {
		edge = edge.Faint(true)
	}
	parts = append(parts, edge.Render("‹"))
	for _, p := range v.pager.Window() {
		label := fmt.Sprintf("%d", p)
		if p == st.CurrentPage {
			parts = append(parts, activePageStyle.Render(label))
		} else {
			parts = append(parts, pageStyle.Render(label))
		}
	}
	edge = pageEdgeStyle
	if !v.pager.HasNext() {
		edge = edge.Faint(true)
	}
	parts = append(parts, edge.Render("›"))
	parts = append(parts, mutedStyle.Render(fmt.Sprintf("  page %d of %d · %d per page", st.CurrentPage, st.NumberOfPages(), st.PageSize)))
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (v *listView) View(heading string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(v.summary.String()))
	if heading != "" {
		b.WriteString("  " + mutedStyle.Render(heading))
	}
	b.WriteString("\n")
	switch {
	case v.loading && !v.loaded:
		b.WriteString(mutedStyle.Render("loading..."))
	case v.ctrl.Len() == 0:
		b.WriteString(mutedStyle.Render("no records"))
	default:
		b.WriteString(v.table.View())
	}
	if bar := v.pagerBar(); bar != "" {
		b.WriteString("\n" + bar)
	}
	return b.String()
}
