// Package paging owns page state for a record list and keeps its consumers in
// step over the pagination bus.
package paging

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jask/recruitdesk/internal/bus"
	"github.com/jask/recruitdesk/internal/logging"
)

const (
	DefaultPageSize = 5
	DefaultWindow   = 5
)

// ErrOutOfRange is wrapped by every rejected navigation. State is left untouched.
var ErrOutOfRange = errors.New("page out of range")

// Paginator is the single owner of a State.
type Paginator struct {
	logger *slog.Logger
	sub    *bus.Subscription
	window int

	mu    sync.Mutex
	state State
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithPageSize sets the initial page size; non-positive values are ignored.
func WithPageSize(n int) Option {
	return func(p *Paginator) {
		if n > 0 {
			p.state.PageSize = n
		}
	}
}

// WithWindow sets the width of the page-number selector; non-positive values are ignored.
func WithWindow(n int) Option {
	return func(p *Paginator) {
		if n > 0 {
			p.window = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Paginator) { p.logger = logging.OrDiscard(l) }
}

// New creates a paginator at page 1 with no records and subscribes it to b.
func New(b *bus.Bus, opts ...Option) *Paginator {
	p := &Paginator{
		logger: logging.Discard(),
		window: DefaultWindow,
		state:  State{CurrentPage: 1, PageSize: DefaultPageSize},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sub = b.Subscribe(p.handle)
	return p
}

// Close unsubscribes from the bus.
func (p *Paginator) Close() { p.sub.Unsubscribe() }

// State returns a copy of the current state.
func (p *Paginator) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Paginator) handle(m bus.Message) {
	switch msg := m.(type) {
	case bus.SendTotalRecords:
		p.onTotalRecords(msg.Total)
	case bus.FilterChanged:
		p.onFilterChanged()
	}
}

// onTotalRecords recomputes pages for a new total and re-announces the page
// size, since a list that just loaded may not know it yet.
func (p *Paginator) onTotalRecords(total int) {
	p.mu.Lock()
	if total < 0 {
		total = 0
	}
	p.state.TotalRecords = total
	moved := p.state.clamp()
	size, page := p.state.PageSize, p.state.CurrentPage
	p.mu.Unlock()

	p.logger.Debug("total records received", "total", total, "page", page, "clamped", moved)
	p.sub.Publish(bus.SendPageSize{Size: size})
	if moved {
		p.sub.Publish(bus.SendCurrentPage{Page: page})
	}
}

// onFilterChanged resets to the first page before announcing it.
func (p *Paginator) onFilterChanged() {
	p.mu.Lock()
	p.state.CurrentPage = 1
	p.mu.Unlock()

	p.logger.Debug("filter changed, back to first page")
	p.sub.Publish(bus.SendCurrentPage{Page: 1})
}

// Next moves one page forward.
func (p *Paginator) Next() error {
	p.mu.Lock()
	if p.state.CurrentPage >= p.state.NumberOfPages() {
		p.mu.Unlock()
		return fmt.Errorf("next: %w", ErrOutOfRange)
	}
	p.state.CurrentPage++
	page := p.state.CurrentPage
	p.mu.Unlock()

	p.sub.Publish(bus.SendCurrentPage{Page: page})
	return nil
}

// Prev moves one page back.
func (p *Paginator) Prev() error {
	p.mu.Lock()
	if p.state.CurrentPage <= 1 {
		p.mu.Unlock()
		return fmt.Errorf("prev: %w", ErrOutOfRange)
	}
	p.state.CurrentPage--
	page := p.state.CurrentPage
	p.mu.Unlock()

	p.sub.Publish(bus.SendCurrentPage{Page: page})
	return nil
}

// SelectPage jumps to page n, which must be within [1, NumberOfPages].
func (p *Paginator) SelectPage(n int) error {
	p.mu.Lock()
	pages := p.state.NumberOfPages()
	if n < 1 || n > pages {
		p.mu.Unlock()
		return fmt.Errorf("select page %d of %d: %w", n, pages, ErrOutOfRange)
	}
	p.state.CurrentPage = n
	p.mu.Unlock()

	p.sub.Publish(bus.SendCurrentPage{Page: n})
	return nil
}

// SetPageSize changes the page size and keeps the current page in range.
func (p *Paginator) SetPageSize(n int) error {
	if n <= 0 {
		return fmt.Errorf("page size %d: %w", n, ErrOutOfRange)
	}
	p.mu.Lock()
	p.state.PageSize = n
	moved := p.state.clamp()
	page := p.state.CurrentPage
	p.mu.Unlock()

	p.sub.Publish(bus.SendPageSize{Size: n})
	if moved {
		p.sub.Publish(bus.SendCurrentPage{Page: page})
	}
	return nil
}

// Window returns the page numbers shown by the page selector.
func (p *Paginator) Window() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PageWindow(p.state.CurrentPage, p.state.NumberOfPages(), p.window)
}

// HasNext reports whether Next would succeed.
func (p *Paginator) HasNext() bool {
	s := p.State()
	return s.CurrentPage < s.NumberOfPages()
}

// HasPrev reports whether Prev would succeed.
func (p *Paginator) HasPrev() bool {
	return p.State().CurrentPage > 1
}

// PageWindow computes a sliding window of at most width page numbers around
// page. Pages past ceil(width/2) shift the window so that page sits just right
// of its middle: width 5, page 8 of 10 gives 5..9.
func PageWindow(page, pages, width int) []int {
	if pages <= 0 || width <= 0 {
		return nil
	}
	mid := (width + 1) / 2
	start := 1
	if page > mid {
		start = page - mid
	}
	end := start + width - 1
	if end > pages {
		end = pages
	}
	if start > end {
		start = end
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}
