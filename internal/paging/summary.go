package paging

import (
	"fmt"
	"sync"

	"github.com/jask/recruitdesk/internal/bus"
)

// Summary follows the bus and renders list titles such as "Candidates (6-10/23)".
type Summary struct {
	label string
	sub   *bus.Subscription

	mu    sync.Mutex
	state State
}

// NewSummary subscribes a summary for the given label.
func NewSummary(b *bus.Bus, label string) *Summary {
	s := &Summary{label: label, state: State{CurrentPage: 1}}
	s.sub = b.Subscribe(s.handle)
	return s
}

// Close unsubscribes from the bus.
func (s *Summary) Close() { s.sub.Unsubscribe() }

func (s *Summary) handle(m bus.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch msg := m.(type) {
	case bus.SendTotalRecords:
		s.state.TotalRecords = msg.Total
	case bus.SendPageSize:
		s.state.PageSize = msg.Size
	case bus.SendCurrentPage:
		s.state.CurrentPage = msg.Page
	}
}

// String renders the label with the visible range. An empty list reads "(0)".
func (s *Summary) String() string {
	s.mu.Lock()
	st := s.state
	s.mu.Unlock()
	if st.TotalRecords == 0 || st.PageSize == 0 {
		return fmt.Sprintf("%s (0)", s.label)
	}
	start, end := st.Bounds(st.TotalRecords)
	return fmt.Sprintf("%s (%d-%d/%d)", s.label, start+1, end, st.TotalRecords)
}
