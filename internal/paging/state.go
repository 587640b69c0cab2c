package paging

// State is the pagination state owned by a Paginator. Other components only
// ever see copies of its fields delivered over the bus.
type State struct {
	CurrentPage  int
	PageSize     int
	TotalRecords int
}

// NumberOfPages is ceil(TotalRecords / PageSize); zero when there is nothing to show.
func (s State) NumberOfPages() int {
	if s.PageSize <= 0 || s.TotalRecords <= 0 {
		return 0
	}
	return (s.TotalRecords + s.PageSize - 1) / s.PageSize
}

// StartIndex is the index of the first record on the current page.
func (s State) StartIndex() int {
	return startIndex(s.CurrentPage, s.PageSize)
}

// EndIndex is one past the last index of the current page. It is not clamped
// to TotalRecords: the last page of 23 records at size 5 ends at 25.
func (s State) EndIndex() int {
	return s.StartIndex() + max(s.PageSize, 0)
}

// Bounds returns the slice window [start, end) for a list of n records.
func (s State) Bounds(n int) (start, end int) {
	return bounds(s.CurrentPage, s.PageSize, n)
}

// clamp keeps CurrentPage inside [1, NumberOfPages] (or 1 when there are no pages).
// It reports whether the page moved.
func (s *State) clamp() bool {
	before := s.CurrentPage
	pages := s.NumberOfPages()
	switch {
	case pages == 0:
		s.CurrentPage = 1
	case s.CurrentPage > pages:
		s.CurrentPage = pages
	case s.CurrentPage < 1:
		s.CurrentPage = 1
	}
	return before != s.CurrentPage
}

func startIndex(page, size int) int {
	if page < 1 || size <= 0 {
		return 0
	}
	return (page - 1) * size
}

func bounds(page, size, n int) (int, int) {
	if size <= 0 || n <= 0 {
		return 0, 0
	}
	start := startIndex(page, size)
	if start > n {
		start = n
	}
	end := start + size
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the records of items that fall on the given page.
func Slice[T any](items []T, page, size int) []T {
	start, end := bounds(page, size, len(items))
	return items[start:end]
}
