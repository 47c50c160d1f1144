// Package listing holds the product list view state: the full set as last
// fetched, a search term, and a page window derived from both.
package listing

import (
	"errors"
	"slices"
	"strings"

	"github.com/Gen1023/financial-products/internal/domain"
)

const DefaultPageSize = 5

// PageSizeOptions are the only page sizes a user can pick.
var PageSizeOptions = []int{5, 10, 15, 20}

var ErrInvalidPageSize = errors.New("page size not offered")

// Filter returns the products whose name or id contains term, ignoring case
// and surrounding blanks. An empty term keeps everything.
func Filter(products []domain.Product, term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.ID), term) {
			out = append(out, p)
		}
	}
	return out
}

// TotalPages is ceil(count/size).
func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// ClampPage keeps page inside [1, total]; with no pages it is 1.
func ClampPage(page, total int) int {
	if total <= 0 || page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// DeriveVisiblePage slices filtered at [(page-1)*size, page*size).
func DeriveVisiblePage(filtered []domain.Product, page, size int) []domain.Product {
	if size <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(filtered) {
		return nil
	}
	end := min(start+size, len(filtered))
	return filtered[start:end]
}

// State is the list view state container. It is not safe for concurrent use;
// callers serialize access per session.
type State struct {
	products []domain.Product
	filtered []domain.Product
	term     string
	pageSize int
	page     int
	loaded   bool
}

func NewState() *State {
	return &State{pageSize: DefaultPageSize, page: 1}
}

// Reset returns the state to a fresh view: nothing fetched, no term, default
// page size.
func (s *State) Reset() { *s = *NewState() }

// Replace stores a fresh fetch. The current term still applies and the page
// is clamped to the new total.
func (s *State) Replace(products []domain.Product) {
	s.products = products
	s.loaded = true
	s.refilter()
}

// SetSearch applies a new term. Surrounding spaces are ignored and the
// state keeps its own copy. Changing the term resets to page 1.
func (s *State) SetSearch(term string) {
	term = strings.TrimSpace(term)
	if term == s.term {
		return
	}
	s.term = strings.Clone(term)
	s.page = 1
	s.refilter()
}

func (s *State) SetPageSize(size int) error {
	if !slices.Contains(PageSizeOptions, size) {
		return ErrInvalidPageSize
	}
	s.pageSize = size
	s.page = ClampPage(s.page, s.TotalPages())
	return nil
}

// Next is a no-op on the last page.
func (s *State) Next() {
	if s.page < s.TotalPages() {
		s.page++
	}
}

// Prev is a no-op on the first page.
func (s *State) Prev() {
	if s.page > 1 {
		s.page--
	}
}

func (s *State) GoTo(page int) { s.page = ClampPage(page, s.TotalPages()) }

func (s *State) refilter() {
	s.filtered = Filter(s.products, s.term)
	s.page = ClampPage(s.page, s.TotalPages())
}

func (s *State) Loaded() bool { return s.loaded }
func (s *State) Term() string { return s.term }
func (s *State) Page() int { return s.page }
func (s *State) PageSize() int { return s.pageSize }
func (s *State) TotalPages() int { return TotalPages(len(s.filtered), s.pageSize) }
func (s *State) Filtered() []domain.Product { return s.filtered }

// Snapshot is what the list template renders.
type Snapshot struct {
	Items      []domain.Product
	Term       string
	Page       int
	PageSize   int
	TotalPages int
	Matches    int
	Total      int
	HasPrev    bool
	HasNext    bool
	Options    []int
}

func (s *State) Snapshot() Snapshot {
	total := s.TotalPages()
	return Snapshot{
		Items:      DeriveVisiblePage(s.filtered, s.page, s.pageSize),
		Term:       s.term,
		Page:       s.page,
		PageSize:   s.pageSize,
		TotalPages: total,
		Matches:    len(s.filtered),
		Total:      len(s.products),
		HasPrev:    s.page > 1,
		HasNext:    s.page < total,
		Options:    PageSizeOptions,
	}
}
