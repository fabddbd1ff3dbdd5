package model

import "math"

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// MaxPage keeps Offset from overflowing for any limit up to MaxPageLimit.
const MaxPage = math.MaxInt / MaxPageLimit

// Pagination is a 1-based page request.
type Pagination struct {
	Page  int
	Limit int
}

// Normalize clamps the page to [1, MaxPage] and the limit to
// [1, MaxPageLimit], substituting DefaultPageLimit for an unset limit.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.Limit) - 1) / int64(p.Limit))
}
