package domain

import (
	"context"
	"sort"
)

// DealFilter narrows the result of a deal listing. Zero value fields are
// ignored.
type DealFilter struct {
	Status *DealStatus
	Party  string
}

// Match returns whether the given deal satisfies the filter.
func (f DealFilter) Match(d *Deal) bool {
	if f.Status != nil && d.Status != *f.Status {
		return false
	}
	if f.Party != "" && !d.IsParty(f.Party) {
		return false
	}
	return true
}

// DealRepository is the abstraction for any kind of database intended to
// persist Deals.
type DealRepository interface {
	// AddDeal stores a new deal, it fails with ErrDealAlreadyExists if a
	// record with the same id is found.
	AddDeal(ctx context.Context, deal *Deal) error
	// GetDeal returns the deal with the given id or ErrDealNotFound.
	GetDeal(ctx context.Context, id DealID) (*Deal, error)
	// ListDeals returns the deals matching the filter, ordered by creation
	// time and paginated if a page is given.
	ListDeals(ctx context.Context, filter DealFilter, page *Page) ([]*Deal, error)
	// UpdateDeal allows to commit multiple changes to the same deal in a
	// transactional way.
	UpdateDeal(
		ctx context.Context,
		id DealID,
		updateFn func(d *Deal) (*Deal, error),
	) error
}

// SortDeals orders deals by creation time, then by id.
func SortDeals(deals []*Deal) {
	sort.SliceStable(deals, func(i, j int) bool {
		if deals[i].CreatedAt != deals[j].CreatedAt {
			return deals[i].CreatedAt < deals[j].CreatedAt
		}
		return deals[i].ID.String() < deals[j].ID.String()
	})
}
