package domain

import "strings"

// MarketplaceItem is a listing offered by a seller. Price is positive; the
// caller enforces that before the item reaches the controller.
type MarketplaceItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Location    string  `json:"location"`
	SellerID    string  `json:"sellerId"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// ItemDraft carries the caller-supplied fields of a new listing.
type ItemDraft struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Location    string
	ImageURL    string
}

// ItemPatch lists the mutable fields of a listing. Nil fields are left unchanged.
type ItemPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Location    *string
	ImageURL    *string
}

// Apply merges the non-nil fields of p into it.
func (p ItemPatch) Apply(it MarketplaceItem) MarketplaceItem {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Location != nil {
		it.Location = *p.Location
	}
	if p.ImageURL != nil {
		it.ImageURL = *p.ImageURL
	}
	return it
}

// ItemFilter selects listings on the read side. Query matches title or
// description case-insensitively; Category must match exactly. Empty fields
// do not filter.
type ItemFilter struct {
	Query    string
	Category string
}

// Matches reports whether it passes the filter.
func (f ItemFilter) Matches(it MarketplaceItem) bool {
	if f.Category != "" && it.Category != f.Category {
		return false
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(it.Title), q) ||
		strings.Contains(strings.ToLower(it.Description), q)
}
