package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// MarketplaceService is the marketplace controller. Its projection is the
// full collection in storage order; filtering happens on read only.
type MarketplaceService struct {
	items   *repo.Collection[domain.MarketplaceItem]
	session Identity
	view    *Projection[domain.MarketplaceItem]
}

// NewMarketplaceService constructs a MarketplaceService backed by the provided collection.
func NewMarketplaceService(items *repo.Collection[domain.MarketplaceItem], session Identity) *MarketplaceService {
	return &MarketplaceService{items: items, session: session, view: newProjection[domain.MarketplaceItem]()}
}

// Load refreshes the projection from the store.
func (s *MarketplaceService) Load(ctx context.Context) error {
	if err := load(ctx, s.items, s.view, allItems); err != nil {
		return fmt.Errorf("service.MarketplaceService.Load: %w", err)
	}
	return nil
}

// List returns every listing.
func (s *MarketplaceService) List() []domain.MarketplaceItem { return s.view.Snapshot() }

// Search returns the listings matching f, in projection order. It never
// changes the projection or the store.
func (s *MarketplaceService) Search(f domain.ItemFilter) []domain.MarketplaceItem {
	all := s.view.Snapshot()
	out := make([]domain.MarketplaceItem, 0, len(all))
	for _, it := range all {
		if f.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// Get returns one listing from the projection.
func (s *MarketplaceService) Get(id string) (domain.MarketplaceItem, bool) {
	return find(s.view.Snapshot(), id, itemID)
}

// Subscribe registers fn for every republished projection.
func (s *MarketplaceService) Subscribe(fn func([]domain.MarketplaceItem)) (cancel func()) {
	return s.view.Subscribe(fn)
}

// State returns the projection load state.
func (s *MarketplaceService) State() State { return s.view.State() }

// Add lists a new item sold by the signed-in user.
func (s *MarketplaceService) Add(ctx context.Context, draft domain.ItemDraft) (domain.MarketplaceItem, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.MarketplaceItem{}, fmt.Errorf("service.MarketplaceService.Add: %w", err)
	}

	item := domain.MarketplaceItem{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Category:    draft.Category,
		Location:    draft.Location,
		SellerID:    u.ID,
		ImageURL:    draft.ImageURL,
	}
	err = mutate(ctx, s.items, s.view, allItems, func(items []domain.MarketplaceItem) ([]domain.MarketplaceItem, error) {
		return append(items, item), nil
	})
	if err != nil {
		return domain.MarketplaceItem{}, fmt.Errorf("service.MarketplaceService.Add: %w", err)
	}
	return item, nil
}

// Update merges patch into a listing sold by the signed-in user.
// Returns domain.ErrNotFound or domain.ErrUnauthorized.
func (s *MarketplaceService) Update(ctx context.Context, id string, patch domain.ItemPatch) (domain.MarketplaceItem, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.MarketplaceItem{}, fmt.Errorf("service.MarketplaceService.Update: %w", err)
	}

	var updated domain.MarketplaceItem
	err = mutate(ctx, s.items, s.view, allItems, func(items []domain.MarketplaceItem) ([]domain.MarketplaceItem, error) {
		i, err := indexOwned(items, id, itemID, itemSeller, u.ID)
		if err != nil {
			return nil, err
		}
		items[i] = patch.Apply(items[i])
		updated = items[i]
		return items, nil
	})
	if err != nil {
		return domain.MarketplaceItem{}, fmt.Errorf("service.MarketplaceService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a listing sold by the signed-in user.
// Returns domain.ErrNotFound or domain.ErrUnauthorized.
func (s *MarketplaceService) Delete(ctx context.Context, id string) error {
	u, err := requireUser(s.session)
	if err != nil {
		return fmt.Errorf("service.MarketplaceService.Delete: %w", err)
	}
	err = mutate(ctx, s.items, s.view, allItems, func(items []domain.MarketplaceItem) ([]domain.MarketplaceItem, error) {
		i, err := indexOwned(items, id, itemID, itemSeller, u.ID)
		if err != nil {
			return nil, err
		}
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("service.MarketplaceService.Delete: %w", err)
	}
	return nil
}

func allItems(items []domain.MarketplaceItem) []domain.MarketplaceItem { return items }

func itemID(it domain.MarketplaceItem) string     { return it.ID }
func itemSeller(it domain.MarketplaceItem) string { return it.SellerID }
