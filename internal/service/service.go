// Package service contains the stateful controllers of the travel companion:
// the session manager and one controller per persisted collection.
// Controllers validate input, enforce ownership and domain invariants, run
// each mutation as one serialized load → mutate → persist cycle through
// repo.Collection, and republish their projection to subscribers.
// Controllers depend on repo types only, never on a storage backend.
package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// Identity exposes the signed-in user to the collection controllers.
// *SessionManager satisfies it.
type Identity interface {
	Current() (domain.User, bool)
}

// requireUser returns the signed-in user or domain.ErrUnauthorized.
func requireUser(id Identity) (domain.User, error) {
	u, ok := id.Current()
	if !ok {
		return domain.User{}, fmt.Errorf("%w: no active session", domain.ErrUnauthorized)
	}
	return u, nil
}

// load refreshes proj from the store. On failure the previous view is kept.
// The ticket is drawn under the key lock, so a load that read older data than
// a concurrent mutation cannot replace that mutation's view.
func load[T any](ctx context.Context, coll *repo.Collection[T], proj *Projection[T], view func([]T) []T) error {
	proj.loading()
	var t uint64
	items, err := coll.LoadCommit(ctx, func([]T) { t = proj.ticket() })
	if err != nil {
		proj.failed()
		return err
	}
	proj.publishAt(t, view(items))
	return nil
}

// mutate runs fn as one serialized read-modify-write on coll and republishes
// the projection computed by view. Nothing is published when fn or the store
// fails. Views are ordered by commit, so a slow publisher never overwrites
// the view of a later commit.
func mutate[T any](ctx context.Context, coll *repo.Collection[T], proj *Projection[T], view func([]T) []T, fn func([]T) ([]T, error)) error {
	var t uint64
	next, err := coll.MutateCommit(ctx, fn, func([]T) { t = proj.ticket() })
	if err != nil {
		return err
	}
	proj.publishAt(t, view(next))
	return nil
}

// indexOf returns the position of the item whose id is id.
// Returns domain.ErrNotFound if there is none.
func indexOf[T any](items []T, id string, idOf func(T) string) (int, error) {
	i := slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: id %q", domain.ErrNotFound, id)
	}
	return i, nil
}

// indexOwned is indexOf plus an ownership check against userID.
// Returns domain.ErrUnauthorized when the item belongs to someone else.
func indexOwned[T any](items []T, id string, idOf, ownerOf func(T) string, userID string) (int, error) {
	i, err := indexOf(items, id, idOf)
	if err != nil {
		return -1, err
	}
	if ownerOf(items[i]) != userID {
		return -1, fmt.Errorf("%w: %q is not owned by the current user", domain.ErrUnauthorized, id)
	}
	return i, nil
}

// find looks id up in a projection snapshot.
func find[T any](items []T, id string, idOf func(T) string) (T, bool) {
	i := slices.IndexFunc(items, func(it T) bool { return idOf(it) == id })
	if i < 0 {
		var zero T
		return zero, false
	}
	return items[i], true
}
