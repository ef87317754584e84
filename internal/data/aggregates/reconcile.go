package aggregates

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
)

// reconcilePlan binds the reconcile engine to one entity within one scope.
// Every step runs against the caller's transaction.
type reconcilePlan[T any] struct {
	userID uuid.UUID
	// existing lists the live ids in scope.
	existing func(dbc dbctx.Context) ([]uuid.UUID, error)
	idOf     func(item T) *uuid.UUID
	// referenced returns the subset of ids still used by other rows. Nil disables the guard.
	referenced func(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	inUse      error
	remove     func(dbc dbctx.Context, ids []uuid.UUID) error
	// update reports false when no live row in scope matched.
	update func(dbc dbctx.Context, index int, id uuid.UUID, item T) (bool, error)
	insert func(dbc dbctx.Context, index int, item T) (uuid.UUID, error)
}

// reconcile makes the scope hold exactly items: rows missing from items are
// soft-deleted, items with an id update their row and the rest are inserted.
func reconcile[T any](dbc dbctx.Context, plan reconcilePlan[T], items []T) (domainagg.ReconcileResult, error) {
	out := domainagg.ReconcileResult{
		Deleted:  []uuid.UUID{},
		Updated:  []uuid.UUID{},
		Inserted: []uuid.UUID{},
	}

	if err := lockUserPlanner(dbc, plan.userID); err != nil {
		return out, err
	}
	existing, err := plan.existing(dbc)
	if err != nil {
		return out, err
	}
	keep := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if id := plan.idOf(item); id != nil {
			keep[*id] = struct{}{}
		}
	}
	toDelete := make([]uuid.UUID, 0, len(existing))
	for _, id := range existing {
		if _, ok := keep[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}
	sort.Slice(toDelete, func(i, j int) bool { return toDelete[i].String() < toDelete[j].String() })

	if len(toDelete) > 0 && plan.referenced != nil {
		used, err := plan.referenced(dbc, toDelete)
		if err != nil {
			return out, err
		}
		if len(used) > 0 {
			usedSet := make(map[uuid.UUID]struct{}, len(used))
			for _, id := range used {
				usedSet[id] = struct{}{}
			}
			for _, id := range toDelete {
				if _, ok := usedSet[id]; ok {
					return out, InUseError(fmt.Errorf("%s: %w", id, plan.inUse))
				}
			}
		}
	}
	if len(toDelete) > 0 {
		if err := plan.remove(dbc, toDelete); err != nil {
			return out, err
		}
		out.Deleted = toDelete
	}

	for i, item := range items {
		id := plan.idOf(item)
		if id == nil {
			newID, err := plan.insert(dbc, i, item)
			if err != nil {
				return out, err
			}
			out.Inserted = append(out.Inserted, newID)
			continue
		}
		ok, err := plan.update(dbc, i, *id, item)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, OwnershipError(fmt.Errorf("item %d: %s: %w", i, *id, planner.ErrNotOwned))
		}
		out.Updated = append(out.Updated, *id)
	}
	return out, nil
}

// requireItems rejects an empty payload and a missing user.
func requireItems(userID uuid.UUID, n int) error {
	if userID == uuid.Nil {
		return ValidationError("missing user_id")
	}
	if n == 0 {
		return ValidationCause(planner.ErrEmptyPayload)
	}
	return nil
}
