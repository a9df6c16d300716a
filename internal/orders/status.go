package orders

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotPermitted means the caller's role does not allow order mutation.
	ErrNotPermitted = errors.New("role not permitted to mutate orders")
	// ErrUnknownType means the order's type has no dispatch target.
	ErrUnknownType = errors.New("unknown order type")
	// ErrOrderNotFound means the detail row the dispatch targeted is gone.
	ErrOrderNotFound = errors.New("order not found")
)

// StatusDispatcher routes status writes to the detail table owning the
// order. Authorization is checked before anything touches the database.
type StatusDispatcher struct {
	DB        Querier
	CanMutate func(role string) bool
}

// UpdateStatus sets the status of the detail row keyed by detailKey in the
// table the order type dispatches to. Exactly one write is issued, and none
// at all when the caller is not permitted.
func (s *StatusDispatcher) UpdateStatus(ctx context.Context, role string, typ Type, detailKey string, status Status) error {
	if s.CanMutate != nil && !s.CanMutate(role) {
		return ErrNotPermitted
	}

	target, ok := StatusTarget(typ)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}

	sql := fmt.Sprintf(`update %s set %s = $1 where id = $2::uuid`, target.Table, target.StatusColumn)
	tag, err := s.DB.Exec(ctx, sql, string(status), detailKey)
	if err != nil {
		return fmt.Errorf("update %s: %w", target.Table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Cancel is UpdateStatus pinned to the cancelled state. Cancellation is a
// status write, not a delete, so the order keeps contributing to history.
func (s *StatusDispatcher) Cancel(ctx context.Context, role string, typ Type, detailKey string) error {
	return s.UpdateStatus(ctx, role, typ, detailKey, StatusCancelled)
}
