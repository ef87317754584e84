package aggregates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
)

// TxRunner opens the single transaction an aggregate write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return domainagg.NewError(domainagg.CodeInternal, "planner.tx", "transaction runner has nil db", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	// A request that is already gone must not take write locks.
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// lockUserPlanner serializes planner writes of one user for the rest of the
// transaction. Category deletes, schedule and goal inserts and log appends all
// read each other's rows for their guards, so they share one key per user.
// Under READ COMMITTED a use-guard read does not see a concurrent
// uncommitted insert, so a category could be deleted while a new schedule
// starts referencing it.
// On sqlite the single writer connection already serializes them.
func lockUserPlanner(dbc dbctx.Context, userID uuid.UUID) error {
	if dbc.Tx == nil || userID == uuid.Nil {
		return nil
	}
	if dbc.Tx.Dialector == nil || dbc.Tx.Dialector.Name() != "postgres" {
		return nil
	}
	return dbc.Tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "planner:"+userID.String()).Error
}
