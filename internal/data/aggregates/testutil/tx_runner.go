package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/dayplanner-backend/internal/data/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
)

type TxEvent string

const (
	TxRefused    TxEvent = "refused"
	TxCommitted  TxEvent = "committed"
	TxRolledBack TxEvent = "rolled_back"
)

// FaultyTxRunner wraps Inner and records how every transaction ended.
// Refuse fails the transaction before the body runs; LoseCommit fails it
// after a successful body, so Inner rolls the work back. A nil Inner runs
// the body without a database transaction.
type FaultyTxRunner struct {
	Inner      aggregates.TxRunner
	Refuse     error
	LoseCommit error

	mu     sync.Mutex
	events []TxEvent
}

var _ aggregates.TxRunner = (*FaultyTxRunner)(nil)

func (r *FaultyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r.Refuse != nil {
		r.record(TxRefused)
		return r.Refuse
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return r.LoseCommit
	}
	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}
	if err != nil {
		r.record(TxRolledBack)
		return err
	}
	r.record(TxCommitted)
	return nil
}

func (r *FaultyTxRunner) record(e TxEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events lists transaction outcomes in call order.
func (r *FaultyTxRunner) Events() []TxEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TxEvent(nil), r.events...)
}
