package aggregates

import (
	"context"
	"strings"
	"time"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	return d
}

// executeWrite runs validate outside any transaction and fn inside one.
// A validation failure is reported without opening a transaction.
func executeWrite(ctx context.Context, deps BaseDeps, op string, validate func() error, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = "aggregate.write"
	}

	err := runWrite(ctx, deps.Runner, validate, fn)
	if err == nil {
		deps.Hooks.Done(op, "success", time.Since(start))
		return nil
	}
	mapped := MapError(op, err)
	code := domainagg.CodeOf(mapped)
	deps.Hooks.Rejected(op, code)
	if deps.Log != nil && !code.CallerFault() {
		deps.Log.Error("aggregate write failed", "op", op, "code", code, "error", err)
	}
	deps.Hooks.Done(op, aggregateErrorStatus(mapped), time.Since(start))
	return mapped
}

func runWrite(ctx context.Context, runner TxRunner, validate func() error, fn func(dbc dbctx.Context) error) error {
	if validate != nil {
		if err := validate(); err != nil {
			return err
		}
	}
	return runner.InTx(ctx, fn)
}

// aggregateErrorStatus is the outcome label for err: its code, or
// "failure" when even classification yields none.
func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeOf(MapError("aggregate.status", err))
	}
	if code == "" {
		return "failure"
	}
	return string(code)
}
