package aggregates

// Scope is the row set one aggregate write reconciles.
type Scope string

const (
	// ScopeUser covers every live row the user owns.
	ScopeUser Scope = "user"
	// ScopeUserDay covers the user's rows for one target date.
	ScopeUserDay Scope = "user_day"
)

// Contract names an aggregate, the scope its writes replace and the
// caller-facing codes its writes may fail with.
type Contract struct {
	Name    string
	Scope   Scope
	Rejects []ErrorCode
	Notes   string
}

// Aggregate is implemented by every write boundary.
type Aggregate interface {
	Contract() Contract
}

// Op is the operation name reported in errors, logs and metrics.
func (c Contract) Op(method string) string {
	return c.Name + "." + method
}

// Expects reports whether a write may fail with code. Internal and retryable
// failures are possible on any write.
func (c Contract) Expects(code ErrorCode) bool {
	if code == CodeInternal || code == CodeRetryable {
		return true
	}
	for _, r := range c.Rejects {
		if r == code {
			return true
		}
	}
	return false
}

var ActCategoryAggregateContract = Contract{
	Name:    "Planner.ActCategory",
	Scope:   ScopeUser,
	Rejects: []ErrorCode{CodeValidation, CodeForbidden, CodeInUse, CodeConflict},
	Notes:   "Deletes are blocked while schedules or habit goals reference a category.",
}

var ScheduleAggregateContract = Contract{
	Name:    "Planner.Schedule",
	Scope:   ScopeUserDay,
	Rejects: []ErrorCode{CodeValidation, CodeForbidden},
	Notes:   "Slots must not overlap and must use the user's categories.",
}

var HabitGoalAggregateContract = Contract{
	Name:    "Planner.HabitGoal",
	Scope:   ScopeUser,
	Rejects: []ErrorCode{CodeValidation, CodeForbidden, CodeInUse, CodeConflict},
	Notes:   "Goals with logs cannot be deleted. Logs are append-only.",
}
