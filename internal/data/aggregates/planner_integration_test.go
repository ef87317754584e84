package aggregates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/data/aggregates"
	aggtestutil "github.com/yungbote/dayplanner-backend/internal/data/aggregates/testutil"
	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	"github.com/yungbote/dayplanner-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/pkg/pointers"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
)

type plannerHarness struct {
	db    *gorm.DB
	ctx   context.Context
	hooks *aggtestutil.HooksRecorder

	categoryRepo repos.ActCategoryRepo
	scheduleRepo repos.ScheduleRepo
	goalRepo     repos.HabitGoalRepo
	logRepo      repos.HabitLogRepo

	categories domainagg.ActCategoryAggregate
	schedules  domainagg.ScheduleAggregate
	goals      domainagg.HabitGoalAggregate
}

func newPlannerHarness(t *testing.T, db *gorm.DB, runner aggregates.TxRunner) *plannerHarness {
	t.Helper()
	if db == nil {
		db = testutil.DB(t)
	}
	log := testutil.Logger(t)
	h := &plannerHarness{
		db:           db,
		ctx:          context.Background(),
		hooks:        &aggtestutil.HooksRecorder{},
		categoryRepo: repos.NewActCategoryRepo(db, log),
		scheduleRepo: repos.NewScheduleRepo(db, log),
		goalRepo:     repos.NewHabitGoalRepo(db, log),
		logRepo:      repos.NewHabitLogRepo(db, log),
	}
	base := aggregates.BaseDeps{DB: db, Log: log, Runner: runner, Hooks: h.hooks}
	h.categories = aggregates.NewActCategoryAggregate(aggregates.ActCategoryAggregateDeps{
		Base:       base,
		Categories: h.categoryRepo,
		Schedules:  h.scheduleRepo,
		HabitGoals: h.goalRepo,
	})
	h.schedules = aggregates.NewScheduleAggregate(aggregates.ScheduleAggregateDeps{
		Base:       base,
		Schedules:  h.scheduleRepo,
		Categories: h.categoryRepo,
	})
	h.goals = aggregates.NewHabitGoalAggregate(aggregates.HabitGoalAggregateDeps{
		Base:       base,
		HabitGoals: h.goalRepo,
		HabitLogs:  h.logRepo,
		Categories: h.categoryRepo,
	})
	return h
}

func (h *plannerHarness) dbc() dbctx.Context { return dbctx.Context{Ctx: h.ctx} }

func (h *plannerHarness) seedUser(t *testing.T) uuid.UUID {
	t.Helper()
	return testutil.SeedUser(t, h.ctx, h.db, "planner-"+uuid.NewString()+"@example.com").ID
}

func categoryItem(id *uuid.UUID, activity, hex string) domainagg.ActCategoryItem {
	return domainagg.ActCategoryItem{
		ID:            id,
		Activity:      activity,
		ColorName:     activity + " color",
		HexColorCode:  hex,
		TextColorCode: "#FFFFFF",
	}
}

func TestActCategoryReconcileIsIdempotent(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)

	first, err := h.categories.Reconcile(h.ctx, domainagg.ReconcileActCategoriesInput{
		UserID: userID,
		Items:  []domainagg.ActCategoryItem{categoryItem(nil, "sleep", "#112233"), categoryItem(nil, "work", "#445566")},
	})
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	if len(first.Inserted) != 2 || len(first.Updated) != 0 || len(first.Deleted) != 0 {
		t.Fatalf("first Reconcile result: %+v", first)
	}

	again := []domainagg.ActCategoryItem{
		categoryItem(&first.Inserted[0], "sleep", "#112233"),
		categoryItem(&first.Inserted[1], "work", "#445566"),
	}
	second, err := h.categories.Reconcile(h.ctx, domainagg.ReconcileActCategoriesInput{UserID: userID, Items: again})
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if len(second.Inserted) != 0 || len(second.Deleted) != 0 || len(second.Updated) != 2 {
		t.Fatalf("second Reconcile result: %+v", second)
	}

	rows, err := h.categoryRepo.ListByUser(h.dbc(), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("live categories: want=2 got=%d", len(rows))
	}
	if failed := h.hooks.Failed(); len(failed) != 0 {
		t.Fatalf("unexpected failed writes: %v", failed)
	}
}

func TestActCategoryReconcileRemovesAndRenames(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	keep := testutil.SeedCategory(t, h.ctx, h.db, userID, "read", "#101010")
	drop := testutil.SeedCategory(t, h.ctx, h.db, userID, "games", "#202020")

	res, err := h.categories.Reconcile(h.ctx, domainagg.ReconcileActCategoriesInput{
		UserID: userID,
		Items: []domainagg.ActCategoryItem{
			categoryItem(&keep.ID, "study", "#101010"),
			categoryItem(nil, "walk", "#202020"),
		},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(res.Deleted) != 1 || res.Deleted[0] != drop.ID {
		t.Fatalf("deleted: %+v", res.Deleted)
	}

	rows, err := h.categoryRepo.ListByUser(h.dbc(), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	got := map[string]string{}
	for _, row := range rows {
		got[row.Activity] = row.HexColorCode
	}
	if len(got) != 2 || got["study"] != "#101010" || got["walk"] != "#202020" {
		t.Fatalf("live categories: %+v", got)
	}
}

func TestActCategoryReconcileBlocksReferencedCategory(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	used := testutil.SeedCategory(t, h.ctx, h.db, userID, "sleep", "#000001")
	free := testutil.SeedCategory(t, h.ctx, h.db, userID, "work", "#000002")
	testutil.SeedSchedule(t, h.ctx, h.db, userID, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "00:00", "06:00", &used.ID)

	_, err := h.categories.Reconcile(h.ctx, domainagg.ReconcileActCategoriesInput{
		UserID: userID,
		Items:  []domainagg.ActCategoryItem{categoryItem(&free.ID, "work", "#000002"), categoryItem(nil, "new", "#000003")},
	})
	if !domainagg.IsCode(err, domainagg.CodeInUse) {
		t.Fatalf("expected in_use, got %q (%v)", domainagg.CodeOf(err), err)
	}
	if !errors.Is(err, planner.ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse in chain: %v", err)
	}
	if got := h.hooks.Rejections(domainagg.CodeInUse); len(got) != 1 || got[0] != "Planner.ActCategory.Reconcile" {
		t.Fatalf("in_use hook: got=%v", got)
	}
	if !h.categories.Contract().Expects(domainagg.CodeOf(err)) {
		t.Fatalf("code %s outside the category contract", domainagg.CodeOf(err))
	}

	rows, err := h.categoryRepo.ListByUser(h.dbc(), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("failed reconcile must not change rows: got=%d", len(rows))
	}
}

func TestActCategoryReconcileRejectsForeignIDAndRollsBack(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	otherID := h.seedUser(t)
	foreign := testutil.SeedCategory(t, h.ctx, h.db, otherID, "gym", "#ABCDEF")

	_, err := h.categories.Reconcile(h.ctx, domainagg.ReconcileActCategoriesInput{
		UserID: userID,
		Items:  []domainagg.ActCategoryItem{categoryItem(nil, "mine", "#000010"), categoryItem(&foreign.ID, "stolen", "#000011")},
	})
	if !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("expected forbidden, got %q (%v)", domainagg.CodeOf(err), err)
	}

	mine, err := h.categoryRepo.ListByUser(h.dbc(), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("insert before the failing item must roll back, got %d rows", len(mine))
	}
	theirs, err := h.categoryRepo.ListByUser(h.dbc(), otherID)
	if err != nil {
		t.Fatalf("ListByUser(other): %v", err)
	}
	if len(theirs) != 1 || theirs[0].Activity != "gym" {
		t.Fatalf("foreign row changed: %+v", theirs)
	}
}

func TestActCategoryReconcileValidatesBeforeTransaction(t *testing.T) {
	runner := &aggtestutil.FaultyTxRunner{}
	h := newPlannerHarness(t, nil, runner)
	userID := h.seedUser(t)

	cases := []struct {
		name  string
		items []domainagg.ActCategoryItem
		want  error
	}{
		{name: "empty", items: nil, want: planner.ErrEmptyPayload},
		{name: "missing activity", items: []domainagg.ActCategoryItem{categoryItem(nil, "", "#000001")}, want: planner.ErrMissingField},
		{name: "bad hex", items: []domainagg.ActCategoryItem{categoryItem(nil, "x", "red")}, want: planner.ErrInvalidField},
		{
			name:  "duplicate color",
			items: []domainagg.ActCategoryItem{categoryItem(nil, "a", "#abcdef"), categoryItem(nil, "b", "#ABCDEF")},
			want:  planner.ErrDuplicateColor,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.categories.Reconcile(h.ctx, domainagg.ReconcileActCategoriesInput{UserID: userID, Items: tc.items})
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("expected validation, got %q (%v)", domainagg.CodeOf(err), err)
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v in chain, got %v", tc.want, err)
			}
		})
	}
	if evts := runner.Events(); len(evts) != 0 {
		t.Fatalf("validation failures must not open a transaction: %v", evts)
	}
}

func TestActCategoryReconcileCommitFailureRollsBack(t *testing.T) {
	db := testutil.DB(t)
	runner := &aggtestutil.FaultyTxRunner{Inner: aggregates.NewGormTxRunner(db), LoseCommit: errors.New("commit lost")}
	h := newPlannerHarness(t, db, runner)
	userID := h.seedUser(t)

	_, err := h.categories.Reconcile(h.ctx, domainagg.ReconcileActCategoriesInput{
		UserID: userID,
		Items:  []domainagg.ActCategoryItem{categoryItem(nil, "sleep", "#123123")},
	})
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal, got %q (%v)", domainagg.CodeOf(err), err)
	}
	if evts := runner.Events(); len(evts) != 1 || evts[0] != aggtestutil.TxRolledBack {
		t.Fatalf("transaction outcomes: want=[rolled_back] got=%v", evts)
	}
	rows, err := h.categoryRepo.ListByUser(h.dbc(), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rolled back insert is visible: %+v", rows)
	}
}

func scheduleItem(id *uuid.UUID, start, end string, categoryID uuid.UUID) domainagg.ScheduleItem {
	return domainagg.ScheduleItem{ID: id, StartTime: start, EndTime: end, ActCategoryID: &categoryID}
}

func TestScheduleReconcileReplacesOneDay(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	sleep := testutil.SeedCategory(t, h.ctx, h.db, userID, "sleep", "#010101")
	work := testutil.SeedCategory(t, h.ctx, h.db, userID, "work", "#020202")
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	old := testutil.SeedSchedule(t, h.ctx, h.db, userID, day, "07:00", "08:00", &work.ID)
	other := testutil.SeedSchedule(t, h.ctx, h.db, userID, nextDay, "07:00", "08:00", &work.ID)

	res, err := h.schedules.Reconcile(h.ctx, domainagg.ReconcileSchedulesInput{
		UserID:     userID,
		TargetDate: day,
		Items: []domainagg.ScheduleItem{
			scheduleItem(nil, "00:00", "06:00", sleep.ID),
			scheduleItem(nil, "06:00", "09:00:00", work.ID),
		},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(res.Deleted) != 1 || res.Deleted[0] != old.ID || len(res.Inserted) != 2 {
		t.Fatalf("Reconcile result: %+v", res)
	}

	rows, err := h.scheduleRepo.ListByUserAndDate(h.dbc(), userID, day)
	if err != nil {
		t.Fatalf("ListByUserAndDate: %v", err)
	}
	if len(rows) != 2 || rows[0].StartTime != "00:00" || rows[1].EndTime != "09:00" {
		t.Fatalf("day schedules: %+v", rows)
	}
	untouched, err := h.scheduleRepo.ListByUserAndDate(h.dbc(), userID, nextDay)
	if err != nil {
		t.Fatalf("ListByUserAndDate(next): %v", err)
	}
	if len(untouched) != 1 || untouched[0].ID != other.ID {
		t.Fatalf("other day changed: %+v", untouched)
	}
}

func TestScheduleReconcileRejectsOverlapAndForeignCategory(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	otherID := h.seedUser(t)
	mine := testutil.SeedCategory(t, h.ctx, h.db, userID, "sleep", "#030303")
	theirs := testutil.SeedCategory(t, h.ctx, h.db, otherID, "sleep", "#030303")
	day := time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)

	_, err := h.schedules.Reconcile(h.ctx, domainagg.ReconcileSchedulesInput{
		UserID:     userID,
		TargetDate: day,
		Items: []domainagg.ScheduleItem{
			scheduleItem(nil, "08:00", "10:00", mine.ID),
			scheduleItem(nil, "09:00", "11:00", mine.ID),
		},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) || !errors.Is(err, planner.ErrTimeOverlap) {
		t.Fatalf("expected overlap validation, got %q (%v)", domainagg.CodeOf(err), err)
	}

	_, err = h.schedules.Reconcile(h.ctx, domainagg.ReconcileSchedulesInput{
		UserID:     userID,
		TargetDate: day,
		Items: []domainagg.ScheduleItem{
			scheduleItem(nil, "08:00", "10:00", mine.ID),
			scheduleItem(nil, "10:00", "11:00", theirs.ID),
		},
	})
	if !domainagg.IsCode(err, domainagg.CodeForbidden) || !errors.Is(err, planner.ErrNotOwned) {
		t.Fatalf("expected forbidden, got %q (%v)", domainagg.CodeOf(err), err)
	}

	rows, err := h.scheduleRepo.ListByUserAndDate(h.dbc(), userID, day)
	if err != nil {
		t.Fatalf("ListByUserAndDate: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rejected payloads must not persist rows: %+v", rows)
	}
}

func TestScheduleReconcileRejectsIDFromAnotherDay(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	cat := testutil.SeedCategory(t, h.ctx, h.db, userID, "read", "#050505")
	day := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	tomorrow := testutil.SeedSchedule(t, h.ctx, h.db, userID, nextDay, "20:00", "21:00", &cat.ID)

	_, err := h.schedules.Reconcile(h.ctx, domainagg.ReconcileSchedulesInput{
		UserID:     userID,
		TargetDate: day,
		Items:      []domainagg.ScheduleItem{scheduleItem(&tomorrow.ID, "07:00", "08:00", cat.ID)},
	})
	if !domainagg.IsCode(err, domainagg.CodeForbidden) || !errors.Is(err, planner.ErrNotOwned) {
		t.Fatalf("expected forbidden, got %q (%v)", domainagg.CodeOf(err), err)
	}

	rows, err := h.scheduleRepo.ListByUserAndDate(h.dbc(), userID, nextDay)
	if err != nil {
		t.Fatalf("ListByUserAndDate: %v", err)
	}
	if len(rows) != 1 || rows[0].StartTime != "20:00" || rows[0].EndTime != "21:00" {
		t.Fatalf("next day's schedule changed: %+v", rows)
	}
	if rows, _ := h.scheduleRepo.ListByUserAndDate(h.dbc(), userID, day); len(rows) != 0 {
		t.Fatalf("rejected payload persisted rows: %+v", rows)
	}
}

func TestScheduleReconcileRejectsInvalidSlots(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	categoryID := uuid.New()
	day := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	cases := map[string][]domainagg.ScheduleItem{
		"start after end": {scheduleItem(nil, "10:00", "09:00", categoryID)},
		"equal bounds":    {scheduleItem(nil, "10:00", "10:00", categoryID)},
		"past midnight":   {scheduleItem(nil, "23:00", "24:00", categoryID)},
		"garbage":         {scheduleItem(nil, "soon", "later", categoryID)},
		"no category":     {{StartTime: "01:00", EndTime: "02:00"}},
	}
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.schedules.Reconcile(h.ctx, domainagg.ReconcileSchedulesInput{UserID: userID, TargetDate: day, Items: items})
			if !domainagg.IsCode(err, domainagg.CodeValidation) {
				t.Fatalf("expected validation, got %q (%v)", domainagg.CodeOf(err), err)
			}
		})
	}
}

func unlinkedGoal(id *uuid.UUID, title string) domainagg.HabitGoalItem {
	return domainagg.HabitGoalItem{
		ID:              id,
		IsLinked:        pointers.Ptr(false),
		ColorName:       pointers.Ptr("teal"),
		HexColorCode:    pointers.Ptr("#008080"),
		Title:           pointers.Ptr(title),
		Detail:          title + " every day",
		DurationMinutes: pointers.Ptr(30),
	}
}

func linkedGoal(id *uuid.UUID, categoryID *uuid.UUID) domainagg.HabitGoalItem {
	return domainagg.HabitGoalItem{
		ID:              id,
		IsLinked:        pointers.Ptr(true),
		ActCategoryID:   categoryID,
		Detail:          "linked goal",
		DurationMinutes: pointers.Ptr(60),
	}
}

func TestHabitGoalReconcileLinkageRules(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	cat := testutil.SeedCategory(t, h.ctx, h.db, userID, "study", "#040404")

	_, err := h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{
		UserID: userID,
		Items:  []domainagg.HabitGoalItem{linkedGoal(nil, nil)},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("linked without category: expected validation, got %q (%v)", domainagg.CodeOf(err), err)
	}

	_, err = h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{
		UserID: userID,
		Items:  []domainagg.HabitGoalItem{linkedGoal(nil, &cat.ID), linkedGoal(nil, &cat.ID)},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) || !errors.Is(err, planner.ErrDuplicateLink) {
		t.Fatalf("duplicate link: expected validation, got %q (%v)", domainagg.CodeOf(err), err)
	}

	noTitle := unlinkedGoal(nil, "run")
	noTitle.Title = nil
	_, err = h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{UserID: userID, Items: []domainagg.HabitGoalItem{noTitle}})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("unlinked without title: expected validation, got %q (%v)", domainagg.CodeOf(err), err)
	}

	res, err := h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{
		UserID: userID,
		Items:  []domainagg.HabitGoalItem{linkedGoal(nil, &cat.ID), unlinkedGoal(nil, "run")},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(res.Inserted) != 2 {
		t.Fatalf("inserted: %+v", res)
	}

	// updates keep the persisted linkage whatever the payload says
	flip := unlinkedGoal(&res.Inserted[0], "ignored")
	flip.Detail = "updated detail"
	res2, err := h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{
		UserID: userID,
		Items:  []domainagg.HabitGoalItem{flip, unlinkedGoal(&res.Inserted[1], "sprint")},
	})
	if err != nil {
		t.Fatalf("update Reconcile: %v", err)
	}
	if len(res2.Updated) != 2 {
		t.Fatalf("updated: %+v", res2)
	}

	goals, err := h.goalRepo.GetByUserAndIDs(h.dbc(), userID, res.Inserted)
	if err != nil {
		t.Fatalf("GetByUserAndIDs: %v", err)
	}
	byID := map[uuid.UUID]string{}
	for _, g := range goals {
		byID[g.ID] = g.DisplayTitle()
		if g.ID == res.Inserted[0] {
			if !g.IsLinked || g.ActCategoryID == nil || *g.ActCategoryID != cat.ID || g.Title != nil {
				t.Fatalf("linked goal lost linkage: %+v", g)
			}
			if g.Detail != "updated detail" {
				t.Fatalf("linked goal detail: %q", g.Detail)
			}
		}
	}
	if byID[res.Inserted[0]] != "study" || byID[res.Inserted[1]] != "sprint" {
		t.Fatalf("display titles: %+v", byID)
	}
}

func TestHabitGoalReconcileRejectsLinkToAlreadyLinkedCategory(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	cat := testutil.SeedCategory(t, h.ctx, h.db, userID, "swim", "#060606")
	saved := testutil.SeedHabitGoal(t, h.ctx, h.db, userID, &cat.ID, "")

	_, err := h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{
		UserID: userID,
		Items:  []domainagg.HabitGoalItem{linkedGoal(&saved.ID, &cat.ID), linkedGoal(nil, &cat.ID)},
	})
	if !domainagg.IsCode(err, domainagg.CodeValidation) || !errors.Is(err, planner.ErrDuplicateLink) {
		t.Fatalf("expected duplicate link, got %q (%v)", domainagg.CodeOf(err), err)
	}

	goals, err := h.goalRepo.ListByUser(h.dbc(), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(goals) != 1 || goals[0].ID != saved.ID {
		t.Fatalf("rejected payload changed goals: %+v", goals)
	}
}

func TestHabitGoalReconcileBlocksGoalWithLogs(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	logged := testutil.SeedHabitGoal(t, h.ctx, h.db, userID, nil, "meditate")
	idle := testutil.SeedHabitGoal(t, h.ctx, h.db, userID, nil, "stretch")
	testutil.SeedHabitLog(t, h.ctx, h.db, userID, logged.ID, time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC))

	_, err := h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{
		UserID: userID,
		Items:  []domainagg.HabitGoalItem{unlinkedGoal(&idle.ID, "stretch")},
	})
	if !domainagg.IsCode(err, domainagg.CodeInUse) || !errors.Is(err, planner.ErrGoalInUse) {
		t.Fatalf("expected in_use, got %q (%v)", domainagg.CodeOf(err), err)
	}

	res, err := h.goals.Reconcile(h.ctx, domainagg.ReconcileHabitGoalsInput{
		UserID: userID,
		Items:  []domainagg.HabitGoalItem{unlinkedGoal(&logged.ID, "meditate")},
	})
	if err != nil {
		t.Fatalf("Reconcile without logged goal removal: %v", err)
	}
	if len(res.Deleted) != 1 || res.Deleted[0] != idle.ID {
		t.Fatalf("deleted: %+v", res.Deleted)
	}
}

func TestHabitGoalAppendLog(t *testing.T) {
	h := newPlannerHarness(t, nil, nil)
	userID := h.seedUser(t)
	otherID := h.seedUser(t)
	goal := testutil.SeedHabitGoal(t, h.ctx, h.db, userID, nil, "read")
	foreign := testutil.SeedHabitGoal(t, h.ctx, h.db, otherID, nil, "read")
	at := time.Date(2024, 6, 2, 21, 30, 0, 0, time.UTC)

	out, err := h.goals.AppendLog(h.ctx, domainagg.AppendHabitLogInput{
		UserID:        userID,
		HabitGoalID:   goal.ID,
		LogTime:       at,
		IsAchieved:    true,
		ExecutionTime: 1800,
	})
	if err != nil {
		t.Fatalf("AppendLog: %v", err)
	}
	if out.HabitLogID == uuid.Nil {
		t.Fatalf("AppendLog: missing log id")
	}

	_, err = h.goals.AppendLog(h.ctx, domainagg.AppendHabitLogInput{UserID: userID, HabitGoalID: foreign.ID, LogTime: at})
	if !domainagg.IsCode(err, domainagg.CodeForbidden) {
		t.Fatalf("foreign goal: expected forbidden, got %q (%v)", domainagg.CodeOf(err), err)
	}
	_, err = h.goals.AppendLog(h.ctx, domainagg.AppendHabitLogInput{UserID: userID, HabitGoalID: goal.ID, LogTime: at, ExecutionTime: 86400})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("execution time: expected validation, got %q (%v)", domainagg.CodeOf(err), err)
	}

	counts, err := h.logRepo.CountByGoalIDs(h.dbc(), []uuid.UUID{goal.ID, foreign.ID})
	if err != nil {
		t.Fatalf("CountByGoalIDs: %v", err)
	}
	if counts[goal.ID] != 1 || counts[foreign.ID] != 0 {
		t.Fatalf("log counts: %+v", counts)
	}
}
