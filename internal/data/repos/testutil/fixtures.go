package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, activity, hex string) *types.ActCategory {
	tb.Helper()
	c := &types.ActCategory{
		ID:            uuid.New(),
		UserID:        userID,
		Activity:      activity,
		ColorName:     "color-" + activity,
		HexColorCode:  hex,
		TextColorCode: "#FFFFFF",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedSchedule(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time, start, end string, categoryID *uuid.UUID) *types.Schedule {
	tb.Helper()
	y, m, d := date.Date()
	s := &types.Schedule{
		ID:            uuid.New(),
		UserID:        userID,
		TargetDate:    datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)),
		StartTime:     start,
		EndTime:       end,
		ActCategoryID: categoryID,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed schedule: %v", err)
	}
	return s
}

// SeedHabitGoal creates a linked goal when categoryID is set, otherwise an
// unlinked goal titled title.
func SeedHabitGoal(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, categoryID *uuid.UUID, title string) *types.HabitGoal {
	tb.Helper()
	g := &types.HabitGoal{
		ID:              uuid.New(),
		UserID:          userID,
		IsLinked:        categoryID != nil,
		ActCategoryID:   categoryID,
		Detail:          "detail",
		DurationMinutes: 30,
	}
	if categoryID == nil {
		color, hex := "gray", "#9E9E9E"
		g.Title = &title
		g.ColorName = &color
		g.HexColorCode = &hex
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed habit goal: %v", err)
	}
	return g
}

func SeedHabitLog(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, goalID uuid.UUID, at time.Time) *types.HabitLog {
	tb.Helper()
	l := &types.HabitLog{
		ID:            uuid.New(),
		UserID:        userID,
		HabitGoalID:   goalID,
		LogTime:       at.UTC(),
		IsAchieved:    true,
		ExecutionTime: 600,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed habit log: %v", err)
	}
	return l
}
