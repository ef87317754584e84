package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/pkg/pointers"
)

type ActCategory struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Activity      string    `gorm:"size:30;not null;column:activity" json:"activity"`
	ColorName     string    `gorm:"size:30;not null;column:color_name" json:"color_name"`
	HexColorCode  string    `gorm:"size:10;not null;column:hex_color_code" json:"hex_color_code"`
	TextColorCode string    `gorm:"size:10;not null;column:text_color_code" json:"text_color_code"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ActCategory) TableName() string { return "act_category" }

func (c *ActCategory) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Schedule struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_schedule_user_date,priority:1" json:"user_id"`
	TargetDate    datatypes.Date `gorm:"type:date;not null;index:idx_schedule_user_date,priority:2" json:"target_date"`
	StartTime     string         `gorm:"size:5;not null;column:start_time" json:"start_time"`
	EndTime       string         `gorm:"size:5;not null;column:end_time" json:"end_time"`
	ActCategoryID *uuid.UUID     `gorm:"type:uuid;index" json:"act_category_id"`
	ActCategory   *ActCategory   `gorm:"foreignKey:ActCategoryID;references:ID;constraint:OnDelete:SET NULL" json:"act_category,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Schedule) TableName() string { return "schedule" }

func (s *Schedule) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// HabitGoal is either linked to a category (display fields come from the
// category) or free-standing with its own color and title.
type HabitGoal struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	IsLinked        bool         `gorm:"not null;default:false;column:is_linked" json:"is_linked"`
	ActCategoryID   *uuid.UUID   `gorm:"type:uuid;index" json:"act_category_id"`
	ActCategory     *ActCategory `gorm:"foreignKey:ActCategoryID;references:ID;constraint:OnDelete:SET NULL" json:"act_category,omitempty"`
	ColorName       *string      `gorm:"size:30;column:color_name" json:"color_name"`
	HexColorCode    *string      `gorm:"size:10;column:hex_color_code" json:"hex_color_code"`
	Title           *string      `gorm:"size:30;column:title" json:"title"`
	Detail          string       `gorm:"type:text;not null;column:detail" json:"detail"`
	DurationMinutes int          `gorm:"not null;default:0;column:duration_minutes" json:"duration_minutes"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (HabitGoal) TableName() string { return "habit_goal" }

func (g *HabitGoal) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// DisplayTitle resolves the title shown for the goal.
func (g *HabitGoal) DisplayTitle() string {
	if g == nil {
		return ""
	}
	if g.IsLinked {
		if g.ActCategory != nil {
			return g.ActCategory.Activity
		}
		return ""
	}
	return pointers.Deref(g.Title, "")
}

func (g *HabitGoal) DisplayHexColor() string {
	if g == nil {
		return ""
	}
	if g.IsLinked {
		if g.ActCategory != nil {
			return g.ActCategory.HexColorCode
		}
		return ""
	}
	return pointers.Deref(g.HexColorCode, "")
}

type HabitLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	HabitGoalID   uuid.UUID `gorm:"type:uuid;not null;index" json:"habit_goal_id"`
	LogTime       time.Time `gorm:"not null;column:log_time" json:"log_time"`
	IsAchieved    bool      `gorm:"not null;default:false;column:is_achieved" json:"is_achieved"`
	ExecutionTime int       `gorm:"not null;default:0;column:execution_time" json:"execution_time"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (HabitLog) TableName() string { return "habit_log" }

func (l *HabitLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
