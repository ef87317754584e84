package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/http/response"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
	"github.com/yungbote/dayplanner-backend/internal/services"
)

type HabitHandler struct {
	log          *logger.Logger
	habitService services.HabitService
}

func NewHabitHandler(log *logger.Logger, habitService services.HabitService) *HabitHandler {
	return &HabitHandler{
		log:          log.With("handler", "HabitHandler"),
		habitService: habitService,
	}
}

type habitGoalRequest struct {
	ID              *string `json:"id"`
	IsLinked        *bool   `json:"is_linked"`
	ActCategoryID   *string `json:"act_category_id"`
	ColorName       *string `json:"color_name"`
	HexColorCode    *string `json:"hex_color_code"`
	Title           *string `json:"title"`
	Detail          string  `json:"detail"`
	DurationMinutes *int    `json:"duration_minutes"`
}

type habitLogRequest struct {
	HabitGoalID   string `json:"habit_goal_id"`
	LogTime       string `json:"log_time"`
	IsAchieved    bool   `json:"is_achieved"`
	ExecutionTime *int   `json:"execution_time"`
}

// GET /habit/goal/init
func (h *HabitHandler) GoalInit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	board, err := h.habitService.GoalInit(c.Request.Context(), userID)
	payload := response.Payload{
		"actCategories": orEmpty(board.ActCategories),
		"habitGoals":    orEmpty(board.HabitGoals),
	}
	if err != nil {
		response.RespondError(c, h.log, err, payload)
		return
	}
	response.RespondOK(c, payload)
}

// POST /habit/goal/upsert
// body: [{ "id"?, "is_linked", "act_category_id"?, "color_name"?, "hex_color_code"?, "title"?, "detail", "duration_minutes" }]
func (h *HabitHandler) GoalUpsert(c *gin.Context) {
	const op = "HabitHandler.GoalUpsert"
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	empty := response.Payload{"habitGoals": []services.HabitGoalView{}}
	var req []habitGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, h.log, badRequest(op, err), empty)
		return
	}
	items := make([]domainagg.HabitGoalItem, 0, len(req))
	for i, r := range req {
		id, err := parseOptionalID(op, i, "id", r.ID)
		if err != nil {
			response.RespondError(c, h.log, err, empty)
			return
		}
		categoryID, err := parseOptionalID(op, i, "act_category_id", r.ActCategoryID)
		if err != nil {
			response.RespondError(c, h.log, err, empty)
			return
		}
		items = append(items, domainagg.HabitGoalItem{
			ID:              id,
			IsLinked:        r.IsLinked,
			ActCategoryID:   categoryID,
			ColorName:       r.ColorName,
			HexColorCode:    r.HexColorCode,
			Title:           r.Title,
			Detail:          r.Detail,
			DurationMinutes: r.DurationMinutes,
		})
	}
	goals, err := h.habitService.UpsertGoals(c.Request.Context(), userID, items)
	if err != nil {
		response.RespondError(c, h.log, err, empty)
		return
	}
	response.RespondOK(c, response.Payload{"habitGoals": goals}, response.Success("Saved", "Habit goals saved."))
}

// GET /habit/log/init
func (h *HabitHandler) LogInit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	dash, err := h.habitService.Dashboard(c.Request.Context(), userID)
	payload := response.Payload{
		"actCategories": orEmpty(dash.ActCategories),
		"habitGoals":    orEmpty(dash.HabitGoals),
		"habits":        orEmpty(dash.Habits),
	}
	if err != nil {
		response.RespondError(c, h.log, err, payload)
		return
	}
	response.RespondOK(c, payload)
}

// POST /habit/log/store
// body: { "habit_goal_id", "log_time", "is_achieved", "execution_time" }
func (h *HabitHandler) LogStore(c *gin.Context) {
	const op = "HabitHandler.LogStore"
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req habitLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, h.log, badRequest(op, err), nil)
		return
	}
	if strings.TrimSpace(req.HabitGoalID) == "" {
		response.RespondError(c, h.log, fieldMissing(op, -1, "habit_goal_id"), nil)
		return
	}
	goalID, err := uuid.Parse(strings.TrimSpace(req.HabitGoalID))
	if err != nil {
		response.RespondError(c, h.log, fieldInvalid(op, -1, "habit_goal_id", "must be a uuid"), nil)
		return
	}
	if strings.TrimSpace(req.LogTime) == "" {
		response.RespondError(c, h.log, fieldMissing(op, -1, "log_time"), nil)
		return
	}
	logTime, err := planner.ParseLogTime(req.LogTime)
	if err != nil {
		response.RespondError(c, h.log, fieldInvalid(op, -1, "log_time", "must be RFC3339 or YYYY-MM-DD HH:MM[:SS]"), nil)
		return
	}
	if req.ExecutionTime == nil {
		response.RespondError(c, h.log, fieldMissing(op, -1, "execution_time"), nil)
		return
	}

	stored, err := h.habitService.StoreLog(c.Request.Context(), domainagg.AppendHabitLogInput{
		UserID:        userID,
		HabitGoalID:   goalID,
		LogTime:       logTime,
		IsAchieved:    req.IsAchieved,
		ExecutionTime: *req.ExecutionTime,
	})
	if err != nil {
		response.RespondError(c, h.log, err, nil)
		return
	}
	response.RespondOK(c, response.Payload{"habitLogs": stored}, response.Success("Saved", "Habit log recorded."))
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
