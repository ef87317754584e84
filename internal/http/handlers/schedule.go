package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/http/response"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
	"github.com/yungbote/dayplanner-backend/internal/services"
)

type ScheduleHandler struct {
	log             *logger.Logger
	scheduleService services.ScheduleService
	chartRenderer   services.ChartRenderer
}

func NewScheduleHandler(log *logger.Logger, scheduleService services.ScheduleService, chartRenderer services.ChartRenderer) *ScheduleHandler {
	return &ScheduleHandler{
		log:             log.With("handler", "ScheduleHandler"),
		scheduleService: scheduleService,
		chartRenderer:   chartRenderer,
	}
}

type scheduleInitRequest struct {
	TargetDate string `json:"targetDate"`
	IsInit     bool   `json:"isInit"`
}

type scheduleRequest struct {
	ID            *string `json:"id"`
	TargetDate    string  `json:"target_date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	ActCategoryID *string `json:"act_category_id"`
}

// POST /schedules/init
// body: { "targetDate": "YYYY-MM-DD", "isInit": bool }
func (h *ScheduleHandler) Init(c *gin.Context) {
	const op = "ScheduleHandler.Init"
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req scheduleInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, h.log, badRequest(op, err), initPayload(req.IsInit, nil))
		return
	}
	date, err := parseRequiredDate(op, -1, "targetDate", req.TargetDate)
	if err != nil {
		response.RespondError(c, h.log, err, initPayload(req.IsInit, nil))
		return
	}
	day, err := h.scheduleService.Init(c.Request.Context(), userID, date, req.IsInit)
	if err != nil {
		response.RespondError(c, h.log, err, initPayload(req.IsInit, &day))
		return
	}
	response.RespondOK(c, initPayload(req.IsInit, &day))
}

func initPayload(isInit bool, day *services.ScheduleDay) response.Payload {
	out := response.Payload{"schedules": []services.ScheduleView{}}
	if isInit {
		out["actCategories"] = []*types.ActCategory{}
	}
	if day == nil {
		return out
	}
	if day.Schedules != nil {
		out["schedules"] = day.Schedules
	}
	if isInit && day.ActCategories != nil {
		out["actCategories"] = day.ActCategories
	}
	return out
}

// POST /schedules/upsert
// body: [{ "id"?, "target_date", "start_time", "end_time", "act_category_id" }]
func (h *ScheduleHandler) Upsert(c *gin.Context) {
	const op = "ScheduleHandler.Upsert"
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req []scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, h.log, badRequest(op, err), nil)
		return
	}
	if len(req) == 0 {
		response.RespondError(c, h.log, domainagg.NewError(domainagg.CodeValidation, op, planner.ErrEmptyPayload.Error(), planner.ErrEmptyPayload), nil)
		return
	}

	// Every item belongs to the day named by the first one.
	date, err := parseRequiredDate(op, 0, "target_date", req[0].TargetDate)
	if err != nil {
		response.RespondError(c, h.log, err, nil)
		return
	}
	items := make([]domainagg.ScheduleItem, 0, len(req))
	for i, r := range req {
		if i > 0 && r.TargetDate != "" {
			d, err := parseRequiredDate(op, i, "target_date", r.TargetDate)
			if err != nil {
				response.RespondError(c, h.log, err, nil)
				return
			}
			if !d.Equal(date) {
				response.RespondError(c, h.log, fieldInvalid(op, i, "target_date", "must match the first item's date"), nil)
				return
			}
		}
		id, err := parseOptionalID(op, i, "id", r.ID)
		if err != nil {
			response.RespondError(c, h.log, err, nil)
			return
		}
		categoryID, err := parseOptionalID(op, i, "act_category_id", r.ActCategoryID)
		if err != nil {
			response.RespondError(c, h.log, err, nil)
			return
		}
		items = append(items, domainagg.ScheduleItem{
			ID:            id,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			ActCategoryID: categoryID,
		})
	}
	if _, err := h.scheduleService.Upsert(c.Request.Context(), userID, date, items); err != nil {
		response.RespondError(c, h.log, err, nil)
		return
	}
	response.RespondOK(c, nil, response.Success("Saved", "Schedules saved."))
}

// GET /schedules/chart?targetDate=YYYY-MM-DD
func (h *ScheduleHandler) Chart(c *gin.Context) {
	const op = "ScheduleHandler.Chart"
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	date, err := parseRequiredDate(op, -1, "targetDate", c.Query("targetDate"))
	if err != nil {
		response.RespondError(c, h.log, err, response.Payload{"chart": planner.FormatDayChart(nil)})
		return
	}
	chart, err := h.scheduleService.DayChart(c.Request.Context(), userID, date)
	if err != nil {
		response.RespondError(c, h.log, err, response.Payload{"chart": chart})
		return
	}
	response.RespondOK(c, response.Payload{"chart": chart})
}

// GET /schedules/chart.png?targetDate=YYYY-MM-DD
func (h *ScheduleHandler) ChartPNG(c *gin.Context) {
	const op = "ScheduleHandler.ChartPNG"
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	date, err := parseRequiredDate(op, -1, "targetDate", c.Query("targetDate"))
	if err != nil {
		response.RespondError(c, h.log, err, nil)
		return
	}
	chart, err := h.scheduleService.DayChart(c.Request.Context(), userID, date)
	if err != nil {
		response.RespondError(c, h.log, err, nil)
		return
	}
	raw, err := h.chartRenderer.RenderPNG(chart, planner.FormatDate(date))
	if err != nil {
		response.RespondError(c, h.log, domainagg.NewError(domainagg.CodeInternal, op, "render chart", err), nil)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", raw)
}
