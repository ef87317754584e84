package handlers

import (
	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/http/response"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
	"github.com/yungbote/dayplanner-backend/internal/services"
)

type CategoryHandler struct {
	log             *logger.Logger
	categoryService services.CategoryService
}

func NewCategoryHandler(log *logger.Logger, categoryService services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		log:             log.With("handler", "CategoryHandler"),
		categoryService: categoryService,
	}
}

type categoryRequest struct {
	ID            *string `json:"id"`
	Activity      string  `json:"activity"`
	ColorName     string  `json:"color_name"`
	HexColorCode  string  `json:"hex_color_code"`
	TextColorCode string  `json:"text_color_code"`
}

// GET /categories/getAllData
func (h *CategoryHandler) GetAllData(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	views, err := h.categoryService.ListWithDeletability(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, h.log, err, response.Payload{"categories": []services.CategoryView{}})
		return
	}
	response.RespondOK(c, response.Payload{"categories": views})
}

// POST /categories/upsert
// body: [{ "id"?, "activity", "color_name", "hex_color_code", "text_color_code" }]
func (h *CategoryHandler) Upsert(c *gin.Context) {
	const op = "CategoryHandler.Upsert"
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req []categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, h.log, badRequest(op, err), nil)
		return
	}
	items := make([]domainagg.ActCategoryItem, 0, len(req))
	for i, r := range req {
		id, err := parseOptionalID(op, i, "id", r.ID)
		if err != nil {
			response.RespondError(c, h.log, err, nil)
			return
		}
		items = append(items, domainagg.ActCategoryItem{
			ID:            id,
			Activity:      r.Activity,
			ColorName:     r.ColorName,
			HexColorCode:  r.HexColorCode,
			TextColorCode: r.TextColorCode,
		})
	}
	if _, err := h.categoryService.Upsert(c.Request.Context(), userID, items); err != nil {
		response.RespondError(c, h.log, err, nil)
		return
	}
	response.RespondOK(c, nil, response.Success("Saved", "Categories saved."))
}
