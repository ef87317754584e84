package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/http/response"
	"github.com/yungbote/dayplanner-backend/internal/platform/ctxutil"
)

// requireUser returns the authenticated user id or writes a 401.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondNG(c, http.StatusUnauthorized, nil, response.Failure("Authentication error", "not authenticated"))
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func badRequest(op string, err error) error {
	return domainagg.NewError(domainagg.CodeValidation, op, "malformed request body", err)
}

func fieldInvalid(op string, index int, field, reason string) error {
	fe := &planner.FieldError{Index: index, Field: field, Reason: reason, Err: planner.ErrInvalidField}
	return domainagg.NewError(domainagg.CodeValidation, op, fe.Error(), fe)
}

func fieldMissing(op string, index int, field string) error {
	fe := &planner.FieldError{Index: index, Field: field, Reason: "is required", Err: planner.ErrMissingField}
	return domainagg.NewError(domainagg.CodeValidation, op, fe.Error(), fe)
}

// parseOptionalID treats null and "" as absent.
func parseOptionalID(op string, index int, field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, fieldInvalid(op, index, field, "must be a uuid")
	}
	return &id, nil
}

func parseRequiredDate(op string, index int, field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, fieldMissing(op, index, field)
	}
	d, err := planner.ParseDate(raw)
	if err != nil {
		return time.Time{}, fieldInvalid(op, index, field, "must be YYYY-MM-DD")
	}
	return d, nil
}
