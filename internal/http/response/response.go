package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

const (
	StatusOK = "ok"
	StatusNG = "ng"

	SeveritySuccess = "success"
	SeverityError   = "error"

	// MessageLife is how long the client keeps a toast on screen, in ms.
	MessageLife = 5000

	genericDetail = "An unexpected error occurred. Please try again later."
)

// Message is one toast entry of msgArray.
type Message struct {
	Severity string `json:"severity"`
	Summary  string `json:"summary"`
	Detail   string `json:"detail"`
	Life     int    `json:"life"`
}

// Payload holds the keys merged next to status and msgArray.
type Payload map[string]any

func Success(summary, detail string) Message {
	return Message{Severity: SeveritySuccess, Summary: summary, Detail: detail, Life: MessageLife}
}

func Failure(summary, detail string) Message {
	return Message{Severity: SeverityError, Summary: summary, Detail: detail, Life: MessageLife}
}

func envelope(status string, payload Payload, msgs []Message) gin.H {
	if msgs == nil {
		msgs = []Message{}
	}
	body := gin.H{}
	for k, v := range payload {
		body[k] = v
	}
	body["status"] = status
	body["msgArray"] = msgs
	return body
}

func RespondOK(c *gin.Context, payload Payload, msgs ...Message) {
	c.JSON(http.StatusOK, envelope(StatusOK, payload, msgs))
}

func RespondNG(c *gin.Context, status int, payload Payload, msgs ...Message) {
	c.JSON(status, envelope(StatusNG, payload, msgs))
}

// AbortNG is RespondNG for middleware that must stop the chain.
func AbortNG(c *gin.Context, status int, msgs ...Message) {
	c.AbortWithStatusJSON(status, envelope(StatusNG, nil, msgs))
}

// RespondError writes err with its mapped status. Server-side failures are
// logged and the client only sees a generic detail.
func RespondError(c *gin.Context, log *logger.Logger, err error, payload Payload) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError && log != nil {
		fields := []interface{}{
			"route", c.FullPath(),
			"code", string(domainagg.CodeOf(err)),
			"error", err,
		}
		if c.Request != nil {
			fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
		}
		log.Error("request failed", fields...)
	}
	RespondNG(c, status, payload, MessageFor(err))
}

func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation,
		domainagg.CodeInUse,
		domainagg.CodeConflict,
		domainagg.CodeInvariantViolation,
		domainagg.CodePreconditionFailed:
		return http.StatusUnprocessableEntity
	case domainagg.CodeForbidden, domainagg.CodeNotFound:
		return http.StatusForbidden
	case domainagg.CodeUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func MessageFor(err error) Message {
	switch StatusFor(err) {
	case http.StatusUnprocessableEntity:
		return Failure("Input error", detailFor(err))
	case http.StatusForbidden:
		return Failure("Permission error", detailFor(err))
	case http.StatusUnauthorized:
		return Failure("Authentication error", detailFor(err))
	default:
		return Failure("Server error", genericDetail)
	}
}

var knownCauses = []error{
	planner.ErrNoCategories,
	planner.ErrEmptyPayload,
	planner.ErrTimeOverlap,
	planner.ErrDuplicateLink,
	planner.ErrDuplicateColor,
	planner.ErrCategoryInUse,
	planner.ErrGoalInUse,
	planner.ErrNotOwned,
}

// detailFor picks the most specific client-safe text on the chain.
func detailFor(err error) string {
	var fe *planner.FieldError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	var aggErr *domainagg.Error
	hasAgg := errors.As(err, &aggErr)
	for _, known := range knownCauses {
		if errors.Is(err, known) {
			if known == planner.ErrNoCategories && hasAgg && aggErr.Message != "" {
				return aggErr.Message
			}
			return known.Error()
		}
	}
	if hasAgg && aggErr.Message != "" {
		lines := strings.Split(aggErr.Message, "\n")
		return strings.TrimSpace(lines[len(lines)-1])
	}
	return http.StatusText(StatusFor(err))
}
