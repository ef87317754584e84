package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		code domainagg.ErrorCode
		want int
	}{
		{domainagg.CodeValidation, http.StatusUnprocessableEntity},
		{domainagg.CodeInUse, http.StatusUnprocessableEntity},
		{domainagg.CodeConflict, http.StatusUnprocessableEntity},
		{domainagg.CodeForbidden, http.StatusForbidden},
		{domainagg.CodeNotFound, http.StatusForbidden},
		{domainagg.CodeUnauthorized, http.StatusUnauthorized},
		{domainagg.CodeRetryable, http.StatusInternalServerError},
		{domainagg.CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := domainagg.NewError(tc.code, "op", "msg", nil)
		if got := StatusFor(err); got != tc.want {
			t.Fatalf("StatusFor(%s): want=%d got=%d", tc.code, tc.want, got)
		}
	}
	if got := StatusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("StatusFor(plain): want=500 got=%d", got)
	}
}

func TestMessageForPrefersFieldError(t *testing.T) {
	fe := &planner.FieldError{Index: 1, Field: "start_time", Reason: "overlaps item 0", Err: planner.ErrTimeOverlap}
	err := domainagg.Wrap(domainagg.CodeValidation, "Planner.Schedule.Reconcile", errors.Join(errors.New("aggregate validation"), fe))
	msg := MessageFor(err)
	if msg.Severity != SeverityError || msg.Life != MessageLife {
		t.Fatalf("message shape: %+v", msg)
	}
	if msg.Detail != fe.Error() {
		t.Fatalf("detail: want=%q got=%q", fe.Error(), msg.Detail)
	}
}

func TestMessageForSentinelsAndInternal(t *testing.T) {
	inUse := domainagg.Wrap(domainagg.CodeInUse, "op", fmt.Errorf("abc: %w", planner.ErrCategoryInUse))
	if got := MessageFor(inUse).Detail; got != planner.ErrCategoryInUse.Error() {
		t.Fatalf("in-use detail: got=%q", got)
	}
	noCats := domainagg.NewError(domainagg.CodeValidation, "op", "register categories first", planner.ErrNoCategories)
	if got := MessageFor(noCats).Detail; got != "register categories first" {
		t.Fatalf("no-categories detail: got=%q", got)
	}
	internal := domainagg.NewError(domainagg.CodeInternal, "op", "load", errors.New("pq: secret table name"))
	msg := MessageFor(internal)
	if msg.Detail != genericDetail || msg.Summary != "Server error" {
		t.Fatalf("internal message leaks cause: %+v", msg)
	}
}

func TestRespondErrorWritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	err := domainagg.NewError(domainagg.CodeForbidden, "op", "", planner.ErrNotOwned)
	RespondError(c, logger.NewNop(), err, Payload{"categories": []any{}})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: want=403 got=%d", rec.Code)
	}
	var body struct {
		Status     string    `json:"status"`
		MsgArray   []Message `json:"msgArray"`
		Categories []any     `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != StatusNG || len(body.MsgArray) != 1 || body.Categories == nil {
		t.Fatalf("envelope: %+v", body)
	}
	if body.MsgArray[0].Detail != planner.ErrNotOwned.Error() {
		t.Fatalf("detail: got=%q", body.MsgArray[0].Detail)
	}
}

func TestRespondOKAlwaysHasMsgArray(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondOK(c, nil)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(body["status"]) != `"ok"` || string(body["msgArray"]) != `[]` {
		t.Fatalf("envelope: %s", rec.Body.String())
	}
}
