package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/data/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	"github.com/yungbote/dayplanner-backend/internal/data/repos/testutil"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/dayplanner-backend/internal/services"
)

type harness struct {
	db     *gorm.DB
	router *gin.Engine
	userID uuid.UUID
}

// asUser stands in for the auth middleware; the X-Test-User header picks the caller.
func asUser(c *gin.Context) {
	raw := c.GetHeader("X-Test-User")
	if raw == "" {
		c.Next()
		return
	}
	id := uuid.MustParse(raw)
	c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: id}))
	c.Next()
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	categoryRepo := repos.NewActCategoryRepo(db, log)
	scheduleRepo := repos.NewScheduleRepo(db, log)
	goalRepo := repos.NewHabitGoalRepo(db, log)
	logRepo := repos.NewHabitLogRepo(db, log)
	base := aggregates.BaseDeps{DB: db, Log: log}

	categories := services.NewCategoryService(log, categoryRepo, scheduleRepo, goalRepo,
		aggregates.NewActCategoryAggregate(aggregates.ActCategoryAggregateDeps{
			Base: base, Categories: categoryRepo, Schedules: scheduleRepo, HabitGoals: goalRepo,
		}))
	schedules := services.NewScheduleService(log, categories, scheduleRepo,
		aggregates.NewScheduleAggregate(aggregates.ScheduleAggregateDeps{
			Base: base, Schedules: scheduleRepo, Categories: categoryRepo,
		}))
	habits := services.NewHabitService(log, categories, goalRepo, logRepo,
		aggregates.NewHabitGoalAggregate(aggregates.HabitGoalAggregateDeps{
			Base: base, HabitGoals: goalRepo, HabitLogs: logRepo, Categories: categoryRepo,
		}))
	renderer, err := services.NewChartRenderer(log, "")
	if err != nil {
		t.Fatalf("NewChartRenderer: %v", err)
	}

	ch := NewCategoryHandler(log, categories)
	sh := NewScheduleHandler(log, schedules, renderer)
	hh := NewHabitHandler(log, habits)

	r := gin.New()
	api := r.Group("/api", asUser)
	api.GET("/categories/getAllData", ch.GetAllData)
	api.POST("/categories/upsert", ch.Upsert)
	api.POST("/schedules/init", sh.Init)
	api.POST("/schedules/upsert", sh.Upsert)
	api.GET("/schedules/chart", sh.Chart)
	api.GET("/schedules/chart.png", sh.ChartPNG)
	api.GET("/habit/goal/init", hh.GoalInit)
	api.POST("/habit/goal/upsert", hh.GoalUpsert)
	api.GET("/habit/log/init", hh.LogInit)
	api.POST("/habit/log/store", hh.LogStore)

	user := testutil.SeedUser(t, context.Background(), db, "owner@example.com")
	return &harness{db: db, router: r, userID: user.ID}
}

func (h *harness) do(t *testing.T, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req.Header.Set("X-Test-User", userID.String())
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	if _, ok := out["msgArray"].([]any); !ok {
		t.Fatalf("msgArray missing from %v", out)
	}
	return out
}

func TestProtectedEndpointsRejectMissingUser(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodGet, "/api/categories/getAllData", uuid.Nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=%d got=%d", http.StatusUnauthorized, w.Code)
	}
	if got := decode(t, w)["status"]; got != "ng" {
		t.Fatalf("status field: want=ng got=%v", got)
	}
}

func TestCategoryUpsertAndList(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodPost, "/api/categories/upsert", h.userID, []map[string]any{
		{"activity": "Work", "color_name": "Blue", "hex_color_code": "#1e88e5", "text_color_code": "#ffffff"},
		{"id": nil, "activity": "Sleep", "color_name": "Navy", "hex_color_code": "#1A237E", "text_color_code": "#FFFFFF"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("upsert status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	msgs := body["msgArray"].([]any)
	if len(msgs) != 1 || msgs[0].(map[string]any)["severity"] != "success" {
		t.Fatalf("upsert msgArray: want one success message got=%v", msgs)
	}

	w = h.do(t, http.MethodGet, "/api/categories/getAllData", h.userID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status: want=200 got=%d", w.Code)
	}
	cats, _ := decode(t, w)["categories"].([]any)
	if len(cats) != 2 {
		t.Fatalf("categories: want=2 got=%d", len(cats))
	}
	for _, raw := range cats {
		c := raw.(map[string]any)
		if c["can_delete"] != true {
			t.Fatalf("can_delete: want=true got=%v", c["can_delete"])
		}
	}
}

func TestCategoryUpsertRejectsEmptyFieldsAndForeignIDs(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	w := h.do(t, http.MethodPost, "/api/categories/upsert", h.userID, []map[string]any{
		{"activity": "", "color_name": "Blue", "hex_color_code": "#1E88E5", "text_color_code": "#FFFFFF"},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid input status: want=422 got=%d", w.Code)
	}

	other := testutil.SeedUser(t, ctx, h.db, "other@example.com")
	foreign := testutil.SeedCategory(t, ctx, h.db, other.ID, "Theirs", "#000000")
	w = h.do(t, http.MethodPost, "/api/categories/upsert", h.userID, []map[string]any{
		{"id": foreign.ID.String(), "activity": "Mine", "color_name": "Red", "hex_color_code": "#FF0000", "text_color_code": "#FFFFFF"},
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign id status: want=403 got=%d body=%s", w.Code, w.Body.String())
	}

	w = h.do(t, http.MethodPost, "/api/categories/upsert", h.userID, []map[string]any{{"id": "not-a-uuid"}})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad id status: want=422 got=%d", w.Code)
	}
}

func TestCategoryUpsertColorSwapHidesStoreError(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	work := testutil.SeedCategory(t, ctx, h.db, h.userID, "Work", "#111111")
	sleep := testutil.SeedCategory(t, ctx, h.db, h.userID, "Sleep", "#222222")

	w := h.do(t, http.MethodPost, "/api/categories/upsert", h.userID, []map[string]any{
		{"id": work.ID.String(), "activity": "Work", "color_name": "Gray", "hex_color_code": "#222222", "text_color_code": "#FFFFFF"},
		{"id": sleep.ID.String(), "activity": "Sleep", "color_name": "Black", "hex_color_code": "#111111", "text_color_code": "#FFFFFF"},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("swap status: want=422 got=%d body=%s", w.Code, w.Body.String())
	}
	if bytes.Contains(bytes.ToLower(w.Body.Bytes()), []byte("constraint")) || bytes.Contains(w.Body.Bytes(), []byte("act_category.")) {
		t.Fatalf("store error leaked to client: %s", w.Body.String())
	}
	msgs := decode(t, w)["msgArray"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("msgArray: want one message got=%v", msgs)
	}
	if got := msgs[0].(map[string]any)["detail"]; got != planner.ErrDuplicateColor.Error() {
		t.Fatalf("detail: want=%q got=%v", planner.ErrDuplicateColor.Error(), got)
	}

	w = h.do(t, http.MethodGet, "/api/categories/getAllData", h.userID, nil)
	for _, raw := range decode(t, w)["categories"].([]any) {
		c := raw.(map[string]any)
		if c["id"] == work.ID.String() && c["hex_color_code"] != "#111111" {
			t.Fatalf("failed swap must roll back, work hex=%v", c["hex_color_code"])
		}
	}
}

func TestScheduleInitRequiresCategories(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodPost, "/api/schedules/init", h.userID, map[string]any{"targetDate": "2024-05-01", "isInit": true})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want=422 got=%d", w.Code)
	}
	body := decode(t, w)
	if _, ok := body["actCategories"].([]any); !ok {
		t.Fatalf("actCategories should be an empty array, got=%v", body["actCategories"])
	}

	w = h.do(t, http.MethodPost, "/api/schedules/init", h.userID, map[string]any{"targetDate": "2024-05-01", "isInit": false})
	if w.Code != http.StatusOK {
		t.Fatalf("isInit=false status: want=200 got=%d", w.Code)
	}
	if _, ok := decode(t, w)["actCategories"]; ok {
		t.Fatalf("actCategories should be omitted when isInit is false")
	}
}

func TestScheduleUpsertOverlapAndChart(t *testing.T) {
	h := newHarness(t)
	cat := testutil.SeedCategory(t, context.Background(), h.db, h.userID, "Work", "#1E88E5")

	overlapping := []map[string]any{
		{"target_date": "2024-05-01", "start_time": "08:00", "end_time": "09:30", "act_category_id": cat.ID.String()},
		{"target_date": "2024-05-01", "start_time": "09:00", "end_time": "10:00", "act_category_id": cat.ID.String()},
	}
	if w := h.do(t, http.MethodPost, "/api/schedules/upsert", h.userID, overlapping); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overlap status: want=422 got=%d", w.Code)
	}

	touching := []map[string]any{
		{"target_date": "2024-05-01", "start_time": "08:00", "end_time": "09:00", "act_category_id": cat.ID.String()},
		{"target_date": "2024-05-01", "start_time": "09:00", "end_time": "10:00", "act_category_id": cat.ID.String()},
	}
	if w := h.do(t, http.MethodPost, "/api/schedules/upsert", h.userID, touching); w.Code != http.StatusOK {
		t.Fatalf("touching status: want=200 got=%d body=%s", w.Code, w.Body.String())
	}

	mixed := []map[string]any{
		{"target_date": "2024-05-01", "start_time": "08:00", "end_time": "09:00", "act_category_id": cat.ID.String()},
		{"target_date": "2024-05-02", "start_time": "10:00", "end_time": "11:00", "act_category_id": cat.ID.String()},
	}
	if w := h.do(t, http.MethodPost, "/api/schedules/upsert", h.userID, mixed); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("mixed dates status: want=422 got=%d", w.Code)
	}

	if w := h.do(t, http.MethodPost, "/api/schedules/upsert", h.userID, []map[string]any{}); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty payload status: want=422 got=%d", w.Code)
	}

	w := h.do(t, http.MethodGet, "/api/schedules/chart?targetDate=2024-05-01", h.userID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("chart status: want=200 got=%d", w.Code)
	}
	chart, _ := decode(t, w)["chart"].(map[string]any)
	data, _ := chart["data"].([]any)
	total := 0.0
	for _, v := range data {
		total += v.(float64)
	}
	if total != planner.MinutesPerDay {
		t.Fatalf("chart minutes: want=%d got=%v", planner.MinutesPerDay, total)
	}

	if w := h.do(t, http.MethodGet, "/api/schedules/chart", h.userID, nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("chart without date: want=422 got=%d", w.Code)
	}
}

func TestScheduleChartPNG(t *testing.T) {
	h := newHarness(t)
	w := h.do(t, http.MethodGet, "/api/schedules/chart.png?targetDate=2024-05-01", h.userID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type: want=image/png got=%q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("body is not a png")
	}
}

func TestHabitEndpoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if w := h.do(t, http.MethodGet, "/api/habit/goal/init", h.userID, nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("goal init without categories: want=422 got=%d", w.Code)
	}

	cat := testutil.SeedCategory(t, ctx, h.db, h.userID, "Reading", "#43A047")
	w := h.do(t, http.MethodPost, "/api/habit/goal/upsert", h.userID, []map[string]any{
		{"is_linked": true, "act_category_id": cat.ID.String(), "detail": "read daily", "duration_minutes": 30},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("goal upsert: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	goals, _ := decode(t, w)["habitGoals"].([]any)
	if len(goals) != 1 {
		t.Fatalf("habitGoals: want=1 got=%d", len(goals))
	}
	goalID := goals[0].(map[string]any)["id"].(string)

	w = h.do(t, http.MethodPost, "/api/habit/goal/upsert", h.userID, []map[string]any{
		{"is_linked": true, "detail": "missing category", "duration_minutes": 10},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("linked without category: want=422 got=%d", w.Code)
	}

	w = h.do(t, http.MethodPost, "/api/habit/log/store", h.userID, map[string]any{
		"habit_goal_id": goalID, "log_time": "2024-05-01 07:30", "is_achieved": true, "execution_time": 1800,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("log store: want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if rec, _ := decode(t, w)["habitLogs"].(map[string]any); rec["habit_goal_id"] != goalID {
		t.Fatalf("habitLogs.habit_goal_id: want=%s got=%v", goalID, rec["habit_goal_id"])
	}

	w = h.do(t, http.MethodPost, "/api/habit/log/store", h.userID, map[string]any{"log_time": "2024-05-01 07:30", "execution_time": 10})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("log store without goal: want=422 got=%d", w.Code)
	}

	w = h.do(t, http.MethodGet, "/api/habit/log/init", h.userID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("log init: want=200 got=%d", w.Code)
	}
	habits, _ := decode(t, w)["habits"].([]any)
	if len(habits) != 1 {
		t.Fatalf("habits: want=1 got=%d", len(habits))
	}
	logs, _ := habits[0].(map[string]any)["habitLogs"].([]any)
	if len(logs) != 1 {
		t.Fatalf("habitLogs: want=1 got=%d", len(logs))
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name string
		db   Pinger
		want int
	}{
		{"no db", nil, http.StatusOK},
		{"healthy", stubPinger{}, http.StatusOK},
		{"down", stubPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/healthcheck", NewHealthHandler(tc.db).HealthCheck)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
			if w.Code != tc.want {
				t.Fatalf("status: want=%d got=%d", tc.want, w.Code)
			}
		})
	}
}
