package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/core/grocery"
	"meal-planner/internal/core/planner"
	"meal-planner/internal/core/sourcing"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Version = "test"
	cfg.Planner = config.PlannerConfig{TierTimeout: 100 * time.Millisecond, RetryFactor: 3, FallbackAttempts: 5, Seed: 7}
	cfg.Pricing.DefaultCurrency = "USD"
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute}
	cfg.DedupWindow = time.Second
	cfg.RequestTimeout = 5 * time.Second
	cfg.BodyLimit = 1 << 16
	return cfg
}

// 沒有食譜 API 與生成式模型時，完全由內建備援組成計畫
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()
	orch := sourcing.NewOrchestrator(cfg.Planner, nil, nil, nil, grocery.DefaultPrices, nil)
	return SetupRouter(cfg, Dependencies{
		Assembler: planner.NewAssembler(cfg.Planner, orch),
		Sourcer:   orch,
		Store:     store.NewMemoryStore(8, time.Minute),
		Builder:   grocery.NewBuilder(grocery.DefaultPrices, grocery.DefaultUnits, grocery.DefaultRates),
	})
}

func send(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/live", "").Code)

	w = send(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "meal_planner_http_requests_total")
}

func TestRouter_PlanLifecycle(t *testing.T) {
	r := newTestRouter(t)

	w := send(r, http.MethodPost, "/api/v1/plans",
		`{"cuisine":"italian","dietary":"vegetarian","minDailyBudget":5,"maxDailyBudget":15,"numberOfPeople":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"degraded":true`)

	id := extractPlanID(t, w.Body.Bytes())
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/v1/plans/"+id, "").Code)

	w = send(r, http.MethodPost, "/api/v1/plans/"+id+"/grocery?currency=GBP", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"currency":"GBP"`)

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/v1/plans/"+id+"/grocery", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/api/v1/currencies", "").Code)
}

func TestRouter_DuplicatePostRejected(t *testing.T) {
	r := newTestRouter(t)
	body := `{"ingredients":["1 cup rice"]}`

	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/api/v1/grocery/estimate", body).Code)
	w := send(r, http.MethodPost, "/api/v1/grocery/estimate", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeTooManyRequests)
}

func TestRouter_BodyTooLarge(t *testing.T) {
	r := newTestRouter(t)
	big := `{"ingredients":["` + string(bytes.Repeat([]byte("a"), 1<<17)) + `"]}`
	w := send(r, http.MethodPost, "/api/v1/grocery/estimate", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeBodyTooLarge)
}

func TestRouter_UnknownRoute(t *testing.T) {
	w := send(newTestRouter(t), http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), common.ErrCodeNotFound)
	assert.Contains(t, w.Body.String(), "/api/v1/nope")
}

func TestRouter_SourceMealFallsBackWithoutCollaborators(t *testing.T) {
	r := newTestRouter(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/meals/source",
		bytes.NewBufferString(`{"type":"lunch","cuisine":"mexican","peopleCount":1}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"sourceTier":"fallback"`)
}
