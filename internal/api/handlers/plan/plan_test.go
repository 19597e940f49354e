package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meal-planner/internal/core/grocery"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"
)

type fakeAssembler struct {
	err  error
	last common.PlanRequest
}

func (f *fakeAssembler) Assemble(_ context.Context, req common.PlanRequest) (*common.WeeklyPlan, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	plan := &common.WeeklyPlan{
		ID:             uuid.New().String(),
		Days:           make([]common.DaySlot, common.PlanDays),
		TotalBudgetUSD: req.MaxDailyBudget * common.PlanDays,
		Cuisine:        req.Cuisine,
		DietType:       req.Dietary,
		PeopleCount:    req.NumberOfPeople,
		CreatedAt:      time.Now(),
	}
	for d := range plan.Days {
		plan.Days[d].DayIndex = d
		plan.Days[d].DayName = common.WeekDays[d]
		for _, mt := range common.PlanMealTypes {
			plan.Days[d].Meals.Set(mt, common.MealCandidate{
				Name:             common.WeekDays[d] + " " + mt.Label(),
				Type:             mt,
				Ingredients:      []common.Ingredient{{Name: "rice", Quantity: 1, Unit: "cup"}},
				Instructions:     []string{"Cook."},
				EstimatedCostUSD: 3,
				SourceTier:       common.TierFallback,
				Servings:         req.NumberOfPeople,
			})
		}
	}
	plan.Recompute()
	return plan, nil
}

func newTestEngine(assembler Assembler) (*gin.Engine, store.PlanStore) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	planStore := store.NewMemoryStore(16, time.Minute)
	builder := grocery.NewBuilder(grocery.DefaultPrices, grocery.DefaultUnits, grocery.DefaultRates)
	h := NewHandler(assembler, planStore, builder, "USD")

	r := gin.New()
	r.POST("/plans", h.HandleCreatePlan)
	r.GET("/plans/:id", h.HandleGetPlan)
	r.POST("/plans/:id/grocery", h.HandleBuildGroceryList)
	r.GET("/plans/:id/grocery", h.HandleGetGroceryList)
	return r, planStore
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validBody() map[string]any {
	return map[string]any{
		"cuisine":        "italian",
		"dietary":        "vegetarian",
		"minDailyBudget": 5,
		"maxDailyBudget": 15,
		"numberOfPeople": 2,
		"allergies":      []string{"peanut"},
	}
}

func TestCreatePlan_StoresAndReturnsPlan(t *testing.T) {
	assembler := &fakeAssembler{}
	r, planStore := newTestEngine(assembler)

	w := do(r, http.MethodPost, "/plans", validBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Plan)
	assert.True(t, resp.Degraded)
	assert.NotEmpty(t, resp.Warnings)
	assert.Equal(t, []string{"peanut"}, assembler.last.Allergies)

	stored, err := planStore.GetPlan(context.Background(), resp.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 63.0, stored.TotalCostUSD)

	w = do(r, http.MethodGet, "/plans/"+resp.Plan.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreatePlan_ValidationErrors(t *testing.T) {
	r, _ := newTestEngine(&fakeAssembler{})

	tests := []struct {
		name   string
		modify func(map[string]any)
		want   string
	}{
		{"missing cuisine", func(b map[string]any) { delete(b, "cuisine") }, "Cuisine is required"},
		{"unknown diet", func(b map[string]any) { b["dietary"] = "carnivore" }, "unsupported dietary type: carnivore"},
		{"zero budget", func(b map[string]any) { b["maxDailyBudget"] = 0 }, "MaxDailyBudget"},
		{"min above max", func(b map[string]any) { b["minDailyBudget"] = 20 }, "MaxDailyBudget"},
		{"no people", func(b map[string]any) { b["numberOfPeople"] = 0 }, "NumberOfPeople"},
		{"wrong days", func(b map[string]any) { b["days"] = 5 }, "Days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			tt.modify(body)
			w := do(r, http.MethodPost, "/plans", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), common.ErrCodeInvalidRequest)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestCreatePlan_AssemblyFailure(t *testing.T) {
	r, _ := newTestEngine(&fakeAssembler{err: &common.PlanAssemblyError{
		Day: "Wednesday", Cuisine: "italian", Diet: "vegan", Err: errors.New("no unique dinner"),
	}})

	w := do(r, http.MethodPost, "/plans", validBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, common.ErrCodePlanAssembly, body["code"])
	assert.Contains(t, body["error"], "Wednesday")
}

func TestGetPlan_NotFound(t *testing.T) {
	r, _ := newTestEngine(&fakeAssembler{})
	w := do(r, http.MethodGet, "/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PLAN_NOT_FOUND")
}

func TestGroceryList_BuildAndFetch(t *testing.T) {
	r, _ := newTestEngine(&fakeAssembler{})
	w := do(r, http.MethodPost, "/plans", validBody())
	require.Equal(t, http.StatusOK, w.Code)
	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	id := resp.Plan.ID

	w = do(r, http.MethodGet, "/plans/"+id+"/grocery", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/plans/"+id+"/grocery?currency=eur", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var list common.GroceryList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, "EUR", list.Currency)
	assert.Equal(t, id, list.PlanID)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "rice", list.Items[0].Name)
	assert.Equal(t, 21.0, list.Items[0].Quantity)

	w = do(r, http.MethodGet, "/plans/"+id+"/grocery", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/plans/"+id+"/grocery?currency=XYZ", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
