package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_terminal/internal/gateway"
	"resto_pos_terminal/internal/middleware"
	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/internal/services"
	"resto_pos_terminal/pkg/utils"
)

type testEnv struct {
	engine   *gin.Engine
	backend  *stubBackend
	state    services.StateService
	feedback services.FeedbackService
}

// newTestEnv wires the handlers to a real state service over a stub backend.
// Every request runs as the given role.
func newTestEnv(t *testing.T, role, principal string) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &stubBackend{}
	state := services.NewStateService(backend, services.StateOptions{
		Now:           func() time.Time { return time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC) },
		CurrencyScale: 2,
	})
	require.NoError(t, state.SeedTables([]models.Table{
		{ID: "t1", Name: "Window", Capacity: 4, Status: models.TableStatusAvailable},
		{ID: "t2", Name: "Bar", Capacity: 2, Status: models.TableStatusAvailable},
	}))
	minStock := decimal.NewFromInt(5)
	require.NoError(t, state.SeedIngredients([]models.Ingredient{
		{ID: "ing1", Name: "Rice", Unit: models.UnitKg, Stock: decimal.NewFromInt(1), MinStock: &minStock},
	}))
	feedback := services.NewFeedbackService(time.Minute)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.ContextRole, role)
		c.Set(middleware.ContextPrincipal, principal)
		c.Next()
	})
	tables := NewTableHandler(state, feedback)
	reservations := NewReservationHandler(state, nil, feedback)
	orders := NewOrderHandler(state, archiveStub{}, feedback)
	inventory := NewInventoryHandler(state, stubSuppliers{}, feedback)
	reports := NewReportHandler(state)
	fb := NewFeedbackHandler(feedback)

	engine.GET("/tables", tables.ListTables)
	engine.POST("/tables/:id/order", tables.OpenOrder)
	engine.GET("/tables/:id/order", tables.GetTableOrder)
	engine.POST("/reservations", reservations.CreateReservation)
	engine.GET("/reservations", reservations.ListReservations)
	engine.POST("/reservations/:id/arrival", reservations.ConfirmArrival)
	engine.GET("/orders", orders.GetOrders)
	engine.GET("/orders/:id", orders.GetOrderByID)
	engine.POST("/orders/:id/items", orders.AddItem)
	engine.PATCH("/orders/:id/items/:line", orders.SetItemQuantity)
	engine.PUT("/orders/:id/discount", orders.ApplyDiscount)
	engine.PUT("/orders/:id/promotion", orders.ApplyPromotion)
	engine.POST("/orders/:id/close", orders.CloseOrder)
	engine.GET("/inventory/ingredients", inventory.GetIngredients)
	engine.GET("/inventory/suppliers", inventory.GetSuppliers)
	engine.POST("/inventory/stock-in", inventory.StockIn)
	engine.GET("/kitchen", reports.GetKitchenQueue)
	engine.GET("/stats", reports.GetOrderStats)
	engine.GET("/notifications", fb.ListNotifications)
	engine.POST("/dialogs/confirm", fb.Confirm)
	engine.GET("/dialogs/active", fb.ActiveDialog)
	engine.POST("/dialogs/:id/resolve", fb.ResolveDialog)

	return &testEnv{engine: engine, backend: backend, state: state, feedback: feedback}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error utils.APIError `json:"error"`
	}
	decodeBody(t, w, &body)
	return body.Error.Code
}

func TestAPIErrorFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", fmt.Errorf("%w: bad", services.ErrValidation), http.StatusBadRequest, utils.ErrCodeValidationFailed},
		{"not found", fmt.Errorf("%w: x", services.ErrNotFound), http.StatusNotFound, utils.ErrCodeNotFound},
		{"invalid state", services.ErrInvalidState, http.StatusConflict, utils.ErrCodeInvalidState},
		{"in flight", services.ErrOperationInFlight, http.StatusConflict, utils.ErrCodeInFlight},
		{"invariant", services.ErrInvariantViolation, http.StatusUnprocessableEntity, utils.ErrCodeInvariantViolation},
		{"session", fmt.Errorf("%w: stale token", services.ErrUnauthorized), http.StatusUnauthorized, utils.ErrCodeUnauthorized},
		{"backend 401", fmt.Errorf("login: %w", &gateway.Error{StatusCode: 401, Message: "bad otp"}), http.StatusUnauthorized, utils.ErrCodeUnauthorized},
		{"backend 404", &gateway.Error{StatusCode: 404}, http.StatusNotFound, utils.ErrCodeNotFound},
		{"backend 500", &gateway.Error{StatusCode: 500}, http.StatusBadGateway, utils.ErrCodeBadGateway},
		{"network", fmt.Errorf("%w: dial", gateway.ErrNetwork), http.StatusBadGateway, utils.ErrCodeBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, utils.ErrCodeInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := apiErrorFor(tt.err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff, "emp-1")

	w := env.do(t, http.MethodPost, "/tables/t1/order", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decodeBody(t, w, &order)
	assert.Equal(t, "16102026001", order.ID)

	w = env.do(t, http.MethodPost, "/orders/"+order.ID+"/items", map[string]interface{}{
		"menu_item_id": "m1", "name": "Pho", "unit_price": "12.50", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPut, "/orders/"+order.ID+"/discount", map[string]string{"percent": "10"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &order)
	assert.Equal(t, "22.5", order.Total.String())

	w = env.do(t, http.MethodGet, "/kitchen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tickets []models.KitchenTicket
	decodeBody(t, w, &tickets)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Window", tickets[0].TableName)

	w = env.do(t, http.MethodPost, "/orders/"+order.ID+"/close", map[string]string{"payment_method": "bitcoin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, utils.ErrCodeValidationFailed, errorCode(t, w))

	w = env.do(t, http.MethodPost, "/orders/"+order.ID+"/close", map[string]string{"payment_method": "card"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/orders/"+order.ID+"/close", map[string]string{"payment_method": "card"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/tables/t1/order", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/orders?status=closed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data  []models.Order `json:"data"`
		Total int            `json:"total"`
	}
	decodeBody(t, w, &page)
	assert.Equal(t, 1, page.Total)
}

func TestOrderHandlerRejectsBadInput(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff, "emp-1")

	w := env.do(t, http.MethodPost, "/tables/missing/order", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPatch, "/orders/x/items/abc", map[string]int{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/orders/01012020001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"table_id":"t9"`)

	w = env.do(t, http.MethodGet, "/orders/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/orders?status=pending", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/orders?date=16-10-2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/tables/t2/order", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decodeBody(t, w, &order)
	w = env.do(t, http.MethodPut, "/orders/"+order.ID+"/promotion", map[string]string{"promotion_id": "gone"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	notes := env.feedback.Notifications()
	require.NotEmpty(t, notes)
	assert.Equal(t, models.ToneError, notes[len(notes)-1].Tone)
}

func TestCreateReservationAsCustomerBooksThroughApp(t *testing.T) {
	env := newTestEnv(t, models.RoleCustomer, "cust-9")

	w := env.do(t, http.MethodPost, "/reservations", map[string]interface{}{
		"customer_name": "Lan",
		"party_size":    2,
		"time":          "2026-10-16T19:00:00Z",
		"table_id":      "t2",
		"source":        "phone",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res services.ReservationResult
	decodeBody(t, w, &res)
	assert.Equal(t, models.ReservationSourceApp, res.Reservation.Source)
	require.Len(t, env.backend.customerIDs, 1)
	require.NotNil(t, env.backend.customerIDs[0])
	assert.Equal(t, "cust-9", *env.backend.customerIDs[0])
}

func TestReservationCheckInOverHTTP(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff, "emp-1")

	w := env.do(t, http.MethodPost, "/reservations", map[string]interface{}{
		"customer_name": "Minh",
		"party_size":    4,
		"time":          "2026-10-16T19:00:00Z",
		"table_id":      "t1",
		"source":        "phone",
		"customer_id":   "spoofed",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res services.ReservationResult
	decodeBody(t, w, &res)
	assert.Nil(t, env.backend.customerIDs[0])

	w = env.do(t, http.MethodPost, "/reservations/"+res.Reservation.ID+"/arrival", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/tables/t1/order", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/reservations?status=seated", nil)
	var seated []models.Reservation
	decodeBody(t, w, &seated)
	assert.Len(t, seated, 1)

	w = env.do(t, http.MethodGet, "/reservations?status=waiting", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/reservations", map[string]interface{}{"customer_name": "", "party_size": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryHandlers(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff, "emp-1")

	w := env.do(t, http.MethodGet, "/inventory/ingredients?low_stock=true", nil)
	var low []models.Ingredient
	decodeBody(t, w, &low)
	assert.Len(t, low, 1)

	w = env.do(t, http.MethodPost, "/inventory/stock-in", map[string]interface{}{
		"items": []map[string]interface{}{{"ingredient_id": "ing1", "quantity": "10"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/inventory/ingredients?low_stock=true", nil)
	decodeBody(t, w, &low)
	assert.Empty(t, low)

	w = env.do(t, http.MethodPost, "/inventory/stock-in", map[string]interface{}{
		"items": []map[string]interface{}{{"ingredient_id": "nope", "quantity": "1"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/inventory/suppliers", nil)
	assert.Contains(t, w.Body.String(), "Green Farm")
}

func TestStatsFallBackWhenBackendDown(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff, "emp-1")
	w := env.do(t, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.OrderStats
	decodeBody(t, w, &stats)
	assert.Equal(t, 0, stats.OrderCount)
}

func TestConfirmDialogOverHTTP(t *testing.T) {
	env := newTestEnv(t, models.RoleStaff, "emp-1")

	w := env.do(t, http.MethodGet, "/dialogs/active", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		done <- env.do(t, http.MethodPost, "/dialogs/confirm", models.ConfirmOptions{Title: "Void order?", Destructive: true})
	}()

	var dialog *models.Dialog
	require.Eventually(t, func() bool {
		dialog = env.feedback.ActiveDialog()
		return dialog != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Void order?", dialog.Options.Title)

	w = env.do(t, http.MethodPost, "/dialogs/unknown/resolve", map[string]bool{"accepted": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/dialogs/"+dialog.ID+"/resolve", map[string]bool{"accepted": true})
	require.Equal(t, http.StatusNoContent, w.Code)

	select {
	case res := <-done:
		assert.Equal(t, http.StatusOK, res.Code)
		assert.JSONEq(t, `{"accepted":true}`, res.Body.String())
	case <-time.After(time.Second):
		t.Fatal("confirm request never returned")
	}
}
