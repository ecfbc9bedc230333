package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_terminal/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", Timeout: time.Second})
}

func TestClientListTablesNormalizesStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tables", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"t1","name":"Bàn 1","capacity":4,"status":"Đang trống"},
			{"id":"t2","name":"Bàn 2","capacity":2,"status":"có khách","order_id":"16102026001"}
		]`))
	})

	tables, err := c.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, models.TableStatusAvailable, tables[0].Status)
	assert.Nil(t, tables[0].OrderID)
	assert.Equal(t, models.TableStatusOccupied, tables[1].Status)
	require.NotNil(t, tables[1].OrderID)
	assert.Equal(t, "16102026001", *tables[1].OrderID)
}

func TestClientAttachesCachedToken(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	})

	c.SetToken("abc")
	_, err := c.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)

	c.ClearToken()
	_, err = c.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClientExplicitTokenOverridesCached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"id":"b1","customer_name":"An","party_size":2,"status":"confirmed","source":"app"}]`))
	})
	c.SetToken("staff-token")

	bookings, err := c.ListMyBookings(context.Background(), "customer-token")
	require.NoError(t, err)
	assert.Equal(t, "Bearer customer-token", gotAuth)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.ReservationStatusBooked, bookings[0].Status)
	assert.Equal(t, models.ReservationSourceApp, bookings[0].Source)
}

func TestClientMapsErrorResponses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid otp"}`))
	})

	_, err := c.Login(context.Background(), "a@b.c", "000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGateway))
	assert.True(t, IsStatus(err, http.StatusUnprocessableEntity))

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, "invalid otp", gwErr.Message)
	assert.Equal(t, "/auth/login", gwErr.Path)
}

func TestClientTimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})

	err := c.UpdateBookingStatus(context.Background(), "b1", models.ReservationStatusSeated)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, errors.Is(err, ErrGateway))
}

func TestClientCreateBookingDeposit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Lan", body["customer_name"])
		_, _ = w.Write([]byte(`{"id":"16102026001","require_payment":true,"payment_url":"https://pay.example/x","deposit_amount":"200000"}`))
	})

	res, err := c.CreateBooking(context.Background(), &models.Reservation{
		ID: "16102026001", CustomerName: "Lan", PartySize: 6, Time: time.Now(), Source: models.ReservationSourceApp,
	}, nil)
	require.NoError(t, err)
	assert.True(t, res.RequirePayment)
	require.NotNil(t, res.PaymentURL)
	require.NotNil(t, res.DepositAmount)
	assert.True(t, res.DepositAmount.Equal(decimal.NewFromInt(200000)))
}

func TestClientListIngredientsParsesUnits(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"ing1","name":"Beef","unit":"Kg","stock":"4.5","min_stock":"2"},{"id":"ing2","name":"Lime","unit":"Pcs","stock":10}]`))
	})

	ings, err := c.ListIngredients(context.Background())
	require.NoError(t, err)
	require.Len(t, ings, 2)
	assert.Equal(t, models.UnitKg, ings[0].Unit)
	assert.True(t, ings[0].Stock.Equal(decimal.RequireFromString("4.5")))
	assert.Nil(t, ings[1].MinStock)
}

func TestClientListBookingsDecodesDepositTerms(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id":"b1","customer_name":"Lan","party_size":6,"status":"confirmed","table_ids":["t1","t2"],
			 "source":"app","require_payment":true,"deposit_amount":"150000.50","deposit_paid":true},
			{"id":"b2","customer_name":"Minh","party_size":2,"status":"booked","source":"phone"}
		]`))
	})

	bookings, err := c.ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.True(t, bookings[0].RequirePayment)
	require.NotNil(t, bookings[0].DepositAmount)
	assert.True(t, bookings[0].DepositAmount.Equal(decimal.RequireFromString("150000.50")))
	assert.True(t, bookings[0].DepositPaid)
	assert.False(t, bookings[1].RequirePayment)
	assert.Nil(t, bookings[1].DepositAmount)
}

func TestClientDeleteOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/orders/16102026001", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.DeleteOrder(context.Background(), "16102026001"))
}
