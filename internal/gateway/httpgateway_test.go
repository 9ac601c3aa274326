package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boighor/bookshop/internal/domain/models"
)

func testDraft() models.OrderDraft {
	return models.OrderDraft{
		PhoneNumber:   "+8801712345678",
		Address:       "House 7, Road 3, Dhanmondi, Dhaka",
		PaymentMethod: models.PaymentCash,
		Items: []models.OrderItem{
			{BID: "b-1", Title: "Aranyak", Price: 38000, Quantity: 2},
		},
	}
}

func TestInitiateOk(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/initiate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"session_token":      "tok-1",
			"expires_in_seconds": 600,
			"otp_length":         4,
		})
	}))
	defer srv.Close()

	g := NewHTTP(srv.URL)
	before := time.Now()
	res := g.Initiate(context.Background(), testDraft())

	require.True(t, res.Ok())
	assert.Equal(t, "tok-1", res.SessionToken)
	assert.Equal(t, 4, res.OTPLength)
	assert.WithinDuration(t, before.Add(600*time.Second), res.ExpiresAt, 5*time.Second)

	// wire format per the backend contract
	assert.Equal(t, "+8801712345678", gotBody["phone_number"])
	assert.Contains(t, gotBody, "payment_method")
	assert.Contains(t, gotBody, "books")
}

func TestInitiateDefaultsWhenFieldsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"session_token": "tok-2"})
	}))
	defer srv.Close()

	res := NewHTTP(srv.URL).Initiate(context.Background(), testDraft())
	require.True(t, res.Ok())
	assert.Equal(t, 6, res.OTPLength)
	assert.False(t, res.ExpiresAt.IsZero())
}

func TestVerifyDecodesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/verify", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tok-1", req["session_token"])
		assert.Equal(t, "123456", req["pin_code"])
		json.NewEncoder(w).Encode(models.Order{OID: "ord-1", Total: 76000})
	}))
	defer srv.Close()

	res := NewHTTP(srv.URL).Verify(context.Background(), "tok-1", "123456")
	require.True(t, res.Ok())
	assert.Equal(t, "ord-1", res.Order.OID)
	assert.Equal(t, models.Money(76000), res.Order.Total)
}

func TestFaultClassification(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     map[string]any
		wantKind FaultKind
		wantLeft int
	}{
		{"wrong code", http.StatusBadRequest, map[string]any{"detail": "wrong code", "attempts_remaining": 2}, FaultWrongCode, 2},
		{"attempts exhausted", http.StatusBadRequest, map[string]any{"detail": "attempts exhausted"}, FaultAttemptsExhausted, 0},
		{"session expired", http.StatusGone, map[string]any{"detail": "session expired"}, FaultSessionExpired, 0},
		{"invalid session", http.StatusNotFound, map[string]any{"detail": "invalid session"}, FaultInvalidSession, 0},
		{"unknown detail", http.StatusBadRequest, map[string]any{"detail": "quota exceeded"}, FaultServerError, 0},
		{"no body", http.StatusInternalServerError, nil, FaultServerError, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				if tc.body != nil {
					json.NewEncoder(w).Encode(tc.body)
				}
			}))
			defer srv.Close()

			res := NewHTTP(srv.URL).Verify(context.Background(), "tok", "123456")
			require.False(t, res.Ok())
			assert.Equal(t, tc.wantKind, res.Fault.Kind)
			assert.Equal(t, tc.wantLeft, res.Fault.AttemptsRemaining)
		})
	}
}

func TestNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	res := NewHTTP(srv.URL).Initiate(context.Background(), testDraft())
	require.False(t, res.Ok())
	assert.Equal(t, FaultNetworkUnavailable, res.Fault.Kind)
}

func TestResendOk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/resend-code", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"expires_in_seconds": 300})
	}))
	defer srv.Close()

	res := NewHTTP(srv.URL).Resend(context.Background(), "tok-1")
	require.True(t, res.Ok())
	assert.WithinDuration(t, time.Now().Add(300*time.Second), res.ExpiresAt, 5*time.Second)
}
