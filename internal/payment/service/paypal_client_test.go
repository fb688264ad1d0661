package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentDomain "github.com/asthalabs/shopperai/internal/payment/domain"
)

// newTestServer fakes the PayPal token endpoint plus the given handlers.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", username)
		assert.Equal(t, "client-secret", password)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	for pattern, handler := range handlers {
		mux.HandleFunc(pattern, handler)
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestPayPalClient_CreateOrder(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v2/checkout/orders": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "CAPTURE", body["intent"])

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "5O190127TN364715T",
				"status": "CREATED",
			})
		},
	})

	client := NewPayPalClient(server.URL, "client-id", "client-secret", 5*time.Second)

	order, err := client.CreateOrder(context.Background(), "$99.99", "USD", "wireless headphones")
	require.NoError(t, err)
	assert.Equal(t, "5O190127TN364715T", order.ID)
	assert.Equal(t, "CREATED", order.Status)
	assert.Equal(t, "99.99", order.Amount, "display amounts must be normalized")
	assert.Equal(t, "USD", order.Currency)
}

func TestPayPalClient_GetOrder(t *testing.T) {
	t.Run("Success_GetOrder", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			"/v2/checkout/orders/5O190127TN364715T": func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":     "5O190127TN364715T",
					"status": "APPROVED",
					"purchase_units": []map[string]any{
						{
							"description": "wireless headphones",
							"amount": map[string]any{
								"currency_code": "USD",
								"value":         "99.99",
							},
						},
					},
				})
			},
		})

		client := NewPayPalClient(server.URL, "client-id", "client-secret", 5*time.Second)

		order, err := client.GetOrder(context.Background(), "5O190127TN364715T")
		require.NoError(t, err)
		assert.Equal(t, "APPROVED", order.Status)
		assert.Equal(t, "99.99", order.Amount)
		assert.Equal(t, "wireless headphones", order.Description)
	})

	t.Run("Failure_OrderNotFound", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			"/v2/checkout/orders/": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		})

		client := NewPayPalClient(server.URL, "client-id", "client-secret", 5*time.Second)

		order, err := client.GetOrder(context.Background(), "unknown")
		assert.Nil(t, order)
		assert.ErrorIs(t, err, paymentDomain.ErrOrderNotFound)
	})
}

func TestPayPalClient_CaptureOrder(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v2/checkout/orders/5O190127TN364715T/capture": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "5O190127TN364715T",
				"status": "COMPLETED",
				"purchase_units": []map[string]any{
					{
						"payments": map[string]any{
							"captures": []map[string]any{
								{
									"id":     "3C679366HH908993F",
									"status": "COMPLETED",
									"amount": map[string]any{
										"currency_code": "USD",
										"value":         "99.99",
									},
								},
							},
						},
					},
				},
			})
		},
	})

	client := NewPayPalClient(server.URL, "client-id", "client-secret", 5*time.Second)

	capture, err := client.CaptureOrder(context.Background(), "5O190127TN364715T")
	require.NoError(t, err)
	assert.Equal(t, "3C679366HH908993F", capture.ID)
	assert.Equal(t, "5O190127TN364715T", capture.OrderID)
	assert.Equal(t, "COMPLETED", capture.Status)
	assert.Equal(t, "99.99", capture.Amount)
}

func TestPayPalClient_RefundCapture(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v2/payments/captures/3C679366HH908993F/refund": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":     "1JU08902781691411",
				"status": "COMPLETED",
				"amount": map[string]any{
					"currency_code": "USD",
					"value":         "42.50",
				},
			})
		},
	})

	client := NewPayPalClient(server.URL, "client-id", "client-secret", 5*time.Second)

	refund, err := client.RefundCapture(context.Background(), "3C679366HH908993F", "42.50", "USD")
	require.NoError(t, err)
	assert.Equal(t, "1JU08902781691411", refund.ID)
	assert.Equal(t, "3C679366HH908993F", refund.CaptureID)
	assert.Equal(t, "COMPLETED", refund.Status)
	assert.Equal(t, "42.50", refund.Amount)
}

func TestPayPalClient_TokenFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewPayPalClient(server.URL, "bad-id", "bad-secret", 5*time.Second)

	order, err := client.CreateOrder(context.Background(), "10.00", "USD", "")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, paymentDomain.ErrProcessorUnavailable)
}

func TestPayPalClient_TokenIsCached(t *testing.T) {
	tokenRequests := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "test-token",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "X", "status": "CREATED"})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewPayPalClient(server.URL, "client-id", "client-secret", 5*time.Second)

	_, err := client.GetOrder(context.Background(), "X")
	require.NoError(t, err)
	_, err = client.GetOrder(context.Background(), "X")
	require.NoError(t, err)

	assert.Equal(t, 1, tokenRequests, "second request must reuse the cached token")
}
