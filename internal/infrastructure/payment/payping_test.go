package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storeforge/backend/internal/cfg"
	"github.com/storeforge/backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct{}

func (testLogger) Debugf(format string, args ...any)            {}
func (testLogger) Infof(format string, args ...any)             {}
func (testLogger) Warnf(format string, args ...any)             {}
func (testLogger) Errorf(err error, format string, args ...any) {}

func newGateway(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *PayPing) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewPayPing(&cfg.PaymentCfg{
		BaseURL: server.URL,
		Token:   "token-1",
		Timeout: 5 * time.Second,
	}, testLogger{})

	return server, client
}

func TestVerifyPayment_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	_, client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"amount": 900, "cardNumber": "6037****1234"})
	})

	receipt, err := client.VerifyPayment(context.Background(), "ref-77", 900)

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-1", gotAuth)
	assert.Equal(t, "ref-77", gotBody["refId"])
	assert.Equal(t, float64(900), gotBody["amount"])
	assert.Equal(t, "ref-77", receipt.RefID)
	assert.Equal(t, int64(900), receipt.Amount)
	assert.Equal(t, "6037****1234", receipt.CardNumber)
}

func TestVerifyPayment_GatewayRejection(t *testing.T) {
	_, client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"message": "amount mismatch"})
	})

	_, err := client.VerifyPayment(context.Background(), "ref-77", 900)

	assert.ErrorIs(t, err, e.ErrPaymentNotVerified)
}

func TestVerifyPayment_GatewayUnavailableIsNotRejection(t *testing.T) {
	_, client := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.VerifyPayment(context.Background(), "ref-77", 900)

	require.Error(t, err)
	assert.NotErrorIs(t, err, e.ErrPaymentNotVerified)
}

func TestVerifyPayment_MissingTokenFailsFast(t *testing.T) {
	requests := 0
	server, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})

	client := NewPayPing(&cfg.PaymentCfg{BaseURL: server.URL, Timeout: 5 * time.Second}, testLogger{})

	_, err := client.VerifyPayment(context.Background(), "ref-77", 900)

	assert.ErrorIs(t, err, e.ErrRemoteAuth)
	assert.Zero(t, requests, "no request may leave the process without a token")
}
