package paypal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendenwerk/fundraising-backend/internal/config"
)

func newTestVerifier(baseURL string) *Verifier {
	return NewVerifier(config.PayPalConfig{
		BaseURL:             baseURL,
		AccountAddress:      "donations@spendenwerk.example",
		ItemName:            "Spende",
		VerificationTimeout: 2 * time.Second,
	})
}

func TestReceiverMatches(t *testing.T) {
	verifier := newTestVerifier("http://localhost")

	assert.True(t, verifier.ReceiverMatches(map[string]string{
		"receiver_email": "donations@spendenwerk.example",
	}))
	assert.False(t, verifier.ReceiverMatches(map[string]string{
		"receiver_email": "mallory@example.com",
	}))
	assert.False(t, verifier.ReceiverMatches(map[string]string{}))
}

func TestItemNameMatches(t *testing.T) {
	verifier := newTestVerifier("http://localhost")

	assert.True(t, verifier.ItemNameMatches(map[string]string{"item_name": "Spende"}))
	assert.False(t, verifier.ItemNameMatches(map[string]string{"item_name": "Something else"}))
	assert.True(t, verifier.ItemNameMatches(map[string]string{}),
		"single payments carry no item_name")
}

func TestVerify_EchoesNotificationWithValidateCommand(t *testing.T) {
	var received *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		received = r
		w.Write([]byte("VERIFIED"))
	}))
	defer server.Close()

	verifier := newTestVerifier(server.URL)
	params := map[string]string{
		"txn_id":         "T4242",
		"payment_status": "Completed",
		"mc_gross":       "1.23",
	}

	err := verifier.Verify(context.Background(), params)

	require.NoError(t, err)
	require.NotNil(t, received)
	assert.Equal(t, http.MethodPost, received.Method)
	assert.Equal(t, "application/x-www-form-urlencoded", received.Header.Get("Content-Type"))
	assert.Equal(t, "_notify-validate", received.PostForm.Get("cmd"))
	assert.Equal(t, "T4242", received.PostForm.Get("txn_id"))
	assert.Equal(t, "Completed", received.PostForm.Get("payment_status"))
	assert.Equal(t, "1.23", received.PostForm.Get("mc_gross"))
}

func TestVerify_TrimsWhitespaceAroundAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("VERIFIED\n"))
	}))
	defer server.Close()

	err := newTestVerifier(server.URL).Verify(context.Background(), map[string]string{})
	assert.NoError(t, err)
}

func TestVerify_FailAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("INVALID"))
	}))
	defer server.Close()

	err := newTestVerifier(server.URL).Verify(context.Background(), map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID")
}

func TestVerify_EmptyAnswerFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestVerifier(server.URL).Verify(context.Background(), map[string]string{})
	assert.Error(t, err)
}

func TestVerify_TransportErrorFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	err := newTestVerifier(server.URL).Verify(context.Background(), map[string]string{})
	assert.Error(t, err)
}
