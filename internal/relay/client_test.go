package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.RelayConfig{
		URL:             serverURL,
		TimeoutSeconds:  2,
		MaxAttempts:     3,
		BackoffBaseMsec: 1,
	}, zap.NewNop())
}

func TestSendMessagePostsPayload(t *testing.T) {
	var got sendMessageRequest
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), 42, "Ваш заказ уже в пути", "SH2509A1B2C3")
	require.NoError(t, err)

	assert.Equal(t, "/webhook/send-message", path)
	assert.Equal(t, int64(42), got.TelegramUserID)
	assert.Equal(t, "Ваш заказ уже в пути", got.Message)
	assert.Equal(t, "SH2509A1B2C3", got.TicketNumber)
}

func TestSendMessageRetriesUntilSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), 42, "повторная доставка", "SH2509FFFFFF")
	require.NoError(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestSendMessageGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.SendMessage(context.Background(), 42, "никогда не дойдет", "SH2509000000")
	require.Error(t, err)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestSendMessageStopsOnCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(config.RelayConfig{
		URL:             server.URL,
		TimeoutSeconds:  2,
		MaxAttempts:     3,
		BackoffBaseMsec: 500,
	}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := client.SendMessage(ctx, 42, "отмена", "SH2509ABCDEF")
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}
