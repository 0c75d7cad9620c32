package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nketchum/sidebet/internal/usecase"
)

func TestNewWebhookNotifier(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		n, err := NewWebhookNotifier(WebhookConfig{
			WebhookURL: "https://hooks.example.com/sidebet",
			Token:      " secret ",
			Timeout:    2 * time.Second,
		}, nil)
		require.NoError(t, err)
		require.NotNil(t, n)
		assert.Equal(t, "secret", n.token)
		assert.Equal(t, 2*time.Second, n.timeout)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := NewWebhookNotifier(WebhookConfig{}, nil)
		require.Error(t, err)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := NewWebhookNotifier(WebhookConfig{WebhookURL: "ftp://hooks.example.com"}, nil)
		require.Error(t, err)
	})

	t.Run("default timeout", func(t *testing.T) {
		n, err := NewWebhookNotifier(WebhookConfig{WebhookURL: "https://hooks.example.com"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, n.timeout)
	})
}

func TestBuildSettlementText(t *testing.T) {
	event := usecase.SettlementEvent{
		BetID:  "bet-1",
		Status: "won",
		Result: "chiefs side won",
	}
	assert.Equal(t, "Bet bet-1 settled: won (chiefs side won)", buildSettlementText(event))

	event.Result = ""
	assert.Equal(t, "Bet bet-1 settled: won", buildSettlementText(event))
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, isRetryableStatus(408))
	assert.True(t, isRetryableStatus(429))
	assert.True(t, isRetryableStatus(500))
	assert.True(t, isRetryableStatus(503))
	assert.False(t, isRetryableStatus(200))
	assert.False(t, isRetryableStatus(400))
	assert.False(t, isRetryableStatus(404))
}
