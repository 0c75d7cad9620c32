package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/nketchum/sidebet/internal/platform/logging"
	"github.com/nketchum/sidebet/internal/platform/resilience"
	"github.com/nketchum/sidebet/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookConfig struct {
	WebhookURL     string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookNotifier posts settlement events to the group's chat webhook.
// Delivery is fire-and-forget from the caller's point of view; the webhook
// receiver deduplicates on the delivery id.
type WebhookNotifier struct {
	client         *fasthttp.Client
	webhookURL     string
	token          string
	timeout        time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookNotifier(cfg WebhookConfig, logger *logging.Logger) (*WebhookNotifier, error) {
	if logger == nil {
		logger = logging.Default()
	}

	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, crerr.New("webhook url is required")
	}
	if !strings.HasPrefix(webhookURL, "http://") && !strings.HasPrefix(webhookURL, "https://") {
		return nil, crerr.Newf("webhook url %q must use http or https", webhookURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookNotifier{
		client: &fasthttp.Client{
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		webhookURL:     webhookURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}, nil
}

type settlementPayload struct {
	DeliveryID string `json:"delivery_id"`
	BetID      string `json:"bet_id"`
	Status     string `json:"status"`
	Result     string `json:"result,omitempty"`
	Season     int    `json:"season"`
	Week       int    `json:"week"`
	SettledAt  string `json:"settled_at"`
	Text       string `json:"text"`
}

func (n *WebhookNotifier) PublishSettlement(ctx context.Context, event usecase.SettlementEvent) error {
	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			n.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", n.breaker.State())
			return fmt.Errorf("webhook is temporarily unavailable: %w", err)
		}
	}

	payload := settlementPayload{
		DeliveryID: uuid.NewString(),
		BetID:      event.BetID,
		Status:     event.Status,
		Result:     event.Result,
		Season:     event.Season,
		Week:       event.Week,
		SettledAt:  event.SettledAt.UTC().Format(time.RFC3339),
		Text:       buildSettlementText(event),
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal settlement payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Delivery-Id", payload.DeliveryID)
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}
	req.SetBody(body)

	deadline := time.Now().Add(n.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := n.client.DoDeadline(req, resp, deadline); err != nil {
		callErr := fmt.Errorf("%w: post settlement bet_id=%s: %v", errWebhookTransient, event.BetID, err)
		n.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		raw := strings.TrimSpace(string(resp.Body()))
		if len(raw) > 512 {
			raw = raw[:512] + "...(truncated)"
		}
		callErr := fmt.Errorf("post settlement bet_id=%s status=%d body=%s", event.BetID, status, raw)
		if isRetryableStatus(status) {
			callErr = fmt.Errorf("%w: %v", errWebhookTransient, callErr)
		}
		n.recordCircuitResult(callErr)
		return callErr
	}

	n.recordCircuitResult(nil)
	n.logger.InfoContext(ctx, "settlement published",
		"bet_id", event.BetID,
		"status", event.Status,
		"delivery_id", payload.DeliveryID,
	)
	return nil
}

func buildSettlementText(event usecase.SettlementEvent) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("Bet ")
	_, _ = buf.WriteString(event.BetID)
	_, _ = buf.WriteString(" settled: ")
	_, _ = buf.WriteString(event.Status)
	if event.Result != "" {
		_, _ = buf.WriteString(" (")
		_, _ = buf.WriteString(event.Result)
		_, _ = buf.WriteString(")")
	}
	return buf.String()
}

func (n *WebhookNotifier) recordCircuitResult(err error) {
	if !n.circuitEnabled || n.breaker == nil {
		return
	}
	if err != nil && crerr.Is(err, errWebhookTransient) {
		n.breaker.RecordFailure()
		return
	}
	n.breaker.RecordSuccess()
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusRequestTimeout ||
		status == fasthttp.StatusTooManyRequests ||
		status >= fasthttp.StatusInternalServerError
}
