package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/vansh-choudhary01/CashPay/internal/domain/errors"
	"github.com/vansh-choudhary01/CashPay/internal/domain/model"
)

// ErrNoSettledPayment indicates the provider holds no captured payment for the intent yet.
var ErrNoSettledPayment = errors.New("no settled payment")

// RateLimitError represents a throttling signal from the provider.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("provider rate limited, retry after %s", e.RetryAfter)
}

// Client exposes the payment provider operations the settlement engine needs.
type Client interface {
	CreateIntent(ctx context.Context, req model.PaymentIntentRequest) (*model.PaymentIntent, error)
	// FetchSettledPayment returns the captured payment reference for the
	// intent, or ErrNoSettledPayment when nothing has been captured.
	FetchSettledPayment(ctx context.Context, intentRef string) (string, error)
}

// HTTPClient implements Client against the provider REST API.
type HTTPClient struct {
	baseURL    *url.URL
	keyID      string
	keySecret  string
	httpClient *http.Client
	logger     *slog.Logger
}

type intentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type paymentsResponse struct {
	Items []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"items"`
}

// NewHTTPClient creates the provider client with a bounded default timeout.
func NewHTTPClient(baseURL, keyID, keySecret string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("provider url must be absolute")
	}
	return &HTTPClient{
		baseURL:   parsed,
		keyID:     keyID,
		keySecret: keySecret,
		logger:    logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateIntent reserves the expected amount on the provider side.
func (c *HTTPClient) CreateIntent(ctx context.Context, req model.PaymentIntentRequest) (*model.PaymentIntent, error) {
	payload, err := json.Marshal(map[string]any{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	})
	if err != nil {
		return nil, err
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/orders")

	body, err := c.do(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	var data intentResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("%w: intent response missing id", domainErrors.ErrProviderUnavailable)
	}

	return &model.PaymentIntent{
		IntentRef:        data.ID,
		ProviderAmount:   data.Amount,
		ProviderCurrency: data.Currency,
	}, nil
}

// FetchSettledPayment asks the provider for a captured payment on the intent.
func (c *HTTPClient) FetchSettledPayment(ctx context.Context, intentRef string) (string, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/orders/", intentRef, "/payments")

	body, err := c.do(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", err
	}

	var data paymentsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("decode payments response: %w", err)
	}

	for _, item := range data.Items {
		if item.Status == "captured" {
			return item.ID, nil
		}
	}
	return "", ErrNoSettledPayment
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, RateLimitError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Error("provider request failed", slog.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrProviderUnavailable, resp.Status)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		c.logger.Error("provider rejected request", slog.Int("status", resp.StatusCode), slog.String("body", string(respBody)))
		return nil, fmt.Errorf("provider error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
