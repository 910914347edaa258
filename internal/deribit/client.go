package deribit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client interface for testability
type Client interface {
	GetInstruments(ctx context.Context, currency string) ([]Instrument, error)
	GetBookSummaries(ctx context.Context, currency string) ([]BookSummary, error)
	GetTicker(ctx context.Context, instrumentName string) (*Ticker, error)
}

type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// envelope is the JSON-RPC style wrapper every public endpoint responds with.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *apiError       `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewClient(baseURL string, ratePerSec int, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	transport := &http.Transport{
		MaxIdleConns:       100,
		MaxConnsPerHost:    10,
		IdleConnTimeout:    90 * time.Second,
		DisableCompression: false,
	}

	return &HTTPClient{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec*2),
		logger:  logger,
	}
}

// GetInstruments lists active (non-expired) option instruments for a currency.
func (c *HTTPClient) GetInstruments(ctx context.Context, currency string) ([]Instrument, error) {
	params := url.Values{}
	params.Set("currency", currency)
	params.Set("kind", "option")
	params.Set("expired", "false")

	var instruments []Instrument
	if err := c.get(ctx, "get_instruments", params, &instruments); err != nil {
		return nil, fmt.Errorf("get_instruments %s: %w", currency, err)
	}
	return instruments, nil
}

// GetBookSummaries lists option book summaries (open interest) for a currency.
func (c *HTTPClient) GetBookSummaries(ctx context.Context, currency string) ([]BookSummary, error) {
	params := url.Values{}
	params.Set("currency", currency)
	params.Set("kind", "option")

	var summaries []BookSummary
	if err := c.get(ctx, "get_book_summary_by_currency", params, &summaries); err != nil {
		return nil, fmt.Errorf("get_book_summary_by_currency %s: %w", currency, err)
	}
	return summaries, nil
}

// GetTicker fetches the ticker (greeks + index price) for a single instrument.
func (c *HTTPClient) GetTicker(ctx context.Context, instrumentName string) (*Ticker, error) {
	params := url.Values{}
	params.Set("instrument_name", instrumentName)

	var ticker Ticker
	if err := c.get(ctx, "ticker", params, &ticker); err != nil {
		return nil, fmt.Errorf("ticker %s: %w", instrumentName, err)
	}
	return &ticker, nil
}

func (c *HTTPClient) get(ctx context.Context, method string, params url.Values, out any) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + "/" + method + "?" + params.Encode()
	c.logger.Debug("requesting", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}

	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response: %w", readErr)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if env.Error != nil {
		return fmt.Errorf("deribit error %d: %s", env.Error.Code, env.Error.Message)
	}
	if env.Result == nil {
		return fmt.Errorf("response missing result")
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decoding result: %w", err)
	}
	return nil
}
