package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dgnsrekt/deribit-gex/internal/cache"
	"github.com/dgnsrekt/deribit-gex/internal/config"
	"github.com/dgnsrekt/deribit-gex/internal/deribit"
	"github.com/dgnsrekt/deribit-gex/internal/gex"
)

type stubClient struct {
	calls   int64
	listErr error
}

func (s *stubClient) GetInstruments(ctx context.Context, currency string) ([]deribit.Instrument, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []deribit.Instrument{
		{Name: "BTC-28MAR25-50000-C", Strike: 50000, OptionType: "call", ContractSize: 1},
	}, nil
}

func (s *stubClient) GetBookSummaries(ctx context.Context, currency string) ([]deribit.BookSummary, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []deribit.BookSummary{
		{Name: "BTC-28MAR25-50000-C", OpenInterest: 100},
	}, nil
}

func (s *stubClient) GetTicker(ctx context.Context, name string) (*deribit.Ticker, error) {
	atomic.AddInt64(&s.calls, 1)
	gamma := 0.0002
	index := 60000.0
	return &deribit.Ticker{
		Name:       name,
		IndexPrice: &index,
		Greeks:     deribit.Greeks{Gamma: &gamma},
	}, nil
}

func newTestRouter(t *testing.T, client deribit.Client) http.Handler {
	t.Helper()

	logger, _ := zap.NewDevelopment()
	cfg := &config.Config{Symbols: []string{"BTC", "ETH", "SOL"}}

	service := gex.NewService(client, cache.New[*gex.Result](), gex.Options{
		Concurrency: 4,
		TTL:         5 * time.Minute,
	}, logger)

	return NewRouter(NewServer(service, cfg, logger), nil, logger)
}

func TestGetGex_Success(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/gex?currency=btc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result gex.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if result.Currency != "BTC" {
		t.Errorf("currency = %s", result.Currency)
	}
	if result.SpotPrice != 60000 {
		t.Errorf("spot = %v", result.SpotPrice)
	}
	if _, ok := result.Strikes["50000"]; !ok {
		t.Errorf("missing strike bucket: %v", result.Strikes)
	}
}

func TestGetGex_DefaultsToBTC(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/gex", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var result gex.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Currency != "BTC" {
		t.Errorf("currency = %s", result.Currency)
	}
}

func TestGetGex_InvalidSymbolNoUpstreamCall(t *testing.T) {
	client := &stubClient{}
	router := newTestRouter(t, client)

	req := httptest.NewRequest(http.MethodGet, "/api/gex?currency=DOGE", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("expected an error message")
	}

	if atomic.LoadInt64(&client.calls) != 0 {
		t.Errorf("rejected symbol must not reach upstream, got %d calls", client.calls)
	}
}

func TestGetGex_UpstreamFailure(t *testing.T) {
	client := &stubClient{listErr: errors.New("get_instruments BTC: unexpected status from Deribit: 503")}
	router := newTestRouter(t, client)

	req := httptest.NewRequest(http.MethodGet, "/api/gex?currency=BTC", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == "" {
		t.Error("expected the upstream failure message")
	}
}

func TestGetHealth(t *testing.T) {
	router := newTestRouter(t, &stubClient{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
