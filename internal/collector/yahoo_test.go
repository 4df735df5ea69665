package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestYahoo_FetchIntradayBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/NVDA" || r.URL.Query().Get("interval") != "15m" {
			t.Errorf("unexpected request: %s", r.URL.String())
		}
		// 1704206700 = 2024-01-02 14:45:00 UTC
		w.Write([]byte(`{"chart": {"result": [{
			"timestamp": [1704207600, 1704206700, 1704208500],
			"indicators": {"quote": [{
				"open":   [101, 100, null],
				"high":   [102, 101, null],
				"low":    [100, 99, null],
				"close":  [101.5, 100.5, null],
				"volume": [2000, 1500, null]
			}]}
		}], "error": null}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	f.Location = time.UTC

	bars, err := f.FetchIntradayBars(context.Background(), "NVDA", "15min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected null bar to be skipped, got %d bars", len(bars))
	}
	if bars[0].Timestamp != "2024-01-02 14:45:00" || bars[0].Close != 100.5 || bars[0].Volume != 1500 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
}

func TestYahoo_UnsupportedInterval(t *testing.T) {
	f := NewYahooFetcher("", time.Second)
	if _, err := f.FetchIntradayBars(context.Background(), "NVDA", "7min"); err == nil {
		t.Error("expected error for unsupported interval")
	}
}

func TestYahoo_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("", 5*time.Second)
	f.BaseURL = srv.URL
	if _, err := f.FetchDailyBars(context.Background(), "NOPE"); err == nil {
		t.Error("expected api error")
	}
}
