package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const avIntradayBody = `{
  "Meta Data": {"1. Information": "Intraday (15min)", "2. Symbol": "NVDA"},
  "Time Series (15min)": {
    "2024-01-02 10:00:00": {"1. open": "101.0", "2. high": "102.0", "3. low": "100.5", "4. close": "101.5", "5. volume": "2000"},
    "2024-01-02 09:45:00": {"1. open": "100.0", "2. high": "101.0", "3. low": "99.5", "4. close": "100.8", "5. volume": "1500"}
  }
}`

func newTestAlphaVantage(t *testing.T, handler http.HandlerFunc) *AlphaVantageFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewAlphaVantageFetcher("test-key", "", 5*time.Second)
	f.BaseURL = srv.URL
	return f
}

func TestAlphaVantage_FetchIntradayBars(t *testing.T) {
	f := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("function") != "TIME_SERIES_INTRADAY" || q.Get("interval") != "15min" ||
			q.Get("symbol") != "NVDA" || q.Get("apikey") != "test-key" || q.Get("outputsize") != "full" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(avIntradayBody))
	})

	bars, err := f.FetchIntradayBars(context.Background(), "NVDA", "15min")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Timestamp != "2024-01-02 09:45:00" || bars[0].Close != 100.8 || bars[0].Volume != 1500 {
		t.Errorf("bars not sorted or parsed: %+v", bars[0])
	}
}

func TestAlphaVantage_FetchDailyBars(t *testing.T) {
	f := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "TIME_SERIES_DAILY" {
			t.Errorf("unexpected function: %s", r.URL.Query().Get("function"))
		}
		w.Write([]byte(`{"Time Series (Daily)": {
			"2023-01-03": {"1. open": "14.8", "2. high": "15.0", "3. low": "14.0", "4. close": "14.3", "5. volume": "401277000"}}}`))
	})
	bars, err := f.FetchDailyBars(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 || bars[0].Timestamp != "2023-01-03" || bars[0].Volume != 401277000 {
		t.Errorf("unexpected bars: %+v", bars)
	}
}

func TestAlphaVantage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"api error message", 200, `{"Error Message": "Invalid API call."}`, "Invalid API call."},
		{"rate limit note", 200, `{"Note": "Thank you for using Alpha Vantage!"}`, "Thank you"},
		{"non-string notice", 200, `{"Information": {"detail": "premium endpoint"}}`, `{"detail": "premium endpoint"}`},
		{"missing series", 200, `{"Meta Data": {}}`, "no \"Time Series (15min)\""},
		{"http error", 500, `oops`, "status 500"},
		{"bad number", 200, `{"Time Series (15min)": {"t": {"1. open": "x", "2. high": "1", "3. low": "1", "4. close": "1", "5. volume": "1"}}}`, "open"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := f.FetchIntradayBars(context.Background(), "NVDA", "15min")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
