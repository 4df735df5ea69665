package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"PriceScan/internal/model"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

// AlphaVantageFetcher implements Fetcher using the Alpha Vantage REST API.
type AlphaVantageFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAlphaVantageFetcher creates a new fetcher with optional proxy support.
func NewAlphaVantageFetcher(apiKey, proxyURL string, timeout time.Duration) *AlphaVantageFetcher {
	return &AlphaVantageFetcher{
		BaseURL: alphaVantageURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL, timeout),
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// avBar is one entry of an Alpha Vantage time series; all values are strings.
type avBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

func (f *AlphaVantageFetcher) FetchDailyBars(ctx context.Context, symbol string) ([]model.Bar, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", symbol)
	params.Set("outputsize", "full")
	return f.fetchSeries(ctx, params, "Time Series (Daily)")
}

// FetchIntradayBars fetches intraday bars; interval is one of 1min, 5min,
// 15min, 30min or 60min.
func (f *AlphaVantageFetcher) FetchIntradayBars(ctx context.Context, symbol, interval string) ([]model.Bar, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_INTRADAY")
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("outputsize", "full")
	return f.fetchSeries(ctx, params, fmt.Sprintf("Time Series (%s)", interval))
}

func (f *AlphaVantageFetcher) fetchSeries(ctx context.Context, params url.Values, seriesKey string) ([]model.Bar, error) {
	params.Set("apikey", f.APIKey)
	endpoint := f.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("alphavantage decode: %w", err)
	}
	// Errors and rate-limit notices come back with status 200.
	for _, key := range []string{"Error Message", "Note", "Information"} {
		if msg, ok := raw[key]; ok {
			var text string
			if err := json.Unmarshal(msg, &text); err != nil {
				text = string(msg)
			}
			return nil, fmt.Errorf("alphavantage api error: %s", text)
		}
	}
	seriesRaw, ok := raw[seriesKey]
	if !ok {
		return nil, fmt.Errorf("alphavantage: no %q in response", seriesKey)
	}
	var series map[string]avBar
	if err := json.Unmarshal(seriesRaw, &series); err != nil {
		return nil, fmt.Errorf("alphavantage decode series: %w", err)
	}

	bars := make([]model.Bar, 0, len(series))
	for ts, v := range series {
		b, err := v.toBar(ts)
		if err != nil {
			return nil, fmt.Errorf("alphavantage bar %s: %w", ts, err)
		}
		bars = append(bars, b)
	}
	// Timestamps are zero-padded, so string order is chronological.
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
	return bars, nil
}

func (v avBar) toBar(ts string) (model.Bar, error) {
	b := model.Bar{Timestamp: ts}
	var err error
	if b.Open, err = strconv.ParseFloat(v.Open, 64); err != nil {
		return b, fmt.Errorf("open: %w", err)
	}
	if b.High, err = strconv.ParseFloat(v.High, 64); err != nil {
		return b, fmt.Errorf("high: %w", err)
	}
	if b.Low, err = strconv.ParseFloat(v.Low, 64); err != nil {
		return b, fmt.Errorf("low: %w", err)
	}
	if b.Close, err = strconv.ParseFloat(v.Close, 64); err != nil {
		return b, fmt.Errorf("close: %w", err)
	}
	if b.Volume, err = strconv.ParseInt(v.Volume, 10, 64); err != nil {
		return b, fmt.Errorf("volume: %w", err)
	}
	return b, nil
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
