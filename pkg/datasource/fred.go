package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FREDAdapter queries the St. Louis Fed's FRED API for a named series.
// Grounded on original_source/anchor/datasources/fred.py: series_id is
// required; start_date/end_date/tail_n (default 36) are optional. Any
// failure (network, missing key, empty series) yields a not-OK Result,
// never an error.
type FREDAdapter struct {
	apiKey     string
	httpClient *http.Client
}

// NewFREDAdapter constructs an adapter; an empty apiKey makes every Query
// call return a not-OK result immediately.
func NewFREDAdapter(apiKey string) *FREDAdapter {
	return &FREDAdapter{apiKey: apiKey, httpClient: &http.Client{Timeout: 15 * time.Second}}
}

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func (a *FREDAdapter) Query(ctx context.Context, params map[string]string) Result {
	if a.apiKey == "" {
		return Result{SourceType: "fred", OK: false}
	}
	seriesID := params["series_id"]
	if seriesID == "" {
		return Result{SourceType: "fred", OK: false, Content: "series_id is required"}
	}

	tailN := 36
	if v, ok := params["tail_n"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			tailN = n
		}
	}

	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", a.apiKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", strconv.Itoa(tailN))
	if v := params["start_date"]; v != "" {
		q.Set("observation_start", v)
	}
	if v := params["end_date"]; v != "" {
		q.Set("observation_end", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.stlouisfed.org/fred/series/observations?"+q.Encode(), nil)
	if err != nil {
		return Result{SourceType: "fred", OK: false}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Result{SourceType: "fred", OK: false}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{SourceType: "fred", OK: false}
	}

	var parsed fredObservationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || len(parsed.Observations) == 0 {
		return Result{SourceType: "fred", OK: false}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "FRED series %s, most recent %d observations:\n", seriesID, len(parsed.Observations))
	for _, obs := range parsed.Observations {
		fmt.Fprintf(&sb, "  %s: %s\n", obs.Date, obs.Value)
	}

	return Result{
		Content:    sb.String(),
		DataPeriod: fmt.Sprintf("%s to %s", parsed.Observations[len(parsed.Observations)-1].Date, parsed.Observations[0].Date),
		SourceURL:  "https://fred.stlouisfed.org/series/" + seriesID,
		SourceType: "fred",
		OK:         true,
	}
}
