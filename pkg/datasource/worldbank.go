package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WorldBankAdapter queries the World Bank Open Data API for a country +
// indicator pair. Expected params: "country" (ISO-2/3 code), "indicator"
// (World Bank indicator code, e.g. "NY.GDP.MKTP.KD.ZG").
type WorldBankAdapter struct {
	httpClient *http.Client
}

func NewWorldBankAdapter() *WorldBankAdapter {
	return &WorldBankAdapter{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

type worldBankObservation struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func (a *WorldBankAdapter) Query(ctx context.Context, params map[string]string) Result {
	country, indicator := params["country"], params["indicator"]
	if country == "" || indicator == "" {
		return Result{SourceType: "world_bank", OK: false, Content: "country and indicator are required"}
	}

	reqURL := fmt.Sprintf("https://api.worldbank.org/v2/country/%s/indicator/%s?format=json&per_page=20", country, indicator)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Result{SourceType: "world_bank", OK: false}
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Result{SourceType: "world_bank", OK: false}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{SourceType: "world_bank", OK: false}
	}

	// The World Bank API wraps the observation array as element [1] of a
	// 2-element top-level JSON array, with metadata in element [0].
	var raw []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil || len(raw) < 2 {
		return Result{SourceType: "world_bank", OK: false}
	}

	var obs []worldBankObservation
	if err := json.Unmarshal(raw[1], &obs); err != nil || len(obs) == 0 {
		return Result{SourceType: "world_bank", OK: false}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "World Bank %s for %s:\n", indicator, country)
	for _, o := range obs {
		if o.Value == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %s: %.4f\n", o.Date, o.Value)
	}

	return Result{
		Content:    sb.String(),
		DataPeriod: obs[len(obs)-1].Date + " to " + obs[0].Date,
		SourceURL:  "https://data.worldbank.org/indicator/" + indicator + "?locations=" + country,
		SourceType: "world_bank",
		OK:         true,
	}
}
