// Package search is the Web Search Adapter (C4): best-effort, real-time
// evidence lookup for fact verification, backed by the Tavily Search API.
// Grounded on original_source/anchor/tracker/web_searcher.py. A missing API
// key is not an error — Search returns (nil, nil) and callers fall back to
// the model's own training knowledge, same contract as pkg/llm.Gateway.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Result mirrors one Tavily search hit.
type Result struct {
	Title   string
	URL     string
	Content string
	Score   float64
}

// Searcher performs web searches for fact verification evidence.
type Searcher struct {
	apiKey     string
	httpClient *http.Client
}

// New constructs a Searcher. An empty apiKey makes Search always return
// (nil, nil), matching the "tavily key not configured" degrade-gracefully
// behavior of the original.
func New(apiKey string) *Searcher {
	return &Searcher{apiKey: apiKey, httpClient: &http.Client{Timeout: 20 * time.Second}}
}

type tavilyRequest struct {
	APIKey           string   `json:"api_key"`
	Query            string   `json:"query"`
	MaxResults       int      `json:"max_results"`
	SearchDepth      string   `json:"search_depth"`
	IncludeAnswer    bool     `json:"include_answer"`
	IncludeRawContent bool    `json:"include_raw_content"`
	IncludeDomains   []string `json:"include_domains,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search runs a search and returns structured results, or nil if the
// searcher has no API key, the request fails, or the response is
// unparsable. It never returns an error.
func (s *Searcher) Search(ctx context.Context, query string, maxResults int, includeDomains []string) []Result {
	if s.apiKey == "" {
		slog.Debug("search: TAVILY_API_KEY not configured, skipping web search")
		return nil
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:            s.apiKey,
		Query:             query,
		MaxResults:        maxResults,
		SearchDepth:       "advanced",
		IncludeAnswer:     false,
		IncludeRawContent: false,
		IncludeDomains:    includeDomains,
	})
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.tavily.com/search", bytes.NewReader(body))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Warn("search: request failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("search: non-200 response", "status", resp.StatusCode)
		return nil
	}

	var parsed tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		slog.Warn("search: decode failed", "error", err)
		return nil
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{Title: r.Title, URL: r.URL, Content: r.Content, Score: r.Score})
	}
	return results
}

// FormatResults renders results into an LLM-readable text block.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "(no search results)"
	}

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "[source %d] %s\n", i+1, r.Title)
		fmt.Fprintf(&sb, "  URL: %s\n", r.URL)
		content := r.Content
		truncated := ""
		if len(content) > 400 {
			content = content[:400]
			truncated = "…"
		}
		fmt.Fprintf(&sb, "  summary: %s%s\n\n", content, truncated)
	}
	return strings.TrimSpace(sb.String())
}

// BuildFactQuery constructs a search query from a Fact's fields,
// preferring the more precise verifiable expression, truncated to the
// length search engines handle best.
func BuildFactQuery(claim string, verifiableExpression *string) string {
	base := claim
	if verifiableExpression != nil && *verifiableExpression != "" {
		base = *verifiableExpression
	}
	if len(base) > 200 {
		base = base[:200]
	}
	return base
}
