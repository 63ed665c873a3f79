// Package datasource is the External Data Router (C3): a single Query
// entry point dispatching to named adapters (FRED, BLS, World Bank, IMF,
// Federal Register, USITC, a China-macro adapter), each returning a
// uniform Result. Grounded on original_source/anchor/datasources/router.py.
package datasource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Result is the uniform shape every adapter returns, never an error —
// callers inspect OK and fall back to web search when it's false (same
// "absence is data, not failure" contract as the LLM Gateway).
type Result struct {
	Content    string
	DataPeriod string
	SourceURL  string
	SourceType string
	OK         bool
}

// Adapter queries one external data source.
type Adapter interface {
	Query(ctx context.Context, params map[string]string) Result
}

// Router dispatches a Query by source type to its registered Adapter,
// tolerating the aliases the original Python router accepted.
type Router struct {
	adapters map[string]Adapter
}

// NewRouter builds a Router with the given adapters keyed by canonical
// source type name.
func NewRouter(adapters map[string]Adapter) *Router {
	return &Router{adapters: adapters}
}

var aliases = map[string]string{
	"world_bank": "world_bank", "worldbank": "world_bank", "wb": "world_bank",
	"federal_register": "federal_register", "fed_register": "federal_register", "fedreg": "federal_register",
	"akshare": "china_macro", "akshare_cn": "china_macro", "china": "china_macro",
	"fred": "fred", "bls": "bls", "imf": "imf", "usitc": "usitc",
}

// Query routes to the adapter for sourceType, or returns a not-OK Result
// for "web" (signaling the caller to fall back to web search) or an
// unrecognized type.
func (r *Router) Query(ctx context.Context, sourceType string, params map[string]string) Result {
	st := strings.ToLower(strings.TrimSpace(sourceType))
	if st == "web" {
		return Result{SourceType: "web", OK: false}
	}

	canonical, ok := aliases[st]
	if !ok {
		canonical = st
	}

	adapter, ok := r.adapters[canonical]
	if !ok {
		slog.Warn("datasource: unknown source_type", "source_type", sourceType)
		return Result{Content: fmt.Sprintf("unknown data source type: %s", sourceType), SourceType: sourceType, OK: false}
	}
	return adapter.Query(ctx, params)
}
