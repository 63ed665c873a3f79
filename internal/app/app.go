// Package app wires every component (config, database, LLM gateway, data
// adapters, repository, pipeline operators, aggregator, scheduler, cleanup
// service) into a single object shared by cmd/server and cmd/worker, the
// way tarsy's cmd/tarsy/main.go wires its service layer once at startup.
package app

import (
	"context"
	"fmt"

	"github.com/anchorwatch/anchor/pkg/aggregator"
	"github.com/anchorwatch/anchor/pkg/cleanup"
	anchorcontext "github.com/anchorwatch/anchor/pkg/context"
	"github.com/anchorwatch/anchor/pkg/config"
	"github.com/anchorwatch/anchor/pkg/database"
	"github.com/anchorwatch/anchor/pkg/datasource"
	"github.com/anchorwatch/anchor/pkg/extract"
	"github.com/anchorwatch/anchor/pkg/llm"
	"github.com/anchorwatch/anchor/pkg/pipeline"
	"github.com/anchorwatch/anchor/pkg/prompt"
	"github.com/anchorwatch/anchor/pkg/repository"
	"github.com/anchorwatch/anchor/pkg/scheduler"
	"github.com/anchorwatch/anchor/pkg/search"
)

// App holds every long-lived component. Build once with New, then drive it
// from cmd/server (HTTP health surface) or cmd/worker (scheduler loop).
type App struct {
	Settings *config.Settings

	DB   *database.Client
	Repo *repository.Repository

	Scheduler *scheduler.Scheduler
	Cleanup   *cleanup.Service
}

// New loads configuration, opens the database (applying migrations), and
// wires every pipeline operator into a Scheduler in the fixed C7 pass
// order: Context Enricher, Claim Extractor, then the ten Verification
// Pipeline operators, per spec.md §4.7/§4.9.
func New(ctx context.Context) (*App, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("app: load config: %w", err)
	}

	dbCfg, err := database.ConfigFromURL(settings.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("app: database config: %w", err)
	}
	dbClient, err := database.NewClient(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("app: connect database: %w", err)
	}

	repo := repository.New(dbClient.DB())

	gateway, err := llm.NewGateway(settings)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("app: build llm gateway: %w", err)
	}

	prompts := prompt.NewRegistry()
	searcher := search.New(settings.TavilyAPIKey)
	router := buildDataRouter(settings)

	enricher := anchorcontext.New(repo, map[string]anchorcontext.PlatformFetcher{
		"twitter": anchorcontext.NewTwitterFetcher(settings.TwitterBearerToken),
		"weibo":   anchorcontext.NewWeiboFetcher(),
	})

	extractor, err := extract.New(gateway, repo, prompts, settings.PromptVersion)
	if err != nil {
		_ = dbClient.Close()
		return nil, fmt.Errorf("app: build extractor: %w", err)
	}

	agg := aggregator.New(repo)

	sched := scheduler.New(settings.SchedulerInterval, 50)
	sched.Register("context_enricher", enricher)
	sched.Register("claim_extractor", extractor)
	sched.Register("author_profiler", pipeline.NewAuthorProfiler(repo, gateway, searcher))
	sched.Register("fact_verifier", pipeline.NewFactVerifier(repo, gateway, searcher, router))
	sched.Register("logic_evaluator", pipeline.NewLogicEvaluator(repo, gateway))
	sched.Register("conclusion_monitor", pipeline.NewConclusionMonitor(repo, gateway))
	sched.Register("solution_simulator", pipeline.NewSolutionSimulator(repo, gateway))
	sched.Register("relation_mapper", pipeline.NewRelationMapper(repo, gateway))
	sched.Register("verdict_deriver", pipeline.NewVerdictDeriver(repo))
	sched.Register("role_evaluator", pipeline.NewRoleEvaluator(repo, gateway))
	sched.Register("post_quality_evaluator", pipeline.NewPostQualityEvaluator(repo, gateway))
	sched.Register("author_stats_updater", pipeline.NewStatsUpdater(repo, agg))

	cleanupSvc := cleanup.NewService(settings.Retention(), repo)

	return &App{
		Settings:  settings,
		DB:        dbClient,
		Repo:      repo,
		Scheduler: sched,
		Cleanup:   cleanupSvc,
	}, nil
}

// Close releases every resource the App holds.
func (a *App) Close() error {
	return a.DB.Close()
}

// buildDataRouter wires every datasource.Adapter the pack supplies. Keys
// match the canonical source types datasource.Router.Query resolves
// aliases to.
func buildDataRouter(settings *config.Settings) *datasource.Router {
	return datasource.NewRouter(map[string]datasource.Adapter{
		"fred":             datasource.NewFREDAdapter(settings.FREDAPIKey),
		"bls":              datasource.NewBLSAdapter(settings.BLSAPIKey),
		"world_bank":       datasource.NewWorldBankAdapter(),
		"imf":              datasource.NewIMFAdapter(),
		"federal_register": datasource.NewFederalRegisterAdapter(),
		"usitc":            datasource.NewUSITCAdapter(),
		"china_macro":      datasource.NewChinaMacroAdapter(),
	})
}
