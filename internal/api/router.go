package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rostrum-ai/rostrum/internal/api/handlers"
	mw "github.com/rostrum-ai/rostrum/internal/api/middleware"
	"github.com/rostrum-ai/rostrum/internal/config"
	"github.com/rostrum-ai/rostrum/internal/conversation"
	"github.com/rostrum-ai/rostrum/internal/domain"
	"github.com/rostrum-ai/rostrum/internal/embedding"
	"github.com/rostrum-ai/rostrum/internal/llm"
	"github.com/rostrum-ai/rostrum/internal/search"
	"github.com/rostrum-ai/rostrum/internal/store"
	"go.uber.org/zap"
)

// App holds the router and the conversation registry. The db pool is
// optional: without it the snapshot and evidence routes are not mounted.
type App struct {
	Router   *chi.Mux
	Registry *conversation.Registry
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	registry := conversation.NewRegistry(logger)

	// External clients via provider factory
	var llmClient domain.LLMClient
	var embeddingClient domain.EmbeddingClient

	llmClient, err := llm.NewClient(config.LLMProvider(), config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", config.LLMProvider()), zap.Error(err))
	} else {
		logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))
	}

	embeddingClient, err = embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey())
	if err != nil {
		logger.Warn("embedding client initialization failed", zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
	} else {
		logger.Info("embedding client initialized", zap.String("provider", config.EmbeddingProvider()))
	}

	var searchClient domain.SearchClient
	if key := config.TavilyAPIKey(); key != "" {
		minTier := search.SourceTier(config.MinSourceTier())
		if !search.ValidSourceTier(string(minTier)) {
			logger.Warn("invalid MIN_SOURCE_TIER, using tier_3", zap.String("min_source_tier", string(minTier)))
			minTier = search.Tier3
		}
		searchClient = search.NewTavilyClient(key, minTier)
		logger.Info("search client initialized", zap.String("min_tier", string(minTier)))
	} else {
		logger.Warn("TAVILY_API_KEY not set, research routes disabled")
	}

	// Handlers
	conversationHandler := handlers.NewConversationHandler(registry)
	agentHandler := handlers.NewAgentHandler(registry, llmClient)
	researchHandler := handlers.NewResearchHandler(searchClient)

	r := chi.NewRouter()

	app := &App{
		Router:   r,
		Registry: registry,
	}

	rateLimiter := mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst())

	r.Use(middleware.Recoverer)
	r.Use(mw.RequestID)
	r.Use(mw.Logging(logger))
	r.Use(mw.RateLimit(rateLimiter))

	r.Get("/health", app.health)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/conversations", func(r chi.Router) {
			r.Post("/", conversationHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/turns", conversationHandler.ProcessTurn)
				r.Get("/context", conversationHandler.Context)
				r.Get("/suggestion", conversationHandler.Suggestion)
				r.Get("/summary", conversationHandler.Summary)
				r.Get("/export", conversationHandler.Export)
				r.Post("/facts", conversationHandler.AddFact)
				r.Post("/questions", conversationHandler.AddQuestion)
				r.Delete("/questions", conversationHandler.ResolveQuestion)
				r.Post("/claims/{claimID}/resolve", conversationHandler.ResolveClaim)
				r.Post("/respond", agentHandler.Respond)

				if db != nil {
					snapshotHandler := handlers.NewSnapshotHandler(registry, store.NewSnapshotStore(db))
					r.Post("/snapshot", snapshotHandler.Save)
					r.Post("/restore", snapshotHandler.Restore)
				}
			})
		})

		if db != nil {
			evidenceHandler := handlers.NewEvidenceHandler(store.NewEvidenceStore(db), embeddingClient)
			r.Post("/evidence", evidenceHandler.Create)
			r.Get("/evidence/search", evidenceHandler.Search)
		}

		r.Get("/research", researchHandler.Search)
	})

	return app
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
