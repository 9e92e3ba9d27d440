package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kasazen/chess-chat/internal/analysis"
	"github.com/kasazen/chess-chat/internal/coach"
	"github.com/kasazen/chess-chat/internal/eco"
	"github.com/kasazen/chess-chat/internal/gen"
	"github.com/kasazen/chess-chat/internal/httpapi"
	"github.com/kasazen/chess-chat/internal/logx"
)

func main() {
	defaultStockfish := "/usr/local/bin/stockfish"
	if envPath := os.Getenv("STOCKFISH_PATH"); envPath != "" {
		defaultStockfish = envPath
	}

	var (
		// Server
		addr = flag.String("addr", ":8000", "listen address")

		// Engine
		stockfishPath = flag.String("stockfish", defaultStockfish, "path to a UCI engine executable")
		engineBudget  = flag.Int("engine-budget-ms", 100, "per-request engine time budget in milliseconds")
		engineHash    = flag.Int("engine-hash", 64, "engine hash MB")
		engineThreads = flag.Int("engine-threads", 1, "engine threads")

		// Generation
		llmBackend = flag.String("llm", "ollama", "generation backend: ollama, openai or mock")
		llmModel   = flag.String("llm-model", "llama3.1", "model name for the generation backend")
		ollamaURL  = flag.String("ollama-url", "", "Ollama server URL (empty = library default)")

		// ECO settings
		ecoDir = flag.String("eco-dir", "", "directory containing ECO .tsv files (empty = disabled)")
	)
	flag.Parse()

	logger := logx.NewLogger()

	// Analysis chain: engine first, deterministic material fallback second.
	chain := analysis.NewChain(
		logger.With().Str("component", "analysis").Logger(),
		analysis.NewEngine(analysis.EngineConfig{
			Path:    *stockfishPath,
			HashMB:  *engineHash,
			Threads: *engineThreads,
			Logger:  logger.With().Str("component", "engine").Logger(),
		}),
		analysis.NewMaterial(),
	)

	var generator coach.Generator
	var err error
	switch *llmBackend {
	case "openai":
		generator, err = gen.NewOpenAI(*llmModel)
	case "mock":
		generator = gen.NewMock()
	default:
		generator, err = gen.NewOllama(*llmModel, *ollamaURL)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("backend", *llmBackend).Msg("create generator")
	}
	logger.Info().Str("backend", *llmBackend).Str("model", *llmModel).Msg("generator ready")

	// Load ECO opening database
	var ecoDB *eco.Database
	if *ecoDir != "" {
		ecoDB = eco.NewDatabase()
		if err := ecoDB.LoadDir(*ecoDir); err != nil {
			logger.Warn().Err(err).Str("dir", *ecoDir).Msg("failed to load ECO database")
			ecoDB = nil
		} else {
			logger.Info().Int("openings", ecoDB.Count()).Msg("ECO database loaded")
		}
	}

	pipeline := coach.New(coach.Config{
		Logger:         logger.With().Str("component", "pipeline").Logger(),
		Analyzer:       chain,
		Generator:      generator,
		Openings:       ecoDB,
		AnalysisBudget: time.Duration(*engineBudget) * time.Millisecond,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:         *addr,
		Handler:      httpapi.NewRouter(logger, pipeline),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("api server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http server shutdown error")
	}

	logger.Info().Msg("shutdown complete")
}
