package bootstrap

import (
	"context"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"autonote-backend/internal/cleanup"
	"autonote-backend/internal/notes"
	"autonote-backend/internal/quota"
	"autonote-backend/internal/shared/config"
	"autonote-backend/internal/shared/server"
	"autonote-backend/internal/shared/storage/object"
	localstore "autonote-backend/internal/shared/storage/object/local"
	s3store "autonote-backend/internal/shared/storage/object/s3"
	"autonote-backend/internal/summarize"
)

// App holds shared dependencies.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	Store        object.ObjectStore
	NotesRepo    notes.Repo
	QuotaService *quota.Service
	NotesService *notes.Service
	NotesHandler *notes.Handler
	Sweeper      *cleanup.Sweeper
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	summarizer := buildSummarizer(ctx, cfg)

	repo := notes.NewMemoryRepo()
	quotaSvc := quota.NewService(cfg.DailyQuota)
	notesSvc := notes.NewService(repo, store, summarizer, quotaSvc, cfg.Retention)
	notesHandler := notes.NewHandler(notesSvc, cfg.MaxUploadBytes)

	app := &App{
		Config:       cfg,
		Store:        store,
		NotesRepo:    repo,
		QuotaService: quotaSvc,
		NotesService: notesSvc,
		NotesHandler: notesHandler,
		Sweeper:      cleanup.NewSweeper(repo, store, cfg.Retention, cfg.SweepInterval),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:       cfg,
		NotesHandler: notesHandler,
	})

	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildSummarizer picks a provider from config. A provider failure at
// startup is not fatal: the heuristic fallback still serves notes.
func buildSummarizer(ctx context.Context, cfg config.Config) *summarize.Service {
	switch cfg.LLMProvider {
	case "openai":
		client, err := summarize.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("bootstrap: openai client unavailable, using heuristic fallback: %v", err)
			return &summarize.Service{}
		}
		return &summarize.Service{Client: client}
	case "none":
		return &summarize.Service{}
	default:
		client, err := summarize.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
		if err != nil {
			log.Printf("bootstrap: gemini client unavailable, using heuristic fallback: %v", err)
			return &summarize.Service{}
		}
		return &summarize.Service{Client: client}
	}
}
