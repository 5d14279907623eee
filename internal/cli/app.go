package cli

import (
	"context"
	"log/slog"

	"github.com/tda234574534243/law-advisor/internal/bot"
	"github.com/tda234574534243/law-advisor/internal/compose"
	"github.com/tda234574534243/law-advisor/internal/confidence"
	"github.com/tda234574534243/law-advisor/internal/conversation"
	"github.com/tda234574534243/law-advisor/internal/embed"
	"github.com/tda234574534243/law-advisor/internal/learning"
	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/nlg"
	"github.com/tda234574534243/law-advisor/internal/search"
	"github.com/tda234574534243/law-advisor/internal/sentiment"
	"github.com/tda234574534243/law-advisor/internal/store"
)

// openStore connects to Mongo, falling back to the JSON file store when
// the database is unreachable. The process keeps working either way.
func openStore(ctx context.Context, cfg *model.Config, logger *slog.Logger) store.PassageStore {
	s, err := store.NewMongoStore(ctx, cfg.Store)
	if err != nil {
		logger.Warn("mongo unavailable, using file store",
			"uri", cfg.Store.MongoURI, "path", cfg.Store.FilePath, "error", err)
		fs, ferr := store.NewFileStore(cfg.Store.FilePath)
		if ferr != nil {
			logger.Error("file store unavailable", "error", ferr)
			fs, _ = store.NewFileStore("")
		}
		return fs
	}
	logger.Info("connected to mongo", "database", cfg.Store.Database)
	return s
}

// newEncoder returns nil when the semantic tier is disabled; the engine
// treats a nil encoder as "skip the tier".
func newEncoder(cfg *model.Config, logger *slog.Logger) embed.Encoder {
	if !cfg.Embedding.Enabled {
		return nil
	}
	enc, err := embed.NewOpenAIEncoder(cfg.Embedding)
	if err != nil {
		logger.Warn("embedding encoder disabled", "error", err)
		return nil
	}
	return enc
}

// newEngine builds the retrieval engine and loads whatever index
// artifacts exist on disk. Missing artifacts disable their tier.
func newEngine(cfg *model.Config, s store.PassageStore, logger *slog.Logger) *search.Engine {
	engine := search.NewEngine(s, newEncoder(cfg, logger), cfg.Retrieval, cfg.Index, logger)
	if err := engine.Reload(); err != nil {
		logger.Warn("index artifacts not loaded", "error", err)
	}
	return engine
}

// newLearningStore prefers Redis, falling back to in-memory storage so
// a missing Redis never blocks answering.
func newLearningStore(cfg *model.Config, logger *slog.Logger) learning.Store {
	if cfg.Learning.RedisAddr != "" {
		rs, err := learning.NewRedisStore(cfg.Learning.RedisAddr)
		if err == nil {
			logger.Info("learning store on redis", "addr", cfg.Learning.RedisAddr)
			return rs
		}
		logger.Warn("redis unavailable, learning kept in memory", "addr", cfg.Learning.RedisAddr, "error", err)
	}
	return learning.NewMemoryStore()
}

// buildBot assembles the full answering pipeline.
func buildBot(cfg *model.Config, engine *search.Engine, learn *learning.Engine, sessions *conversation.Manager, logger *slog.Logger) *bot.Bot {
	return bot.New(
		engine,
		confidence.NewModel(cfg.Confidence),
		compose.NewComposer(cfg.Confidence),
		learn,
		sentiment.NewAnalyzer(),
		sessions,
		nlg.NewEngine(),
		bot.Options{LearnedBypass: cfg.Learning.SimilarityBypass, TopK: cfg.Retrieval.TopK},
		logger,
	)
}
