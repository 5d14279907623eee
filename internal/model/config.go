package model

import "time"

// Config is the complete runtime configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Index      IndexConfig      `yaml:"index"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Confidence ConfidenceConfig `yaml:"confidence"`
	Learning   LearningConfig   `yaml:"learning"`
	Server     ServerConfig     `yaml:"server"`
	Ingest     IngestConfig     `yaml:"ingest"`
}

// StoreConfig configures the passage store.
type StoreConfig struct {
	MongoURI   string        `yaml:"mongo_uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
	// FilePath is the JSON file store used when Mongo is unreachable.
	FilePath string `yaml:"file_path"`
}

// IndexConfig configures index artifacts on disk.
type IndexConfig struct {
	DataDir       string `yaml:"data_dir"`
	TFIDFPath     string `yaml:"tfidf_path"`
	EmbeddingPath string `yaml:"embedding_path"`
}

// EmbeddingConfig configures the optional embedding encoder.
type EmbeddingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout int    `yaml:"timeout"` // seconds
	Workers int    `yaml:"workers"` // concurrent encode calls during index build
}

// RetrievalConfig configures the tiered retrieval engine.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
	// MinSimilarity is the semantic-tier similarity floor.
	MinSimilarity float64 `yaml:"min_similarity"`
	// TFIDFWeight and OverlapWeight are the hybrid re-ranking weights.
	TFIDFWeight   float64 `yaml:"tfidf_weight"`
	OverlapWeight float64 `yaml:"overlap_weight"`
}

// ConfidenceConfig holds the calibration constants of the confidence model.
// The thresholds are empirically chosen; flagged for calibration against a
// held-out query set.
type ConfidenceConfig struct {
	VeryHigh       float64 `yaml:"very_high"`
	High           float64 `yaml:"high"`
	Medium         float64 `yaml:"medium"`
	CitationBoost  float64 `yaml:"citation_boost"`
	RelevanceRatio float64 `yaml:"relevance_ratio"` // Relevance-verifier term-overlap floor
}

// LearningConfig configures the feedback/learning collaborator.
type LearningConfig struct {
	RedisAddr string `yaml:"redis_addr"`
	// SimilarityBypass is the Jaccard similarity above which a learned
	// answer is returned without running retrieval.
	SimilarityBypass float64 `yaml:"similarity_bypass"`
	MinRating        int     `yaml:"min_rating"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	SessionTTL        time.Duration `yaml:"session_ttl"`
}

// IngestConfig configures the statute scraper.
type IngestConfig struct {
	UserAgent         string        `yaml:"user_agent"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	RespectRobots     bool          `yaml:"respect_robots"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			MongoURI:   "mongodb://localhost:27017",
			Database:   "phapluat",
			Collection: "laws",
			Timeout:    3 * time.Second,
			FilePath:   "data/passages.json",
		},
		Index: IndexConfig{
			DataDir:       "data",
			TFIDFPath:     "data/tfidf.json",
			EmbeddingPath: "data/embeddings.json",
		},
		Embedding: EmbeddingConfig{
			Enabled: false,
			Model:   "text-embedding-3-small",
			Timeout: 30,
			Workers: 4,
		},
		Retrieval: RetrievalConfig{
			TopK:          5,
			MinSimilarity: 0.1,
			TFIDFWeight:   0.7,
			OverlapWeight: 0.3,
		},
		Confidence: ConfidenceConfig{
			VeryHigh:       0.85,
			High:           0.65,
			Medium:         0.45,
			CitationBoost:  0.2,
			RelevanceRatio: 0.25,
		},
		Learning: LearningConfig{
			RedisAddr:        "localhost:6379",
			SimilarityBypass: 0.7,
			MinRating:        4,
		},
		Server: ServerConfig{
			Addr:              ":8000",
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             10,
			SessionTTL:        2 * time.Hour,
		},
		Ingest: IngestConfig{
			UserAgent:         "LawAdvisor/1.0 (+https://github.com/tda234574534243/law-advisor)",
			Timeout:           15 * time.Second,
			MaxBodyBytes:      4_000_000,
			RequestsPerSecond: 1,
			RespectRobots:     true,
		},
	}
}
