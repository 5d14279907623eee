package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tda234574534243/law-advisor/internal/index"
)

var (
	indexTimeout    time.Duration
	indexEmbeddings bool
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage index artifacts",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild index artifacts from the passage store",
	Long: `Build reads the full corpus and writes the TF-IDF artifact, plus
the embedding artifact when the semantic tier is enabled and an API key
is available.

Example:
  lawadvisor index build
  lawadvisor index build --embeddings`,
	RunE: runIndexBuild,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexBuildCmd.Flags().DurationVar(&indexTimeout, "timeout", 10*time.Minute, "build timeout")
	indexBuildCmd.Flags().BoolVar(&indexEmbeddings, "embeddings", false, "also build the embedding index")
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()

	passages := openStore(ctx, cfg, logger)
	builder := index.NewBuilder(passages, newEncoder(cfg, logger), cfg.Index, cfg.Embedding.Workers)

	idx, err := builder.BuildStatisticalIndex(ctx)
	if err != nil {
		return fmt.Errorf("build statistical index: %w", err)
	}
	fmt.Printf("✓ TF-IDF index: %d passages -> %s\n", len(idx.Docs), cfg.Index.TFIDFPath)

	if indexEmbeddings {
		emb, err := builder.BuildEmbeddingIndex(ctx)
		if err != nil {
			return fmt.Errorf("build embedding index: %w", err)
		}
		fmt.Printf("✓ Embedding index: %d vectors (%s) -> %s\n", len(emb.Vectors), emb.Model, cfg.Index.EmbeddingPath)
	}
	return nil
}
