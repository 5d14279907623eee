package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tda234574534243/law-advisor/internal/model"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

var (
	searchTopK int
	searchMode string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run raw retrieval without answer composition",
	Long: `Search prints the ranked passages the retrieval engine returns,
one per line with its normalized score. Useful for inspecting what the
bot would answer from.

Example:
  lawadvisor search "thu hồi đất"
  lawadvisor search "điều 45" --mode article
  lawadvisor search "mức phạt" --mode keyword --k 10`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchTopK, "k", 0, "number of passages to return (0 = config default)")
	searchCmd.Flags().StringVar(&searchMode, "mode", "", "retrieval mode: article, keyword or empty for the full chain")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	passages := openStore(ctx, cfg, logger)
	engine := newEngine(cfg, passages, logger)

	query := strings.Join(args, " ")
	hits := engine.Retrieve(ctx, query, searchTopK, model.RetrievalMode(searchMode))
	if len(hits) == 0 {
		fmt.Println("Không tìm thấy kết quả.")
		return nil
	}

	for i, h := range hits {
		fmt.Printf("%2d. [%.3f] %s\n", i+1, h.Score, h.Passage.Section)
		fmt.Printf("    %s\n", vntext.Truncate(h.Passage.CombinedText(), 160))
		if h.Passage.URL != "" {
			fmt.Printf("    %s\n", h.Passage.URL)
		}
	}
	return nil
}
