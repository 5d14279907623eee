package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tda234574534243/law-advisor/internal/ingest"
)

var (
	ingestFile    string
	ingestTimeout time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [url...]",
	Short: "Scrape statute pages into the passage store",
	Long: `Ingest fetches each law page, splits it into per-article passages
and writes them to the passage store. Fetches honor robots.txt and are
rate limited per domain.

Rebuild the index afterwards so retrieval sees the new passages:
  lawadvisor ingest https://thuvienphapluat.vn/van-ban/...
  lawadvisor ingest --file urls.txt
  lawadvisor index build`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "file with one URL per line")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "total ingest timeout")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	urls := append([]string{}, args...)
	if ingestFile != "" {
		fromFile, err := readURLFile(ingestFile)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given; pass them as arguments or via --file")
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	passages := openStore(ctx, cfg, logger)
	scraper := ingest.NewScraper(ingest.NewFetcher(cfg.Ingest), passages, logger)

	n, err := scraper.Run(ctx, urls)
	fmt.Printf("✓ Stored %d passages from %d URL(s)\n", n, len(urls))
	if err != nil {
		return fmt.Errorf("some URLs failed: %w", err)
	}
	return nil
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return urls, nil
}
