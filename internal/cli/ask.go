package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tda234574534243/law-advisor/internal/conversation"
	"github.com/tda234574534243/law-advisor/internal/learning"
)

var (
	askTopK    int
	askTimeout time.Duration
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question and print the answer",
	Long: `Ask runs the full answering pipeline once: intent detection,
retrieval, confidence scoring and composition.

Example:
  lawadvisor ask "Điều kiện chuyển nhượng quyền sử dụng đất là gì?"
  lawadvisor ask "Điều 45 quy định gì?" --k 3`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().IntVar(&askTopK, "k", 0, "number of passages to retrieve (0 = config default)")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 30*time.Second, "answer timeout")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	passages := openStore(ctx, cfg, logger)
	engine := newEngine(cfg, passages, logger)
	learn := learning.NewEngine(newLearningStore(cfg, logger), cfg.Learning.MinRating)
	sessions := conversation.NewManager(cfg.Server.SessionTTL)
	b := buildBot(cfg, engine, learn, sessions, logger)

	question := strings.Join(args, " ")
	answer := b.AnswerQuestion(ctx, question, askTopK, "", "cli")

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Println()
		fmt.Println("Nguồn:")
		for _, src := range answer.Sources {
			fmt.Printf("  - %s\n", src)
		}
	}
	if verbose {
		fmt.Printf("\n[confidence=%.2f scenario=%v sentiment=%s]\n",
			answer.Confidence, answer.IsScenario, answer.Sentiment)
	}
	return nil
}
