package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linguakit/linguakit/internal/llm"
	"github.com/linguakit/linguakit/internal/patterns"
	"github.com/linguakit/linguakit/internal/tui"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show a learner's recurring error patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		semantic, _ := cmd.Flags().GetBool("semantic")
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		interactive, _ := cmd.Flags().GetBool("interactive")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		var clusterer *patterns.SemanticClusterer
		if semantic {
			provider, err := llm.New(cmd.Context(), llm.FromEnv())
			if err != nil {
				fmt.Fprintln(os.Stderr, "Model provider not configured, using exact clustering:", err)
			} else {
				clusterer = patterns.NewSemanticClusterer(provider)
			}
		}

		service := patterns.NewService(s.ErrorLogRepo(), s.AdaptationRepo(), clusterer)
		opts := patterns.ReadOptions{Semantic: semantic, Threshold: threshold}

		if interactive {
			return tui.Run(service, userID, opts)
		}

		result, err := service.Patterns(cmd.Context(), userID, opts)
		if err != nil {
			return err
		}
		printPatterns(result)
		return nil
	},
}

func init() {
	patternsCmd.Flags().String("user", "default", "Learner ID to report on")
	patternsCmd.Flags().Bool("semantic", false, "Merge similar categories with the configured model")
	patternsCmd.Flags().Float64("threshold", 0, "Similarity threshold override for --semantic")
	patternsCmd.Flags().Bool("interactive", false, "Browse patterns in the terminal UI")
}

func printPatterns(result *patterns.Result) {
	s := result.Stats
	fmt.Printf("%d errors across %d patterns (%d fossilizing, %d at tier 2+)\n\n",
		s.TotalErrors, s.PatternCount, s.FossilizingCount, s.Tier2PlusCount)

	if len(result.Patterns) == 0 {
		fmt.Println("No errors recorded yet.")
		return
	}

	for _, p := range result.Patterns {
		flags := []string{string(p.TrendDirection)}
		if p.IsFossilizing {
			flags = append(flags, "FOSSILIZING")
		}
		if p.Tier > 0 {
			flags = append(flags, fmt.Sprintf("tier %d", p.Tier))
		}
		fmt.Printf("%2d. %s/%s  %d%% (%d errors)  %s\n",
			p.ID+1, p.ErrorType, p.Category, p.Frequency, p.Count, strings.Join(flags, ", "))
		fmt.Printf("    %s\n", p.InterlanguageRule)
		fmt.Printf("    Try: %s\n", p.Intervention)
		for _, ex := range p.Examples {
			fmt.Printf("      %s\n", ex)
		}
		fmt.Println()
	}
}
