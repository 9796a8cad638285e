package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linguakit/linguakit/internal/patterns"
	"github.com/linguakit/linguakit/internal/signal"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		service := patterns.NewService(s.ErrorLogRepo(), s.AdaptationRepo(), nil)
		result, err := service.Patterns(ctx, userID, patterns.ReadOptions{})
		if err != nil {
			return err
		}

		st := result.Stats
		fmt.Printf("Learner %s\n", userID)
		fmt.Printf("  Total errors:     %d\n", st.TotalErrors)
		fmt.Printf("  Patterns:         %d\n", st.PatternCount)
		fmt.Printf("  Fossilizing:      %d\n", st.FossilizingCount)
		fmt.Printf("  Tier 2+:          %d\n", st.Tier2PlusCount)
		if len(st.ByType) > 0 {
			fmt.Printf("  By type:          %s\n", formatDist(st.ByType))
			fmt.Printf("  By area:          %s\n", formatDist(byArea(st.ByType)))
		}
		if len(st.ByModality) > 0 {
			fmt.Printf("  By modality:      %s\n", formatDist(st.ByModality))
		}

		reports, err := s.ReportRepo().ForUser(ctx, userID, 10)
		if err != nil {
			return fmt.Errorf("load recent reports: %w", err)
		}
		if len(reports) == 0 {
			return nil
		}

		fmt.Println("\nRecent sessions:")
		for _, r := range reports {
			fmt.Printf("  %s  %-6s  score %3d  %d errors\n",
				r.CreatedAt.Local().Format("Jan 02 15:04"), r.Modality, r.OverallScore, r.ErrorCount)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("user", "default", "Learner ID to report on")
}

// byArea folds the per-type distribution into the coarse linguistic
// areas (grammar, pronunciation, vocabulary, pragmatics).
func byArea(byType map[string]int) map[string]int {
	areas := make(map[string]int, len(byType))
	for t, n := range byType {
		areas[signal.StorageCategory(signal.ErrorType(t))] += n
	}
	return areas
}

func formatDist(dist map[string]int) string {
	keys := make([]string, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %d", k, dist[k]))
	}
	return strings.Join(parts, ", ")
}
