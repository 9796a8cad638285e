package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a learner's recorded history",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete history for %q without --yes", userID)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Reset(cmd.Context(), userID); err != nil {
			return fmt.Errorf("reset learner data: %w", err)
		}
		fmt.Printf("Deleted all recorded history for %s.\n", userID)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("user", "default", "Learner ID to reset")
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
