package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/teachback/internal/report"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List and star grammar topics",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics by category (starred topics are marked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		topics, err := s.Topics(cmd.Context())
		if err != nil {
			return fmt.Errorf("list topics: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), report.New(false).Topics(topics))
		return nil
	},
}

func starCommand(use, short string, starred bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <topic-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.StarRepo().SetStarred(cmd.Context(), args[0], starred); err != nil {
				return err
			}
			verb := "Starred"
			if !starred {
				verb = "Unstarred"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s.\n", verb, args[0])
			return nil
		},
	}
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)
	topicsCmd.AddCommand(starCommand("star", "Star a topic so it is suggested first", true))
	topicsCmd.AddCommand(starCommand("unstar", "Remove a topic's star", false))
}
