package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyrocket/internal/storage"
)

var flagClear bool

var scoresCmd = &cobra.Command{
	Use:   "scores <env>",
	Short: "Show high scores for an environment",
	Long: `Display the top 10 human scores for the specified environment.
A score is the number of ticks survived.

Examples:
  skyrocket scores rocket
  skyrocket scores rocket-classic --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all scores for the environment")
}

func runScores(_ *cobra.Command, args []string) error {
	envID, err := envArg(args)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(envID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s\n", envID)
		return nil
	}

	scores, err := store.TopScores(envID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", envID)
	fmt.Println()
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'skyrocket play %s' to set the first high score!\n", envID)
		return nil
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %s\n", "----", "------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-16s  %-10d  %s\n", i+1, entry.Player, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Printf("Best: %d\n", scores[0].Score)
	return nil
}
