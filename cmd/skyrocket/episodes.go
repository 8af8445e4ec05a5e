package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/skyrocket/internal/platform/tui"
	"github.com/vovakirdan/skyrocket/internal/storage"
)

var (
	flagLimit int
	flagBoard bool
)

var episodesCmd = &cobra.Command{
	Use:   "episodes [env]",
	Short: "Show recorded policy runs",
	Long: `Show aggregate statistics and the most recent episodes saved by
'skyrocket run'. Without an environment argument every environment is listed.

Examples:
  skyrocket episodes
  skyrocket episodes rocket-gym --limit 50
  skyrocket episodes --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEpisodes,
}

func init() {
	episodesCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of recent episodes to show")
	episodesCmd.Flags().BoolVar(&flagBoard, "tui", false, "Browse episodes in the interactive board")
}

func runEpisodes(_ *cobra.Command, args []string) error {
	envID := ""
	if len(args) > 0 {
		var err error
		if envID, err = envArg(args); err != nil {
			return err
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagBoard {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		_, err := tui.RunBoard(store, tui.BoardEpisodes, width, height)
		return err
	}

	stats, err := store.AllEpisodeStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Run 'skyrocket run' to record some.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		if envID == "" || id == envID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-8s  %-10s  %-10s  %-10s  %s\n", "Env", "Runs", "Best", "Mean", "Collisions", "Last run")
	fmt.Printf("  %-16s  %-8s  %-10s  %-10s  %-10s  %s\n", "---", "----", "----", "----", "----------", "--------")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-16s  %-8s  %-10s  %-10s  %-10s  %s\n",
			id,
			humanize.Comma(int64(s.Count)),
			humanize.Comma(int64(s.BestSteps)),
			humanize.CommafWithDigits(s.AvgSteps, 1),
			humanize.Comma(int64(s.Collisions)),
			humanize.Time(s.LastRun),
		)
	}

	recent, err := store.RecentEpisodes(envID, flagLimit)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("  %-16s  %-8s  %-8s  %-10s  %-9s  %s\n", "Env", "Policy", "Steps", "Outcome", "Seed", "When")
	fmt.Printf("  %-16s  %-8s  %-8s  %-10s  %-9s  %s\n", "---", "------", "-----", "-------", "----", "----")
	for _, e := range recent {
		outcome := "truncated"
		if e.Terminal {
			outcome = "collision"
		}
		fmt.Printf("  %-16s  %-8s  %-8s  %-10s  %-9d  %s\n",
			e.EnvID, e.Policy, humanize.Comma(int64(e.Steps)), outcome, e.Seed, humanize.Time(e.CreatedAt))
		if e.ReplayPath != "" {
			fmt.Printf("      replay: %s\n", e.ReplayPath)
		}
	}
	return nil
}
