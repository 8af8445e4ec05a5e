package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/platform/tui"
	"github.com/vovakirdan/skyrocket/internal/replay"
)

var flagVerify bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "View or verify a recorded episode",
	Long: `Play back a recording written by 'skyrocket run --record'.

With --verify the episode is re-simulated from its seed and actions and every
reward and terminal flag is checked against the recording.

Viewer controls:
  Space/P     - Pause
  +/-         - Faster/slower
  R           - Rewind
  Q/Esc       - Quit

Examples:
  skyrocket replay ./replays/rocket-gym-<id>.jsonl.zst
  skyrocket replay ./replays/rocket-gym-<id>.jsonl.zst --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagVerify, "verify", false, "Re-simulate and check the recording instead of viewing it")
}

func runReplay(_ *cobra.Command, args []string) error {
	rep, err := replay.Open(args[0])
	if err != nil {
		return err
	}

	if flagVerify {
		if err := replay.Verify(rep); err != nil {
			return err
		}
		outcome := "truncated"
		if rep.Terminal() {
			outcome = "collision"
		}
		fmt.Printf("OK  %s  env=%s policy=%s seed=%d steps=%d outcome=%s\n",
			rep.Header.ID, rep.Header.EnvID, rep.Header.Policy, rep.Header.Seed, rep.Steps(), outcome)
		return nil
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	return tui.RunReplay(rep, core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		FPS:     rep.Header.Config.Render.FPS,
	})
}
