// skyrocket is a craft-versus-missiles avoidance environment for agents and humans.
//
// Usage:
//
//	skyrocket list                 - List registered environments
//	skyrocket play [env]           - Fly the craft in the terminal
//	skyrocket run [env]            - Drive episodes with a policy
//	skyrocket serve                - Serve environments over websocket and SSH
//	skyrocket episodes [env]       - Show recorded episode results
//	skyrocket scores <env>         - Show high scores for an environment
//	skyrocket replay <file>        - View or verify a recorded episode
//
// Global flags:
//
//	--seed <value>        - RNG seed (0 = time based where it matters)
//	--db <path>           - Database path (default: ~/.skyrocket/skyrocket.db)
//	--config <path>       - YAML or TOML environment config
//	--difficulty <name>   - Preset: easy, normal, hard, gym, classic
//	--log-level <level>   - debug, info, warn, error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyrocket/internal/config"
	_ "github.com/vovakirdan/skyrocket/internal/envs/rocket"
	"github.com/vovakirdan/skyrocket/internal/registry"
)

var (
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "skyrocket",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "skyrocket",
	Short: "Skyrocket - dodge missiles, by hand or by policy",
	Long: `Skyrocket is a deterministic 2D avoidance environment. A craft flies
across an 800x600 playfield while missiles stream in from the right.
Every tick survived scores one point; touching a missile ends the episode.

Available commands:
  list      - Show registered environments
  play      - Fly the craft yourself
  run       - Drive episodes with a policy (random, dodge, lua)
  serve     - Serve environments over websocket and SSH
  episodes  - Show recorded policy runs
  scores    - Show human high scores
  replay    - View or verify a recorded episode

Examples:
  skyrocket list
  skyrocket play rocket-classic
  skyrocket run rocket-gym --policy dodge --episodes 10 --record ./replays
  skyrocket serve --ws :8080 --ssh :23234
  skyrocket replay ./replays/rocket-gym-<id>.jsonl.zst --verify`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time for play)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.skyrocket/skyrocket.db", "Path to scores and episodes database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom environment config (YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, gym, classic")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadBase resolves the base config from --config and --difficulty.
func loadBase() (config.RocketConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

// envArg returns the environment named on the command line, or the default.
func envArg(args []string) (string, error) {
	envID := "rocket"
	if len(args) > 0 {
		envID = args[0]
	}
	if !registry.Exists(envID) {
		return "", fmt.Errorf("%w %q, run 'skyrocket list' to see available environments", registry.ErrUnknownEnv, envID)
	}
	return envID, nil
}
