package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/platform/tui"
	"github.com/vovakirdan/skyrocket/internal/policy"
	"github.com/vovakirdan/skyrocket/internal/registry"
	"github.com/vovakirdan/skyrocket/internal/replay"
	"github.com/vovakirdan/skyrocket/internal/runner"
	"github.com/vovakirdan/skyrocket/internal/sim"
	"github.com/vovakirdan/skyrocket/internal/storage"
	"github.com/vovakirdan/skyrocket/internal/transport/ws"
)

var (
	flagPolicy   string
	flagScript   string
	flagEpisodes int
	flagMaxSteps int
	flagRecord   string
	flagRemote   string
	flagRender   bool
	flagProfile  string
	flagNoStore  bool
)

var runCmd = &cobra.Command{
	Use:   "run [env]",
	Short: "Drive episodes with a policy",
	Long: `Run one or more episodes with a built-in or scripted policy and report
the results. Episode i is seeded with --seed + i, so runs are reproducible.

Policies:
  random  - Uniform random actions
  dodge   - Steers away from the nearest missile ahead
  lua     - Calls act(obs) from the script given by --script

With --remote the episodes run on a 'skyrocket serve --ws' server; the local
config is still used for policy geometry and replay headers.

Examples:
  skyrocket run --policy dodge --episodes 20
  skyrocket run rocket-gym --policy lua --script ./bot.lua --max-steps 5000
  skyrocket run --record ./replays --render
  skyrocket run --remote ws://localhost:8080/v1/env --policy random
  skyrocket run --episodes 100 --profile cpu`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagPolicy, "policy", "random", fmt.Sprintf("Policy to drive the craft %v", policy.Names()))
	runCmd.Flags().StringVar(&flagScript, "script", "", "Lua script for the lua policy")
	runCmd.Flags().IntVar(&flagEpisodes, "episodes", 1, "Number of episodes")
	runCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Per-episode step cap (0 = until collision)")
	runCmd.Flags().StringVar(&flagRecord, "record", "", "Directory to write replays into")
	runCmd.Flags().StringVar(&flagRemote, "remote", "", "Websocket URL of a remote environment")
	runCmd.Flags().BoolVar(&flagRender, "render", false, "Draw every step in the terminal")
	runCmd.Flags().StringVar(&flagProfile, "profile", "", "Write a profile: cpu, mem")
	runCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not save episode results to the database")
}

func runRun(_ *cobra.Command, args []string) error {
	envID, err := envArg(args)
	if err != nil {
		return err
	}
	base, err := loadBase()
	if err != nil {
		return err
	}
	cfg, err := registry.Config(envID, base)
	if err != nil {
		return err
	}

	switch flagProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q (known: cpu, mem)", flagProfile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := policy.New(flagPolicy, policy.Options{Seed: flagSeed, Script: flagScript, Config: cfg})
	if err != nil {
		return err
	}
	if c, ok := p.(io.Closer); ok {
		defer c.Close()
	}

	env, closeEnv, err := openEnv(ctx, envID, base)
	if err != nil {
		return err
	}
	defer closeEnv()

	opts := runner.Options{
		EnvID:    envID,
		Episodes: flagEpisodes,
		MaxSteps: flagMaxSteps,
		Seed:     flagSeed,
		Render:   flagRender,
		Logger:   logger,
	}

	var rec *replay.DirRecorder
	if flagRecord != "" {
		rec = replay.NewDirRecorder(flagRecord, envID, p.Name(), cfg)
		defer rec.Close()
		opts.Recorder = rec
	}

	if !flagNoStore {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("could not open episodes database", "error", err)
		} else {
			defer store.Close()
			opts.OnEpisode = func(r runner.Result) error {
				e := storage.Episode{
					ID:        r.ID.String(),
					EnvID:     r.EnvID,
					Policy:    r.Policy,
					Seed:      r.Seed,
					Steps:     r.Steps,
					Reward:    r.Reward,
					Terminal:  r.Terminal,
					Truncated: r.Truncated,
					Duration:  r.Duration,
				}
				if rec != nil {
					if paths := rec.Paths(); len(paths) > 0 {
						e.ReplayPath = paths[len(paths)-1]
					}
				}
				return store.SaveEpisode(e)
			}
		}
	}

	results, err := runner.Run(ctx, env, p, opts)
	printResults(results)
	if err != nil && ctx.Err() != nil {
		logger.Warn("run interrupted", "completed", len(results))
		return nil
	}
	return err
}

// openEnv returns a local or remote environment and its cleanup.
func openEnv(ctx context.Context, envID string, base config.RocketConfig) (runner.Env, func(), error) {
	if flagRemote != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := ws.Dial(dialCtx, flagRemote)
		if err != nil {
			return nil, nil, err
		}
		spec, err := client.Spec(dialCtx)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		logger.Info("connected", "url", flagRemote, "env", spec.EnvID, "obs", spec.ObservationSize)
		return client, func() { client.Close() }, nil
	}

	var opts []sim.Option
	if flagRender {
		opts = append(opts, sim.WithRenderer(newTermRenderer(os.Stdout)))
	} else {
		opts = append(opts, sim.WithPacer(sim.NewPacer(0)))
	}
	env, err := registry.Create(envID, base, opts...)
	if err != nil {
		return nil, nil, err
	}
	return runner.Local{Env: env}, func() { env.Close() }, nil
}

// termRenderer draws frames straight to a terminal, homing the cursor each time.
type termRenderer struct {
	out    io.Writer
	screen *tui.ScreenRenderer
}

func newTermRenderer(out io.Writer) *termRenderer {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return &termRenderer{out: out, screen: tui.NewScreenRenderer(width, max(height-1, 1))}
}

func (r *termRenderer) Draw(dl sim.DrawList) error {
	if err := r.screen.Draw(dl); err != nil {
		return err
	}
	_, err := fmt.Fprint(r.out, "\x1b[H"+tui.RenderScreen(r.screen.Screen))
	return err
}

func printResults(results []runner.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %-3s  %-8s  %-10s  %-9s  %s\n", "#", "Steps", "Outcome", "Seed", "Time")
	fmt.Printf("  %-3s  %-8s  %-10s  %-9s  %s\n", "-", "-----", "-------", "----", "----")

	var total, collisions int
	for _, r := range results {
		outcome := "truncated"
		if r.Terminal {
			outcome = "collision"
			collisions++
		}
		total += r.Steps
		fmt.Printf("  %-3d  %-8s  %-10s  %-9d  %s\n",
			r.Episode+1, humanize.Comma(int64(r.Steps)), outcome, r.Seed, r.Duration.Round(time.Millisecond))
	}
	fmt.Println()
	fmt.Printf("Episodes: %d  Mean steps: %s  Collisions: %d\n",
		len(results), humanize.CommafWithDigits(float64(total)/float64(len(results)), 1), collisions)
}
