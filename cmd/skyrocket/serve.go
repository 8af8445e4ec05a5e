package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/skyrocket/internal/platform/tui"
	"github.com/vovakirdan/skyrocket/internal/transport/ws"
)

var (
	flagWSAddr      string
	flagSSHAddr     string
	flagHostKey     string
	flagServeEnv    string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve environments over websocket and SSH",
	Long: `Start the remote surfaces.

--ws exposes the gym protocol at /v1/env; each websocket connection gets its
own environment. --ssh starts the interactive game over SSH; each session
gets its own menu and environment and all sessions share one scoreboard.
With neither flag, the SSH server listens on :23234.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.skyrocket/host_key

Examples:
  skyrocket serve                       # SSH on :23234
  skyrocket serve --ws :8080            # Websocket only
  skyrocket serve --ws :8080 --ssh :2222 --env rocket-gym

Agents connect to ws://host:8080/v1/env; players with: ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Websocket listen address (host:port)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagServeEnv, "env", "rocket", "Environment served over websocket")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagWSAddr == "" && flagSSHAddr == "" {
		flagSSHAddr = ":23234"
	}
	base, err := loadBase()
	if err != nil {
		return err
	}
	if _, err := envArg([]string{flagServeEnv}); err != nil {
		return err
	}
	idle := time.Duration(flagIdleTimeout) * time.Minute

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 2)
	running := 0

	if flagWSAddr != "" {
		srv, err := ws.NewServer(flagServeEnv, base, logger.WithPrefix("skyrocket-ws"))
		if err != nil {
			return err
		}
		srv.IdleTimeout = idle

		mux := http.NewServeMux()
		mux.Handle("/v1/env", srv.Handler())
		httpSrv := &http.Server{Addr: flagWSAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		running++
		go func() {
			logger.Info("starting websocket server", "address", flagWSAddr, "env", flagServeEnv)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- fmt.Errorf("websocket server: %w", err)
				return
			}
			errc <- nil
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			//nolint:errcheck // Best-effort shutdown
			httpSrv.Shutdown(shutdownCtx)
		}()
	}

	if flagSSHAddr != "" {
		sshSrv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			DBPath:      flagDBPath,
			IdleTimeout: idle,
			Base:        base,
			Logger:      logger.WithPrefix("skyrocket-ssh"),
		})
		if err != nil {
			return err
		}

		fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(flagSSHAddr))
		running++
		go func() {
			errc <- sshSrv.ListenAndServe(ctx)
		}()
	}

	fmt.Println("Press Ctrl+C to stop")

	var firstErr error
	for i, n := 0, running; i < n; i++ {
		if err := <-errc; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	return firstErr
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
