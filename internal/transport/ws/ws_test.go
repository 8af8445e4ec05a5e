package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	_ "github.com/vovakirdan/skyrocket/internal/envs/rocket"
	"github.com/vovakirdan/skyrocket/internal/policy"
	"github.com/vovakirdan/skyrocket/internal/runner"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

func startServer(t *testing.T, envID string) (*Server, string) {
	t.Helper()
	srv, err := NewServer(envID, config.DefaultRocketConfig(), nil)
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http")
}

func dial(t *testing.T, url string) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial() failed: %v", err)
	}
	return c
}

func TestClientResetStep(t *testing.T) {
	_, url := startServer(t, "rocket")
	c := dial(t, url)
	defer c.Close()
	ctx := context.Background()

	spec, err := c.Spec(ctx)
	if err != nil {
		t.Fatalf("Spec() failed: %v", err)
	}
	if spec.EnvID != "rocket" || spec.ObservationSize != 42 || spec.ActionCount != 5 || spec.Width != 800 {
		t.Errorf("Spec() = %+v", spec)
	}

	if _, err := c.Step(ctx, core.ActionNoop); !errors.Is(err, sim.ErrNotReset) {
		t.Errorf("Step() before Reset = %v, expected ErrNotReset", err)
	}

	obs, err := c.Reset(ctx, 3)
	if err != nil {
		t.Fatalf("Reset() failed: %v", err)
	}
	if len(obs) != spec.ObservationSize {
		t.Errorf("Reset() observation length = %d", len(obs))
	}

	res, err := c.Step(ctx, core.ActionDown)
	if err != nil {
		t.Fatalf("Step() failed: %v", err)
	}
	if res.Reward != 1 || len(res.Observation) != spec.ObservationSize || res.Info == nil {
		t.Errorf("Step() = %+v", res)
	}
	if _, y := res.Observation.Craft(); y != 7 {
		t.Errorf("craft y after one down step = %v, expected 7", y)
	}

	var remote *RemoteError
	_, err = c.Step(ctx, core.Action(9))
	if !errors.As(err, &remote) || remote.Code != ErrCodeInvalidAction {
		t.Errorf("Step(9) = %v, expected %s", err, ErrCodeInvalidAction)
	}
	if !errors.Is(err, sim.ErrInvalidAction) {
		t.Error("remote invalid action should match sim.ErrInvalidAction")
	}
}

func TestServerMatchesLocalEnv(t *testing.T) {
	_, url := startServer(t, "rocket-gym")
	c := dial(t, url)
	defer c.Close()

	cfg := config.DefaultRocketConfig()
	config.ApplyPreset(&cfg, config.DifficultyGym)
	cfg.Render.FPS = 0
	env, err := sim.New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	opts := runner.Options{Episodes: 2, Seed: 11, MaxSteps: 300}
	remote, err := runner.Run(context.Background(), c, policy.NewRandom(8), opts)
	if err != nil {
		t.Fatalf("remote Run() failed: %v", err)
	}
	local, err := runner.Run(context.Background(), runner.Local{Env: env}, policy.NewRandom(8), opts)
	if err != nil {
		t.Fatalf("local Run() failed: %v", err)
	}
	for i := range local {
		if remote[i].Steps != local[i].Steps || remote[i].Terminal != local[i].Terminal {
			t.Errorf("episode %d: remote %d steps (terminal %v), local %d steps (terminal %v)",
				i, remote[i].Steps, remote[i].Terminal, local[i].Steps, local[i].Terminal)
		}
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	_, url := startServer(t, "rocket")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	bad := []string{
		`not json`,
		`{}`,
		`{"type":"jump"}`,
		`{"type":"step"}`,
		`{"type":"step","action":1.5}`,
		`{"type":"spec","seed":1}`,
		`{"type":"reset","extra":true}`,
	}
	for _, msg := range bad {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
			t.Fatal(err)
		}
		var resp Response
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatal(err)
		}
		if resp.Type != TypeError || resp.Code != ErrCodeBadRequest {
			t.Errorf("%s: response = %+v, expected %s", msg, resp, ErrCodeBadRequest)
		}
	}

	// The session survives bad requests.
	if err := conn.WriteJSON(Request{Type: TypeReset}); err != nil {
		t.Fatal(err)
	}
	var resp Response
	if err := conn.ReadJSON(&resp); err != nil || resp.Type != TypeObs {
		t.Errorf("reset after bad requests = %+v, %v", resp, err)
	}
}

func TestStepAfterTerminalOverWire(t *testing.T) {
	_, url := startServer(t, "rocket-gym")
	c := dial(t, url)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Reset(ctx, 1); err != nil {
		t.Fatal(err)
	}
	p := policy.NewRandom(1)
	obs := sim.Observation(nil)
	for i := 0; i < 10000; i++ {
		a, _ := p.Act(obs)
		res, err := c.Step(ctx, a)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		obs = res.Observation
		if res.Terminal {
			break
		}
	}
	if _, err := c.Step(ctx, core.ActionNoop); !errors.Is(err, sim.ErrStepAfterTerminal) {
		t.Errorf("Step() after terminal = %v, expected ErrStepAfterTerminal", err)
	}
}

func TestCloseEndsSession(t *testing.T) {
	srv, url := startServer(t, "rocket")
	c := dial(t, url)
	if _, err := c.Reset(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for srv.Sessions() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := srv.Sessions(); n != 0 {
		t.Errorf("Sessions() = %d after close, expected 0", n)
	}
}

func TestNewServerUnknownEnv(t *testing.T) {
	if _, err := NewServer("nope", config.DefaultRocketConfig(), nil); err == nil {
		t.Error("NewServer() with unknown env should fail")
	}
}
