package replay

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/policy"
	"github.com/vovakirdan/skyrocket/internal/runner"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

func gymConfig() config.RocketConfig {
	cfg := config.DefaultRocketConfig()
	config.ApplyPreset(&cfg, config.DifficultyGym)
	cfg.Render.FPS = 0
	return cfg
}

func recordEpisodes(t *testing.T, dir string, episodes int) *DirRecorder {
	t.Helper()
	cfg := gymConfig()
	env, err := sim.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	rec := NewDirRecorder(dir, "rocket-gym", "random", cfg)
	if _, err := runner.Run(context.Background(), runner.Local{Env: env}, policy.NewRandom(4), runner.Options{
		EnvID:    "rocket-gym",
		Episodes: episodes,
		Seed:     100,
		MaxSteps: 2000,
		Recorder: rec,
	}); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	return rec
}

func TestRecordAndVerify(t *testing.T) {
	rec := recordEpisodes(t, t.TempDir(), 2)
	if len(rec.Paths()) != 2 {
		t.Fatalf("recorded %d files, expected 2", len(rec.Paths()))
	}

	for i, path := range rec.Paths() {
		rep, err := Open(path)
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", path, err)
		}
		if rep.Header.Version != Version || rep.Header.EnvID != "rocket-gym" || rep.Header.Seed != 100+int64(i) {
			t.Errorf("header = %+v", rep.Header)
		}
		if rep.Header.Config != gymConfig() {
			t.Error("header config does not round-trip")
		}
		if rep.Steps() == 0 {
			t.Fatal("empty recording")
		}
		if err := Verify(rep); err != nil {
			t.Errorf("Verify(%s) = %v", filepath.Base(path), err)
		}
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec := recordEpisodes(t, t.TempDir(), 1)
	rep, err := Open(rec.Paths()[0])
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Terminal() {
		t.Skip("episode was truncated before a collision")
	}

	last := len(rep.Frames) - 1
	rep.Frames[last].Terminal = false
	if err := Verify(rep); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify() with a dropped collision = %v, expected ErrMismatch", err)
	}

	rep.Frames[last].Terminal = true
	rep.Frames[0].Reward = 2
	if err := Verify(rep); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify() with a forged reward = %v, expected ErrMismatch", err)
	}
}

func TestPlayerRewind(t *testing.T) {
	rec := recordEpisodes(t, t.TempDir(), 1)
	rep, err := Open(rec.Paths()[0])
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPlayer(rep)
	if err != nil {
		t.Fatal(err)
	}

	var first []sim.Observation
	for i := 0; i < 5 && !p.Done(); i++ {
		res, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		first = append(first, res.Observation)
	}
	p.Rewind()
	if p.Pos() != 0 || p.Env().Tick() != 0 {
		t.Fatalf("after Rewind pos=%d tick=%d", p.Pos(), p.Env().Tick())
	}
	for i := range first {
		res, err := p.Next()
		if err != nil {
			t.Fatal(err)
		}
		for j := range res.Observation {
			if res.Observation[j] != first[i][j] {
				t.Fatalf("frame %d differs after Rewind", i)
			}
		}
	}
}

func TestWriterOrdering(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFrame(Frame{Tick: 1}); err == nil {
		t.Error("WriteFrame() before header should fail")
	}
	if err := w.WriteHeader(Header{EnvID: "rocket", Config: config.DefaultRocketConfig()}); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteHeader(Header{}); err == nil {
		t.Error("second WriteHeader() should fail")
	}
	for i := uint64(1); i <= 3; i++ {
		if err := w.WriteFrame(Frame{Tick: i, Action: core.ActionUp, Reward: 1}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	rep, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() failed: %v", err)
	}
	if rep.Header.Version != Version || rep.Steps() != 3 || rep.Terminal() {
		t.Errorf("decoded %+v with %d frames", rep.Header, rep.Steps())
	}
	if rep.Frames[2].Action != core.ActionUp {
		t.Errorf("frame action = %v", rep.Frames[2].Action)
	}
}

func TestReadRejectsBadInput(t *testing.T) {
	compress := func(s string) []byte {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatal(err)
		}
		enc.Write([]byte(s))
		enc.Close()
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", compress("")},
		{"bad header", compress("not json\n")},
		{"wrong version", compress(`{"version":99}` + "\n")},
		{"bad frame", compress(`{"version":1}` + "\n" + `{"tick":"x"}` + "\n")},
		{"tick gap", compress(`{"version":1}` + "\n" + `{"tick":2}` + "\n")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Read(bytes.NewReader(tc.data)); !errors.Is(err, ErrBadReplay) {
				t.Errorf("Read() error = %v, expected ErrBadReplay", err)
			}
		})
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope"+Ext)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Open() error = %v, expected not-exist", err)
	}
}
