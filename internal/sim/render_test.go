package sim

import (
	"errors"
	"testing"
	"time"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
)

type recordingRenderer struct {
	frames []DrawList
	closed int
}

func (r *recordingRenderer) Draw(dl DrawList) error {
	r.frames = append(r.frames, dl)
	return nil
}

func (r *recordingRenderer) Close() error {
	r.closed++
	return nil
}

func TestRenderDrawOrder(t *testing.T) {
	rec := &recordingRenderer{}
	env := newTestEnv(t, quiet, WithRenderer(rec))
	env.Inject(Entity{Kind: KindHazard, Rect: core.NewRect(400, 300, 40, 12), Speed: 5})
	env.Inject(Entity{Kind: KindDecoration, Rect: core.NewRect(500, 100, 90, 36), Speed: 5})
	if _, err := env.Step(core.ActionNoop); err != nil {
		t.Fatal(err)
	}

	before := snapshot(env)
	if err := env.Render(); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if !snapshot(env).equal(before) {
		t.Error("Render() mutated simulation state")
	}
	if len(rec.frames) != 1 {
		t.Fatalf("renderer saw %d frames, expected 1", len(rec.frames))
	}

	dl := rec.frames[0]
	wantKinds := []Kind{KindDecoration, KindHazard, KindCraft}
	if len(dl.Items) != len(wantKinds) {
		t.Fatalf("draw list has %d items, expected %d", len(dl.Items), len(wantKinds))
	}
	for i, k := range wantKinds {
		if dl.Items[i].Kind != k {
			t.Errorf("item %d kind = %v, expected %v", i, dl.Items[i].Kind, k)
		}
	}
	if dl.Width != 800 || dl.Height != 600 || dl.Tick != 1 || dl.Over {
		t.Errorf("draw list header = %+v", dl)
	}
}

func TestRenderWithoutRenderer(t *testing.T) {
	env := newTestEnv(t, nil)
	if err := env.Render(); err != nil {
		t.Errorf("Render() without a renderer = %v", err)
	}
}

func TestRendererError(t *testing.T) {
	boom := errors.New("boom")
	env := newTestEnv(t, nil, WithRenderer(RendererFunc(func(DrawList) error { return boom })))
	if err := env.Render(); !errors.Is(err, boom) {
		t.Errorf("Render() = %v, expected renderer error", err)
	}
}

func TestCloseIsSingleUse(t *testing.T) {
	rec := &recordingRenderer{}
	env := newTestEnv(t, nil, WithRenderer(rec))

	if err := env.Close(); err != nil {
		t.Fatalf("first Close() = %v", err)
	}
	if rec.closed != 1 {
		t.Errorf("renderer closed %d times, expected 1", rec.closed)
	}
	if err := env.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() = %v, expected ErrClosed", err)
	}
	if err := env.Render(); !errors.Is(err, ErrClosed) {
		t.Errorf("Render() after Close = %v, expected ErrClosed", err)
	}
	if rec.closed != 1 {
		t.Errorf("renderer closed %d times after double Close", rec.closed)
	}
}

func TestPacer(t *testing.T) {
	clock := time.Unix(0, 0)
	var slept []time.Duration
	p := NewPacer(25) // 40ms frames
	p.now = func() time.Time { return clock }
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	if d := p.Wait(); d != 0 {
		t.Errorf("first Wait() = %v, expected no sleep", d)
	}
	clock = clock.Add(10 * time.Millisecond)
	if d := p.Wait(); d != 30*time.Millisecond {
		t.Errorf("Wait() after 10ms = %v, expected 30ms", d)
	}
	clock = clock.Add(100 * time.Millisecond)
	if d := p.Wait(); d != 0 {
		t.Errorf("Wait() after a slow frame = %v, expected 0", d)
	}
	if len(slept) != 1 {
		t.Errorf("sleep called %d times, expected 1", len(slept))
	}
}

func TestPacerDisabled(t *testing.T) {
	for _, p := range []*Pacer{NewPacer(0), nil} {
		if d := p.Wait(); d != 0 {
			t.Errorf("disabled pacer waited %v", d)
		}
	}
}

func TestEnvUsesConfiguredFPS(t *testing.T) {
	cfg := config.DefaultRocketConfig()
	env, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if env.pacer == nil || env.pacer.interval != time.Second/time.Duration(cfg.Render.FPS) {
		t.Errorf("pacer interval does not match %d fps", cfg.Render.FPS)
	}
}
