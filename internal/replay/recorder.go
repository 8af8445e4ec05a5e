package replay

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vovakirdan/skyrocket/internal/config"
	"github.com/vovakirdan/skyrocket/internal/core"
	"github.com/vovakirdan/skyrocket/internal/runner"
	"github.com/vovakirdan/skyrocket/internal/sim"
)

// DirRecorder writes one recording per episode into a directory, named
// <env>-<episode id>.jsonl.zst. It implements runner.Recorder.
type DirRecorder struct {
	dir    string
	envID  string
	policy string
	cfg    config.RocketConfig

	cur   *Writer
	paths []string
}

var _ runner.Recorder = (*DirRecorder)(nil)

// NewDirRecorder creates a recorder for episodes of one environment.
func NewDirRecorder(dir, envID, policy string, cfg config.RocketConfig) *DirRecorder {
	return &DirRecorder{dir: dir, envID: envID, policy: policy, cfg: cfg}
}

// BeginEpisode opens a new recording.
func (r *DirRecorder) BeginEpisode(id uuid.UUID, seed int64) error {
	if r.cur != nil {
		_ = r.cur.Close()
	}
	path := filepath.Join(r.dir, fmt.Sprintf("%s-%s%s", r.envID, id, Ext))
	w, err := Create(path)
	if err != nil {
		return err
	}
	if err := w.WriteHeader(Header{
		Version: Version,
		ID:      id.String(),
		EnvID:   r.envID,
		Policy:  r.policy,
		Seed:    seed,
		Config:  r.cfg,
	}); err != nil {
		_ = w.Close()
		return err
	}
	r.cur = w
	r.paths = append(r.paths, path)
	return nil
}

// RecordStep appends a frame to the current recording.
func (r *DirRecorder) RecordStep(tick uint64, a core.Action, res sim.StepResult) error {
	if r.cur == nil {
		return fmt.Errorf("replay: step recorded outside an episode")
	}
	return r.cur.WriteFrame(Frame{Tick: tick, Action: a, Reward: res.Reward, Terminal: res.Terminal})
}

// EndEpisode finishes the current recording.
func (r *DirRecorder) EndEpisode(runner.Result) error {
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur = nil
	return err
}

// Paths returns the files written so far.
func (r *DirRecorder) Paths() []string {
	return r.paths
}

// Close finishes any recording left open by an interrupted run.
func (r *DirRecorder) Close() error {
	return r.EndEpisode(runner.Result{})
}
