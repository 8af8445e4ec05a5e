package storage

import (
	"fmt"
	"strings"
	"time"
)

// Episode is one agent-driven episode as produced by the runner.
type Episode struct {
	ID         string // UUID assigned by the runner
	EnvID      string
	Policy     string
	Seed       int64
	Steps      int
	Reward     float64
	Terminal   bool
	Truncated  bool
	Duration   time.Duration
	ReplayPath string // Empty when the episode was not recorded
	CreatedAt  time.Time
}

// EpisodeStats aggregates episodes of one environment.
type EpisodeStats struct {
	EnvID      string
	Count      int
	BestSteps  int
	AvgSteps   float64
	TotalSteps int64
	Collisions int // Episodes ended by a collision
	LastRun    time.Time
}

// SaveEpisode records a finished episode.
func (s *Store) SaveEpisode(e Episode) error {
	_, err := s.db.Exec(
		`INSERT INTO episodes
		 (id, env_id, policy, seed, steps, reward, terminal, truncated, duration_ms, replay_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EnvID, e.Policy, e.Seed, e.Steps, e.Reward,
		e.Terminal, e.Truncated, e.Duration.Milliseconds(), e.ReplayPath,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save episode: %w", err)
	}
	return nil
}

// RecentEpisodes returns the most recent episodes, newest first.
// An empty envID matches every environment.
func (s *Store) RecentEpisodes(envID string, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}

	var where string
	args := []any{}
	if envID != "" {
		where = "WHERE env_id = ?"
		args = append(args, envID)
	}
	args = append(args, limit)

	query := strings.Join([]string{
		`SELECT id, env_id, policy, seed, steps, reward, terminal, truncated, duration_ms, replay_path, created_at
		 FROM episodes`,
		where,
		`ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
	}, " ")

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var e Episode
		var durationMs int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.EnvID, &e.Policy, &e.Seed, &e.Steps, &e.Reward,
			&e.Terminal, &e.Truncated, &durationMs, &e.ReplayPath, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.CreatedAt = parseTime(createdAt)
		episodes = append(episodes, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return episodes, nil
}

// EpisodeStats retrieves aggregated statistics for one environment.
func (s *Store) EpisodeStats(envID string) (*EpisodeStats, error) {
	stats := &EpisodeStats{EnvID: envID}
	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(steps), 0), COALESCE(AVG(steps), 0),
		        COALESCE(SUM(steps), 0), COALESCE(SUM(terminal), 0), MAX(created_at)
		 FROM episodes WHERE env_id = ?`,
		envID,
	).Scan(&stats.Count, &stats.BestSteps, &stats.AvgSteps, &stats.TotalSteps, &stats.Collisions, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get episode stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)
	return stats, nil
}

// AllEpisodeStats retrieves statistics for every environment with episodes.
func (s *Store) AllEpisodeStats() (map[string]*EpisodeStats, error) {
	rows, err := s.db.Query(
		`SELECT env_id, COUNT(*), MAX(steps), AVG(steps), SUM(steps), SUM(terminal), MAX(created_at)
		 FROM episodes
		 GROUP BY env_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all episode stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*EpisodeStats)
	for rows.Next() {
		var st EpisodeStats
		var lastRun any
		if err := rows.Scan(&st.EnvID, &st.Count, &st.BestSteps, &st.AvgSteps, &st.TotalSteps, &st.Collisions, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats[st.EnvID] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
