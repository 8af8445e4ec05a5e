package sim

// Spawn is the scheduler's per-tick decision.
type Spawn struct {
	Hazard     bool
	Decoration bool
}

// Scheduler decides once per tick whether a hazard and/or a decoration should
// be spawned. Cadence is a pure function of the tick count; capacity is the
// pool's concern, so a "yes" here may still be dropped on admission.
type Scheduler struct {
	hazardInterval     int
	decorationInterval int
	hazardElapsed      int
	decorationElapsed  int
	ticks              uint64
}

// NewScheduler creates a scheduler with independent per-kind intervals.
// An interval <= 0 disables spawning for that kind.
func NewScheduler(hazardInterval, decorationInterval int) *Scheduler {
	return &Scheduler{
		hazardInterval:     hazardInterval,
		decorationInterval: decorationInterval,
	}
}

// Tick advances the counters by one tick and reports which kinds are due.
func (s *Scheduler) Tick() Spawn {
	s.ticks++
	return Spawn{
		Hazard:     due(&s.hazardElapsed, s.hazardInterval),
		Decoration: due(&s.decorationElapsed, s.decorationInterval),
	}
}

func due(elapsed *int, interval int) bool {
	if interval <= 0 {
		return false
	}
	*elapsed++
	if *elapsed >= interval {
		*elapsed = 0
		return true
	}
	return false
}

// Reset zeroes every counter. Called on environment reset.
func (s *Scheduler) Reset() {
	s.hazardElapsed = 0
	s.decorationElapsed = 0
	s.ticks = 0
}

// Ticks returns the number of ticks seen since the last reset.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks
}

// Elapsed returns the per-kind counters since each kind last became due.
func (s *Scheduler) Elapsed() (hazard, decoration int) {
	return s.hazardElapsed, s.decorationElapsed
}
