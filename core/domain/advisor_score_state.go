package domain

import "sync"

// Score constants.
const (
	MaxScore         = 100
	DefaultBaseScore = 75
	SuggestionBonus  = 2
)

// ScoreState tracks one analysis session's score. The bonus is kept when a
// new analysis resets the base. Safe for concurrent use.
type ScoreState struct {
	mu      sync.Mutex
	base    int
	bonus   int
	applied map[string]struct{}
}

// NewScoreState starts a session at base.
func NewScoreState(base int) *ScoreState {
	return &ScoreState{
		base:    clampScore(base),
		applied: make(map[string]struct{}),
	}
}

// ResetBase replaces the base score after a new analysis.
func (s *ScoreState) ResetBase(base int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = clampScore(base)
}

// OnSuggestionApplied awards the bonus once per id. It returns false,
// without effect, when id was already applied.
func (s *ScoreState) OnSuggestionApplied(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.applied[id]; seen {
		return false
	}
	s.applied[id] = struct{}{}
	s.bonus += SuggestionBonus
	return true
}

// Current is min(100, base+bonus).
func (s *ScoreState) Current() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

func (s *ScoreState) current() int {
	return min(MaxScore, s.base+s.bonus)
}

// IsApplied reports whether id has already earned its bonus.
func (s *ScoreState) IsApplied(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.applied[id]
	return ok
}

// ScoreSnapshot is a consistent read of a ScoreState.
type ScoreSnapshot struct {
	Base      int      `json:"base"`
	Bonus     int      `json:"bonus"`
	Current   int      `json:"current"`
	AppliedID []string `json:"applied_ids"`
}

// Snapshot returns all fields under one lock.
func (s *ScoreState) Snapshot() ScoreSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.applied))
	for id := range s.applied {
		ids = append(ids, id)
	}
	return ScoreSnapshot{Base: s.base, Bonus: s.bonus, Current: s.current(), AppliedID: ids}
}

func clampScore(v int) int {
	return max(0, min(MaxScore, v))
}
