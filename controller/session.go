package controller

import (
	"sync"
	"time"

	"moodmix/models"
)

type State string

const (
	Idle       State = "idle"
	Analyzing  State = "analyzing"
	Generating State = "generating"
	Ready      State = "ready"
)

// Busy reports whether an outbound call is in flight for the state.
func (s State) Busy() bool {
	return s == Analyzing || s == Generating
}

type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant,omitempty"`
}

// Session is one browser's view of the pipeline. Mood and playlist are
// replaced wholesale, never mutated, so snapshots can share them.
type Session struct {
	ID string

	mutex       sync.Mutex
	state       State
	description string
	mood        *models.MoodRecord
	playlist    *models.Playlist
	notice      *Notice
	lastActive  time.Time
}

// Snapshot is an immutable copy of a session for rendering.
type Snapshot struct {
	SessionID   string             `json:"sessionId"`
	State       State              `json:"state"`
	Busy        bool               `json:"busy"`
	Description string             `json:"description,omitempty"`
	Mood        *models.MoodRecord `json:"mood,omitempty"`
	Playlist    *models.Playlist   `json:"playlist,omitempty"`
	Notice      *Notice            `json:"notice,omitempty"`
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		state:      Idle,
		lastActive: now,
	}
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:   s.ID,
		State:       s.state,
		Busy:        s.state.Busy(),
		Description: s.description,
		Mood:        s.mood,
		Playlist:    s.playlist,
		Notice:      s.notice,
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.snapshotLocked()
}

// beginSubmit moves Idle or Ready to Analyzing, discarding any previous result.
func (s *Session) beginSubmit(description string, now time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state.Busy() {
		return ErrBusy
	}
	s.state = Analyzing
	s.description = description
	s.mood = nil
	s.playlist = nil
	s.notice = nil
	s.lastActive = now
	return nil
}

func (s *Session) setMood(mood models.MoodRecord) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mood = &mood
	s.state = Generating
}

// beginRegenerate moves Ready to Generating and returns the stored mood.
func (s *Session) beginRegenerate(now time.Time) (models.MoodRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state.Busy() {
		return models.MoodRecord{}, ErrBusy
	}
	if s.state != Ready || s.mood == nil {
		return models.MoodRecord{}, ErrNotReady
	}
	s.state = Generating
	s.notice = nil
	s.lastActive = now
	return *s.mood, nil
}

func (s *Session) finish(playlist models.Playlist, notice Notice) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.playlist = &playlist
	s.notice = &notice
	s.state = Ready
}

// failSubmit returns the session to Idle with an error notice.
func (s *Session) failSubmit(notice Notice) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.mood = nil
	s.playlist = nil
	s.notice = &notice
	s.state = Idle
}

// failRegenerate keeps the previous playlist and returns to Ready.
func (s *Session) failRegenerate(notice Notice) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.notice = &notice
	s.state = Ready
}

func (s *Session) reset(now time.Time) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state.Busy() {
		return ErrBusy
	}
	s.state = Idle
	s.description = ""
	s.mood = nil
	s.playlist = nil
	s.notice = nil
	s.lastActive = now
	return nil
}

// takeNotice returns a snapshot and clears the notice so it renders once.
func (s *Session) takeNotice(now time.Time) Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	snapshot := s.snapshotLocked()
	s.notice = nil
	s.lastActive = now
	return snapshot
}

func (s *Session) touch(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if now.After(s.lastActive) {
		s.lastActive = now
	}
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return !s.state.Busy() && s.lastActive.Before(cutoff)
}
