package handlers

import (
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Hints picks example mood descriptions for the input placeholder.
type Hints struct {
	last  map[string]int // sessionID -> index of the last hint shown
	mutex sync.Mutex
	rand  *rand.Rand
	hints []string
}

func NewHints() *Hints {
	return &Hints{
		last: make(map[string]int),
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		hints: []string{
			"I'm feeling energetic and ready to workout...",
			"Feeling calm and need music to meditate...",
			"Sad and looking for something soothing...",
			"Need to focus on my work for the next few hours...",
			"Feeling happy and want to celebrate...",
		},
	}
}

// Placeholder returns a random hint, never the same one twice in a row for a session.
func (h *Hints) Placeholder(sessionID string) string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	index := h.rand.Intn(len(h.hints))
	if last, ok := h.last[sessionID]; ok && index == last && len(h.hints) > 1 {
		index = (index + 1 + h.rand.Intn(len(h.hints)-1)) % len(h.hints)
	}
	h.last[sessionID] = index

	log.Tracef("placeholder for session %s: %s", sessionID, h.hints[index])
	return h.hints[index]
}

// Forget drops the rotation state for a session.
func (h *Hints) Forget(sessionID string) {
	h.mutex.Lock()
	delete(h.last, sessionID)
	h.mutex.Unlock()
}
