package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"moodmix/models"
	"moodmix/sentryhelper"
)

var (
	ErrEmptyDescription = errors.New("describe your mood first")
	ErrBusy             = errors.New("a playlist is already being generated")
	ErrNotReady         = errors.New("no playlist to regenerate yet")
	ErrUnexpected       = errors.New("unexpected failure")
)

// MoodAnalyzer infers a mood record; it must not fail.
type MoodAnalyzer interface {
	Analyze(ctx context.Context, text string) models.MoodRecord
}

// PlaylistBuilder builds a playlist for a mood; it must not fail.
type PlaylistBuilder interface {
	Build(ctx context.Context, mood models.MoodRecord) models.Playlist
}

type Controller struct {
	// This is a map of session ID to that browser's session
	sessions    map[string]*Session
	mutex       sync.RWMutex
	analyzer    MoodAnalyzer
	builder     PlaylistBuilder
	idleTimeout time.Duration
	onEvict     []func(sessionID string)
	now         func() time.Time
}

func NewController(analyzer MoodAnalyzer, builder PlaylistBuilder, idleTimeout time.Duration) *Controller {
	return &Controller{
		sessions:    make(map[string]*Session),
		analyzer:    analyzer,
		builder:     builder,
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// GetSession returns the session for the id, creating it on first use, and
// marks it active so the janitor keeps it.
func (c *Controller) GetSession(sessionID string) *Session {
	c.mutex.RLock()
	session, ok := c.sessions[sessionID]
	if ok {
		session.touch(c.now())
	}
	c.mutex.RUnlock()
	if ok {
		return session
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if session, ok := c.sessions[sessionID]; ok {
		session.touch(c.now())
		return session
	}

	session = newSession(sessionID, c.now())
	c.sessions[sessionID] = session
	log.Tracef("created session %s", sessionID)
	return session
}

// Snapshot returns the session state without consuming its notice.
func (c *Controller) Snapshot(sessionID string) Snapshot {
	return c.GetSession(sessionID).Snapshot()
}

// View returns the session state for a page render; the notice is shown once.
func (c *Controller) View(sessionID string) Snapshot {
	return c.GetSession(sessionID).takeNotice(c.now())
}

// Submit analyzes the description and builds a playlist for it. Outbound calls
// are not cancelled when the caller goes away.
func (c *Controller) Submit(ctx context.Context, sessionID string, description string) (Snapshot, error) {
	session := c.GetSession(sessionID)
	if strings.TrimSpace(description) == "" {
		return session.Snapshot(), ErrEmptyDescription
	}
	if err := session.beginSubmit(description, c.now()); err != nil {
		return session.Snapshot(), err
	}

	ctx, transaction := sentryhelper.StartActionTransaction(context.WithoutCancel(ctx), "submit", sessionID)
	defer transaction.Finish()

	logger := log.WithFields(log.Fields{
		"module":  "controller",
		"method":  "Submit",
		"session": sessionID,
	})

	err := safely(func() {
		mood := c.analyzer.Analyze(ctx, description)
		logger.Debugf("analyzed mood: %s", mood.MoodType)
		session.setMood(mood)

		playlist := c.builder.Build(ctx, mood)
		session.finish(playlist, Notice{
			Title:       "Playlist generated!",
			Description: fmt.Sprintf("We've created a \"%s\" based on your mood.", playlist.Name),
		})
		logger.Infof("generated %q with %d tracks", playlist.Name, len(playlist.Tracks))
	})
	if err != nil {
		logger.Errorf("error analyzing mood: %v", err)
		sentryhelper.CaptureException(ctx, err)
		session.failSubmit(Notice{
			Title:       "Error",
			Description: "Something went wrong while analyzing your mood.",
			Variant:     "destructive",
		})
		return session.Snapshot(), err
	}

	return session.Snapshot(), nil
}

// Regenerate rebuilds the playlist from the stored mood without re-analyzing.
func (c *Controller) Regenerate(ctx context.Context, sessionID string) (Snapshot, error) {
	session := c.GetSession(sessionID)
	mood, err := session.beginRegenerate(c.now())
	if err != nil {
		return session.Snapshot(), err
	}

	ctx, transaction := sentryhelper.StartActionTransaction(context.WithoutCancel(ctx), "regenerate", sessionID)
	defer transaction.Finish()

	logger := log.WithFields(log.Fields{
		"module":  "controller",
		"method":  "Regenerate",
		"session": sessionID,
	})

	err = safely(func() {
		playlist := c.builder.Build(ctx, mood)
		session.finish(playlist, Notice{
			Title:       "Playlist regenerated!",
			Description: fmt.Sprintf("We've created a new \"%s\" for you.", playlist.Name),
		})
		logger.Infof("regenerated %q with %d tracks", playlist.Name, len(playlist.Tracks))
	})
	if err != nil {
		logger.Errorf("error regenerating playlist: %v", err)
		sentryhelper.CaptureException(ctx, err)
		session.failRegenerate(Notice{
			Title:       "Error",
			Description: "Something went wrong while regenerating your playlist.",
			Variant:     "destructive",
		})
		return session.Snapshot(), err
	}

	return session.Snapshot(), nil
}

// Reset discards the mood and playlist so a new mood can be described.
func (c *Controller) Reset(sessionID string) (Snapshot, error) {
	session := c.GetSession(sessionID)
	err := session.reset(c.now())
	return session.Snapshot(), err
}

// OnEvict registers a callback run for every session EvictIdle removes.
func (c *Controller) OnEvict(fn func(sessionID string)) {
	c.mutex.Lock()
	c.onEvict = append(c.onEvict, fn)
	c.mutex.Unlock()
}

// EvictIdle drops sessions that have not been touched within the idle timeout
// and returns how many were removed.
func (c *Controller) EvictIdle() int {
	if c.idleTimeout <= 0 {
		return 0
	}
	cutoff := c.now().Add(-c.idleTimeout)

	c.mutex.Lock()
	var evicted []string
	for id, session := range c.sessions {
		if session.idleSince(cutoff) {
			delete(c.sessions, id)
			evicted = append(evicted, id)
		}
	}
	hooks := c.onEvict
	c.mutex.Unlock()

	for _, id := range evicted {
		for _, fn := range hooks {
			fn(id)
		}
	}
	return len(evicted)
}

// StartJanitor evicts idle sessions every interval until ctx is done.
func (c *Controller) StartJanitor(ctx context.Context, interval time.Duration) {
	janitor := cron.New(cron.WithLocation(time.UTC))
	janitor.Schedule(cron.Every(interval), cron.FuncJob(func() {
		if n := c.EvictIdle(); n > 0 {
			log.Debugf("evicted %d idle sessions", n)
		}
	}))
	janitor.Start()

	go func() {
		<-ctx.Done()
		<-janitor.Stop().Done()
	}()
}

func (c *Controller) SessionCount() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.sessions)
}

// safely runs fn and converts a panic into ErrUnexpected.
func safely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnexpected, r)
		}
	}()
	fn()
	return nil
}
