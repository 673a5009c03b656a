package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"moodmix/models"
	"moodmix/mood"
	"moodmix/playlist"
)

type fakeAnalyzer struct {
	mutex sync.Mutex
	calls int
	panic bool
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) models.MoodRecord {
	f.mutex.Lock()
	f.calls++
	f.mutex.Unlock()
	if f.panic {
		panic("analyzer exploded")
	}
	return mood.Heuristic(text)
}

func (f *fakeAnalyzer) Calls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls
}

type fakeBuilder struct {
	mutex   sync.Mutex
	calls   int
	moods   []models.MoodRecord
	panicOn int // 1-based call that panics, 0 for never
	block   chan struct{}
	started chan struct{}
}

func (f *fakeBuilder) Build(_ context.Context, record models.MoodRecord) models.Playlist {
	f.mutex.Lock()
	f.calls++
	call := f.calls
	f.moods = append(f.moods, record)
	f.mutex.Unlock()

	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	if f.panicOn == call {
		panic("builder exploded")
	}

	result := playlist.Fallback(record)
	result.ID = fmt.Sprintf("playlist-%d", call)
	return result
}

func newTestController(analyzer MoodAnalyzer, builder PlaylistBuilder) *Controller {
	return NewController(analyzer, builder, 30*time.Minute)
}

func TestSubmitReachesReady(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	c := newTestController(analyzer, &fakeBuilder{})

	snapshot, err := c.Submit(context.Background(), "s1", "feeling calm tonight")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if snapshot.State != Ready || snapshot.Busy {
		t.Errorf("state = %s busy = %v, want ready", snapshot.State, snapshot.Busy)
	}
	if snapshot.Mood == nil || snapshot.Mood.MoodType != "calm" {
		t.Fatalf("mood = %+v", snapshot.Mood)
	}
	if snapshot.Playlist == nil || snapshot.Playlist.Name != "Calm Mood Mix" {
		t.Fatalf("playlist = %+v", snapshot.Playlist)
	}
	if snapshot.Notice == nil || snapshot.Notice.Title != "Playlist generated!" {
		t.Fatalf("notice = %+v", snapshot.Notice)
	}
	if snapshot.Notice.Description != `We've created a "Calm Mood Mix" based on your mood.` {
		t.Errorf("notice description = %q", snapshot.Notice.Description)
	}
	if snapshot.Description != "feeling calm tonight" {
		t.Errorf("description = %q", snapshot.Description)
	}
	if analyzer.Calls() != 1 {
		t.Errorf("analyzer calls = %d", analyzer.Calls())
	}
}

func TestSubmitRejectsBlankDescription(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	c := newTestController(analyzer, &fakeBuilder{})

	for _, text := range []string{"", "   ", "\n\t"} {
		snapshot, err := c.Submit(context.Background(), "s1", text)
		if !errors.Is(err, ErrEmptyDescription) {
			t.Errorf("Submit(%q) error = %v, want ErrEmptyDescription", text, err)
		}
		if snapshot.State != Idle {
			t.Errorf("state = %s, want idle", snapshot.State)
		}
	}
	if analyzer.Calls() != 0 {
		t.Errorf("analyzer called %d times for blank input", analyzer.Calls())
	}
}

func TestRegenerateKeepsMood(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	builder := &fakeBuilder{}
	c := newTestController(analyzer, builder)

	first, err := c.Submit(context.Background(), "s1", "so happy")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	second, err := c.Regenerate(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}

	if analyzer.Calls() != 1 {
		t.Errorf("analyzer calls = %d, want 1", analyzer.Calls())
	}
	if builder.calls != 2 {
		t.Errorf("builder calls = %d, want 2", builder.calls)
	}
	if builder.moods[1].MoodType != builder.moods[0].MoodType || builder.moods[1].Description != builder.moods[0].Description {
		t.Errorf("regenerate used a different mood: %+v vs %+v", builder.moods[1], builder.moods[0])
	}
	if second.Playlist.Description != first.Playlist.Description {
		t.Errorf("playlist description changed: %q -> %q", first.Playlist.Description, second.Playlist.Description)
	}
	if second.Playlist.ID == first.Playlist.ID {
		t.Error("expected a replaced playlist")
	}
	if second.Notice == nil || second.Notice.Title != "Playlist regenerated!" {
		t.Errorf("notice = %+v", second.Notice)
	}
	if second.State != Ready {
		t.Errorf("state = %s, want ready", second.State)
	}
}

func TestRegenerateRequiresReady(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{})

	if _, err := c.Regenerate(context.Background(), "s1"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Regenerate() error = %v, want ErrNotReady", err)
	}
}

func TestResetDiscardsResult(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{})
	if _, err := c.Submit(context.Background(), "s1", "in love"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snapshot, err := c.Reset("s1")
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if snapshot.State != Idle || snapshot.Mood != nil || snapshot.Playlist != nil || snapshot.Description != "" {
		t.Errorf("snapshot after reset = %+v", snapshot)
	}
	if _, err := c.Regenerate(context.Background(), "s1"); !errors.Is(err, ErrNotReady) {
		t.Errorf("Regenerate() after reset error = %v, want ErrNotReady", err)
	}
}

func TestSubmitWhileBusy(t *testing.T) {
	builder := &fakeBuilder{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	c := newTestController(&fakeAnalyzer{}, builder)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "s1", "party")
		done <- err
	}()
	<-builder.started

	snapshot, err := c.Submit(context.Background(), "s1", "sad")
	if !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit() error = %v, want ErrBusy", err)
	}
	if snapshot.State != Generating || !snapshot.Busy {
		t.Errorf("state = %s busy = %v, want generating", snapshot.State, snapshot.Busy)
	}
	if _, err := c.Regenerate(context.Background(), "s1"); !errors.Is(err, ErrBusy) {
		t.Errorf("Regenerate() while busy error = %v, want ErrBusy", err)
	}
	if _, err := c.Reset("s1"); !errors.Is(err, ErrBusy) {
		t.Errorf("Reset() while busy error = %v, want ErrBusy", err)
	}

	close(builder.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if got := c.Snapshot("s1"); got.State != Ready || got.Mood.MoodType != "energetic" {
		t.Errorf("final state = %s mood = %+v", got.State, got.Mood)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	builder := &fakeBuilder{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	c := newTestController(&fakeAnalyzer{}, builder)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "s1", "party")
		done <- err
	}()
	<-builder.started

	if got := c.Snapshot("s2"); got.State != Idle {
		t.Errorf("other session state = %s, want idle", got.State)
	}

	close(builder.block)
	if err := <-done; err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
}

func TestSubmitRecoversFromPanic(t *testing.T) {
	c := newTestController(&fakeAnalyzer{panic: true}, &fakeBuilder{})

	snapshot, err := c.Submit(context.Background(), "s1", "happy")
	if !errors.Is(err, ErrUnexpected) {
		t.Fatalf("Submit() error = %v, want ErrUnexpected", err)
	}
	if snapshot.State != Idle || snapshot.Mood != nil || snapshot.Playlist != nil {
		t.Errorf("snapshot = %+v, want idle and empty", snapshot)
	}
	if snapshot.Notice == nil || snapshot.Notice.Variant != "destructive" {
		t.Errorf("notice = %+v", snapshot.Notice)
	}

	// the session stays usable
	c.analyzer = &fakeAnalyzer{}
	if _, err := c.Submit(context.Background(), "s1", "happy"); err != nil {
		t.Errorf("retry Submit() error = %v", err)
	}
}

func TestRegenerateRecoversFromPanic(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{panicOn: 2})

	first, err := c.Submit(context.Background(), "s1", "calm")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	snapshot, err := c.Regenerate(context.Background(), "s1")
	if !errors.Is(err, ErrUnexpected) {
		t.Fatalf("Regenerate() error = %v, want ErrUnexpected", err)
	}
	if snapshot.State != Ready {
		t.Errorf("state = %s, want ready", snapshot.State)
	}
	if snapshot.Playlist == nil || snapshot.Playlist.ID != first.Playlist.ID {
		t.Errorf("previous playlist not kept: %+v", snapshot.Playlist)
	}
	if snapshot.Notice == nil || snapshot.Notice.Description != "Something went wrong while regenerating your playlist." {
		t.Errorf("notice = %+v", snapshot.Notice)
	}
}

func TestSubmitIgnoresCallerCancellation(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snapshot, err := c.Submit(ctx, "s1", "study")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if snapshot.State != Ready {
		t.Errorf("state = %s, want ready", snapshot.State)
	}
}

func TestViewConsumesNotice(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{})
	if _, err := c.Submit(context.Background(), "s1", "happy"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if got := c.View("s1"); got.Notice == nil {
		t.Error("first view should carry the notice")
	}
	if got := c.View("s1"); got.Notice != nil {
		t.Errorf("second view notice = %+v, want nil", got.Notice)
	}
	if got := c.Snapshot("s1"); got.Playlist == nil {
		t.Error("playlist should survive notice consumption")
	}
}

func TestEvictIdle(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{})
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	var evicted []string
	c.OnEvict(func(sessionID string) { evicted = append(evicted, sessionID) })

	c.GetSession("old")
	c.now = func() time.Time { return start.Add(20 * time.Minute) }
	c.GetSession("fresh")

	c.now = func() time.Time { return start.Add(40 * time.Minute) }
	if n := c.EvictIdle(); n != 1 {
		t.Errorf("EvictIdle() = %d, want 1", n)
	}
	if len(evicted) != 1 || evicted[0] != "old" {
		t.Errorf("evict hook saw %v, want [old]", evicted)
	}
	if c.SessionCount() != 1 {
		t.Errorf("SessionCount() = %d, want 1", c.SessionCount())
	}
	if got := c.GetSession("old"); got.Snapshot().State != Idle {
		t.Error("evicted session should come back fresh")
	}
}

func TestPollingKeepsSessionAlive(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{})
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }

	if _, err := c.Submit(context.Background(), "poller", "happy"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// a client that only reads state, well past the idle timeout since submitting
	for minutes := 20; minutes <= 80; minutes += 20 {
		now := start.Add(time.Duration(minutes) * time.Minute)
		c.now = func() time.Time { return now }
		if got := c.Snapshot("poller"); got.State != Ready {
			t.Fatalf("state after %d minutes = %s, want ready", minutes, got.State)
		}
		if n := c.EvictIdle(); n != 0 {
			t.Fatalf("EvictIdle() after %d minutes = %d, want 0", minutes, n)
		}
	}
}

func TestGetSessionConcurrentAccess(t *testing.T) {
	c := newTestController(&fakeAnalyzer{}, &fakeBuilder{})

	var wg sync.WaitGroup
	sessions := make([]*Session, 50)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i] = c.GetSession("shared")
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		if s != sessions[0] {
			t.Fatal("GetSession returned different sessions for the same id")
		}
	}
}

func TestJanitorEvictsInBackground(t *testing.T) {
	c := NewController(&fakeAnalyzer{}, &fakeBuilder{}, time.Minute)
	start := time.Now()
	c.now = func() time.Time { return start }
	c.GetSession("stale")
	c.now = func() time.Time { return start.Add(time.Hour) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartJanitor(ctx, time.Second)

	deadline := time.Now().Add(5 * time.Second)
	for c.SessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("janitor did not evict the idle session")
		}
		time.Sleep(50 * time.Millisecond)
	}
}
