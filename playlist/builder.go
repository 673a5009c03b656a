// Package playlist assembles a Playlist from a MoodRecord, searching the
// catalog and falling back to a static table when the search cannot help.
package playlist

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"moodmix/models"
	"moodmix/sentryhelper"
)

const (
	// DefaultLimit is the number of tracks requested from the catalog.
	DefaultLimit = 10

	spotifySearchURL   = "https://open.spotify.com/search/"
	spotifyPlaylistURL = "https://open.spotify.com/playlist/"
)

// TrackSearcher finds catalog tracks for a mood.
type TrackSearcher interface {
	SearchTracks(ctx context.Context, genres []string, moodKeyword string, limit int) ([]models.Track, error)
}

type Builder struct {
	searcher TrackSearcher
	limit    int
	now      func() time.Time
}

// NewBuilder builds playlists of at most limit tracks. A nil searcher means
// every playlist comes from the static fallback table.
func NewBuilder(searcher TrackSearcher, limit int) *Builder {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	return &Builder{
		searcher: searcher,
		limit:    limit,
		now:      time.Now,
	}
}

// Build never fails: a search error or an empty result yields the fallback
// playlist for the mood.
func (b *Builder) Build(ctx context.Context, mood models.MoodRecord) models.Playlist {
	logger := log.WithFields(log.Fields{
		"module": "playlist",
		"method": "Build",
	})

	if b.searcher == nil {
		logger.Debug("no catalog searcher configured, using fallback tracks")
		return Fallback(mood)
	}

	tracks, err := b.searcher.SearchTracks(ctx, mood.RecommendedGenres, mood.MoodType, b.limit)
	if err != nil {
		logger.Warnf("catalog search failed for %s mood, using fallback tracks: %v", mood.MoodType, err)
		sentryhelper.CaptureException(ctx, fmt.Errorf("playlist fallback: %w", err))
		return Fallback(mood)
	}
	if len(tracks) == 0 {
		logger.Infof("catalog search found nothing for %s mood, using fallback tracks", mood.MoodType)
		sentryhelper.CaptureMessage(ctx, fmt.Sprintf("playlist fallback: no catalog tracks for %s mood", mood.MoodType))
		return Fallback(mood)
	}

	if len(tracks) > b.limit {
		tracks = tracks[:b.limit]
	}

	logger.Debugf("built %s playlist with %d catalog tracks", mood.MoodType, len(tracks))
	return models.Playlist{
		ID:          fmt.Sprintf("playlist-%d", b.now().UnixMilli()),
		Name:        Name(mood),
		Description: Description(mood),
		Tracks:      tracks,
		ExternalURL: spotifySearchURL + url.PathEscape(mood.MoodType),
	}
}

// Fallback builds the deterministic placeholder playlist for a mood.
func Fallback(mood models.MoodRecord) models.Playlist {
	return models.Playlist{
		ID:          "playlist-" + mood.MoodType,
		Name:        Name(mood),
		Description: Description(mood),
		Tracks:      FallbackTracks(mood.MoodType),
		ExternalURL: spotifyPlaylistURL + "playlist-" + mood.MoodType,
	}
}

func Name(mood models.MoodRecord) string {
	return models.TitleCase(mood.MoodType) + " Mood Mix"
}

func Description(mood models.MoodRecord) string {
	return fmt.Sprintf("A playlist generated based on your %s mood. Featuring genres like %s.",
		mood.MoodType, strings.Join(mood.RecommendedGenres, ", "))
}
