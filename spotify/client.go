package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"moodmix/config"
	"moodmix/models"
	"moodmix/playlist"
	"moodmix/sentryhelper"
)

// genrePrefix is how many recommended genres go into the search query.
// Using every genre over-constrains the search and returns nothing.
const genrePrefix = 2

var ErrInvalidLimit = errors.New("spotify: limit must be positive")

type Client struct {
	api     *spotifyclient.Client
	session *Session
	market  string
}

// compile-time interface assertion
var _ playlist.TrackSearcher = (*Client)(nil)

func NewClient(cfg config.SpotifyConfig) *Client {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	market := cfg.Market
	if market == "" {
		market = "US"
	}

	session := NewSession(cfg.ClientID, cfg.ClientSecret, tokenURL)
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: session},
	}

	var opts []spotifyclient.ClientOption
	if cfg.APIURL != "" {
		opts = append(opts, spotifyclient.WithBaseURL(strings.TrimRight(cfg.APIURL, "/")+"/"))
	}

	return &Client{
		api:     spotifyclient.New(httpClient, opts...),
		session: session,
		market:  market,
	}
}

// SearchTracks searches the catalog for tracks matching the mood keyword and
// the leading genres. The result may be empty; failures are returned, never
// replaced with fallback data.
func (c *Client) SearchTracks(ctx context.Context, genres []string, moodKeyword string, limit int) ([]models.Track, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	query := BuildQuery(genres, moodKeyword)
	logger := log.WithFields(log.Fields{
		"module": "spotify",
		"method": "SearchTracks",
	})
	logger.Debugf("searching Spotify: %q (limit %d, market %s)", query, limit, c.market)

	span := sentryhelper.StartSpan(ctx, "spotify.search", "Search Spotify API")
	span.SetTag("query", query)
	defer span.Finish()

	results, err := c.api.Search(ctx, query, spotifyclient.SearchTypeTrack,
		spotifyclient.Limit(limit),
		spotifyclient.Market(c.market),
	)
	if err != nil {
		logger.Errorf("Spotify search failed: %v", err)
		span.Status = sentry.SpanStatusInternalError
		var apiErr spotifyclient.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			// the catalog rejected a token we still consider valid
			c.session.Invalidate()
			return nil, fmt.Errorf("%w: search %q: %w", ErrAuth, query, err)
		}
		return nil, fmt.Errorf("spotify: search %q: %w", query, err)
	}

	if results == nil || results.Tracks == nil {
		span.Status = sentry.SpanStatusOK
		return []models.Track{}, nil
	}

	items := results.Tracks.Tracks
	if len(items) > limit {
		items = items[:limit]
	}
	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, mapTrack(item))
	}

	logger.Debugf("Spotify returned %d tracks", len(tracks))
	span.Status = sentry.SpanStatusOK
	span.SetData("tracks_count", len(tracks))
	return tracks, nil
}

// BuildQuery joins the mood keyword with the first genrePrefix non-blank genres.
func BuildQuery(genres []string, moodKeyword string) string {
	parts := make([]string, 0, genrePrefix+1)
	if mood := strings.TrimSpace(moodKeyword); mood != "" {
		parts = append(parts, mood)
	}
	added := 0
	for _, genre := range genres {
		if added == genrePrefix {
			break
		}
		if genre = strings.TrimSpace(genre); genre != "" {
			parts = append(parts, genre)
			added++
		}
	}
	return strings.Join(parts, " ")
}
