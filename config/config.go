package config

import (
	"os"
	"strconv"
	"strings"
)

type ConfigStruct struct {
	Options Options
	Logging LoggingConfig
	Gemini  GeminiConfig
	Spotify SpotifyConfig
	Sentry  SentryConfig
}

type Options struct {
	Port               string
	SessionIdleMinutes int
}

type LoggingConfig struct {
	Level string
	File  string
}

type GeminiConfig struct {
	Enabled bool
	APIKey  string
	Model   string
	BaseURL string
}

type SpotifyConfig struct {
	ClientID      string
	ClientSecret  string
	Enabled       bool
	Market        string
	PlaylistLimit int
	TokenURL      string
	APIURL        string
}

type SentryConfig struct {
	DSN     string
	Release string
}

// IsEnabled reports whether mood inference should call Gemini at all.
func (g *GeminiConfig) IsEnabled() bool {
	return g.Enabled && g.APIKey != ""
}

// IsEnabled reports whether catalog search should call Spotify at all.
func (s *SpotifyConfig) IsEnabled() bool {
	return s.Enabled && s.ClientID != "" && s.ClientSecret != ""
}

func NewConfig() *ConfigStruct {
	return &ConfigStruct{
		Options: Options{
			Port:               getPort(),
			SessionIdleMinutes: getSessionIdleMinutes(),
		},
		Logging: LoggingConfig{
			Level: getLogLevel(),
			File:  os.Getenv("LOG_FILE"),
		},
		Gemini: GeminiConfig{
			Enabled: os.Getenv("GEMINI_ENABLED") == "true",
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   getGeminiModel(),
			BaseURL: os.Getenv("GEMINI_BASE_URL"),
		},
		Spotify: SpotifyConfig{
			ClientID:      os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret:  os.Getenv("SPOTIFY_CLIENT_SECRET"),
			Enabled:       os.Getenv("SPOTIFY_ENABLED") == "true",
			Market:        getMarket(),
			PlaylistLimit: getPlaylistLimit(),
			TokenURL:      os.Getenv("SPOTIFY_TOKEN_URL"),
			APIURL:        os.Getenv("SPOTIFY_API_URL"),
		},
		Sentry: SentryConfig{
			DSN:     os.Getenv("SENTRY_DSN"),
			Release: os.Getenv("RELEASE"),
		},
	}
}

func getPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		return "8080"
	}
	return port
}

func getLogLevel() string {
	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if level == "" {
		return "info"
	}
	return level
}

func getGeminiModel() string {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		return "gemini-2.0-flash"
	}
	return model
}

func getMarket() string {
	market := strings.ToUpper(strings.TrimSpace(os.Getenv("SPOTIFY_MARKET")))
	if market == "" {
		return "US"
	}
	return market
}

func getSessionIdleMinutes() int {
	timeoutStr := os.Getenv("SESSION_IDLE_MINUTES")
	if timeoutStr == "" {
		return 30
	}
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil || timeout <= 0 {
		return 30
	}
	return timeout
}

func getPlaylistLimit() int {
	limitStr := os.Getenv("SPOTIFY_PLAYLIST_LIMIT")
	if limitStr == "" {
		return 10
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 10
	}
	if limit > 10 {
		return 10 // playlists never hold more than 10 tracks
	}
	return limit
}
