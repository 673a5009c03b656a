package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MoodRecord is the structured result of analyzing a user's mood description.
type MoodRecord struct {
	MoodType           string   `json:"moodType"`
	Intensity          float64  `json:"intensity"`
	Description        string   `json:"description"`
	RecommendedGenres  []string `json:"recommendedGenres"`
	RecommendedArtists []string `json:"recommendedArtists,omitempty"`
	Color              string   `json:"color"`
}

type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Album struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Images []Image `json:"images"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type Track struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Artists      []Artist     `json:"artists"`
	Album        Album        `json:"album"`
	ExternalURLs ExternalURLs `json:"external_urls"`
	PreviewURL   *string      `json:"preview_url"`
}

// ArtistNames joins the track's artist names for display.
func (t Track) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, artist := range t.Artists {
		names = append(names, artist.Name)
	}
	return strings.Join(names, ", ")
}

// Cover returns the first album image, if any.
func (t Track) Cover() (Image, bool) {
	if len(t.Album.Images) == 0 {
		return Image{}, false
	}
	return t.Album.Images[0], true
}

type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
	ExternalURL string  `json:"external_url,omitempty"`
}

// TitleCase upper-cases the first letter and leaves the rest untouched,
// so "laid-back" becomes "Laid-back".
func TitleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
