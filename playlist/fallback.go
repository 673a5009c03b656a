package playlist

import (
	"fmt"

	"moodmix/models"
)

const neutralMood = "neutral"

type placeholder struct {
	ID     string
	Name   string
	Artist string
	Seed   string
}

// fallbackTracks holds five placeholder tracks per mood. Unknown moods use
// the neutral set.
var fallbackTracks = map[string][]placeholder{
	"happy": {
		{"1", "Happy Vibes", "Artist A", "happy1"},
		{"2", "Good Times", "Artist B", "happy2"},
		{"3", "Sunny Day", "Artist C", "happy3"},
		{"4", "Celebration", "Artist D", "happy4"},
		{"5", "Dance All Night", "Artist E", "happy5"},
	},
	"sad": {
		{"6", "Rainy Day", "Artist F", "sad1"},
		{"7", "Melancholy", "Artist G", "sad2"},
		{"8", "Blue Thoughts", "Artist H", "sad3"},
		{"9", "Late Night Feels", "Artist I", "sad4"},
		{"10", "Lonely Streets", "Artist J", "sad5"},
	},
	"energetic": {
		{"11", "Pump It Up", "Artist K", "energy1"},
		{"12", "Adrenaline Rush", "Artist L", "energy2"},
		{"13", "Power Move", "Artist M", "energy3"},
		{"14", "Workout Beat", "Artist N", "energy4"},
		{"15", "Turbo Mode", "Artist O", "energy5"},
	},
	"calm": {
		{"16", "Gentle Waves", "Artist P", "calm1"},
		{"17", "Quiet Mind", "Artist Q", "calm2"},
		{"18", "Peaceful Sounds", "Artist R", "calm3"},
		{"19", "Meditation", "Artist S", "calm4"},
		{"20", "Tranquility", "Artist T", "calm5"},
	},
	"focused": {
		{"21", "Deep Work", "Artist U", "focus1"},
		{"22", "Flow State", "Artist V", "focus2"},
		{"23", "Concentration", "Artist W", "focus3"},
		{"24", "Study Session", "Artist X", "focus4"},
		{"25", "Mind Clarity", "Artist Y", "focus5"},
	},
	"romantic": {
		{"26", "Candlelight", "Artist Z", "romance1"},
		{"27", "Sweet Serenade", "Artist AA", "romance2"},
		{"28", "Love Song", "Artist AB", "romance3"},
		{"29", "Date Night", "Artist AC", "romance4"},
		{"30", "Heartfelt", "Artist AD", "romance5"},
	},
	neutralMood: {
		{"31", "Everyday Playlist", "Artist AE", "neutral1"},
		{"32", "Background Music", "Artist AF", "neutral2"},
		{"33", "General Vibes", "Artist AG", "neutral3"},
		{"34", "Mixed Mood", "Artist AH", "neutral4"},
		{"35", "Easy Listening", "Artist AI", "neutral5"},
	},
}

// FallbackTracks returns fresh placeholder tracks for a mood type, each with a
// synthesized Spotify link and no preview.
func FallbackTracks(moodType string) []models.Track {
	entries, ok := fallbackTracks[moodType]
	if !ok {
		entries = fallbackTracks[neutralMood]
	}

	tracks := make([]models.Track, 0, len(entries))
	for _, entry := range entries {
		tracks = append(tracks, models.Track{
			ID:   entry.ID,
			Name: entry.Name,
			Artists: []models.Artist{
				{ID: "a" + entry.ID, Name: entry.Artist},
			},
			Album: models.Album{
				ID:   "alb" + entry.ID,
				Name: "Album " + entry.ID,
				Images: []models.Image{
					{URL: fmt.Sprintf("https://picsum.photos/seed/%s/300", entry.Seed), Width: 300, Height: 300},
				},
			},
			ExternalURLs: models.ExternalURLs{Spotify: "https://open.spotify.com/track/" + entry.ID},
			PreviewURL:   nil,
		})
	}
	return tracks
}
