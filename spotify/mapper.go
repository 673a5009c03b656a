package spotify

import (
	spotifyclient "github.com/zmb3/spotify/v2"

	"moodmix/models"
)

func mapTrack(track spotifyclient.FullTrack) models.Track {
	artists := make([]models.Artist, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, models.Artist{
			ID:   string(artist.ID),
			Name: artist.Name,
		})
	}

	images := make([]models.Image, 0, len(track.Album.Images))
	for _, image := range track.Album.Images {
		images = append(images, models.Image{
			URL:    image.URL,
			Width:  int(image.Width),
			Height: int(image.Height),
		})
	}

	var preview *string
	if track.PreviewURL != "" {
		url := track.PreviewURL
		preview = &url
	}

	return models.Track{
		ID:      string(track.ID),
		Name:    track.Name,
		Artists: artists,
		Album: models.Album{
			ID:     string(track.Album.ID),
			Name:   track.Album.Name,
			Images: images,
		},
		ExternalURLs: models.ExternalURLs{Spotify: track.ExternalURLs["spotify"]},
		PreviewURL:   preview,
	}
}
