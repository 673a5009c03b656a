package pages

import (
	"html/template"
	"math"

	"moodmix/models"
)

// Funcs are the helpers the index template relies on.
var Funcs = template.FuncMap{
	"percent": func(intensity float64) int {
		return int(math.Round(intensity * 100))
	},
	"title": models.TitleCase,
	"cover": func(track models.Track) string {
		if image, ok := track.Cover(); ok {
			return image.URL
		}
		return ""
	},
}

// New parses the page templates. The router renders "index" by name.
func New() (*template.Template, error) {
	return template.New("index").Funcs(Funcs).Parse(Index)
}

var Index = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>MoodMix</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            line-height: 1.6;
            max-width: 800px;
            margin: 0 auto;
            padding: 20px;
            background: #111;
            color: #eee;
        }
        textarea {
            width: 100%;
            min-height: 120px;
            padding: 10px;
            box-sizing: border-box;
        }
        button, .button {
            padding: 8px 16px;
            margin-right: 8px;
            border: none;
            border-radius: 4px;
            cursor: pointer;
            text-decoration: none;
            background: #1db954;
            color: #fff;
        }
        button:disabled {
            opacity: 0.5;
            cursor: not-allowed;
        }
        .notice {
            padding: 12px;
            border-radius: 4px;
            background: #1f3a2a;
        }
        .notice.destructive {
            background: #5a1d1d;
        }
        .mood {
            padding: 16px;
            border-radius: 8px;
            color: #111;
        }
        .tracks {
            list-style: none;
            padding: 0;
        }
        .track {
            display: flex;
            align-items: center;
            gap: 12px;
            padding: 8px 0;
        }
        .track img {
            width: 64px;
            height: 64px;
            object-fit: cover;
        }
    </style>
</head>
<body>
    <h1>MoodMix</h1>

    {{with .Snapshot.Notice}}
    <div class="notice {{.Variant}}" role="status">
        <strong class="notice-title">{{.Title}}</strong>
        <p class="notice-description">{{.Description}}</p>
    </div>
    {{end}}

    {{if .Snapshot.Playlist}}
    {{with .Snapshot.Mood}}
    <section class="mood" id="mood" style="background-color: {{.Color}}">
        <h2>Feeling {{title .MoodType}}</h2>
        <p>{{.Description}}</p>
        <p class="intensity">Intensity: {{percent .Intensity}}%</p>
        {{if .RecommendedGenres}}
        <p class="genres">{{range $i, $genre := .RecommendedGenres}}{{if $i}}, {{end}}{{$genre}}{{end}}</p>
        {{end}}
    </section>
    {{end}}

    {{with .Snapshot.Playlist}}
    <section id="playlist">
        <h2 class="playlist-name">{{.Name}}</h2>
        <p class="playlist-description">{{.Description}}</p>
        <ul class="tracks">
            {{range .Tracks}}
            <li class="track" data-track-id="{{.ID}}"{{with .PreviewURL}} data-preview="{{.}}"{{end}}>
                {{with cover .}}<img src="{{.}}" alt="">{{end}}
                <div>
                    <a class="track-name" href="{{.ExternalURLs.Spotify}}" target="_blank" rel="noopener">{{.Name}}</a>
                    <div class="track-artists">{{.ArtistNames}}</div>
                </div>
            </li>
            {{end}}
        </ul>
    </section>

    <form method="post" action="/regenerate" style="display: inline">
        <button type="submit" id="regenerate"{{if $.Snapshot.Busy}} disabled{{end}}>Regenerate</button>
    </form>
    {{if .ExternalURL}}
    <a class="button" id="open" href="{{.ExternalURL}}" target="_blank" rel="noopener">Open in Spotify</a>
    {{end}}
    <form method="post" action="/reset" style="display: inline">
        <button type="submit" id="reset"{{if $.Snapshot.Busy}} disabled{{end}}>Describe a new mood</button>
    </form>
    {{end}}
    {{else}}
    <form method="post" action="/mood" id="mood-form">
        <label for="description">How are you feeling?</label>
        <textarea id="description" name="description" placeholder="{{.Placeholder}}"{{if .Snapshot.Busy}} disabled{{end}}>{{.Snapshot.Description}}</textarea>
        <button type="submit" id="submit"{{if or .Snapshot.Busy (not .Snapshot.Description)}} disabled{{end}}>
            {{if .Snapshot.Busy}}Analyzing your mood...{{else}}Create playlist{{end}}
        </button>
    </form>
    {{end}}

    <script>
        document.querySelectorAll("form").forEach(function (form) {
            form.addEventListener("submit", function () {
                form.querySelectorAll("button").forEach(function (button) {
                    button.disabled = true;
                });
            });
        });

        var description = document.getElementById("description");
        if (description) {
            description.addEventListener("input", function () {
                document.getElementById("submit").disabled = description.value.trim() === "";
            });
        }

        var audio = new Audio();
        document.querySelectorAll(".track[data-preview]").forEach(function (track) {
            track.addEventListener("mouseenter", function () {
                audio.src = track.dataset.preview;
                audio.play().catch(function () {});
            });
            track.addEventListener("mouseleave", function () {
                audio.pause();
            });
        });
    </script>
</body>
</html>`
