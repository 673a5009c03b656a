package mood

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"moodmix/models"
)

var (
	ErrEmptyReply = errors.New("mood: empty reply")
	ErrMalformed  = errors.New("mood: malformed JSON")
	ErrIncomplete = errors.New("mood: incomplete mood record")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ExtractJSON strips a markdown code fence from a model reply. A "```json"
// fence wins over a bare "```" fence; unfenced replies are returned trimmed.
func ExtractJSON(reply string) (string, error) {
	payload := strings.TrimSpace(reply)

	for _, fence := range []string{"```json", "```"} {
		_, after, found := strings.Cut(payload, fence)
		if !found {
			continue
		}
		inner, _, _ := strings.Cut(after, "```")
		payload = strings.TrimSpace(inner)
		break
	}

	if payload == "" {
		return "", ErrEmptyReply
	}
	return payload, nil
}

// DecodeMood parses and validates a JSON mood record.
func DecodeMood(payload string) (models.MoodRecord, error) {
	var record models.MoodRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return models.MoodRecord{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	record.MoodType = strings.ToLower(strings.TrimSpace(record.MoodType))
	record.Description = strings.TrimSpace(record.Description)
	record.RecommendedGenres = compact(record.RecommendedGenres)
	record.RecommendedArtists = compact(record.RecommendedArtists)
	record.Color = normalizeColor(record.Color)

	switch {
	case record.MoodType == "":
		return models.MoodRecord{}, fmt.Errorf("%w: missing moodType", ErrIncomplete)
	case record.Intensity <= 0 || record.Intensity > 1:
		return models.MoodRecord{}, fmt.Errorf("%w: intensity %v outside (0, 1]", ErrIncomplete, record.Intensity)
	case record.Description == "":
		return models.MoodRecord{}, fmt.Errorf("%w: missing description", ErrIncomplete)
	case len(record.RecommendedGenres) == 0:
		return models.MoodRecord{}, fmt.Errorf("%w: missing recommendedGenres", ErrIncomplete)
	case !hexColor.MatchString(record.Color):
		return models.MoodRecord{}, fmt.Errorf("%w: invalid color %q", ErrIncomplete, record.Color)
	}

	return record, nil
}

// ParseReply runs both decode stages on a raw model reply.
func ParseReply(reply string) (models.MoodRecord, error) {
	payload, err := ExtractJSON(reply)
	if err != nil {
		return models.MoodRecord{}, err
	}
	return DecodeMood(payload)
}

func compact(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func normalizeColor(color string) string {
	color = strings.TrimSpace(color)
	if color != "" && !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	return strings.ToUpper(color)
}
