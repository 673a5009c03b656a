package mood

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"moodmix/models"
)

type moodRule struct {
	MoodType  string
	Keywords  []string
	Intensity float64
	Color     string
	Genres    []string
}

// moodRules are tested in order; the first rule with a matching keyword wins.
var moodRules = []moodRule{
	{"happy", []string{"happy", "joy", "excited"}, 0.8, "#FFD700", []string{"pop", "dance", "happy", "feel-good"}},
	{"sad", []string{"sad", "down", "blue"}, 0.7, "#4682B4", []string{"sad", "indie", "singer-songwriter", "melancholic"}},
	{"energetic", []string{"energetic", "workout", "party"}, 0.9, "#FF4500", []string{"edm", "dance", "workout", "party"}},
	{"calm", []string{"calm", "relax", "peaceful"}, 0.3, "#7B68EE", []string{"ambient", "chill", "meditation", "sleep"}},
	{"focused", []string{"focus", "study", "work"}, 0.6, "#32CD32", []string{"focus", "instrumental", "study", "classical"}},
	{"romantic", []string{"romantic", "love", "date"}, 0.7, "#FF69B4", []string{"romance", "r-n-b", "love songs", "jazz"}},
}

var neutralRule = moodRule{
	MoodType:  "neutral",
	Intensity: 0.5,
	Color:     "#7B68EE",
	Genres:    []string{"pop", "indie"},
}

// Heuristic derives a mood record from keywords in the description. Matching
// is plain substring containment against the lower-cased text.
func Heuristic(text string) models.MoodRecord {
	lowered := cases.Lower(language.Und).String(text)

	rule := neutralRule
	for _, candidate := range moodRules {
		if containsAny(lowered, candidate.Keywords) {
			rule = candidate
			break
		}
	}

	return models.MoodRecord{
		MoodType:          rule.MoodType,
		Intensity:         rule.Intensity,
		Description:       fmt.Sprintf("You seem to be feeling %s with %d%% intensity.", rule.MoodType, int(math.Round(rule.Intensity*100))),
		RecommendedGenres: append([]string(nil), rule.Genres...),
		Color:             rule.Color,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
