package mood

import "fmt"

const analysisPrompt = `Analyze the following mood description and return a JSON object with these fields:
- moodType: A single word describing the overall mood (e.g., happy, sad, energetic, calm, focused, romantic, neutral)
- intensity: A number between 0 and 1 representing how intense the mood is
- description: A short sentence describing the mood analysis
- recommendedGenres: An array of 4-5 music genres that match this mood
- color: A hex color code that represents this mood (e.g., #FFD700 for happy)

Mood description: %q

Return ONLY the JSON object without any additional text or explanation.`

func buildPrompt(text string) string {
	return fmt.Sprintf(analysisPrompt, text)
}
