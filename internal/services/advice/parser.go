package advice

import (
	"strings"

	"github.com/myntr-ai/myntr/internal/models"
)

// PlaceholderRecommendation is used when the output contains no dash lines.
const PlaceholderRecommendation = "Öneriler oluşturulamadı."

// ParseResponse splits generated text into answer, recommendations and allocation.
// Percentages are not validated.
func ParseResponse(text string) *models.FinancialAdvice {
	lines := strings.Split(text, "\n")

	advice := &models.FinancialAdvice{Answer: lines[0]}
	allocation := make(map[string]string)

	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-") {
			advice.Recommendations = append(advice.Recommendations, dropRunes(trimmed, 2))
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.Contains(value, "%") {
			continue
		}
		allocation[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	if len(advice.Recommendations) == 0 {
		advice.Recommendations = []string{PlaceholderRecommendation}
	}
	if len(allocation) > 0 {
		advice.AdditionalInfo = &models.AdditionalInfo{SuggestedAllocation: allocation}
	}
	return advice
}

func dropRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return ""
	}
	return string(runes[n:])
}
