package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/myntr-ai/myntr/internal/interfaces"
)

func TestGenerationConfig_MapsSampling(t *testing.T) {
	cfg := generationConfig(interfaces.GenerationParams{Temperature: 0.7, TopP: 0.9, MaxOutputTokens: 512})

	require.NotNil(t, cfg.Temperature)
	require.NotNil(t, cfg.TopP)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-6)
	assert.InDelta(t, 0.9, *cfg.TopP, 1e-6)
	assert.Equal(t, int32(512), cfg.MaxOutputTokens)
	assert.Equal(t, int32(1), cfg.CandidateCount)
}

func TestGenerationConfig_ZeroValuesLeaveDefaults(t *testing.T) {
	cfg := generationConfig(interfaces.GenerationParams{})

	assert.Nil(t, cfg.Temperature)
	assert.Nil(t, cfg.TopP)
	assert.Equal(t, int32(0), cfg.MaxOutputTokens)
}

func TestExtractTextFromResponse_JoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "Cevap: Hisse"}, {Text: " ağırlıklı"}}},
		}},
	}

	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, "Cevap: Hisse ağırlıklı", text)
}

func TestExtractTextFromResponse_NoCandidates(t *testing.T) {
	_, err := extractTextFromResponse(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = extractTextFromResponse(nil)
	assert.Error(t, err)
}
