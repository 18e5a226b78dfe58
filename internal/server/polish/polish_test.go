package polish

import (
	"context"
	"errors"
	"testing"

	"github.com/lifememo/navi/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func reply(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiPolisher_Polish(t *testing.T) {
	var gotModel, gotUser, gotSystem string
	p := &GeminiPolisher{
		model: "gemini-test",
		generate: func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel = model
			gotUser = contents[0].Parts[0].Text
			gotSystem = cfg.SystemInstruction.Parts[0].Text
			return reply("  整えた文章です。 \n"), nil
		},
	}

	out, err := p.Polish(context.Background(), "生まれは？", "東京 うまれ")
	require.NoError(t, err)
	assert.Equal(t, "整えた文章です。", out)
	assert.Equal(t, "gemini-test", gotModel)
	assert.Equal(t, "質問：生まれは？\n\n回答：東京 うまれ", gotUser)
	assert.Equal(t, systemPrompt, gotSystem)
}

func TestGeminiPolisher_EmptyReplyKeepsOriginal(t *testing.T) {
	p := &GeminiPolisher{generate: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{}, nil
	}}

	out, err := p.Polish(context.Background(), "q", "original")
	require.NoError(t, err)
	assert.Equal(t, "original", out)
}

func TestGeminiPolisher_UpstreamError(t *testing.T) {
	p := &GeminiPolisher{generate: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		return nil, errors.New("quota exceeded")
	}}

	_, err := p.Polish(context.Background(), "q", "a")
	require.ErrorIs(t, err, common.ErrUpstream)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestNewGeminiPolisher_ClientError(t *testing.T) {
	orig := newGenaiClient
	t.Cleanup(func() { newGenaiClient = orig })
	newGenaiClient = func(ctx context.Context, cc *genai.ClientConfig) (*genai.Client, error) {
		assert.Equal(t, "key", cc.APIKey)
		return nil, errors.New("bad key")
	}

	_, err := NewGeminiPolisher(context.Background(), "key", "m")
	assert.ErrorContains(t, err, "failed to create Gemini client")
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Polish(context.Background(), "q", "a")
	assert.ErrorIs(t, err, common.ErrUpstream)
}
