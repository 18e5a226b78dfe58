// Package polish rewrites interview answers into readable prose through a
// generative language model.
package polish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lifememo/navi/internal/common"
	"google.golang.org/genai"
)

const systemPrompt = `あなたは自分史の文章編集アシスタントです。
ユーザーが書いた回答を、自然で読みやすい文章に整えてください。
ルール：
- 内容は変えず、言葉を整えるだけにする
- 話し言葉を丁寧な書き言葉に変換する
- 箇条書きや断片的な文を、つながりのある文章にまとめる
- 日本語で出力する
- 整えた文章のみを出力し、説明や前置きは不要`

// Polisher edits one answer given the prompt it responds to.
type Polisher interface {
	Polish(ctx context.Context, promptText, answerText string) (string, error)
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// GeminiPolisher calls the Gemini API.
type GeminiPolisher struct {
	model    string
	generate generateFunc
}

var newGenaiClient = genai.NewClient

func NewGeminiPolisher(ctx context.Context, apiKey, model string) (*GeminiPolisher, error) {
	client, err := newGenaiClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiPolisher{model: model, generate: client.Models.GenerateContent}, nil
}

func userMessage(promptText, answerText string) string {
	return fmt.Sprintf("質問：%s\n\n回答：%s", promptText, answerText)
}

// Polish returns the edited answer. An empty model reply yields the
// original text. Transport and API failures wrap common.ErrUpstream.
func (p *GeminiPolisher) Polish(ctx context.Context, promptText, answerText string) (string, error) {
	resp, err := p.generate(ctx, p.model, genai.Text(userMessage(promptText, answerText)), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
		Temperature:       genai.Ptr[float32](0.7),
	})
	if err != nil {
		return "", fmt.Errorf("%w: generate content: %v", common.ErrUpstream, err)
	}
	edited := strings.TrimSpace(firstText(resp))
	if edited == "" {
		return answerText, nil
	}
	return edited, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// Disabled is used when no API key is configured.
type Disabled struct{}

var errDisabled = errors.New("AI polish is not configured")

func (Disabled) Polish(ctx context.Context, promptText, answerText string) (string, error) {
	return "", fmt.Errorf("%w: %v", common.ErrUpstream, errDisabled)
}
