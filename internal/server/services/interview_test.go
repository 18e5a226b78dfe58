package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/cryptox"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterview_FifteenAnswersRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")

	for n := catalog.PromptCount; n >= 1; n-- {
		_, err := f.interviews.Upsert(ctx, a.ID, "primary", n, fmt.Sprintf("answer %d", n))
		require.NoError(t, err)
	}

	got, err := f.interviews.List(ctx, a.ID, "primary")
	require.NoError(t, err)
	require.Len(t, got, catalog.PromptCount)
	prompts := catalog.PromptsFor(catalog.Primary)
	for i, ans := range got {
		assert.Equal(t, i+1, ans.PromptNumber)
		assert.Equal(t, fmt.Sprintf("answer %d", i+1), ans.AnswerText)
		assert.Equal(t, prompts[i], ans.PromptText)
	}

	for _, stored := range f.store.answers {
		assert.True(t, cryptox.IsEncrypted(stored.AnswerText), "stored text must be ciphertext")
		assert.NotContains(t, stored.AnswerText, "answer")
	}
}

func TestInterview_UpsertOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")

	first, err := f.interviews.Upsert(ctx, a.ID, "primary", 3, "first")
	require.NoError(t, err)
	second, err := f.interviews.Upsert(ctx, a.ID, "primary", 3, "second")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := f.interviews.List(ctx, a.ID, "primary")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].AnswerText)
}

func TestInterview_PromptBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")

	for _, n := range []int{0, 16, -1} {
		_, err := f.interviews.Upsert(ctx, a.ID, "primary", n, "x")
		assert.ErrorIs(t, err, common.ErrValidation, "prompt %d", n)
	}
	for _, n := range []int{1, 15} {
		_, err := f.interviews.Upsert(ctx, a.ID, "primary", n, "x")
		assert.NoError(t, err, "prompt %d", n)
	}
}

func TestInterview_CategoriesArePartitioned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")

	_, err := f.interviews.Upsert(ctx, a.ID, "company", 1, "founded in 1970")
	require.NoError(t, err)

	primary, err := f.interviews.List(ctx, a.ID, "primary")
	require.NoError(t, err)
	assert.Empty(t, primary)

	company, err := f.interviews.List(ctx, a.ID, "kaishashi")
	require.NoError(t, err)
	require.Len(t, company, 1)
	assert.Equal(t, catalog.PromptsFor(catalog.Company)[0], company[0].PromptText)

	_, err = f.interviews.List(ctx, a.ID, "poetry")
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = f.interviews.Upsert(ctx, a.ID, "poetry", 1, "x")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestInterview_UpdateAnswerIsOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")
	b := f.register(t, "b@example.com")

	saved, err := f.interviews.Upsert(ctx, a.ID, "primary", 1, "old")
	require.NoError(t, err)

	_, err = f.interviews.UpdateAnswer(ctx, b.ID, saved.ID, "hijack")
	assert.ErrorIs(t, err, common.ErrNotFound)

	updated, err := f.interviews.UpdateAnswer(ctx, a.ID, saved.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.AnswerText)
	assert.True(t, cryptox.IsEncrypted(f.store.answers[saved.ID].AnswerText))
}

func TestInterview_DecryptionFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")

	saved, err := f.interviews.Upsert(ctx, a.ID, "primary", 1, "secret")
	require.NoError(t, err)
	saved2, err := f.interviews.Upsert(ctx, a.ID, "primary", 2, "ignored")
	require.NoError(t, err)

	// rows written before encryption was introduced
	f.store.answers[saved2.ID].AnswerText = "plain legacy text"
	got, err := f.interviews.List(ctx, a.ID, "primary")
	require.NoError(t, err)
	assert.Equal(t, "plain legacy text", got[1].AnswerText)

	other := cryptox.NewCipher("ff0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	foreign, err := other.Encrypt("secret")
	require.NoError(t, err)
	f.store.answers[saved.ID].AnswerText = foreign

	_, err = f.interviews.List(ctx, a.ID, "primary")
	assert.ErrorIs(t, err, common.ErrDecryption)
}

func TestInterview_Polish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	out, err := f.interviews.Polish(ctx, "Where were you born?", "tokyo i was born")
	require.NoError(t, err)
	assert.Equal(t, "[edited] tokyo i was born", out)

	_, err = f.interviews.Polish(ctx, "q", "   ")
	assert.ErrorIs(t, err, common.ErrValidation)

	f.polisher.fail["boom"] = common.ErrUpstream
	_, err = f.interviews.Polish(ctx, "q", "boom")
	assert.ErrorIs(t, err, common.ErrUpstream)
}

func TestInterview_PolishAllMixedResults(t *testing.T) {
	f := newFixture(t)
	f.polisher.fail["fails"] = errors.New("quota exceeded")

	results, err := f.interviews.PolishAll(context.Background(), []models.PolishItem{
		{PromptNumber: 1, PromptText: "q1", AnswerText: "good"},
		{PromptNumber: 2, PromptText: "q2", AnswerText: ""},
		{PromptNumber: 3, PromptText: "q3", AnswerText: "fails"},
	})
	require.NoError(t, err)

	assert.Equal(t, []models.PolishResult{
		{PromptNumber: 1, EditedText: "[edited] good", Succeeded: true},
		{PromptNumber: 2, EditedText: "", Succeeded: true},
		{PromptNumber: 3, EditedText: "fails", Succeeded: false, Error: "polish failed"},
	}, results)
	assert.Equal(t, []string{"good", "fails"}, f.polisher.calls)
}

func TestInterview_PolishAllEmpty(t *testing.T) {
	f := newFixture(t)
	_, err := f.interviews.PolishAll(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}
