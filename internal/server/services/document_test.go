package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/lifememo/navi/internal/common"
	"github.com/lifememo/navi/internal/logging"
	"github.com/lifememo/navi/internal/server/catalog"
	"github.com/lifememo/navi/internal/server/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDocumentService(f *fixture) *DocumentService {
	renderer := document.NewRenderer("", nil, logging.Discard())
	return NewDocumentService(f.accounts, f.interviews, f.timelines, f.photos, renderer, logging.Discard())
}

func TestDocument_Generate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.register(t, "a@example.com")

	_, err := f.interviews.Upsert(ctx, a.ID, "company", 1, "We started small.")
	require.NoError(t, err)
	_, err = f.timelines.Create(ctx, a.ID, TimelineInput{Category: "company", Year: ptr(1970), Title: "Founded"})
	require.NoError(t, err)

	pdf, c, err := newDocumentService(f).Generate(ctx, a.ID, "kaishashi")
	require.NoError(t, err)
	assert.Equal(t, catalog.Company, c)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestDocument_GenerateEmptyAccount(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "a@example.com")

	pdf, c, err := newDocumentService(f).Generate(context.Background(), a.ID, "")
	require.NoError(t, err)
	assert.Equal(t, catalog.Primary, c)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestDocument_GenerateErrors(t *testing.T) {
	f := newFixture(t)
	a := f.register(t, "a@example.com")
	s := newDocumentService(f)

	_, _, err := s.Generate(context.Background(), a.ID, "poetry")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, _, err = s.Generate(context.Background(), 999, "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
