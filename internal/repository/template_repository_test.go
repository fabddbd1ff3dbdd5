package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimasrn/ledger-api/internal/model"
)

func TestTemplateRepository(t *testing.T) {
	repo := NewTemplateRepository(NewTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateIfMissing(ctx, model.TemplateSalesInvoice, "hello {name}")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfMissing(ctx, model.TemplateSalesInvoice, "other")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repo.CreateIfMissing(ctx, model.TemplateDueAdjustment, "due {amount}")
	require.NoError(t, err)

	tmpl, err := repo.GetByName(ctx, model.TemplateSalesInvoice)
	require.NoError(t, err)
	assert.Equal(t, "hello {name}", tmpl.Content)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.TemplateDueAdjustment, list[0].Name)

	t.Run("update", func(t *testing.T) {
		updated, err := repo.Update(ctx, tmpl.ID, model.TemplateUpdateRequest{Name: model.TemplateSalesInvoice, Content: "thanks {name}"})
		require.NoError(t, err)
		assert.Equal(t, "thanks {name}", updated.Content)
	})

	t.Run("name clash", func(t *testing.T) {
		_, err := repo.Update(ctx, tmpl.ID, model.TemplateUpdateRequest{Name: model.TemplateDueAdjustment, Content: "x"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.Update(ctx, 999, model.TemplateUpdateRequest{Name: "Nope", Content: "x"})
		assert.ErrorIs(t, err, ErrTemplateNotFound)
		_, err = repo.GetByName(ctx, "Nope")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
