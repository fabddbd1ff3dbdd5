package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimasrn/ledger-api/internal/model"
)

func TestProductRepository(t *testing.T) {
	repo := NewProductRepository(NewTestDB(t))
	ctx := context.Background()

	value, err := repo.InventoryValue(ctx)
	require.NoError(t, err)
	assert.True(t, value.IsZero())

	for _, req := range []model.ProductRequest{
		{Name: "Widget", BuyingPrice: decimal.RequireFromString("10.50"), SellingPrice: decimal.NewFromInt(15), Note: "blue"},
		{Name: "Anvil", BuyingPrice: decimal.NewFromInt(20), SellingPrice: decimal.NewFromInt(35)},
		{Name: "Bolt", BuyingPrice: decimal.RequireFromString("0.25"), SellingPrice: decimal.NewFromInt(1), Note: "Blue steel"},
	} {
		_, err := repo.Create(ctx, req)
		require.NoError(t, err)
	}

	t.Run("list sorted by name", func(t *testing.T) {
		products, err := repo.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Anvil", products[0].Name)
		assert.Equal(t, "Bolt", products[1].Name)
		assert.Equal(t, "Widget", products[2].Name)
	})

	t.Run("search name and note", func(t *testing.T) {
		products, err := repo.List(ctx, "BLUE")
		require.NoError(t, err)
		assert.Len(t, products, 2)

		products, err = repo.List(ctx, "anv")
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Anvil", products[0].Name)
	})

	t.Run("inventory value", func(t *testing.T) {
		value, err := repo.InventoryValue(ctx)
		require.NoError(t, err)
		assert.Equal(t, "30.75", value.String())
	})

	t.Run("update and delete", func(t *testing.T) {
		p, err := repo.Create(ctx, model.ProductRequest{Name: "Gear", BuyingPrice: decimal.NewFromInt(3), SellingPrice: decimal.NewFromInt(4)})
		require.NoError(t, err)

		updated, err := repo.Update(ctx, p.ID, model.ProductRequest{Name: "Big Gear", BuyingPrice: decimal.NewFromInt(5), SellingPrice: decimal.NewFromInt(9)})
		require.NoError(t, err)
		assert.Equal(t, "Big Gear", updated.Name)
		assert.True(t, updated.SellingPrice.Equal(decimal.NewFromInt(9)))

		require.NoError(t, repo.Delete(ctx, p.ID))
		_, err = repo.GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrProductNotFound)

		_, err = repo.Update(ctx, p.ID, model.ProductRequest{Name: "x"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
