package cart

import (
	"context"
	"testing"

	"github.com/drinkshop/drinkshop-backend/pkg/db"
	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryInsertFindAndList(t *testing.T) {
	client := setupCartTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Empty(t, rows)

	next, err := repo.NextSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	mocha := drink(2, "Mocha", 1)
	mocha.Seq = 1
	mocha.Attributes = map[string]string{"size": "L", "sugar": "50%"}
	require.NoError(t, repo.Insert(ctx, mocha))

	latte := drink(1, "Latte", 2)
	latte.Seq = 2
	require.NoError(t, repo.Insert(ctx, latte))

	next, err = repo.NextSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), next)

	got, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Mocha", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("4.5")), "price %s", got.Price)
	assert.Equal(t, map[string]string{"size": "L", "sugar": "50%"}, got.Attributes)
	assert.False(t, got.CreatedAt.IsZero())

	rows, err = repo.List(ctx)
	require.NoError(t, err)
	// insertion order, not id order
	assert.Equal(t, []line{{2, "Mocha", 1}, {1, "Latte", 2}}, lines(rows))

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryDuplicateInsert(t *testing.T) {
	client := setupCartTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	first := drink(1, "Latte", 1)
	first.Seq = 1
	require.NoError(t, repo.Insert(ctx, first))

	dup := drink(1, "Other", 1)
	dup.Seq = 2
	err := repo.Insert(ctx, dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err), "expected unique violation, got %v", err)
}

func TestRepositoryUpdateKeepsSeqAndReportsMatches(t *testing.T) {
	client := setupCartTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	latte := drink(1, "Latte", 1)
	latte.Seq = 5
	require.NoError(t, repo.Insert(ctx, latte))

	changed := &models.Drink{ID: 1, Name: "Iced Latte", Price: decimal.RequireFromString("5.25"), Quantity: 3, ImageURL: "latte.png"}
	affected, err := repo.Update(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Iced Latte", got.Name)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, "latte.png", got.ImageURL)
	assert.Equal(t, int64(5), got.Seq)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("5.25")))

	affected, err = repo.Update(ctx, &models.Drink{ID: 42, Name: "Ghost", Quantity: 1})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestRepositoryDeleteAndDeleteAll(t *testing.T) {
	client := setupCartTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	for i, name := range []string{"Latte", "Mocha", "Espresso"} {
		d := drink(int64(i+1), name, 1)
		d.Seq = int64(i + 1)
		require.NoError(t, repo.Insert(ctx, d))
	}

	affected, err := repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, affected)

	affected, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	client := setupCartTestDB(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		d := drink(1, "Latte", 1)
		d.Seq = 1
		if err := repo.WithTx(tx).Insert(ctx, d); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	rows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Same(t, repo, repo.WithTx(nil))
}
