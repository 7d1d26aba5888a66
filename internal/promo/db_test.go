package promo_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"pos-backend/internal/models"
	"pos-backend/internal/promo"
)

func setupPromoDB(t *testing.T) *promo.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	if err := bunDB.ResetModel(context.Background(), (*models.PromoState)(nil)); err != nil {
		t.Fatalf("Failed to reset model: %v", err)
	}

	t.Cleanup(func() { bunDB.Close() })
	return &promo.DB{Bun: bunDB}
}

func TestGetPromoStateEmpty(t *testing.T) {
	store := setupPromoDB(t)

	state, err := store.GetPromoState()
	assert.Nil(t, state)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSaveAndGetPromoState(t *testing.T) {
	store := setupPromoDB(t)

	saved := models.PromoState{
		ManualOverrideEnabled: true,
		UpdatedAt:             time.Now().Round(time.Second),
	}
	assert.NoError(t, store.SavePromoState(saved))

	got, err := store.GetPromoState()
	assert.NoError(t, err)
	assert.Equal(t, models.PromoStateID, got.ID)
	assert.True(t, got.ManualOverrideEnabled)
}

func TestSavePromoStateLastWriterWins(t *testing.T) {
	store := setupPromoDB(t)

	first := models.PromoState{ManualOverrideEnabled: true, UpdatedAt: time.Now()}
	assert.NoError(t, store.SavePromoState(first))

	second := models.PromoState{ManualOverrideEnabled: false, UpdatedAt: time.Now().Add(time.Minute)}
	assert.NoError(t, store.SavePromoState(second))

	got, err := store.GetPromoState()
	assert.NoError(t, err)
	assert.False(t, got.ManualOverrideEnabled)

	// Still a single row.
	count, err := store.Bun.NewSelect().Model((*models.PromoState)(nil)).Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
