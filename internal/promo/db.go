package promo

import (
	"context"

	"github.com/uptrace/bun"

	"pos-backend/internal/models"
)

// DB persists the promo singleton through the shared bun handle.
type DB struct {
	Bun *bun.DB
}

func (d *DB) GetPromoState() (*models.PromoState, error) {
	var state models.PromoState
	err := d.Bun.NewSelect().
		Model(&state).
		Where("id = ?", models.PromoStateID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *DB) SavePromoState(state models.PromoState) error {
	state.ID = models.PromoStateID
	_, err := d.Bun.NewInsert().
		Model(&state).
		On("CONFLICT (id) DO UPDATE").
		Set("manual_override_enabled = EXCLUDED.manual_override_enabled").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(context.Background())
	return err
}
