package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"pos-backend/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// CreateOrder inserts a new order. Line items and totals are stored as JSON
// columns; each insert is a single atomic statement.
func (d *DB) CreateOrder(order models.Order) error {
	_, err := d.Bun.NewInsert().Model(&order).Exec(context.Background())
	return err
}

func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders by ascending creation time, optionally filtered
// by status. The ordering is imposed here regardless of storage order.
func (d *DB) ListOrders(status string) ([]models.Order, error) {
	orders := []models.Order{}
	q := d.Bun.NewSelect().
		Model(&orders).
		Order("created_at ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus applies a status mutation as one UPDATE statement, so
// concurrent writers to the same order serialize on the database and no
// partial write is ever observable. Returns the updated order.
func (d *DB) UpdateOrderStatus(id, status string) (*models.Order, error) {
	res, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(context.Background())
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, models.ErrOrderNotFound
	}
	return d.GetOrderByID(id)
}
