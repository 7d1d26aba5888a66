package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"pos-backend/internal/logger"
	"pos-backend/internal/models"
)

// Open connects to the SQLite file at path and bootstraps the schema. An
// unreadable or corrupt file degrades to a fresh in-memory store instead of
// failing startup: availability wins over durability for a single location.
func Open(path string, log *logger.Logger) *bun.DB {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Warn("DATABASE", fmt.Sprintf("Failed to create data directory: %v", err))
	}

	bunDB, err := open("file:" + path + "?cache=shared")
	if err == nil {
		log.Info("DATABASE", fmt.Sprintf("SQLite store ready at %s", path))
		return bunDB
	}

	log.Error("DATABASE", fmt.Sprintf("Store at %s is unusable, degrading to in-memory state: %v", path, err))

	bunDB, err = open("file::memory:?cache=shared")
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open in-memory fallback store: %v", err))
	}
	return bunDB
}

func open(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	if err := Migrate(bunDB); err != nil {
		bunDB.Close()
		return nil, err
	}
	return bunDB, nil
}

// Migrate creates the orders and promo_state tables if they do not exist.
func Migrate(bunDB *bun.DB) error {
	ctx := context.Background()
	for _, model := range []interface{}{
		(*models.Order)(nil),
		(*models.PromoState)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
