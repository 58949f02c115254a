package db

import (
	"context"
	"fmt"

	"musicstore/logger"
	"musicstore/model"

	"gorm.io/gorm"
)

// schemaModels lists the tables owned by the stores, in creation order.
var schemaModels = []interface{}{
	&model.UserAccount{},
	&model.Track{},
}

// EnsureSchema creates music_users and tracks when they do not exist yet.
// Existing tables are never altered or dropped, so it is safe on every start.
func EnsureSchema(ctx context.Context, gdb *gorm.DB) error {
	migrator := gdb.WithContext(ctx).Migrator()
	for _, m := range schemaModels {
		name := tableName(m)
		if migrator.HasTable(m) {
			logger.Debug("Table already exists", logger.String("table", name))
			continue
		}
		if err := migrator.CreateTable(m); err != nil {
			return fmt.Errorf("failed to create table %s: %w", name, err)
		}
		logger.Info("Table created", logger.String("table", name))
	}
	return nil
}

func tableName(m interface{}) string {
	if t, ok := m.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return fmt.Sprintf("%T", m)
}
