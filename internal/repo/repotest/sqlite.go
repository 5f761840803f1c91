// Package repotest 提供基于内存 sqlite 的测试 Store
package repotest

import (
	"testing"

	"portfolio-digital/internal/core/database"
	"portfolio-digital/internal/repo"
)

// Open 每次返回一个全新的已迁移内存库
func Open(t testing.TB) *repo.Store {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo.NewStore(db)
}
