package storage

import (
	"fmt"

	"github.com/cxykevin/tinyjson/internal/configutil"
	"github.com/cxykevin/tinyjson/storage/structs"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// MemoryPath 内存数据库
const MemoryPath = ":memory:"

// InitDB 打开数据库并迁移表结构
func InitDB(dbPath string) (*gorm.DB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty db path")
	}

	// 支持内存数据库
	if dbPath != MemoryPath {
		expanded, err := configutil.EnsureDir(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create db directory for %s: %w", dbPath, err)
		}
		dbPath = expanded
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: New()})
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", dbPath, err)
	}
	if dbPath == MemoryPath {
		// 每个连接都是一个独立的内存库
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(structs.Tables...); err != nil {
		return nil, fmt.Errorf("failed to automigrate: %w", err)
	}
	if err := initMeta(db); err != nil {
		return nil, err
	}
	return db, nil
}
