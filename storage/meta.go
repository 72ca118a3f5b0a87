package storage

import (
	"errors"
	"fmt"

	"github.com/cxykevin/tinyjson/product"
	"github.com/cxykevin/tinyjson/storage/structs"
	"gorm.io/gorm"
)

// schemaVersion 文档表结构版本
const schemaVersion int32 = 1

// ErrSchemaVersion 数据库由更新的版本创建
var ErrSchemaVersion = errors.New("storage: unsupported schema version")

const metaID = 1

// initMeta 首次打开时写入元信息，之后检查版本
func initMeta(db *gorm.DB) error {
	meta := structs.Meta{ID: metaID}
	err := db.Where(structs.Meta{ID: metaID}).
		Attrs(structs.Meta{SchemaVersion: schemaVersion, Generator: product.UserAgent}).
		FirstOrCreate(&meta).Error
	if err != nil {
		return fmt.Errorf("failed to init meta: %w", err)
	}
	if meta.SchemaVersion > schemaVersion {
		return fmt.Errorf("%w: %d (supported %d)", ErrSchemaVersion, meta.SchemaVersion, schemaVersion)
	}
	return nil
}

// ReadMeta 读取元信息
func ReadMeta(db *gorm.DB) (structs.Meta, error) {
	var meta structs.Meta
	err := db.First(&meta, metaID).Error
	return meta, err
}
