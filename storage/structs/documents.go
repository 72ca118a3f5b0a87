package structs

import "time"

// Documents 存储的文档
type Documents struct {
	ID          uint32 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"uniqueIndex;not null"`
	Digest      string `gorm:"not null"` // 未压缩内容的 BLAKE3-256
	Compression string `gorm:"not null"` // none / lz4 / zstd
	Size        int    // 未压缩长度
	Body        []byte // 压缩后的 CBOR 编码
	Generator   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Meta 数据库元信息，只有一行
type Meta struct {
	ID            uint32 `gorm:"primaryKey"`
	SchemaVersion int32
	Generator     string
}

// Tables 需要自动迁移的表
var Tables = []any{
	&Documents{},
	&Meta{},
}
