package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/cxykevin/tinyjson/library/codec"
	"github.com/cxykevin/tinyjson/library/json"
	"github.com/cxykevin/tinyjson/log"
	"github.com/cxykevin/tinyjson/product"
	"github.com/cxykevin/tinyjson/storage/structs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var logger = log.New("storage")

var (
	// ErrDocumentNotFound 名字不存在
	ErrDocumentNotFound = errors.New("storage: document not found")
	// ErrDigestMismatch 解压后的内容与摘要不符
	ErrDigestMismatch = errors.New("storage: digest mismatch")
)

// Store 按名字保存文档树
//
// 文档以 CBOR 编码保存，读回后链顺序与保存前一致。
type Store struct {
	db          *gorm.DB
	compression codec.Compression
}

// Summary 列表项，不含正文
type Summary struct {
	Name        string
	Digest      string
	Compression string
	Size        int
	Stored      int
	Generator   string
	UpdatedAt   time.Time
}

// Open 打开 dbPath 处的文档库
func Open(dbPath string, compression codec.Compression) (*Store, error) {
	logger.Info("storage init in %s", dbPath)
	db, err := InitDB(dbPath)
	if err != nil {
		logger.Error("failed to init db %s: %v", dbPath, err)
		return nil, err
	}
	return &Store{db: db, compression: compression}, nil
}

// NewStore 在已打开的连接上创建 Store，表结构需已迁移
func NewStore(db *gorm.DB, compression codec.Compression) *Store {
	return &Store{db: db, compression: compression}
}

// DB 底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Save 保存或覆盖同名文档
func (s *Store) Save(name string, root *json.Root) error {
	if name == "" {
		return fmt.Errorf("%w: empty document name", json.ErrInvalidArgument)
	}
	data, err := codec.EncodeCBOR(root)
	if err != nil {
		return err
	}
	used, body, err := codec.Compress(s.compression, data)
	if err != nil {
		return fmt.Errorf("compress %s: %w", name, err)
	}

	doc := structs.Documents{
		Name:        name,
		Digest:      codec.Digest(data),
		Compression: used.String(),
		Size:        len(data),
		Body:        body,
		Generator:   product.UserAgent,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"digest", "compression", "size", "body", "generator", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	logger.Debug("saved %s: %d bytes, %s to %d", name, len(data), used, len(body))
	return nil
}

// Load 读取文档并校验摘要
func (s *Store) Load(name string) (*json.Root, error) {
	var doc structs.Documents
	err := s.db.Where("name = ?", name).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	tag, err := codec.ParseCompression(doc.Compression)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	data, err := codec.Decompress(tag, doc.Body, doc.Size)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if digest := codec.Digest(data); digest != doc.Digest {
		logger.Warn("digest mismatch for %s: stored %s, computed %s", name, doc.Digest, digest)
		return nil, fmt.Errorf("%w: %q", ErrDigestMismatch, name)
	}
	return codec.DecodeCBOR(data)
}

// List 按名字排序列出全部文档
func (s *Store) List() ([]Summary, error) {
	var out []Summary
	err := s.db.Model(&structs.Documents{}).
		Select("name, digest, compression, size, length(body) AS stored, generator, updated_at").
		Order("name").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// Delete 删除文档
func (s *Store) Delete(name string) error {
	res := s.db.Where("name = ?", name).Delete(&structs.Documents{})
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
	}
	return nil
}

// Close 关闭连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
