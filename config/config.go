package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/cxykevin/tinyjson/config/structs"
	"github.com/cxykevin/tinyjson/internal/configutil"
	"github.com/cxykevin/tinyjson/product"
	"gopkg.in/yaml.v3"
)

// GlobalConfig 配置文件对象
var GlobalConfig = Default()

const defaultConfigPath = "~/.config/tinyjson/config.yaml"
const envConfigName = "TINYJSON_CONFIG_PATH"

var configPath string

// Default 全部字段取默认值的配置
func Default() *structs.Config {
	cfg := structs.BuildDefault(structs.Config{})
	cfg.Version = product.VersionID
	return &cfg
}

// Path 配置文件路径：环境变量优先，否则为默认路径
func Path() string {
	if path := os.Getenv(envConfigName); path != "" {
		return path
	}
	return defaultConfigPath
}

// Load 加载配置文件到 GlobalConfig
//
// 文件不存在时写出默认配置；内容无法解析时备份为 .bak 并写出默认配置，
// 同时返回解析错误。
func Load() error {
	configPath = Path()
	cfg, err := LoadFrom(configPath)
	switch {
	case err == nil:
		GlobalConfig = cfg
		return nil
	case errors.Is(err, os.ErrNotExist):
		GlobalConfig = Default()
		return Save()
	default:
		GlobalConfig = Default()
		expandedPath := configutil.ExpandPath(configPath)
		if _, statErr := os.Stat(expandedPath); statErr == nil {
			_ = os.Rename(expandedPath, expandedPath+".bak")
		}
		if saveErr := Save(); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		return err
	}
}

// LoadFrom 读取并解析 path 指向的配置，未出现的字段取默认值
func LoadFrom(path string) (*structs.Config, error) {
	data, err := os.ReadFile(configutil.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查取值范围
func Validate(cfg *structs.Config) error {
	p := cfg.Parser
	if p.ScratchSize < 2 {
		return fmt.Errorf("parser.scratch_size must be at least 2, got %d", p.ScratchSize)
	}
	if p.SegmentSize < 2 {
		return fmt.Errorf("parser.segment_size must be at least 2, got %d", p.SegmentSize)
	}
	if p.MaxDepth < 1 {
		return fmt.Errorf("parser.max_depth must be positive, got %d", p.MaxDepth)
	}
	if p.MaxDocumentSize < 0 {
		return fmt.Errorf("parser.max_document_size must not be negative, got %d", p.MaxDocumentSize)
	}
	switch cfg.Storage.Compression {
	case "none", "lz4", "zstd":
	default:
		return fmt.Errorf("storage.compression must be none, lz4 or zstd, got %q", cfg.Storage.Compression)
	}
	return nil
}

// Save 保存 GlobalConfig 到配置文件
func Save() error {
	// 确保配置路径已设置
	if configPath == "" {
		configPath = Path()
	}

	expandedPath, err := configutil.EnsureDir(configPath)
	if err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(GlobalConfig)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(expandedPath, data, 0644)
}
