package storage

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cxykevin/tinyjson/library/codec"
	"github.com/cxykevin/tinyjson/library/json"
	"github.com/cxykevin/tinyjson/library/varstr"
	"github.com/cxykevin/tinyjson/product"
	"github.com/cxykevin/tinyjson/storage/structs"
)

func parse(t *testing.T, doc string) *json.Root {
	t.Helper()
	buf := varstr.New()
	if err := buf.AppendString(doc); err != nil {
		t.Fatal(err)
	}
	root := json.NewRoot()
	if err := json.Deserialize(root, buf); err != nil {
		t.Fatalf("Deserialize(%q) error: %v", doc, err)
	}
	return root
}

func openMemory(t *testing.T, compression codec.Compression) *Store {
	t.Helper()
	// 使用内存数据库进行测试
	store, err := Open(MemoryPath, compression)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInit(t *testing.T) {
	db, err := InitDB(MemoryPath)
	if err != nil {
		t.Fatal(err)
	}
	meta, err := ReadMeta(db)
	if err != nil {
		t.Fatal(err)
	}
	if meta.SchemaVersion != schemaVersion || meta.Generator != product.UserAgent {
		t.Errorf("unexpected meta %+v", meta)
	}
	if _, err := InitDB(""); err == nil {
		t.Error("empty path should fail")
	}
}

func TestMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "documents.db")
	for i := 0; i < 2; i++ {
		store, err := Open(path, codec.CompressionNone)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		if err := store.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSchemaVersionCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documents.db")
	store, err := Open(path, codec.CompressionNone)
	if err != nil {
		t.Fatal(err)
	}
	store.DB().Model(&structs.Meta{}).Where("id = ?", metaID).Update("schema_version", schemaVersion+1)
	_ = store.Close()

	if _, err := Open(path, codec.CompressionNone); !errors.Is(err, ErrSchemaVersion) {
		t.Errorf("expected ErrSchemaVersion, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	doc := `{"name":"tiny","tags":["a","b","c"],"nested":{"n":1,"f":2.5,"ok":true}}`
	for _, compression := range []codec.Compression{codec.CompressionNone, codec.CompressionLZ4, codec.CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			store := openMemory(t, compression)
			root := parse(t, doc)
			if err := store.Save("doc", root); err != nil {
				t.Fatal(err)
			}
			back, err := store.Load("doc")
			if err != nil {
				t.Fatal(err)
			}
			if !back.Equal(root) {
				t.Errorf("loaded tree differs from the saved one")
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := openMemory(t, codec.CompressionZstd)
	if err := store.Save("doc", parse(t, `{"v":1}`)); err != nil {
		t.Fatal(err)
	}
	big := `{"v":2,"s":"` + strings.Repeat("abc", 200) + `"}`
	if err := store.Save("doc", parse(t, big)); err != nil {
		t.Fatal(err)
	}
	back, err := store.Load("doc")
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := back.Find("v").Int(); n != 2 {
		t.Errorf("expected overwritten value 2, got %d", n)
	}

	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one document, got %d", len(list))
	}
	if list[0].Compression != "zstd" || list[0].Stored >= list[0].Size {
		t.Errorf("repetitive document should be stored compressed: %+v", list[0])
	}
}

func TestList(t *testing.T) {
	store := openMemory(t, codec.CompressionLZ4)
	for _, name := range []string{"b", "a", "c"} {
		if err := store.Save(name, parse(t, `{"x":1}`)); err != nil {
			t.Fatal(err)
		}
	}
	list, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, s := range list {
		names = append(names, s.Name)
		if s.Generator != product.UserAgent || len(s.Digest) != 64 {
			t.Errorf("unexpected summary %+v", s)
		}
	}
	if strings.Join(names, ",") != "a,b,c" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestDelete(t *testing.T) {
	store := openMemory(t, codec.CompressionNone)
	if err := store.Save("doc", parse(t, `{}`)); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("doc"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("doc"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := store.Delete("doc"); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestDigestMismatch(t *testing.T) {
	store := openMemory(t, codec.CompressionNone)
	if err := store.Save("doc", parse(t, `{"a":1}`)); err != nil {
		t.Fatal(err)
	}
	err := store.DB().Model(&structs.Documents{}).Where("name = ?", "doc").Update("digest", strings.Repeat("0", 64)).Error
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load("doc"); !errors.Is(err, ErrDigestMismatch) {
		t.Errorf("expected ErrDigestMismatch, got %v", err)
	}
}

func TestSaveErrors(t *testing.T) {
	store := openMemory(t, codec.CompressionNone)
	if err := store.Save("", json.NewRoot()); !errors.Is(err, json.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := store.Save("doc", nil); !errors.Is(err, json.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for nil root, got %v", err)
	}
}
