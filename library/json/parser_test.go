package json

import (
	"errors"
	"strings"
	"testing"

	"github.com/cxykevin/tinyjson/library/varstr"
)

func bufferOf(t *testing.T, s string) *varstr.Buffer {
	t.Helper()
	buf := varstr.New()
	if err := buf.AppendString(s); err != nil {
		t.Fatalf("AppendString error: %v", err)
	}
	return buf
}

func parse(t *testing.T, s string) *Root {
	t.Helper()
	root := NewRoot()
	if err := Deserialize(root, bufferOf(t, s)); err != nil {
		t.Fatalf("Deserialize(%q) error: %v", s, err)
	}
	return root
}

func TestParseScalars(t *testing.T) {
	root := parse(t, `{"n":42,"neg":-7,"f":1.5,"nf":-0.25,"t":true,"fa":false,"s":"text","e":""}`)
	if root.Len() != 8 {
		t.Fatalf("expected 8 members, got %d", root.Len())
	}

	if n, ok := root.Find("n").Int(); !ok || n != 42 {
		t.Errorf("n: expected 42, got %d", n)
	}
	if n, ok := root.Find("neg").Int(); !ok || n != -7 {
		t.Errorf("neg: expected -7, got %d", n)
	}
	if f, ok := root.Find("f").Float32(); !ok || f != 1.5 {
		t.Errorf("f: expected 1.5, got %v", f)
	}
	if f, ok := root.Find("nf").Float32(); !ok || f != -0.25 {
		t.Errorf("nf: expected -0.25, got %v", f)
	}
	if b, ok := root.Find("t").Bool(); !ok || !b {
		t.Errorf("t: expected true")
	}
	if b, ok := root.Find("fa").Bool(); !ok || b {
		t.Errorf("fa: expected false")
	}
	if s, ok := root.Find("s").Str(); !ok || s != "text" {
		t.Errorf("s: expected text, got %q", s)
	}
	if s, ok := root.Find("e").Str(); !ok || s != "" {
		t.Errorf("e: expected empty string, got %q", s)
	}
}

func TestParseEmptyObject(t *testing.T) {
	for _, doc := range []string{"{}", "{ }", "  {\r\n}\n"} {
		root := parse(t, doc)
		if root.Len() != 0 {
			t.Errorf("%q: expected no members, got %d", doc, root.Len())
		}
	}

	root := parse(t, `{"o":{}}`)
	o := root.Find("o")
	if o == nil || o.Kind() != KindObject || o.Len() != 0 {
		t.Errorf("expected empty object member, got %+v", o)
	}
}

func TestParseContainers(t *testing.T) {
	root := parse(t, `{"array":[1, 2.5 ,"x",[true],{"k":false}], "object":{ "a" : 1 , "b":[ ] }}`)

	array := root.Find("array")
	if array == nil || array.Kind() != KindArray || array.Len() != 5 {
		t.Fatalf("expected array of 5, got %+v", array)
	}
	// 解析时逐个插入链首，链顺序与文本顺序相反
	if n, ok := array.Child(4).Int(); !ok || n != 1 {
		t.Errorf("last chain element should be the first textual element")
	}
	for _, child := range array.Children() {
		if !child.Anonymous() || child.Name() != "" {
			t.Errorf("array elements should be anonymous and unnamed, got %q", child.Name())
		}
	}
	inner := array.Child(0)
	if inner.Kind() != KindObject || inner.Find("k") == nil {
		t.Errorf("expected nested object with k")
	}

	object := root.Find("object")
	if object == nil || object.Len() != 2 {
		t.Fatalf("expected object of 2")
	}
	b := object.Find("b")
	if b == nil || b.Kind() != KindArray || b.Len() != 0 {
		t.Errorf("expected empty array b")
	}
}

func TestParseEscapedKeysAndControls(t *testing.T) {
	jsonData := "{\"object\":\r\n{\"\\\"\\\\\\\t\\\rstring\\\"\\\\\\\r\\\t\":\"\\\\\\\r\\\tstring\\\\\\\r\\\t\\\b\\\\\",\r\n\"number\":100},\r\n\"array\":[2,1]\r\n}"
	src := bufferOf(t, jsonData)
	root := NewRoot()
	if err := Deserialize(root, src); err != nil {
		t.Fatalf("Deserialize error: %v", err)
	}

	dst := varstr.New()
	if err := Serialize(root, dst); err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	// 重新序列化只去掉 4 组 CRLF
	if dst.Len()+8 != len(jsonData) {
		t.Errorf("expected %d bytes, got %d: %q", len(jsonData)-8, dst.Len(), dst.String())
	}

	object := root.Find("object")
	if object == nil || object.Len() != 2 {
		t.Fatalf("expected object with 2 members")
	}
	key := "\\\"\\\\\\\t\\\rstring\\\"\\\\\\\r\\\t"
	member := object.Find(key)
	if member == nil {
		t.Fatalf("escaped key not found")
	}
	if s, _ := member.Str(); s != "\\\\\\\r\\\tstring\\\\\\\r\\\t\\\b\\\\" {
		t.Errorf("string payload should stay escaped, got %q", s)
	}
}

func TestParseMalformed(t *testing.T) {
	docs := []string{
		`{"a":}`,
		`{"a":tru}`,
		`{"a":"x`,
		`{"a":"x}`,
		`{"a" 1}`,
		`{a:1}`,
		`{"a":fals}`,
		`{"a":nul}`,
		`{"a":[1,2}`,
		`{"a":{"b":1}`,
		`{"a":[1,]}`,
		`{"a":1,}`,
		`{"a":-}`,
		`{"a":"line` + "\n" + `break"}`,
		`{"a":99999999999999999999}`,
		`["a"]`,
		`{`,
		``,
		`   `,
	}
	for _, doc := range docs {
		root := NewRoot()
		err := Deserialize(root, bufferOf(t, doc))
		if err == nil {
			t.Errorf("Deserialize(%q) should fail", doc)
			continue
		}
		if doc != "" && !errors.Is(err, ErrMalformed) {
			t.Errorf("Deserialize(%q) expected ErrMalformed, got %v", doc, err)
		}
		if root.Len() != 0 {
			t.Errorf("Deserialize(%q) left %d members in the root", doc, root.Len())
		}
	}
}

func TestParseFailureKeepsRoot(t *testing.T) {
	root := NewRoot()
	existing, _ := NewNumber("existing", 1)
	_ = root.Insert(existing)

	err := Deserialize(root, bufferOf(t, `{"a":1,"b":[1,2],"c":tru}`))
	if err == nil {
		t.Fatal("expected failure")
	}
	if root.Len() != 1 || root.Elems()[0] != existing {
		t.Errorf("root changed after failed parse")
	}
}

func TestParseSyntaxErrorOffset(t *testing.T) {
	root := NewRoot()
	err := Deserialize(root, bufferOf(t, `{"a":1,"b":?}`))
	var syntaxErr *SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T %v", err, err)
	}
	if syntaxErr.Offset != 11 {
		t.Errorf("expected offset 11, got %d", syntaxErr.Offset)
	}
	if !strings.Contains(syntaxErr.Error(), "'?'") {
		t.Errorf("diagnostic should name the byte: %s", syntaxErr.Error())
	}
}

func TestParseNilArguments(t *testing.T) {
	if err := Deserialize(nil, varstr.New()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := Deserialize(NewRoot(), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := Deserialize(NewRoot(), varstr.New()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty buffer, got %v", err)
	}
}

func TestParseInsertsIntoExistingRoot(t *testing.T) {
	root := parse(t, `{"a":1}`)
	if err := Deserialize(root, bufferOf(t, `{"b":2}`)); err != nil {
		t.Fatal(err)
	}
	elems := root.Elems()
	if len(elems) != 2 || elems[0].Name() != "b" || elems[1].Name() != "a" {
		t.Errorf("expected chain [b a], got %d elems", len(elems))
	}
}

func TestParseOptionalCommas(t *testing.T) {
	root := parse(t, `{"a":[1 2 3] "b":"x"}`)
	if root.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", root.Len())
	}
	if root.Find("a").Len() != 3 {
		t.Errorf("expected 3 array elements")
	}
}

func TestParseFloatForms(t *testing.T) {
	root := parse(t, `{"a":1.,"b":0.1,"c":123456789.5}`)
	if f, ok := root.Find("a").Float32(); !ok || f != 1 {
		t.Errorf("a: expected 1, got %v", f)
	}
	if f, ok := root.Find("b").Float32(); !ok || f != float32(0.1) {
		t.Errorf("b: expected float32(0.1), got %v", f)
	}
	if root.Find("c").Kind() != KindFloat {
		t.Errorf("c: expected float kind")
	}
}

func TestParseDepthLimit(t *testing.T) {
	depth := 20
	doc := `{"a":` + strings.Repeat("[", depth) + strings.Repeat("]", depth) + `}`

	parser := NewParser(Options{MaxDepth: depth - 1})
	root := NewRoot()
	err := parser.Parse(root, bufferOf(t, doc))
	if !errors.Is(err, ErrDepth) {
		t.Fatalf("expected ErrDepth, got %v", err)
	}

	parser = NewParser(Options{MaxDepth: depth})
	if err := parser.Parse(NewRoot(), bufferOf(t, doc)); err != nil {
		t.Fatalf("depth %d should fit: %v", depth, err)
	}

	// 默认上限挡住恶意嵌套，而不是耗尽调用栈
	hostile := `{"a":` + strings.Repeat("[", 100000) + strings.Repeat("]", 100000) + `}`
	if err := Deserialize(NewRoot(), bufferOf(t, hostile)); !errors.Is(err, ErrDepth) {
		t.Errorf("expected ErrDepth for hostile nesting, got %v", err)
	}
}

func TestParseTokenLimit(t *testing.T) {
	limit := DefaultScratchSize - 1
	fits := `{"s":"` + strings.Repeat("x", limit) + `"}`
	root := parse(t, fits)
	if s, _ := root.Find("s").Str(); len(s) != limit {
		t.Errorf("expected %d bytes, got %d", limit, len(s))
	}

	over := `{"s":"` + strings.Repeat("x", limit+1) + `"}`
	err := Deserialize(NewRoot(), bufferOf(t, over))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}

	parser := NewParser(Options{Truncate: true})
	root = NewRoot()
	if err := parser.Parse(root, bufferOf(t, over)); err != nil {
		t.Fatalf("truncate mode should accept long strings: %v", err)
	}
	if s, _ := root.Find("s").Str(); len(s) != limit {
		t.Errorf("expected silent truncation to %d bytes, got %d", limit, len(s))
	}
}

func TestParseValue(t *testing.T) {
	parser := NewParser(DefaultOptions())

	v, n, err := parser.ParseValue([]byte(`"k" : [1,2] tail`), false)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(`"k" : [1,2]`) {
		t.Errorf("expected %d consumed bytes, got %d", len(`"k" : [1,2]`), n)
	}
	if v.Name() != "k" || v.Kind() != KindArray || v.Len() != 2 {
		t.Errorf("unexpected value %+v", v)
	}

	v, n, err = parser.ParseValue([]byte(`true,`), true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 || !v.Anonymous() {
		t.Errorf("expected 4 consumed bytes and anonymous value, got %d %v", n, v.Anonymous())
	}

	if _, _, err := parser.ParseValue(nil, true); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if _, _, err := parser.ParseValue([]byte(`x`), true); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
