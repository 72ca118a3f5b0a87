package json

import (
	"errors"
	"testing"

	"github.com/cxykevin/tinyjson/library/varstr"
)

func serialize(t *testing.T, root *Root) string {
	t.Helper()
	buf := varstr.New()
	if err := Serialize(root, buf); err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	return buf.String()
}

func TestSerializeScalars(t *testing.T) {
	root := NewRoot()
	d, _ := NewDouble("d", 2.0)
	f, _ := NewFloat("f", 1.5)
	n, _ := NewNumber("n", -12)
	b, _ := NewBoolean("b", false)
	s, _ := NewString("s", "a\"b")
	for _, v := range []*Value{d, f, n, b, s} {
		if err := root.Insert(v); err != nil {
			t.Fatal(err)
		}
	}

	got := serialize(t, root)
	expected := `{"s":"a\"b","b":false,"n":-12,"f":1.500000,"d":2.000000}`
	if got != expected {
		t.Errorf("Serialize = %s; want %s", got, expected)
	}
}

func TestSerializeEmpty(t *testing.T) {
	if got := serialize(t, NewRoot()); got != "{}" {
		t.Errorf("empty root = %s", got)
	}

	root := NewRoot()
	array, _ := NewArray("a")
	object, _ := NewObject("o")
	_ = root.Insert(array)
	_ = root.Insert(object)
	if got := serialize(t, root); got != `{"o":{},"a":[]}` {
		t.Errorf("empty containers = %s", got)
	}
}

func TestSerializeValue(t *testing.T) {
	array, _ := NewArray("list")
	one, _ := NewNumber("x", 1)
	two, _ := NewNumber("y", 2)
	_ = array.InsertChild(one)
	_ = array.InsertChild(two)

	buf := varstr.New()
	if err := SerializeValue(array, buf); err != nil {
		t.Fatal(err)
	}
	// 数组元素匿名，不输出名字
	if buf.String() != `"list":[2,1]` {
		t.Errorf("SerializeValue = %s", buf.String())
	}

	buf.Reset()
	if err := SerializeValue(one, buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "1" {
		t.Errorf("anonymous value = %s", buf.String())
	}

	if err := SerializeValue(nil, buf); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := Serialize(NewRoot(), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSerializeAppends(t *testing.T) {
	buf := varstr.New()
	_ = buf.AppendString("prefix:")
	root := NewRoot()
	v, _ := NewBoolean("t", true)
	_ = root.Insert(v)
	if err := Serialize(root, buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != `prefix:{"t":true}` {
		t.Errorf("Serialize should append, got %s", buf.String())
	}
}

func TestSerializeRollback(t *testing.T) {
	buf := varstr.NewLimited(16)
	_ = buf.AppendString("abc")

	root := NewRoot()
	s, _ := NewString("key", "a value that does not fit")
	_ = root.Insert(s)

	err := Serialize(root, buf)
	if !errors.Is(err, varstr.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if buf.String() != "abc" {
		t.Errorf("buffer should roll back to %q, got %q", "abc", buf.String())
	}
}

func TestSerializeRoundTripOrder(t *testing.T) {
	root := NewRoot()
	a, _ := NewNumber("a", 1)
	b, _ := NewNumber("b", 2)
	_ = root.Insert(a)
	_ = root.Insert(b)

	first := serialize(t, root)
	if first != `{"b":2,"a":1}` {
		t.Fatalf("first pass = %s", first)
	}

	// 每次往返，同级顺序翻转一次
	again := NewRoot()
	if err := Deserialize(again, bufferOf(t, first)); err != nil {
		t.Fatal(err)
	}
	second := serialize(t, again)
	if second != `{"a":1,"b":2}` {
		t.Errorf("second pass = %s", second)
	}

	third := NewRoot()
	if err := Deserialize(third, bufferOf(t, second)); err != nil {
		t.Fatal(err)
	}
	if !third.Equal(root) {
		t.Errorf("two round trips should restore the original tree")
	}
}

func TestSerializeIdempotent(t *testing.T) {
	doc := `{"o":{"x":[1,2,{"y":true}],"z":"s"},"f":0.500000}`
	once := serialize(t, parse(t, doc))
	twice := serialize(t, parse(t, serialize(t, parse(t, once))))
	if once != twice {
		t.Errorf("serialization is not stable over two round trips:\n%s\n%s", once, twice)
	}
	if len(once) != len(doc) {
		t.Errorf("compact documents should keep their length, got %d want %d", len(once), len(doc))
	}
}
