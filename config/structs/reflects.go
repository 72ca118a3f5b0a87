package structs

import (
	"fmt"
	"reflect"
	"strconv"
)

// BuildDefault 构造默认值
func BuildDefault[T any](obj T) T {
	if err := ApplyDefaults(&obj); err != nil {
		panic(err)
	}
	return obj
}

// ApplyDefaults 按 default 标签填充 ptr 指向的结构体，嵌套结构体递归处理
//
// 标签无法解析为字段类型时返回错误。
func ApplyDefaults(ptr any) error {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("ApplyDefaults: need a non-nil pointer, got %T", ptr)
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return fmt.Errorf("ApplyDefaults: need a pointer to a struct, got %T", ptr)
	}
	return applyStruct(elem)
}

func applyStruct(elem reflect.Value) error {
	t := elem.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := elem.Field(i)
		if !fv.CanSet() {
			continue
		}

		if tag := field.Tag.Get("default"); tag != "" {
			if err := setDefault(fv, tag); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
		}

		switch {
		case fv.Kind() == reflect.Struct:
			if err := applyStruct(fv); err != nil {
				return err
			}
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
			// 为指针字段分配一个新结构体实例
			if fv.IsNil() {
				fv.Set(reflect.New(fv.Type().Elem()))
			}
			if err := applyStruct(fv.Elem()); err != nil {
				return err
			}
		}
	}
	return nil
}

func setDefault(fv reflect.Value, tag string) error {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(tag, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(tag, 10, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetUint(n)
	case reflect.String:
		fv.SetString(tag)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(tag, fv.Type().Bits())
		if err != nil {
			return err
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(tag)
		if err != nil {
			return err
		}
		fv.SetBool(b)
	default:
		return fmt.Errorf("default tag unsupported for %s", fv.Kind())
	}
	return nil
}
