package coder

import (
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

// TagName 为结构体字段上用于映射 schema 字段名的标签，例如 `coder:"id"`。
const TagName = "coder"

// FromStruct 将结构体（或结构体指针）转换为 Record。
// 嵌套结构体会被转换为 map[string]any，在 Nested 字段中可以直接使用。
func FromStruct(v any) (Record, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, merr.WrapErrParameterInvalidMsg("coder: nil %T", v)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, merr.WrapErrParameterInvalidMsg("coder: expected struct, got %T", v)
	}

	out := make(map[string]any)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: TagName,
		Result:  &out,
	})
	if err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("coder: %v", err)
	}
	if err := dec.Decode(rv.Interface()); err != nil {
		return nil, merr.WrapErrParameterInvalidMsg("coder: convert %T to record: %v", v, err)
	}
	return Record(out), nil
}

// Bind 将记录写入 out 指向的结构体，字段按 `coder` 标签匹配。
// out 为 *Record 或 *map[string]any 时直接写入记录的深拷贝。
//
// 不做弱类型转换：Int32 字段可以写入任意整数类型的结构体字段，
// 但不能写入 string 字段。
func (r Record) Bind(out any) error {
	switch dst := out.(type) {
	case *Record:
		*dst = r.Clone()
		return nil
	case *map[string]any:
		*dst = r.Clone()
		return nil
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return merr.WrapErrParameterInvalidMsg("coder: bind target must be a non-nil pointer, got %T", out)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		Result:           out,
		WeaklyTypedInput: false,
		ErrorUnused:      false,
	})
	if err != nil {
		return merr.WrapErrParameterInvalidMsg("coder: %v", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return merr.WrapErrParameterInvalidMsg("coder: bind record to %T: %v", out, err)
	}
	return nil
}
