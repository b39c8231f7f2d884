package coder

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Record 是字段名到值的映射。
//
// 编码时 Record 必须为 schema 的每个字段提供值，schema 未声明的键会被忽略；
// 解码总是生成一个新的 Record，且只包含 schema 声明的字段，值使用规范类型：
//
//	Int8..Int64     -> int8..int64
//	Uint8..Uint64   -> uint8..uint64
//	Float32/Float64 -> float32/float64
//	Bool            -> bool
//	FixedBytes/VarBytes -> []byte（独立副本，不引用输入缓冲区）
//	String          -> string
//	List            -> []any
//	Nested          -> Record
type Record map[string]any

// Equal 逐字段比较两个记录，字节串按内容比较（nil 与空切片相等）。
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !valueEqual(v, ov) {
			return false
		}
	}
	return true
}

// Clone 返回记录的深拷贝。
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func (r Record) String() string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(formatValue(r[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case Record:
		bv, ok := asRecord(b)
		return ok && av.Equal(bv)
	case map[string]any:
		bv, ok := asRecord(b)
		return ok && Record(av).Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

func asRecord(v any) (Record, bool) {
	switch m := v.(type) {
	case Record:
		return m, true
	case map[string]any:
		return Record(m), true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return append([]byte{}, val...)
	case Record:
		return val.Clone()
	case map[string]any:
		return Record(val).Clone()
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = cloneValue(val[i])
		}
		return out
	default:
		return v
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(val)
	case string:
		return "\"" + val + "\""
	case Record:
		return val.String()
	case []any:
		parts := make([]string, len(val))
		for i := range val {
			parts[i] = formatValue(val[i])
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
