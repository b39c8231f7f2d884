package coder

import (
	"encoding/binary"
	"math"
	"reflect"
	"strconv"
	"unicode/utf8"

	"golang.org/x/exp/constraints"

	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

// Encode 按 schema 的字段顺序将 r 编码为字节序列。
//
// 数值一律使用小端定长编码；Bool 编码为单字节 0/1；VarBytes/String 为 4 字节小端长度前缀加数据；
// FixedBytes(n) 恰好写入 n 个字节。失败时不返回任何部分结果。
func Encode(s *Schema, r Record) ([]byte, error) {
	return pureOptions.encode(nil, s, r)
}

// AppendEncode 将 r 的编码追加到 dst 之后。
// 失败时返回原始的 dst（长度不变）和错误。
func AppendEncode(dst []byte, s *Schema, r Record) ([]byte, error) {
	return pureOptions.encode(dst, s, r)
}

// Size 返回 r 编码后的字节数；r 不满足 schema 时返回与 Encode 相同的错误。
func Size(s *Schema, r Record) (int, error) {
	return pureOptions.size(s, r)
}

// Canonicalize 校验 r 并把每个值转换为解码时会得到的规范类型，
// 例如 Int32 字段中的 int(42) 转换为 int32(42)。
// 对任意合法记录，Canonicalize(s, r) 与 Decode(s, Encode(s, r)) 的结果相等。
func Canonicalize(s *Schema, r Record) (Record, error) {
	if s == nil {
		return nil, merr.WrapErrParameterInvalidMsg("schema is nil")
	}
	cr, err := pureOptions.normalizeRecord("", s, r)
	if err != nil {
		return nil, err
	}
	return cr.Clone(), nil
}

func (o *options) encode(dst []byte, s *Schema, r Record) ([]byte, error) {
	if s == nil {
		return dst, merr.WrapErrParameterInvalidMsg("schema is nil")
	}
	cr, err := o.normalizeRecord("", s, r)
	if err != nil {
		return dst, err
	}

	size := recordSize(s, cr)
	if dst == nil {
		dst = make([]byte, 0, size)
	} else if cap(dst)-len(dst) < size {
		grown := make([]byte, len(dst), len(dst)+size)
		copy(grown, dst)
		dst = grown
	}
	return appendRecord(dst, s, cr), nil
}

func (o *options) size(s *Schema, r Record) (int, error) {
	if s == nil {
		return 0, merr.WrapErrParameterInvalidMsg("schema is nil")
	}
	cr, err := o.normalizeRecord("", s, r)
	if err != nil {
		return 0, err
	}
	return recordSize(s, cr), nil
}

// normalizeRecord 校验记录并返回只包含 schema 字段、值为规范类型的新记录。
func (o *options) normalizeRecord(path string, s *Schema, r Record) (Record, error) {
	out := make(Record, len(s.fields))
	for _, f := range s.fields {
		fp := joinPath(path, f.Name)
		v, ok := r[f.Name]
		if !ok {
			return nil, merr.WrapErrMissingField(fp)
		}
		cv, err := o.normalize(fp, f.Kind, v)
		if err != nil {
			return nil, err
		}
		out[f.Name] = cv
	}
	return out, nil
}

func (o *options) normalize(path string, k Kind, v any) (any, error) {
	switch k.tag {
	case TagInt8:
		return castSigned[int8](path, k, v, 8)
	case TagInt16:
		return castSigned[int16](path, k, v, 16)
	case TagInt32:
		return castSigned[int32](path, k, v, 32)
	case TagInt64:
		return castSigned[int64](path, k, v, 64)
	case TagUint8:
		return castUnsigned[uint8](path, k, v, 8)
	case TagUint16:
		return castUnsigned[uint16](path, k, v, 16)
	case TagUint32:
		return castUnsigned[uint32](path, k, v, 32)
	case TagUint64:
		return castUnsigned[uint64](path, k, v, 64)

	case TagFloat32:
		switch f := v.(type) {
		case float32:
			return f, nil
		case float64:
			if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
				return nil, merr.WrapErrRange(path, k.String(), f, -math.MaxFloat32, math.MaxFloat32)
			}
			return float32(f), nil
		}
		return nil, merr.WrapErrTypeMismatch(path, k.String(), v)

	case TagFloat64:
		switch f := v.(type) {
		case float32:
			return float64(f), nil
		case float64:
			return f, nil
		}
		return nil, merr.WrapErrTypeMismatch(path, k.String(), v)

	case TagBool:
		b, ok := v.(bool)
		if !ok {
			return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
		}
		return b, nil

	case TagFixedBytes:
		b, ok := bytesOf(v)
		if !ok {
			return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
		}
		if len(b) != k.size {
			return nil, merr.WrapErrLengthMismatch(path, k.size, len(b))
		}
		return b, nil

	case TagVarBytes:
		b, ok := bytesOf(v)
		if !ok {
			return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
		}
		if err := o.checkVarLength(path, len(b)); err != nil {
			return nil, err
		}
		return b, nil

	case TagString:
		str, ok := stringOf(v)
		if !ok {
			return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
		}
		if !utf8.ValidString(str) {
			return nil, merr.WrapErrInvalidUTF8(path)
		}
		if err := o.checkVarLength(path, len(str)); err != nil {
			return nil, err
		}
		return str, nil

	case TagList:
		elems, ok := listOf(v)
		if !ok {
			return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
		}
		if err := o.checkVarLength(path, len(elems)); err != nil {
			return nil, err
		}
		out := make([]any, len(elems))
		for i := range elems {
			cv, err := o.normalize(indexPath(path, i), *k.elem, elems[i])
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil

	case TagNested:
		rec, err := recordOf(v)
		if err != nil {
			return nil, merr.WrapErrAt(err, path)
		}
		if rec == nil {
			return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
		}
		return o.normalizeRecord(path, k.schema, rec)

	default:
		return nil, merr.WrapErrSchemaInvalid("invalid kind "+k.tag.String(), path)
	}
}

func (o *options) checkVarLength(path string, n int) error {
	if uint64(n) > o.maxVarBytes {
		return merr.WrapErrLengthMismatch(path, int(min(o.maxVarBytes, math.MaxInt)), n)
	}
	return nil
}

// integer 保存任意 Go 整数值，用于统一做位宽范围检查。
type integer struct {
	s      int64
	u      uint64
	signed bool
}

func (n integer) value() any {
	if n.signed {
		return n.s
	}
	return n.u
}

func integerOf(v any) (integer, bool) {
	switch x := v.(type) {
	case int:
		return integer{s: int64(x), signed: true}, true
	case int8:
		return integer{s: int64(x), signed: true}, true
	case int16:
		return integer{s: int64(x), signed: true}, true
	case int32:
		return integer{s: int64(x), signed: true}, true
	case int64:
		return integer{s: x, signed: true}, true
	case uint:
		return integer{u: uint64(x)}, true
	case uint8:
		return integer{u: uint64(x)}, true
	case uint16:
		return integer{u: uint64(x)}, true
	case uint32:
		return integer{u: uint64(x)}, true
	case uint64:
		return integer{u: x}, true
	default:
		return integer{}, false
	}
}

func castSigned[T constraints.Signed](path string, k Kind, v any, bits uint) (any, error) {
	n, ok := integerOf(v)
	if !ok {
		return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
	}
	upper := int64(1)<<(bits-1) - 1
	lower := -upper - 1
	if n.signed {
		if n.s < lower || n.s > upper {
			return nil, merr.WrapErrRange(path, k.String(), n.value(), lower, upper)
		}
		return T(n.s), nil
	}
	if n.u > uint64(upper) {
		return nil, merr.WrapErrRange(path, k.String(), n.value(), lower, upper)
	}
	return T(n.u), nil
}

func castUnsigned[T constraints.Unsigned](path string, k Kind, v any, bits uint) (any, error) {
	n, ok := integerOf(v)
	if !ok {
		return nil, merr.WrapErrTypeMismatch(path, k.String(), v)
	}
	upper := uint64(math.MaxUint64) >> (64 - bits)
	if n.signed {
		if n.s < 0 || uint64(n.s) > upper {
			return nil, merr.WrapErrRange(path, k.String(), n.value(), 0, upper)
		}
		return T(n.s), nil
	}
	if n.u > upper {
		return nil, merr.WrapErrRange(path, k.String(), n.value(), 0, upper)
	}
	return T(n.u), nil
}

func bytesOf(v any) ([]byte, bool) {
	switch b := v.(type) {
	case []byte:
		return b, true
	case string:
		return []byte(b), true
	default:
		return nil, false
	}
}

func stringOf(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

func listOf(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// recordOf 接受 Record、map[string]any 以及结构体（或其指针）。
func recordOf(v any) (Record, error) {
	switch m := v.(type) {
	case Record:
		return m, nil
	case map[string]any:
		return Record(m), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, nil
	}
	return FromStruct(v)
}

func recordSize(s *Schema, r Record) int {
	if n, ok := s.FixedSize(); ok {
		return n
	}
	n := 0
	for _, f := range s.fields {
		n += valueSize(f.Kind, r[f.Name])
	}
	return n
}

func valueSize(k Kind, v any) int {
	if w, ok := k.FixedWidth(); ok {
		return w
	}
	switch k.tag {
	case TagVarBytes:
		return lengthPrefixSize + len(v.([]byte))
	case TagString:
		return lengthPrefixSize + len(v.(string))
	case TagList:
		n := lengthPrefixSize
		for _, e := range v.([]any) {
			n += valueSize(*k.elem, e)
		}
		return n
	case TagNested:
		return recordSize(k.schema, v.(Record))
	default:
		return 0
	}
}

// appendRecord 写出已规范化的记录，调用方保证值的类型与 schema 一致。
func appendRecord(dst []byte, s *Schema, r Record) []byte {
	for _, f := range s.fields {
		dst = appendValue(dst, f.Kind, r[f.Name])
	}
	return dst
}

func appendValue(dst []byte, k Kind, v any) []byte {
	le := binary.LittleEndian
	switch k.tag {
	case TagInt8:
		return append(dst, byte(v.(int8)))
	case TagInt16:
		return le.AppendUint16(dst, uint16(v.(int16)))
	case TagInt32:
		return le.AppendUint32(dst, uint32(v.(int32)))
	case TagInt64:
		return le.AppendUint64(dst, uint64(v.(int64)))
	case TagUint8:
		return append(dst, v.(uint8))
	case TagUint16:
		return le.AppendUint16(dst, v.(uint16))
	case TagUint32:
		return le.AppendUint32(dst, v.(uint32))
	case TagUint64:
		return le.AppendUint64(dst, v.(uint64))
	case TagFloat32:
		return le.AppendUint32(dst, math.Float32bits(v.(float32)))
	case TagFloat64:
		return le.AppendUint64(dst, math.Float64bits(v.(float64)))
	case TagBool:
		if v.(bool) {
			return append(dst, 1)
		}
		return append(dst, 0)
	case TagFixedBytes:
		return append(dst, v.([]byte)...)
	case TagVarBytes:
		b := v.([]byte)
		dst = le.AppendUint32(dst, uint32(len(b)))
		return append(dst, b...)
	case TagString:
		str := v.(string)
		dst = le.AppendUint32(dst, uint32(len(str)))
		return append(dst, str...)
	case TagList:
		elems := v.([]any)
		dst = le.AppendUint32(dst, uint32(len(elems)))
		for _, e := range elems {
			dst = appendValue(dst, *k.elem, e)
		}
		return dst
	case TagNested:
		return appendRecord(dst, k.schema, v.(Record))
	default:
		return dst
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func indexPath(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}
