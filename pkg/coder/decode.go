package coder

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

// Decode 按 schema 的字段顺序从 buf 开头解码一条记录，并返回解码结束时的游标位置。
//
// 调用方可以用返回的游标定位紧随其后的下一条记录。Decode 从不修改 buf，
// 返回记录中的字节串均为独立副本。失败时返回 nil 记录：
//   - 剩余字节不足以容纳定长字段或长度前缀：ErrTruncatedBuffer
//   - 长度前缀超出剩余字节或超出上限：ErrInvalidLength（同时匹配 ErrTruncatedBuffer）
//   - Bool 字节既不是 0 也不是 1：ErrInvalidBoolEncoding
//   - String 负载不是合法 UTF-8：ErrInvalidUTF8
func Decode(s *Schema, buf []byte) (Record, int, error) {
	return pureOptions.decodeAt(s, buf, 0)
}

// DecodeAt 从 buf[offset:] 开始解码一条记录，返回的游标是相对于 buf 开头的绝对位置。
func DecodeAt(s *Schema, buf []byte, offset int) (Record, int, error) {
	return pureOptions.decodeAt(s, buf, offset)
}

func (o *options) decodeAt(s *Schema, buf []byte, offset int) (Record, int, error) {
	if s == nil {
		return nil, offset, merr.WrapErrParameterInvalidMsg("schema is nil")
	}
	if offset < 0 || offset > len(buf) {
		return nil, offset, merr.WrapErrParameterInvalidMsg("offset %d out of buffer range [0, %d]", offset, len(buf))
	}
	d := &decoder{buf: buf, off: offset, maxVar: o.maxVarBytes}
	r, err := d.record("", s)
	if err != nil {
		return nil, offset, err
	}
	return r, d.off, nil
}

// decoder 持有单次解码调用的游标，不在调用之间共享。
type decoder struct {
	buf    []byte
	off    int
	maxVar uint64
}

func (d *decoder) remain() int {
	return len(d.buf) - d.off
}

func (d *decoder) take(path string, n int) ([]byte, error) {
	if d.remain() < n {
		return nil, merr.WrapErrTruncatedBuffer(path, n, d.remain())
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

// length 读取 4 字节长度前缀，并确认声明的长度可以被满足。
// unit 为每个单位至少占用的字节数（字节串为 1，列表为元素的最小编码宽度），
// 不足 1 时按 1 计，保证声明的个数不会超过剩余字节数。
func (d *decoder) length(path string, unit int) (int, error) {
	unit = max(unit, 1)
	b, err := d.take(path, lengthPrefixSize)
	if err != nil {
		return 0, err
	}
	n := uint64(binary.LittleEndian.Uint32(b))
	if n > d.maxVar {
		return 0, merr.WrapErrInvalidLength(path, n, d.remain(), "exceeds max var bytes")
	}
	if n*uint64(unit) > uint64(d.remain()) {
		return 0, merr.WrapErrInvalidLength(path, n, d.remain())
	}
	return int(n), nil
}

func (d *decoder) record(path string, s *Schema) (Record, error) {
	r := make(Record, len(s.fields))
	for _, f := range s.fields {
		v, err := d.value(joinPath(path, f.Name), f.Kind)
		if err != nil {
			return nil, err
		}
		r[f.Name] = v
	}
	return r, nil
}

func (d *decoder) value(path string, k Kind) (any, error) {
	le := binary.LittleEndian
	if w, ok := k.FixedWidth(); ok && k.tag != TagNested {
		b, err := d.take(path, w)
		if err != nil {
			return nil, err
		}
		switch k.tag {
		case TagInt8:
			return int8(b[0]), nil
		case TagInt16:
			return int16(le.Uint16(b)), nil
		case TagInt32:
			return int32(le.Uint32(b)), nil
		case TagInt64:
			return int64(le.Uint64(b)), nil
		case TagUint8:
			return b[0], nil
		case TagUint16:
			return le.Uint16(b), nil
		case TagUint32:
			return le.Uint32(b), nil
		case TagUint64:
			return le.Uint64(b), nil
		case TagFloat32:
			return math.Float32frombits(le.Uint32(b)), nil
		case TagFloat64:
			return math.Float64frombits(le.Uint64(b)), nil
		case TagBool:
			switch b[0] {
			case 0:
				return false, nil
			case 1:
				return true, nil
			default:
				return nil, merr.WrapErrInvalidBoolEncoding(path, b[0])
			}
		case TagFixedBytes:
			return append(make([]byte, 0, w), b...), nil
		}
	}

	switch k.tag {
	case TagVarBytes:
		n, err := d.length(path, 1)
		if err != nil {
			return nil, err
		}
		b, _ := d.take(path, n)
		return append(make([]byte, 0, n), b...), nil

	case TagString:
		n, err := d.length(path, 1)
		if err != nil {
			return nil, err
		}
		b, _ := d.take(path, n)
		if !utf8.Valid(b) {
			return nil, merr.WrapErrInvalidUTF8(path)
		}
		return string(b), nil

	case TagList:
		elem := *k.elem
		n, err := d.length(path, elem.minWidth())
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, min(n, d.remain()+1))
		for i := 0; i < n; i++ {
			v, err := d.value(indexPath(path, i), elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case TagNested:
		return d.record(path, k.schema)

	default:
		return nil, merr.WrapErrSchemaInvalid("invalid kind "+k.tag.String(), path)
	}
}
