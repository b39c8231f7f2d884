package coder

import (
	"fmt"
	"strings"
)

// KindTag 是字段类型的标签，Kind 通过它构成一个封闭的 tagged union。
type KindTag uint8

const (
	TagInvalid KindTag = iota
	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagUint8
	TagUint16
	TagUint32
	TagUint64
	TagFloat32
	TagFloat64
	TagBool
	TagFixedBytes
	TagVarBytes
	TagString
	TagList
	TagNested
)

var tagNames = map[KindTag]string{
	TagInvalid:    "invalid",
	TagInt8:       "int8",
	TagInt16:      "int16",
	TagInt32:      "int32",
	TagInt64:      "int64",
	TagUint8:      "uint8",
	TagUint16:     "uint16",
	TagUint32:     "uint32",
	TagUint64:     "uint64",
	TagFloat32:    "float32",
	TagFloat64:    "float64",
	TagBool:       "bool",
	TagFixedBytes: "fixedbytes",
	TagVarBytes:   "varbytes",
	TagString:     "string",
	TagList:       "list",
	TagNested:     "nested",
}

func (t KindTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("KindTag(%d)", uint8(t))
}

// ParseKindTag 按名称（大小写不敏感）查找标签。
func ParseKindTag(name string) (KindTag, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for tag, n := range tagNames {
		if tag != TagInvalid && n == name {
			return tag, true
		}
	}
	return TagInvalid, false
}

// lengthPrefixSize 为 VarBytes/String 长度前缀与 List 元素个数前缀的字节数（uint32 小端）。
const lengthPrefixSize = 4

// Kind 描述一个字段的类型。
//
// 零值为非法类型，只能通过本包导出的变量与构造函数得到合法 Kind：
//   - 定长数值：Int8..Int64、Uint8..Uint64、Float32、Float64、Bool
//   - FixedBytes(n)：恰好 n 个字节，无前缀
//   - VarBytes、String：4 字节小端长度前缀 + 数据
//   - List(elem)：4 字节小端元素个数 + 依次编码的元素
//   - Nested(schema)：按子 schema 内联编码的记录，无前缀
type Kind struct {
	tag    KindTag
	size   int
	elem   *Kind
	schema *Schema
}

var (
	Int8     = Kind{tag: TagInt8}
	Int16    = Kind{tag: TagInt16}
	Int32    = Kind{tag: TagInt32}
	Int64    = Kind{tag: TagInt64}
	Uint8    = Kind{tag: TagUint8}
	Uint16   = Kind{tag: TagUint16}
	Uint32   = Kind{tag: TagUint32}
	Uint64   = Kind{tag: TagUint64}
	Float32  = Kind{tag: TagFloat32}
	Float64  = Kind{tag: TagFloat64}
	Bool     = Kind{tag: TagBool}
	VarBytes = Kind{tag: TagVarBytes}
	String   = Kind{tag: TagString}
)

// KindOf 返回无参数类型标签对应的 Kind。
// FixedBytes、List、Nested 需要额外参数，返回 ok=false。
func KindOf(tag KindTag) (Kind, bool) {
	switch tag {
	case TagInvalid, TagFixedBytes, TagList, TagNested:
		return Kind{}, false
	}
	if _, ok := tagNames[tag]; !ok {
		return Kind{}, false
	}
	return Kind{tag: tag}, true
}

// FixedBytes 返回长度恰好为 n 的字节串类型。n 为负数时 NewSchema 会拒绝该字段。
func FixedBytes(n int) Kind {
	return Kind{tag: TagFixedBytes, size: n}
}

// List 返回元素类型为 elem 的列表类型。
func List(elem Kind) Kind {
	return Kind{tag: TagList, elem: &elem}
}

// Nested 返回按 schema 内联编码的嵌套记录类型。
func Nested(schema *Schema) Kind {
	return Kind{tag: TagNested, schema: schema}
}

func (k Kind) Tag() KindTag {
	return k.tag
}

// Size 返回 FixedBytes 的长度，其它类型返回 0。
func (k Kind) Size() int {
	if k.tag == TagFixedBytes {
		return k.size
	}
	return 0
}

// Elem 返回 List 的元素类型。
func (k Kind) Elem() (Kind, bool) {
	if k.tag != TagList || k.elem == nil {
		return Kind{}, false
	}
	return *k.elem, true
}

// Schema 返回 Nested 的子 schema，其它类型返回 nil。
func (k Kind) Schema() *Schema {
	if k.tag != TagNested {
		return nil
	}
	return k.schema
}

// FixedWidth 返回定长类型的编码宽度；变长类型返回 ok=false。
func (k Kind) FixedWidth() (int, bool) {
	switch k.tag {
	case TagInt8, TagUint8, TagBool:
		return 1, true
	case TagInt16, TagUint16:
		return 2, true
	case TagInt32, TagUint32, TagFloat32:
		return 4, true
	case TagInt64, TagUint64, TagFloat64:
		return 8, true
	case TagFixedBytes:
		return k.size, true
	case TagNested:
		if k.schema == nil {
			return 0, false
		}
		return k.schema.FixedSize()
	case TagVarBytes, TagString, TagList:
		return 0, false
	default:
		return 0, false
	}
}

// minWidth 返回该类型任意合法编码的最小字节数，用于在解码前拒绝不可能满足的元素个数。
func (k Kind) minWidth() int {
	switch k.tag {
	case TagVarBytes, TagString, TagList:
		return lengthPrefixSize
	case TagNested:
		if k.schema == nil {
			return 0
		}
		n := 0
		for _, f := range k.schema.fields {
			n += f.Kind.minWidth()
		}
		return n
	default:
		w, _ := k.FixedWidth()
		return w
	}
}

// Equal 判断两个类型在编码层面是否等价。
func (k Kind) Equal(other Kind) bool {
	if k.tag != other.tag {
		return false
	}
	switch k.tag {
	case TagFixedBytes:
		return k.size == other.size
	case TagList:
		if k.elem == nil || other.elem == nil {
			return k.elem == other.elem
		}
		return k.elem.Equal(*other.elem)
	case TagNested:
		return k.schema.Equal(other.schema)
	default:
		return true
	}
}

func (k Kind) String() string {
	switch k.tag {
	case TagFixedBytes:
		return fmt.Sprintf("fixedbytes(%d)", k.size)
	case TagList:
		if k.elem == nil {
			return "list(?)"
		}
		return "list(" + k.elem.String() + ")"
	case TagNested:
		if k.schema == nil {
			return "nested(?)"
		}
		return "nested" + k.schema.String()
	default:
		return k.tag.String()
	}
}

func (k Kind) validate(path string) error {
	switch k.tag {
	case TagInt8, TagInt16, TagInt32, TagInt64,
		TagUint8, TagUint16, TagUint32, TagUint64,
		TagFloat32, TagFloat64, TagBool,
		TagVarBytes, TagString:
		return nil
	case TagFixedBytes:
		if k.size < 0 {
			return errSchema(fmt.Sprintf("negative fixedbytes size %d", k.size), path)
		}
		return nil
	case TagList:
		if k.elem == nil {
			return errSchema("list without element kind", path)
		}
		if err := k.elem.validate(path + "[]"); err != nil {
			return err
		}
		// 元素个数必须受剩余字节数约束，零宽度元素无法满足。
		if k.elem.minWidth() == 0 {
			return errSchema("list element "+k.elem.String()+" encodes to zero bytes", path)
		}
		return nil
	case TagNested:
		if k.schema == nil {
			return errSchema("nested without schema", path)
		}
		return nil
	default:
		return errSchema("invalid kind "+k.tag.String(), path)
	}
}
