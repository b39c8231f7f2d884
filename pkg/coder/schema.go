package coder

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/lk2023060901/coders-go/pkg/util/merr"
	"github.com/lk2023060901/coders-go/pkg/util/typeutil"
)

// Field 为 schema 中的一个具名字段。
type Field struct {
	Name string
	Kind Kind
}

// F 是构造 Field 的简写。
func F(name string, kind Kind) Field {
	return Field{Name: name, Kind: kind}
}

// Schema 是有序且不可变的字段列表，编码与解码都按声明顺序遍历字段。
//
// Schema 创建后只读，可以在任意数量的 goroutine 之间共享。
type Schema struct {
	fields    []Field
	index     map[string]int
	fixedSize int
	fixed     bool
}

// NewSchema 校验并创建 Schema。
//
// 字段名不能为空且不能重复；FixedBytes 长度不能为负；List 必须有元素类型；
// Nested 必须有子 schema。
func NewSchema(fields ...Field) (*Schema, error) {
	names := typeutil.NewSet[string]()
	s := &Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
		fixed:  true,
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, errSchema("empty field name", "#"+strconv.Itoa(i))
		}
		if !names.TryInsert(f.Name) {
			return nil, errSchema("duplicated field name", f.Name)
		}
		if err := f.Kind.validate(f.Name); err != nil {
			return nil, err
		}
		s.fields[i] = f
		s.index[f.Name] = i
		if w, ok := f.Kind.FixedWidth(); ok && s.fixed {
			s.fixedSize += w
		} else {
			s.fixed = false
			s.fixedSize = 0
		}
	}
	return s, nil
}

// MustSchema 与 NewSchema 相同，但校验失败时 panic，适用于包级变量初始化。
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len 返回字段个数。
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field 返回第 i 个字段。
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields 返回字段列表的副本。
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Names 按声明顺序返回字段名。
func (s *Schema) Names() []string {
	return lo.Map(s.fields, func(f Field, _ int) string { return f.Name })
}

// Lookup 按名称查找字段。
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// FixedSize 在所有字段都是定长类型时返回记录的编码长度。
func (s *Schema) FixedSize() (int, bool) {
	return s.fixedSize, s.fixed
}

// Equal 判断两个 schema 是否等价：字段顺序、名称与类型都相同。
// 等价的 schema 可以互换地用于编码与解码。
func (s *Schema) Equal(other *Schema) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.fields) != len(other.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i].Name != other.fields[i].Name || !s.fields[i].Kind.Equal(other.fields[i].Kind) {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	if s == nil {
		return "{}"
	}
	parts := lo.Map(s.fields, func(f Field, _ int) string {
		return f.Name + ":" + f.Kind.String()
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

func errSchema(reason string, path string) error {
	return merr.WrapErrSchemaInvalid(reason, path)
}
