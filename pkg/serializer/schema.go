package serializer

import (
	"github.com/lk2023060901/coders-go/pkg/coder"
	"github.com/lk2023060901/coders-go/pkg/metrics"
	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

// SchemaSerializer 使用绑定了 schema 的 Coder 进行二进制序列化。
//
// Marshal 接受 coder.Record、map[string]any 以及带 `coder` 标签的结构体（或其指针）；
// Unmarshal 要求 data 恰好包含一条记录，结果写入 *coder.Record、*map[string]any 或结构体指针。
type SchemaSerializer struct {
	coder coder.Coder
}

// 编译期断言：确保 SchemaSerializer 实现了 Serializer 接口。
var _ Serializer = (*SchemaSerializer)(nil)

// NewSchemaSerializer 基于 c 创建 SchemaSerializer。
func NewSchemaSerializer(c coder.Coder) *SchemaSerializer {
	return &SchemaSerializer{coder: c}
}

func (s *SchemaSerializer) Marshal(v any) ([]byte, error) {
	data, err := s.marshal(v)
	metrics.ObserveSerializer(SchemaName, metrics.MarshalLabel, len(data), err)
	return data, err
}

func (s *SchemaSerializer) marshal(v any) ([]byte, error) {
	var r coder.Record
	switch val := v.(type) {
	case coder.Record:
		r = val
	case *coder.Record:
		if val == nil {
			return nil, merr.WrapErrParameterInvalidMsg("serializer: nil *coder.Record")
		}
		r = *val
	case map[string]any:
		r = coder.Record(val)
	default:
		var err error
		if r, err = coder.FromStruct(v); err != nil {
			return nil, err
		}
	}
	return s.coder.Encode(r)
}

func (s *SchemaSerializer) Unmarshal(data []byte, v any) error {
	err := s.unmarshal(data, v)
	metrics.ObserveSerializer(SchemaName, metrics.UnmarshalLabel, len(data), err)
	return err
}

func (s *SchemaSerializer) unmarshal(data []byte, v any) error {
	r, n, err := s.coder.Decode(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return merr.WrapErrTrailingBytes(n, len(data))
	}
	return r.Bind(v)
}
