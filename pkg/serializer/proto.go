package serializer

import (
	"google.golang.org/protobuf/proto"

	"github.com/lk2023060901/coders-go/pkg/metrics"
	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

// ProtoSerializer 使用 Protobuf 进行二进制序列化。
//
// 注意：传入/传出的对象必须实现 proto.Message。
type ProtoSerializer struct{}

// 编译期断言：确保 ProtoSerializer 实现了 Serializer 接口。
var _ Serializer = (*ProtoSerializer)(nil)

func (ProtoSerializer) Marshal(v any) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		err := merr.WrapErrParameterInvalidMsg("serializer: ProtoSerializer requires proto.Message, got %T", v)
		metrics.ObserveSerializer(ProtoName, metrics.MarshalLabel, 0, err)
		return nil, err
	}
	data, err := proto.Marshal(msg)
	metrics.ObserveSerializer(ProtoName, metrics.MarshalLabel, len(data), err)
	return data, err
}

func (ProtoSerializer) Unmarshal(data []byte, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		err := merr.WrapErrParameterInvalidMsg("serializer: ProtoSerializer requires proto.Message, got %T", v)
		metrics.ObserveSerializer(ProtoName, metrics.UnmarshalLabel, 0, err)
		return err
	}
	err := proto.Unmarshal(data, msg)
	metrics.ObserveSerializer(ProtoName, metrics.UnmarshalLabel, len(data), err)
	return err
}
