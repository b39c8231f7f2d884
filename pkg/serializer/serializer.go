package serializer

// Serializer 抽象了“对象 <-> 字节流”的序列化能力。
//
// 设计目标：
//   - 同一份记录既可以按 schema 编码为紧凑的二进制，也可以输出 JSON 便于调试。
//   - 调用方通过接口注入具体实现，便于在 schema、JSON、Protobuf 之间切换。
type Serializer interface {
	// Marshal 将任意对象编码为字节序列。
	Marshal(v any) ([]byte, error)

	// Unmarshal 将字节序列解码到目标对象。
	//
	// v 通常为指针类型，用于接收解码结果。
	Unmarshal(data []byte, v any) error
}

// 序列化器名称，同时用作指标标签。
const (
	SchemaName = "schema"
	JSONName   = "json"
	ProtoName  = "proto"
)
