package serializer

import (
	"github.com/lk2023060901/coders-go/internal/json"
	"github.com/lk2023060901/coders-go/pkg/metrics"
)

// JSONSerializer 使用 internal/json（基于 bytedance/sonic）实现 JSON 编解码。
//
// 字节串字段按 base64 输出，数值解码回 map 时为 float64，
// 因此 JSON 仅用于调试与互操作，不保证与 schema 编码对称。
type JSONSerializer struct{}

// 编译期断言：确保 JSONSerializer 实现了 Serializer 接口。
var _ Serializer = (*JSONSerializer)(nil)

func (JSONSerializer) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	metrics.ObserveSerializer(JSONName, metrics.MarshalLabel, len(data), err)
	return data, err
}

func (JSONSerializer) Unmarshal(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	metrics.ObserveSerializer(JSONName, metrics.UnmarshalLabel, len(data), err)
	return err
}
