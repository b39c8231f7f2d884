package coder

import (
	"math"

	"github.com/lk2023060901/coders-go/pkg/log"
)

// DefaultMaxVarBytes 为变长负载（VarBytes/String 的字节数、List 的元素个数）的默认上限，
// 即 4 字节长度前缀能表示的最大值。
const DefaultMaxVarBytes = math.MaxUint32

type options struct {
	maxVarBytes uint64
	logger      *log.MLogger
}

func defaultOptions() *options {
	return &options{
		maxVarBytes: DefaultMaxVarBytes,
	}
}

// Option 用于配置 New 创建的 Coder。
type Option func(*options)

// WithMaxVarBytes 设置变长负载的上限。
// 编码时超出上限返回 ErrLengthMismatch，解码时返回 ErrInvalidLength。
// n 为 0 时使用 DefaultMaxVarBytes。
func WithMaxVarBytes(n uint32) Option {
	return func(o *options) {
		if n == 0 {
			o.maxVarBytes = DefaultMaxVarBytes
			return
		}
		o.maxVarBytes = uint64(n)
	}
}

// WithLogger 为 Coder 绑定 Logger，未设置时使用全局 Logger。
func WithLogger(logger *log.MLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

var pureOptions = defaultOptions()
