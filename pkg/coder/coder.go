package coder

import (
	"context"

	"go.uber.org/zap"

	"github.com/lk2023060901/coders-go/pkg/log"
	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

var errZeroWidth = merr.WrapErrSchemaInvalid("schema encodes to zero bytes, cannot iterate concatenated records")

// Coder 将一个 Schema 与一组选项绑定在一起，提供对称的编码/解码能力。
//
// Coder 不持有任何可变状态，可以被多个 goroutine 并发使用。
type Coder interface {
	// Schema 返回绑定的 schema。
	Schema() *Schema

	// Encode 将记录编码为新的字节序列。
	Encode(r Record) ([]byte, error)

	// AppendEncode 将记录编码追加到 dst，失败时返回原 dst。
	AppendEncode(dst []byte, r Record) ([]byte, error)

	// Size 返回记录编码后的字节数。
	Size(r Record) (int, error)

	// Decode 从 buf 开头解码一条记录并返回游标。
	Decode(buf []byte) (Record, int, error)

	// DecodeAt 从 buf[offset:] 解码一条记录并返回绝对游标。
	DecodeAt(buf []byte, offset int) (Record, int, error)

	// DecodeAll 解码首尾相接的全部记录。
	DecodeAll(buf []byte) ([]Record, error)

	// Iterator 返回遍历 buf 中记录的迭代器。
	Iterator(buf []byte) *Iterator
}

type coder struct {
	log.Binder

	schema *Schema
	opts   *options
}

var _ Coder = (*coder)(nil)

// New 创建绑定 schema 的 Coder。
func New(schema *Schema, opts ...Option) (Coder, error) {
	if schema == nil {
		return nil, merr.WrapErrParameterInvalidMsg("coder: schema is nil")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	c := &coder{
		schema: schema,
		opts:   o,
	}
	if o.logger != nil {
		c.SetLogger(o.logger)
	}
	return c, nil
}

func (c *coder) Schema() *Schema {
	return c.schema
}

func (c *coder) Encode(r Record) ([]byte, error) {
	return c.opts.encode(nil, c.schema, r)
}

func (c *coder) AppendEncode(dst []byte, r Record) ([]byte, error) {
	return c.opts.encode(dst, c.schema, r)
}

func (c *coder) Size(r Record) (int, error) {
	return c.opts.size(c.schema, r)
}

func (c *coder) Decode(buf []byte) (Record, int, error) {
	return c.DecodeAt(buf, 0)
}

func (c *coder) DecodeAt(buf []byte, offset int) (Record, int, error) {
	r, next, err := c.opts.decodeAt(c.schema, buf, offset)
	if err != nil {
		c.logDecodeFailure(err, len(buf), offset)
	}
	return r, next, err
}

func (c *coder) DecodeAll(buf []byte) ([]Record, error) {
	records, err := c.opts.decodeAll(c.schema, buf)
	if err != nil {
		c.logDecodeFailure(err, len(buf), -1)
	}
	return records, err
}

func (c *coder) Iterator(buf []byte) *Iterator {
	return c.opts.iterator(c.schema, buf)
}

func (c *coder) logDecodeFailure(err error, size, offset int) {
	logger := c.Logger()
	if ce := logger.Check(zap.DebugLevel, "decode failed"); ce != nil {
		ce.Write(
			log.FieldSchema(c.schema),
			zap.Int("size", size),
			zap.Int("offset", offset),
			zap.Bool("retriable", merr.IsRetryableErr(err)),
			zap.Error(err),
		)
	}
}

// WithContextLogger 返回使用 ctx 中 Logger 的选项，便于在请求链路中记录解码失败。
func WithContextLogger(ctx context.Context) Option {
	return WithLogger(log.Ctx(ctx))
}
