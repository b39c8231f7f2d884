package coder

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/lk2023060901/coders-go/pkg/log"
	"github.com/lk2023060901/coders-go/pkg/util/conc"
	"github.com/lk2023060901/coders-go/pkg/util/hardware"
	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

type batchOption struct {
	workers  int
	preAlloc bool
}

// BatchOption 配置 EncodeBatch / DecodeBatch。
type BatchOption func(*batchOption)

// WithWorkers 设置并发的 worker 数量，n <= 0 时使用 CPU 核心数。
func WithWorkers(n int) BatchOption {
	return func(o *batchOption) {
		o.workers = n
	}
}

// WithPreAlloc 预先分配 worker 队列，适合反复处理大批量数据。
func WithPreAlloc(v bool) BatchOption {
	return func(o *batchOption) {
		o.preAlloc = v
	}
}

func newBatchOption(opts []BatchOption) *batchOption {
	o := &batchOption{}
	for _, opt := range opts {
		opt(o)
	}
	if o.workers <= 0 {
		o.workers = hardware.GetCPUNum()
	}
	return o
}

// EncodeBatch 并发编码多条相互独立的记录，结果顺序与输入一致。
// 任意一条失败时返回下标最小的错误，错误信息中带有该下标。
func EncodeBatch(ctx context.Context, c Coder, records []Record, opts ...BatchOption) ([][]byte, error) {
	return runBatch(ctx, records, newBatchOption(opts), c.Encode)
}

// DecodeBatch 并发解码多个缓冲区，每个缓冲区必须恰好包含一条记录。
func DecodeBatch(ctx context.Context, c Coder, bufs [][]byte, opts ...BatchOption) ([]Record, error) {
	return runBatch(ctx, bufs, newBatchOption(opts), func(buf []byte) (Record, error) {
		r, n, err := c.Decode(buf)
		if err != nil {
			return nil, err
		}
		if n != len(buf) {
			return nil, merr.WrapErrTrailingBytes(n, len(buf))
		}
		return r, nil
	})
}

func runBatch[In, Out any](ctx context.Context, items []In, opt *batchOption, fn func(In) (Out, error)) ([]Out, error) {
	if len(items) == 0 {
		return []Out{}, nil
	}
	workers := min(opt.workers, len(items))
	pool := conc.NewPool[Out](workers,
		conc.WithPreAlloc(opt.preAlloc),
		conc.WithConcealPanic(true),
		conc.WithPanicHandler(func(v any) {
			log.Warn("batch item panicked", zap.Any("panic", v))
		}),
	)
	defer pool.Release()

	futures := make([]*conc.Future[Out], 0, len(items))
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		futures = append(futures, pool.Submit(func() (Out, error) {
			if err := ctx.Err(); err != nil {
				var zero Out
				return zero, err
			}
			return fn(item)
		}))
	}

	out := make([]Out, len(items))
	for i, f := range futures {
		v, err := f.Await()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errors.Wrap(err, "item "+strconv.Itoa(i))
		}
		out[i] = v
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
