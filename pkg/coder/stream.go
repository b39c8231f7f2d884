package coder

// DecodeAll 解码 buf 中首尾相接的多条记录，直到缓冲区耗尽。
// 末尾不完整的记录会导致返回该条记录的解码错误。
func DecodeAll(s *Schema, buf []byte) ([]Record, error) {
	return pureOptions.decodeAll(s, buf)
}

func (o *options) decodeAll(s *Schema, buf []byte) ([]Record, error) {
	it := o.iterator(s, buf)
	var out []Record
	for it.Next() {
		out = append(out, it.Record())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Iterator 逐条遍历缓冲区中首尾相接的记录。
//
//	it := coder.NewIterator(schema, buf)
//	for it.Next() {
//	    use(it.Record())
//	}
//	if err := it.Err(); err != nil {
//	    ...
//	}
type Iterator struct {
	opts   *options
	schema *Schema
	buf    []byte
	off    int
	cur    Record
	err    error
}

// NewIterator 创建一个从 buf 开头开始的迭代器。
func NewIterator(s *Schema, buf []byte) *Iterator {
	return pureOptions.iterator(s, buf)
}

func (o *options) iterator(s *Schema, buf []byte) *Iterator {
	return &Iterator{opts: o, schema: s, buf: buf}
}

// Next 解码下一条记录；缓冲区耗尽或出错时返回 false。
func (it *Iterator) Next() bool {
	if it.err != nil || it.off >= len(it.buf) {
		it.cur = nil
		return false
	}
	r, next, err := it.opts.decodeAt(it.schema, it.buf, it.off)
	if err != nil {
		it.err = err
		it.cur = nil
		return false
	}
	if next == it.off {
		// 零宽度 schema 无法推进游标，避免死循环。
		it.err = errZeroWidth
		it.cur = nil
		return false
	}
	it.cur = r
	it.off = next
	return true
}

// Record 返回最近一次 Next 解码出的记录。
func (it *Iterator) Record() Record {
	return it.cur
}

// Offset 返回下一条记录的起始位置。
func (it *Iterator) Offset() int {
	return it.off
}

// Err 返回迭代过程中遇到的错误。
func (it *Iterator) Err() error {
	return it.err
}
