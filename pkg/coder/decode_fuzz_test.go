package coder

import (
	"bytes"
	"testing"

	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

// FuzzDecode 检查任意输入都不会导致 panic，且成功解码的结果可以重新编码回相同的字节。
func FuzzDecode(f *testing.F) {
	valid, _ := Encode(profileSchema, Record{
		"id": 1, "score": 1.0, "ratio": float32(1), "tags": []string{"a"},
		"addr": Record{"street": "s", "zip": "12345"}, "history": []any{},
	})
	f.Add(valid)
	f.Add([]byte{})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF})
	f.Add(bytes.Repeat([]byte{0x01}, 64))

	f.Fuzz(func(t *testing.T, data []byte) {
		r, cursor, err := Decode(profileSchema, data)
		if err != nil {
			if r != nil {
				t.Fatalf("non-nil record on error: %v", err)
			}
			if merr.Code(err) == merr.Code(merr.ErrParameterInvalid) {
				t.Fatalf("unexpected error class: %v", err)
			}
			return
		}
		if cursor > len(data) {
			t.Fatalf("cursor %d beyond buffer %d", cursor, len(data))
		}
		again, err := Encode(profileSchema, r)
		if err != nil {
			t.Fatalf("re-encode failed: %v", err)
		}
		if !bytes.Equal(again, data[:cursor]) {
			t.Fatalf("re-encoded bytes differ:\n got %x\nwant %x", again, data[:cursor])
		}
	})
}

// FuzzRoundTrip 对随机字段值做编码/解码往返。
func FuzzRoundTrip(f *testing.F) {
	f.Add(int32(42), true, []byte("hi"))
	f.Add(int32(-1), false, []byte{})
	f.Add(int32(0), true, []byte{0x00, 0xFF})

	f.Fuzz(func(t *testing.T, id int32, flag bool, name []byte) {
		r := Record{"id": id, "flag": flag, "name": name}
		buf, err := Encode(userSchema, r)
		if err != nil {
			t.Fatalf("encode failed: %v", err)
		}
		if len(buf) != 9+len(name) {
			t.Fatalf("unexpected size %d", len(buf))
		}
		out, cursor, err := Decode(userSchema, buf)
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		if cursor != len(buf) || !out.Equal(r) {
			t.Fatalf("round trip mismatch: %v != %v", out, r)
		}
	})
}

// FuzzDecodeZeroWidthList 确认零宽度元素的列表个数同样受输入长度约束。
func FuzzDecodeZeroWidthList(f *testing.F) {
	schema := uncheckedSchema(
		F("bytes", List(FixedBytes(0))),
		F("records", List(Nested(MustSchema()))),
	)
	f.Add([]byte{0, 0, 0, 4})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0})
	f.Add([]byte{1, 0, 0, 0, 0, 1, 0, 0, 0, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		r, cursor, err := Decode(schema, data)
		if err != nil {
			return
		}
		if cursor > len(data) {
			t.Fatalf("cursor %d beyond buffer %d", cursor, len(data))
		}
		n := len(r["bytes"].([]any)) + len(r["records"].([]any))
		if n > len(data) {
			t.Fatalf("decoded %d elements from %d bytes", n, len(data))
		}
	})
}
