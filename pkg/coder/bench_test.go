package coder

import (
	"fmt"
	"testing"
)

func BenchmarkEncode(b *testing.B) {
	sizes := []int{0, 64, 4096}
	for _, n := range sizes {
		r := Record{"id": 1, "flag": true, "name": make([]byte, n)}
		b.Run(fmt.Sprintf("name=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(9 + n))
			for i := 0; i < b.N; i++ {
				if _, err := Encode(userSchema, r); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAppendEncode(b *testing.B) {
	r := Record{"id": 1, "flag": true, "name": make([]byte, 64)}
	buf := make([]byte, 0, 1024)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var err error
		if buf, err = AppendEncode(buf[:0], userSchema, r); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	buf, err := Encode(profileSchema, Record{
		"id": 1, "score": 1.0, "ratio": float32(1), "tags": []string{"a", "b", "c"},
		"addr":    Record{"street": "street", "zip": "12345"},
		"history": []any{Record{"street": "old", "zip": "00000"}},
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(buf)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := Decode(profileSchema, buf); err != nil {
			b.Fatal(err)
		}
	}
}
