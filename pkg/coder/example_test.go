package coder_test

import (
	"errors"
	"fmt"

	"github.com/lk2023060901/coders-go/pkg/coder"
	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

func Example() {
	schema := coder.MustSchema(
		coder.F("id", coder.Int32),
		coder.F("flag", coder.Bool),
		coder.F("name", coder.VarBytes),
	)

	buf, err := coder.Encode(schema, coder.Record{"id": 42, "flag": true, "name": "hi"})
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", buf)

	r, cursor, err := coder.Decode(schema, buf)
	if err != nil {
		panic(err)
	}
	fmt.Println(r, cursor)
	// Output:
	// 2a 00 00 00 01 02 00 00 00 68 69
	// {flag:true, id:42, name:0x6869} 11
}

func ExampleDecode_truncated() {
	schema := coder.MustSchema(coder.F("id", coder.Int32))

	_, _, err := coder.Decode(schema, []byte{0x01, 0x02})
	fmt.Println(errors.Is(err, merr.ErrTruncatedBuffer), merr.IsRetryableErr(err))
	// Output: true true
}

func ExampleIterator() {
	schema := coder.MustSchema(coder.F("n", coder.Uint8), coder.F("s", coder.String))

	var buf []byte
	for i, s := range []string{"a", "bc"} {
		buf, _ = coder.AppendEncode(buf, schema, coder.Record{"n": i, "s": s})
	}

	it := coder.NewIterator(schema, buf)
	for it.Next() {
		fmt.Println(it.Record()["n"], it.Record()["s"], it.Offset())
	}
	fmt.Println(it.Err())
	// Output:
	// 0 a 6
	// 1 bc 13
	// <nil>
}
