// Package coder 提供基于 schema 的对称二进制编码与解码。
//
// Schema 是有序的字段列表，每个字段带有一个 Kind。编码按声明顺序写出每个字段，
// 解码按同样的顺序读回，因此对任意合法的 (Schema, Record)：
//
//	Decode(s, Encode(s, r)) == r
//
// # 编码格式
//
// 所有多字节数值均为小端序，记录本身没有头部、分隔符或校验和：
//
//	Int8/Uint8/Bool        1 字节（Bool 只能是 0x00 或 0x01）
//	Int16/Uint16           2 字节
//	Int32/Uint32/Float32   4 字节（浮点为 IEEE-754 位模式）
//	Int64/Uint64/Float64   8 字节
//	FixedBytes(n)          恰好 n 字节
//	VarBytes/String        [Len uint32][Len 字节]，String 的负载必须是 UTF-8
//	List(elem)             [Count uint32][Count 个 elem 编码]
//	Nested(schema)         子记录按子 schema 直接内联
//
// 例如 schema [id Int32, flag Bool, name VarBytes] 与记录 {id: 42, flag: true, name: "hi"}
// 编码为 11 字节：
//
//	2A 00 00 00 | 01 | 02 00 00 00 | 68 69
//
// # 使用
//
//	schema := coder.MustSchema(
//	    coder.F("id", coder.Int32),
//	    coder.F("flag", coder.Bool),
//	    coder.F("name", coder.VarBytes),
//	)
//
//	buf, err := coder.Encode(schema, coder.Record{"id": 42, "flag": true, "name": "hi"})
//	if err != nil {
//	    return err
//	}
//
//	record, cursor, err := coder.Decode(schema, buf)
//
// Decode 返回的游标指向记录之后的第一个字节，首尾相接的多条记录可以用
// DecodeAt、DecodeAll 或 Iterator 逐条读取。
//
// # 错误
//
// 所有错误都可以用 errors.Is 与 merr 中的哨兵错误比较，错误信息中包含出错字段的路径
// （例如 "addr.tags[2]"）。缓冲区不足时返回 merr.ErrTruncatedBuffer，
// 长度前缀无法满足时返回 merr.ErrInvalidLength，后者同样匹配 ErrTruncatedBuffer，
// 流式调用方可以据此等待更多字节后重试。
//
// # 并发
//
// Schema 与 Coder 创建后只读，每次调用使用自己的游标，可在任意 goroutine 中并发使用。
package coder
