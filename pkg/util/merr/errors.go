// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merr

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

type ErrorType int32

const (
	SystemError ErrorType = 0
	InputError  ErrorType = 1
)

var ErrorTypeName = map[ErrorType]string{
	SystemError: "system_error",
	InputError:  "input_error",
}

func (err ErrorType) String() string {
	return ErrorTypeName[err]
}

// 叶子错误统一定义在这里。
// WARN: 新增错误前请先确认下面已有的错误是否可以复用。
// 命名规则：Err + 错误名。
var (
	// 编码侧错误
	ErrMissingField   = newCoderError("missing field", 100, false)
	ErrTypeMismatch   = newCoderError("type mismatch", 101, false)
	ErrRangeError     = newCoderError("value out of range", 102, false)
	ErrLengthMismatch = newCoderError("length mismatch", 103, false)

	// 解码侧错误
	// 缓冲区不足时调用方可以等待更多字节到达后重试，因此标记为可重试。
	ErrTruncatedBuffer     = newCoderError("truncated buffer", 200, true)
	ErrInvalidLength       = newCoderError("invalid length prefix", 201, true, withAlias(200))
	ErrInvalidBoolEncoding = newCoderError("invalid bool encoding", 202, false)
	ErrInvalidUTF8         = newCoderError("invalid utf-8 string", 203, false)
	ErrTrailingBytes       = newCoderError("trailing bytes after record", 204, false)

	// Schema 相关错误
	ErrSchemaInvalid = newCoderError("invalid schema", 300, false)

	// 参数相关错误
	ErrParameterInvalid = newCoderError("invalid parameter", 1100, false)

	// Do NOT export this,
	// never allow programmer using this, keep only for converting unknown error to coderError
	errUnexpected = newCoderError("unexpected error", (1<<16)-1, false)
)

type errorOption func(*coderError)

func WithDetail(detail string) errorOption {
	return func(err *coderError) {
		err.detail = detail
	}
}

func WithErrorType(etype ErrorType) errorOption {
	return func(err *coderError) {
		err.errType = etype
	}
}

// withAlias 让错误在 errors.Is 判定时同时匹配另一个错误码。
func withAlias(code int32) errorOption {
	return func(err *coderError) {
		err.alias = code
	}
}

type coderError struct {
	msg       string
	detail    string
	retriable bool
	errCode   int32
	alias     int32
	errType   ErrorType
}

func newCoderError(msg string, code int32, retriable bool, options ...errorOption) coderError {
	err := coderError{
		msg:       msg,
		detail:    msg,
		retriable: retriable,
		errCode:   code,
		errType:   InputError,
	}

	for _, option := range options {
		option(&err)
	}
	return err
}

func (e coderError) code() int32 {
	return e.errCode
}

func (e coderError) Error() string {
	return e.msg
}

func (e coderError) Detail() string {
	return e.detail
}

func (e coderError) Is(err error) bool {
	cause := errors.Cause(err)
	if cause, ok := cause.(coderError); ok {
		return e.errCode == cause.errCode || (e.alias != 0 && e.alias == cause.errCode)
	}
	return false
}

type multiErrors struct {
	errs []error
}

func (e multiErrors) Unwrap() error {
	if len(e.errs) <= 1 {
		return nil
	}
	// cause of multi errors is defined as the last error
	if len(e.errs) == 2 {
		return e.errs[1]
	}

	return multiErrors{
		errs: e.errs[1:],
	}
}

func (e multiErrors) Error() string {
	final := e.errs[0]
	for i := 1; i < len(e.errs); i++ {
		final = errors.Wrap(e.errs[i], final.Error())
	}
	return final.Error()
}

func (e multiErrors) Is(err error) bool {
	for _, item := range e.errs {
		if errors.Is(item, err) {
			return true
		}
	}
	return false
}

func Combine(errs ...error) error {
	errs = lo.Filter(errs, func(err error, _ int) bool { return err != nil })
	if len(errs) == 0 {
		return nil
	}
	return multiErrors{
		errs,
	}
}
