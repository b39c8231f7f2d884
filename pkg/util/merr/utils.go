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
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	CanceledCode int32 = 10000
	TimeoutCode  int32 = 10001
)

// Code 返回给定错误对应的错误码。
// nil 返回 0；无法识别的错误统一返回 errUnexpected 的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case coderError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

// IsRetryableErr 判断错误是否值得由调用方重试（例如等待更多字节后重新解码）。
// 编解码器自身从不重试。
func IsRetryableErr(err error) bool {
	if err, ok := errors.Cause(err).(coderError); ok {
		return err.retriable
	}

	return false
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

func GetErrorType(err error) ErrorType {
	if merr, ok := errors.Cause(err).(coderError); ok {
		return merr.errType
	}

	return SystemError
}

// 编码侧错误封装。
func WrapErrMissingField(field string, msg ...string) error {
	err := wrapFields(ErrMissingField, value("field", field))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrTypeMismatch(field string, kind string, got any) error {
	return wrapFields(ErrTypeMismatch,
		value("field", field),
		value("kind", kind),
		value("got", fmt.Sprintf("%T", got)),
	)
}

func WrapErrRange(field string, kind string, v any, lower, upper any) error {
	return wrapFields(ErrRangeError,
		value("field", field),
		value("kind", kind),
		bound("value", v, lower, upper),
	)
}

func WrapErrLengthMismatch(field string, expected, actual int) error {
	return wrapFields(ErrLengthMismatch,
		value("field", field),
		value("expected", expected),
		value("actual", actual),
	)
}

// 解码侧错误封装。
func WrapErrTruncatedBuffer(field string, need, remain int) error {
	return wrapFields(ErrTruncatedBuffer,
		value("field", field),
		value("need", need),
		value("remain", remain),
	)
}

func WrapErrInvalidLength(field string, declared uint64, remain int, msg ...string) error {
	err := wrapFields(ErrInvalidLength,
		value("field", field),
		value("declared", declared),
		value("remain", remain),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrInvalidBoolEncoding(field string, b byte) error {
	return wrapFields(ErrInvalidBoolEncoding, value("field", field), value("byte", fmt.Sprintf("0x%02x", b)))
}

func WrapErrInvalidUTF8(field string) error {
	return wrapFields(ErrInvalidUTF8, value("field", field))
}

func WrapErrTrailingBytes(consumed, total int) error {
	return wrapFields(ErrTrailingBytes, value("consumed", consumed), value("total", total))
}

// Schema 相关错误封装。
func WrapErrSchemaInvalid(reason string, fields ...string) error {
	if len(fields) > 0 {
		return wrapFieldsWithDesc(ErrSchemaInvalid, reason, value("field", strings.Join(fields, ".")))
	}
	return wrapFieldsWithDesc(ErrSchemaInvalid, reason)
}

// 参数相关错误封装。
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmt string, args ...any) error {
	return errors.Wrapf(ErrParameterInvalid, fmt, args...)
}

// WrapErrAt 为错误附加所在的字段路径，例如嵌套记录或列表元素。
func WrapErrAt(err error, path string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "at %s", path)
}

func wrapFields(err coderError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err coderError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

type boundField struct {
	name  string
	value any
	lower any
	upper any
}

func bound(name string, value, lower, upper any) boundField {
	return boundField{
		name,
		value,
		lower,
		upper,
	}
}

func (f boundField) String() string {
	return fmt.Sprintf("%v out of range %v <= %s <= %v", f.value, f.lower, f.name, f.upper)
}
