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
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrMissingField("id")
	err = errors.Wrap(err, "failed to encode")
	s.ErrorIs(err, ErrMissingField)
	s.Equal(Code(ErrMissingField), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errors.New("boom")))
	s.Equal(int32(0), Code(nil))

	sameCodeErr := newCoderError("new error", ErrMissingField.errCode, false)
	s.True(sameCodeErr.Is(ErrMissingField))
}

func (s *ErrSuite) TestWrap() {
	// 编码侧错误。
	s.ErrorIs(WrapErrMissingField("id"), ErrMissingField)
	s.ErrorIs(WrapErrTypeMismatch("id", "int32", "x"), ErrTypeMismatch)
	s.ErrorIs(WrapErrRange("id", "int8", 128, -128, 127), ErrRangeError)
	s.ErrorIs(WrapErrLengthMismatch("tag", 4, 3), ErrLengthMismatch)

	// 解码侧错误。
	s.ErrorIs(WrapErrTruncatedBuffer("id", 4, 2), ErrTruncatedBuffer)
	s.ErrorIs(WrapErrInvalidLength("name", 10, 2), ErrInvalidLength)
	s.ErrorIs(WrapErrInvalidBoolEncoding("flag", 2), ErrInvalidBoolEncoding)
	s.ErrorIs(WrapErrInvalidUTF8("name"), ErrInvalidUTF8)
	s.ErrorIs(WrapErrTrailingBytes(3, 4), ErrTrailingBytes)

	// Schema 与参数错误。
	s.ErrorIs(WrapErrSchemaInvalid("duplicated field name", "id"), ErrSchemaInvalid)
	s.ErrorIs(WrapErrParameterInvalid(1, 0, "workers"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("bad %s", "thing"), ErrParameterInvalid)
}

func (s *ErrSuite) TestMessageCarriesFields() {
	err := WrapErrRange("small", "int8", 128, -128, 127)
	s.Contains(err.Error(), "field=small")
	s.Contains(err.Error(), "128 out of range -128 <= value <= 127")

	err = WrapErrAt(WrapErrMissingField("street"), "addr")
	s.Contains(err.Error(), "at addr")
	s.ErrorIs(err, ErrMissingField)
	s.Nil(WrapErrAt(nil, "addr"))
}

func (s *ErrSuite) TestInvalidLengthIsTruncation() {
	err := WrapErrInvalidLength("name", 100, 3)
	s.ErrorIs(err, ErrInvalidLength)
	s.ErrorIs(err, ErrTruncatedBuffer)
	s.Equal(Code(ErrInvalidLength), Code(err))

	// 反向不成立。
	s.NotErrorIs(WrapErrTruncatedBuffer("id", 4, 1), ErrInvalidLength)
}

func (s *ErrSuite) TestRetryable() {
	s.True(IsRetryableErr(WrapErrTruncatedBuffer("id", 4, 1)))
	s.True(IsRetryableErr(errors.Wrap(WrapErrInvalidLength("name", 9, 1), "decode")))
	s.False(IsRetryableErr(WrapErrInvalidBoolEncoding("flag", 7)))
	s.False(IsRetryableErr(errors.New("plain")))
}

func (s *ErrSuite) TestErrorType() {
	s.Equal(InputError, GetErrorType(WrapErrMissingField("id")))
	s.Equal(SystemError, GetErrorType(errors.New("plain")))
	s.Equal("input_error", InputError.String())
}

func (s *ErrSuite) TestCanceledOrTimeout() {
	s.True(IsCanceledOrTimeout(errors.Wrap(context.Canceled, "batch")))
	s.False(IsCanceledOrTimeout(ErrRangeError))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.False(errors.Is(err, errThird))

	s.Equal("first: second", err.Error())
}

func (s *ErrSuite) TestCombineWithNil() {
	err := errors.New("non-nil")

	err = Combine(nil, err)
	s.NotNil(err)
}

func (s *ErrSuite) TestCombineOnlyNil() {
	err := Combine(nil, nil)
	s.Nil(err)
}

func (s *ErrSuite) TestCombineCode() {
	err := Combine(WrapErrMissingField("a"), WrapErrTruncatedBuffer("b", 1, 0))
	s.Equal(Code(ErrTruncatedBuffer), Code(err))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
