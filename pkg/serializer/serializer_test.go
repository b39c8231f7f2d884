package serializer

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lk2023060901/coders-go/pkg/coder"
	"github.com/lk2023060901/coders-go/pkg/metrics"
	"github.com/lk2023060901/coders-go/pkg/util/merr"
)

type user struct {
	ID   int32  `coder:"id" json:"id"`
	Flag bool   `coder:"flag" json:"flag"`
	Name []byte `coder:"name" json:"name"`
}

type SerializerSuite struct {
	suite.Suite

	schema *SchemaSerializer
}

func TestSerializer(t *testing.T) {
	suite.Run(t, new(SerializerSuite))
}

func (s *SerializerSuite) SetupSuite() {
	c, err := coder.New(coder.MustSchema(
		coder.F("id", coder.Int32),
		coder.F("flag", coder.Bool),
		coder.F("name", coder.VarBytes),
	))
	s.Require().NoError(err)
	s.schema = NewSchemaSerializer(c)
}

func (s *SerializerSuite) TestSchemaStruct() {
	data, err := s.schema.Marshal(&user{ID: 42, Flag: true, Name: []byte("hi")})
	s.Require().NoError(err)
	s.Equal([]byte{0x2A, 0, 0, 0, 1, 2, 0, 0, 0, 'h', 'i'}, data)

	var out user
	s.Require().NoError(s.schema.Unmarshal(data, &out))
	s.Equal(user{ID: 42, Flag: true, Name: []byte("hi")}, out)

	var rec coder.Record
	s.Require().NoError(s.schema.Unmarshal(data, &rec))
	s.Equal(int32(42), rec["id"])
}

func (s *SerializerSuite) TestSchemaRecord() {
	for _, v := range []any{
		coder.Record{"id": 1, "flag": false, "name": ""},
		&coder.Record{"id": 1, "flag": false, "name": ""},
		map[string]any{"id": 1, "flag": false, "name": ""},
	} {
		data, err := s.schema.Marshal(v)
		s.Require().NoError(err)
		s.Len(data, 9)
	}

	_, err := s.schema.Marshal((*coder.Record)(nil))
	s.ErrorIs(err, merr.ErrParameterInvalid)
	_, err = s.schema.Marshal(42)
	s.ErrorIs(err, merr.ErrParameterInvalid)
	_, err = s.schema.Marshal(coder.Record{"id": 1})
	s.ErrorIs(err, merr.ErrMissingField)
}

func (s *SerializerSuite) TestSchemaTrailingBytes() {
	data, err := s.schema.Marshal(coder.Record{"id": 1, "flag": true, "name": "x"})
	s.Require().NoError(err)

	var rec coder.Record
	err = s.schema.Unmarshal(append(data, 0x00), &rec)
	s.ErrorIs(err, merr.ErrTrailingBytes)

	err = s.schema.Unmarshal(data[:3], &rec)
	s.ErrorIs(err, merr.ErrTruncatedBuffer)
}

func (s *SerializerSuite) TestSchemaMetrics() {
	ok := metrics.SerializerOps.WithLabelValues(SchemaName, metrics.MarshalLabel, metrics.SuccessLabel)
	fail := metrics.SerializerOps.WithLabelValues(SchemaName, metrics.MarshalLabel, metrics.FailLabel)
	okBefore, failBefore := testutil.ToFloat64(ok), testutil.ToFloat64(fail)

	_, _ = s.schema.Marshal(coder.Record{"id": 1, "flag": true, "name": ""})
	_, _ = s.schema.Marshal(coder.Record{})

	s.Equal(okBefore+1, testutil.ToFloat64(ok))
	s.Equal(failBefore+1, testutil.ToFloat64(fail))
}

func (s *SerializerSuite) TestJSON() {
	var js Serializer = JSONSerializer{}
	data, err := js.Marshal(user{ID: 7, Flag: true, Name: []byte{1}})
	s.Require().NoError(err)
	s.JSONEq(`{"id":7,"flag":true,"name":"AQ=="}`, string(data))

	var out user
	s.Require().NoError(js.Unmarshal(data, &out))
	s.Equal(user{ID: 7, Flag: true, Name: []byte{1}}, out)
	s.Error(js.Unmarshal([]byte("{"), &out))
}

func (s *SerializerSuite) TestProto() {
	var ps Serializer = ProtoSerializer{}
	data, err := ps.Marshal(wrapperspb.String("hello"))
	s.Require().NoError(err)

	out := &wrapperspb.StringValue{}
	s.Require().NoError(ps.Unmarshal(data, out))
	s.Equal("hello", out.GetValue())

	_, err = ps.Marshal(user{})
	s.ErrorIs(err, merr.ErrParameterInvalid)
	s.ErrorIs(ps.Unmarshal(data, &user{}), merr.ErrParameterInvalid)
}
