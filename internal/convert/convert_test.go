package convert

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ledger/pkg/types"
)

type mapRow map[string]any

func (r mapRow) Get(column string) (any, bool) {
	v, ok := r[column]
	return v, ok
}

func TestConvert(t *testing.T) {
	row := mapRow{
		"e_id":     int64(3),
		"e_gold":   float64(1.5),
		"e_wood":   int64(2),
		"e_fer":    []byte("4.25"),
		"e_text":   "hello",
		"e_count":  "17",
		"e_flag":   int64(1),
		"e_null":   nil,
		"e_bad":    "not a number",
		"e_narrow": float32(0.5),
	}

	tests := []struct {
		name    string
		column  string
		kind    Kind
		want    any
		wantErr error
	}{
		{name: "id stays int64", column: "e_id", kind: KindID, want: int64(3)},
		{name: "float column", column: "e_gold", kind: KindFloat, want: 1.5},
		{name: "integer widens to float", column: "e_wood", kind: KindFloat, want: 2.0},
		{name: "numeric bytes parse as float", column: "e_fer", kind: KindFloat, want: 4.25},
		{name: "float32 widens", column: "e_narrow", kind: KindFloat, want: 0.5},
		{name: "text", column: "e_text", kind: KindText, want: "hello"},
		{name: "numeric text to int", column: "e_count", kind: KindInt, want: int64(17)},
		{name: "int to bool", column: "e_flag", kind: KindBool, want: true},
		{name: "null is absent", column: "e_null", kind: KindFloat, want: nil},
		{name: "text into float mismatches", column: "e_bad", kind: KindFloat, wantErr: types.ErrTypeMismatch},
		{name: "text into id mismatches", column: "e_bad", kind: KindID, wantErr: types.ErrTypeMismatch},
		{name: "missing column", column: "e_missing", kind: KindText, wantErr: types.ErrUnknownColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(row, tt.column, tt.kind)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypedHelpers(t *testing.T) {
	row := mapRow{"a": int64(5), "b": nil, "c": "x"}

	i, err := Int64(row, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(5), i.MustGet())

	f, err := Float64(row, "b")
	require.NoError(t, err)
	assert.True(t, f.IsAbsent())

	s, err := String(row, "c")
	require.NoError(t, err)
	assert.Equal(t, "x", s.MustGet())

	_, err = Bool(row, "c")
	var convErr *Error
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "c", convErr.Column)
	assert.Equal(t, KindBool, convErr.Kind)
}

func TestFromString(t *testing.T) {
	v, err := FromString(KindFloat, " 2.5 ")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = FromString(KindID, "null")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = FromString(KindText, "")
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = FromString(KindInt, "ten")
	assert.True(t, errors.Is(err, types.ErrTypeMismatch))
}

func TestIntegerKindsAreStrict(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    int64
		wantErr bool
	}{
		{name: "leading zero is decimal", raw: "010", want: 10},
		{name: "decimal bytes", raw: []byte("42"), want: 42},
		{name: "integral float", raw: float64(7), want: 7},
		{name: "negative", raw: "-3", want: -3},
		{name: "hex prefix", raw: "0x0A", wantErr: true},
		{name: "digit separator", raw: "1_0", wantErr: true},
		{name: "fractional text", raw: "2.9", wantErr: true},
		{name: "fractional float", raw: 2.9, wantErr: true},
		{name: "fractional float32", raw: float32(9.7), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range []Kind{KindID, KindInt} {
				got, err := Convert(mapRow{"e_n": tt.raw}, "e_n", kind)
				if tt.wantErr {
					assert.ErrorIs(t, err, types.ErrTypeMismatch, "%s: got %v", kind, got)
					continue
				}
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}

	for _, text := range []string{"0x0A", "1_0", "2.9", "9.7"} {
		_, err := FromString(KindID, text)
		assert.ErrorIs(t, err, types.ErrTypeMismatch, text)
	}
	v, err := FromString(KindID, "010")
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}
