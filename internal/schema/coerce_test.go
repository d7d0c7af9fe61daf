package schema_test

import (
	"strconv"
	"testing"
	"time"

	"db-reshape/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
)

func TestCoerceDefault(t *testing.T) {
	tests := []struct {
		typ     schema.ColumnType
		raw     string
		want    string
		set     bool
		invalid bool
	}{
		{typ: schema.TypeInt, raw: "42", want: "42", set: true},
		{typ: schema.TypeInt, raw: "-7", want: "-7", set: true},
		{typ: schema.TypeInt, raw: "1e3", want: "1000", set: true},
		{typ: schema.TypeInt, raw: "4.2", invalid: true},
		{typ: schema.TypeInt, raw: "9007199254740993", invalid: true},
		{typ: schema.TypeInt, raw: "", invalid: true},
		{typ: schema.TypeInt, raw: "abc", invalid: true},
		{typ: schema.TypeFloat, raw: "4.20", want: "4.2", set: true},
		{typ: schema.TypeFloat, raw: "NaN", invalid: true},
		{typ: schema.TypeFloat, raw: "Inf", invalid: true},
		{typ: schema.TypeBool, raw: "", set: false},
		{typ: schema.TypeBool, raw: "YES", want: "true", set: true},
		{typ: schema.TypeBool, raw: "f", want: "false", set: true},
		{typ: schema.TypeBool, raw: "maybe", invalid: true},
		{typ: schema.TypeString, raw: "hello", want: "hello", set: true},
		{typ: schema.TypeString, raw: "", set: false},
		{typ: schema.TypeEmail, raw: "a@b.c", want: "a@b.c", set: true},
		{typ: schema.TypeEmail, raw: "", set: false},
		{typ: schema.TypeLink, raw: "u1", want: "u1", set: true},
		{typ: schema.TypeDatetime, raw: "not-a-date", invalid: true},
		{typ: schema.TypeDatetime, raw: "", invalid: true},
		{typ: schema.TypeDatetime, raw: "2024-01-01T00:00:00Z", want: "2024-01-01T00:00:00.000Z", set: true},
		{typ: schema.TypeDatetime, raw: "2024-01-01T02:30:00+02:00", want: "2024-01-01T00:30:00.000Z", set: true},
		{typ: schema.TypeText, raw: "anything", set: false},
		{typ: schema.TypeMultiple, raw: "a,b", set: false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ)+"/"+tt.raw, func(t *testing.T) {
			got, set, err := schema.CoerceDefault(tt.typ, tt.raw)
			if tt.invalid {
				require.ErrorIs(t, err, schema.ErrInvalidDefault)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.set, set)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceDefault_Idempotent(t *testing.T) {
	f := gofakeit.New(3)
	for i := 0; i < 100; i++ {
		n := strconv.Itoa(f.Number(-1_000_000, 1_000_000))
		v, _, err := schema.CoerceDefault(schema.TypeInt, n)
		require.NoError(t, err)
		require.Equal(t, n, v)

		fl := strconv.FormatFloat(f.Float64Range(-1e6, 1e6), 'f', -1, 64)
		v, _, err = schema.CoerceDefault(schema.TypeFloat, fl)
		require.NoError(t, err)
		again, _, err := schema.CoerceDefault(schema.TypeFloat, v)
		require.NoError(t, err)
		require.Equal(t, v, again)

		d := schema.FormatDatetime(f.DateRange(time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC)))
		v, _, err = schema.CoerceDefault(schema.TypeDatetime, d)
		require.NoError(t, err)
		require.Equal(t, d, v)

		e := f.Email()
		v, _, err = schema.CoerceDefault(schema.TypeEmail, e)
		require.NoError(t, err)
		require.Equal(t, e, v)
	}
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"true", "T", "1", "y", "Yes"} {
		v, set, err := schema.ParseBool(raw)
		require.NoError(t, err)
		require.True(t, set)
		require.True(t, v, raw)
	}
	for _, raw := range []string{"false", "F", "0", "n", "NO"} {
		v, set, err := schema.ParseBool(raw)
		require.NoError(t, err)
		require.True(t, set)
		require.False(t, v, raw)
	}
	_, set, err := schema.ParseBool("")
	require.NoError(t, err)
	require.False(t, set)
	_, _, err = schema.ParseBool("maybe")
	require.ErrorIs(t, err, schema.ErrInvalidBool)
}
