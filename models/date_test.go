package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Date
	}{
		{"date only", `"2020-01-01"`, NewDate(2020, 1, 1)},
		{"rfc3339", `"2020-01-01T00:00:00Z"`, NewDate(2020, 1, 1)},
		{"offset is normalized", `"2020-01-01T02:00:00+02:00"`, NewDate(2020, 1, 1)},
		{"empty", `""`, Date{}},
		{"null", `null`, Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDate(1999, 12, 31)
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %v", d)
			assert.Equal(t, tt.want.IsZero(), d.IsZero())
		})
	}

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/02/2020"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20200101`), &d))
}

func TestDateMarshal(t *testing.T) {
	out, err := json.Marshal(Experience{Title: "Dev", StartDate: NewDate(2020, 1, 1)})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"startDate":"2020-01-01T00:00:00Z"`)
	assert.Contains(t, string(out), `"endDate":null`)
}

func TestDateBefore(t *testing.T) {
	start := NewDate(2020, 1, 1)
	assert.True(t, NewDate(2019, 1, 1).Before(start))
	assert.False(t, Date{}.Before(start), "an unset end date is never before the start")
	assert.False(t, start.Before(Date{}))
}

func TestDateSQL(t *testing.T) {
	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var d Date
	require.NoError(t, d.Scan(time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, NewDate(2021, 5, 1), d)
	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	assert.Error(t, d.Scan(42))
}
