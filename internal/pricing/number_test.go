package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{`12.5`, 12.5, true},
		{`0`, 0, true},
		{`-3`, -3, true},
		{`"42"`, 42, true},
		{`" 7.25 "`, 7.25, true},
		{`""`, 0, true},
		{`"abc"`, 0, false},
		{`null`, 0, false},
		{`true`, 1, true},
		{`false`, 0, true},
		{`{}`, 0, false},
		{`[1]`, 0, false},
	}

	for _, tt := range tests {
		var n Number
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &n), tt.raw)

		v, ok := n.Float()
		assert.Equal(t, tt.valid, ok, tt.raw)
		if tt.valid {
			assert.Equal(t, tt.want, v, tt.raw)
		}
	}
}

func TestNumber_MissingFieldIsInvalid(t *testing.T) {
	var in ItemInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &in))

	assert.False(t, in.Quantity.Valid())
	assert.False(t, in.GSTRate.Valid())
	assert.False(t, in.Quantity.Present())
}

func TestNumber_NullIsPresent(t *testing.T) {
	var in ItemInput
	require.NoError(t, json.Unmarshal([]byte(`{"quantity":null,"gstRate":"abc"}`), &in))

	assert.True(t, in.Quantity.Present())
	assert.False(t, in.Quantity.Valid())
	assert.True(t, in.GSTRate.Present())
	assert.False(t, in.GSTRate.Valid())
	assert.False(t, in.MRP.Present())
}

func TestNumber_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: Num(18), B: Number{}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"a":18,"b":null}`, string(raw))
}

func TestNum_RejectsNaN(t *testing.T) {
	assert.False(t, Num(math.NaN()).Valid())
	assert.False(t, Num(math.Inf(1)).Valid())
	assert.False(t, NumPtr(nil).Valid())

	v := 5.0
	assert.True(t, NumPtr(&v).Valid())
}
