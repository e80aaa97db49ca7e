package abi_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/readcontract/abi"
)

func TestTuple_MarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give abi.Tuple
		want string
	}{
		{
			name: "named members keep declaration order",
			give: abi.Tuple{Names: []string{"z", "a"}, Values: []any{"last", true}},
			want: `{"z":"last","a":true}`,
		},
		{
			name: "unnamed member",
			give: abi.Tuple{Names: []string{"amount", ""}, Values: []any{"1", "2"}},
			want: `["1","2"]`,
		},
		{
			name: "duplicate names",
			give: abi.Tuple{Names: []string{"x", "x"}, Values: []any{1, 2}},
			want: `[1,2]`,
		},
		{
			name: "no names",
			give: abi.Tuple{Values: []any{false}},
			want: `[false]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := json.Marshal(tt.give)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestJSONValue(t *testing.T) {
	t.Parallel()

	v := abi.Tuple{
		Names: []string{"owner", "balance", "data", "history"},
		Values: []any{
			holder,
			new(big.Int).Lsh(big.NewInt(1), 200),
			[]byte{0xde, 0xad},
			[]any{big.NewInt(-1), big.NewInt(0)},
		},
	}

	got, err := json.Marshal(abi.JSONValue(v))
	require.NoError(t, err)

	assert.Equal(t,
		`{"owner":"0x5B38Da6a701c568545dCfcB03FcB875f56beddC4",`+
			`"balance":"1606938044258990275541962092341162602522202993782792835301376",`+
			`"data":"0xdead","history":["-1","0"]}`,
		string(got))
}
