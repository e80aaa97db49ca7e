package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"encoding/json"
	"math/big"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseBlockReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    string
		want    string
		wantErr string
	}{
		{name: "empty means latest", give: "", want: "latest"},
		{name: "tag", give: "finalized", want: "finalized"},
		{name: "tag is case insensitive", give: " SAFE ", want: "safe"},
		{name: "decimal number", give: "19000000", want: "19000000"},
		{name: "hex number", give: "0x10", want: "16"},
		{name: "genesis", give: "0", want: "0"},
		{
			name:    "negative number",
			give:    "-1",
			wantErr: "invalid block reference: negative block number -1",
		},
		{
			name:    "garbage",
			give:    "yesterday",
			wantErr: `invalid block reference: "yesterday" is neither a block number nor a block tag`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseBlockReference(tt.give)
			if tt.wantErr != "" {
				assert.Error(t, err, tt.wantErr)
				return
			}

			assert.NilError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBlockReference_Validate(t *testing.T) {
	t.Parallel()

	assert.NilError(t, LatestBlock().Validate())
	assert.NilError(t, BlockAt(big.NewInt(0)).Validate())
	assert.NilError(t, BlockWithTag(BlockTagPending).Validate())

	err := BlockReference{Number: big.NewInt(1), Tag: BlockTagSafe}.Validate()
	assert.ErrorIs(t, err, ErrInvalidBlockReference)
	assert.ErrorContains(t, err, "mutually exclusive")

	err = BlockWithTag("head").Validate()
	assert.ErrorIs(t, err, ErrInvalidBlockTag)
	assert.Error(t, err, `invalid block tag: "head"`)
}

func TestBlockReference_IsLatest(t *testing.T) {
	t.Parallel()

	assert.Check(t, LatestBlock().IsLatest())
	assert.Check(t, BlockWithTag(BlockTagLatest).IsLatest())
	assert.Check(t, !BlockWithTag(BlockTagSafe).IsLatest())
	assert.Check(t, !BlockAt(big.NewInt(5)).IsLatest())
}

func TestBlockReference_Text(t *testing.T) {
	t.Parallel()

	type wrapper struct {
		Block BlockReference `json:"block"`
	}

	b, err := json.Marshal(wrapper{Block: BlockAt(big.NewInt(42))})
	assert.NilError(t, err)
	assert.Equal(t, `{"block":"42"}`, string(b))

	var got wrapper
	assert.NilError(t, json.Unmarshal([]byte(`{"block":"earliest"}`), &got))
	assert.DeepEqual(t, BlockWithTag(BlockTagEarliest), got.Block)

	err = json.Unmarshal([]byte(`{"block":"soon"}`), &got)
	assert.Check(t, is.ErrorContains(err, "neither a block number nor a block tag"))
}
