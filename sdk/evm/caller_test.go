package evm

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	evm_mocks "github.com/smartcontractkit/readcontract/sdk/evm/mocks"
	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
	"github.com/smartcontractkit/readcontract/types"
)

// rpcDataError mimics the JSON-RPC errors returned by go-ethereum for reverted calls.
type rpcDataError struct {
	msg  string
	data any
}

func (e *rpcDataError) Error() string  { return e.msg }
func (e *rpcDataError) ErrorData() any { return e.data }

var (
	contractAddr = common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	senderAddr   = common.HexToAddress("0x5B38Da6a701c568545dCfcB03FcB875f56beddC4")
)

func isNilBlock(b *big.Int) bool { return b == nil }

func TestClientCaller_Call(t *testing.T) {
	t.Parallel()

	calldata := hexutil.MustDecode("0x18160ddd")
	want := common.LeftPadBytes(big.NewInt(424122).Bytes(), 32)

	client := evm_mocks.NewContractCaller(t)
	client.EXPECT().
		CallContract(mock.Anything, mock.MatchedBy(func(msg ethereum.CallMsg) bool {
			return msg.To != nil && *msg.To == contractAddr && msg.From == senderAddr &&
				string(msg.Data) == string(calldata)
		}), mock.MatchedBy(isNilBlock)).
		Return(want, nil).
		Once()

	caller := NewClientCaller(client)
	got, err := caller.Call(context.Background(), types.CallRequest{
		To:   contractAddr,
		Data: calldata,
		From: &senderAddr,
	})

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientCaller_Call_BlockReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		give      types.BlockReference
		wantBlock *big.Int
	}{
		{name: "latest", give: types.LatestBlock(), wantBlock: nil},
		{name: "latest tag", give: types.BlockWithTag(types.BlockTagLatest), wantBlock: nil},
		{name: "number", give: types.BlockAt(big.NewInt(19_000_000)), wantBlock: big.NewInt(19_000_000)},
		{name: "pending", give: types.BlockWithTag(types.BlockTagPending), wantBlock: big.NewInt(-1)},
		{name: "finalized", give: types.BlockWithTag(types.BlockTagFinalized), wantBlock: big.NewInt(-3)},
		{name: "safe", give: types.BlockWithTag(types.BlockTagSafe), wantBlock: big.NewInt(-4)},
		{name: "earliest", give: types.BlockWithTag(types.BlockTagEarliest), wantBlock: big.NewInt(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := evm_mocks.NewContractCaller(t)
			client.EXPECT().
				CallContract(mock.Anything, mock.Anything, mock.MatchedBy(func(b *big.Int) bool {
					if tt.wantBlock == nil {
						return b == nil
					}

					return b != nil && b.Cmp(tt.wantBlock) == 0
				})).
				Return([]byte{}, nil).
				Once()

			_, err := NewClientCaller(client).Call(context.Background(), types.CallRequest{To: contractAddr, Block: tt.give})
			require.NoError(t, err)
		})
	}
}

func TestClientCaller_Call_InvalidBlock(t *testing.T) {
	t.Parallel()

	client := evm_mocks.NewContractCaller(t)

	_, err := NewClientCaller(client).Call(context.Background(), types.CallRequest{
		To:    contractAddr,
		Block: types.BlockReference{Number: big.NewInt(1), Tag: types.BlockTagSafe},
	})

	require.ErrorIs(t, err, types.ErrInvalidBlockReference)
}

func TestClientCaller_Call_RevertIsNotRetried(t *testing.T) {
	t.Parallel()

	revertData := "0x08c379a0" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000014" +
		"696e73756666696369656e742062616c616e6365000000000000000000000000"

	client := evm_mocks.NewContractCaller(t)
	client.EXPECT().
		CallContract(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &rpcDataError{msg: "execution reverted: insufficient balance", data: revertData}).
		Once()

	_, err := NewClientCaller(client, WithRetry(3, time.Millisecond)).Call(context.Background(), types.CallRequest{To: contractAddr})
	require.Error(t, err)

	var transportErr *sdkerrors.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, hexutil.MustDecode(revertData), transportErr.Data)
	assert.Equal(t, "execution reverted: insufficient balance", transportErr.Message)
}

func TestClientCaller_Call_RetriesTransportFailures(t *testing.T) {
	t.Parallel()

	want := []byte{0x01}

	client := evm_mocks.NewContractCaller(t)
	client.EXPECT().
		CallContract(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset by peer")).
		Once()
	client.EXPECT().
		CallContract(mock.Anything, mock.Anything, mock.Anything).
		Return(want, nil).
		Once()

	got, err := NewClientCaller(client, WithRetry(3, time.Millisecond)).Call(context.Background(), types.CallRequest{To: contractAddr})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientCaller_Call_GivesUp(t *testing.T) {
	t.Parallel()

	client := evm_mocks.NewContractCaller(t)
	client.EXPECT().
		CallContract(mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("502 bad gateway")).
		Twice()

	_, err := NewClientCaller(client, WithRetry(2, time.Millisecond)).Call(context.Background(), types.CallRequest{To: contractAddr})
	require.Error(t, err)

	var transportErr *sdkerrors.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Empty(t, transportErr.Data)
	assert.EqualError(t, err, "transport error: 502 bad gateway")
}

func TestClientCaller_Call_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := evm_mocks.NewContractCaller(t)
	client.EXPECT().
		CallContract(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			return nil, ctx.Err()
		}).
		Maybe()

	_, err := NewClientCaller(client, WithRetry(3, time.Millisecond)).Call(ctx, types.CallRequest{To: contractAddr})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	var transportErr *sdkerrors.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestErrorData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give error
		want []byte
	}{
		{name: "hex string", give: &rpcDataError{msg: "execution reverted", data: "0x4e487b71"}, want: []byte{0x4e, 0x48, 0x7b, 0x71}},
		{name: "bytes", give: &rpcDataError{msg: "execution reverted", data: []byte{0x01}}, want: []byte{0x01}},
		{name: "wrapped", give: errors.Join(errors.New("call failed"), &rpcDataError{data: "0x01"}), want: []byte{0x01}},
		{name: "malformed hex", give: &rpcDataError{data: "revert"}, want: nil},
		{name: "unsupported type", give: &rpcDataError{data: 42}, want: nil},
		{name: "no data", give: errors.New("execution reverted"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, errorData(tt.give))
		})
	}
}
