package sdk

import (
	"context"

	"github.com/smartcontractkit/readcontract/types"
)

// Caller executes read-only message calls against a chain and returns the raw return data.
//
// A call that reverts must return an error from which the revert data can be recovered,
// either an *sdkerrors.TransportError carrying the data or an error implementing
// ErrorData() any as go-ethereum's rpc.DataError does.
type Caller interface {
	Call(ctx context.Context, req types.CallRequest) ([]byte, error)
}

// CallerFunc adapts an ordinary function to the Caller interface.
type CallerFunc func(ctx context.Context, req types.CallRequest) ([]byte, error)

func (f CallerFunc) Call(ctx context.Context, req types.CallRequest) ([]byte, error) {
	return f(ctx, req)
}
