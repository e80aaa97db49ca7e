// Package readcontract performs typed, read-only calls of contract functions described by an
// ABI: it selects the overload, encodes the calldata, submits it through an sdk.Caller and
// decodes the return data. Failed calls are returned as *evm.ExecutionError carrying the
// decoded revert reason.
package readcontract

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/smartcontractkit/readcontract/abi"
	"github.com/smartcontractkit/readcontract/sdk"
	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
	"github.com/smartcontractkit/readcontract/sdk/evm"
	"github.com/smartcontractkit/readcontract/types"
)

// ReadContract calls params.FunctionName on params.Address and decodes its return data.
//
// The result is nil for a function without outputs, the decoded value for a single output,
// and an abi.Tuple of all outputs otherwise. Integers decode to *big.Int, addresses to
// common.Address, bytes and bytesN to []byte and arrays to []any.
//
// Resolution and encoding failures are returned as the sdk/errors types. A failed call is
// returned as an *evm.ExecutionError wrapping the *sdkerrors.TransportError of the caller.
func ReadContract(ctx context.Context, caller sdk.Caller, params Params) (any, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid read parameters: %w", err)
	}

	lggr := sdk.LoggerFrom(ctx)

	fn, err := abi.Resolve(params.ABI, params.FunctionName, params.Args)
	if err != nil {
		return nil, err
	}

	calldata, err := abi.EncodeCall(fn, params.Args)
	if err != nil {
		return nil, err
	}

	block := params.Block()
	lggr.Debugf("reading %s on %s at block %s (calldata %s)", fn.Signature(), params.Address.Hex(), block, hexutil.Encode(calldata))

	data, err := caller.Call(ctx, types.CallRequest{
		To:    params.Address,
		Data:  calldata,
		From:  params.Account,
		Block: block,
	})
	if err != nil {
		var transportErr *sdkerrors.TransportError
		if !errors.As(err, &transportErr) {
			err = sdkerrors.NewTransportError(err, nil)
		}

		execErr := evm.BuildExecutionError(err, evm.CallContext{
			ABI:      params.ABI,
			Address:  params.Address,
			Function: fn,
			Args:     params.Args,
			From:     params.Account,
			Block:    block,
		})
		lggr.Warnf("%s", execErr.Error())

		return nil, execErr
	}

	result, err := abi.DecodeResult(fn, data)
	if err != nil {
		return nil, fmt.Errorf("decode result of %s: %w", fn.Signature(), err)
	}

	lggr.Debugf("read %s on %s: %d bytes returned", fn.Signature(), params.Address.Hex(), len(data))

	return result, nil
}

// ReadAs calls ReadContract and asserts the result to T, e.g. *big.Int for a uint256 output
// or abi.Tuple for several outputs.
func ReadAs[T any](ctx context.Context, caller sdk.Caller, params Params) (T, error) {
	var zero T

	result, err := ReadContract(ctx, caller, params)
	if err != nil {
		return zero, err
	}

	out, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s returned %T, not %T", params.FunctionName, result, zero)
	}

	return out, nil
}
