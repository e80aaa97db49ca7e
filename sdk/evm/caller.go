package evm

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/smartcontractkit/readcontract/sdk"
	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
	"github.com/smartcontractkit/readcontract/types"
)

// ContractCaller is the part of go-ethereum's ethclient.Client used to read contracts.
// simulated.Client satisfies it as well.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// dataError is implemented by go-ethereum JSON-RPC errors that carry revert data.
type dataError interface {
	ErrorData() any
}

var _ sdk.Caller = (*ClientCaller)(nil)

// ClientCaller performs calls through a go-ethereum client. Failures are returned as
// *sdkerrors.TransportError with the revert data attached when the node returned any.
type ClientCaller struct {
	client   ContractCaller
	attempts uint
	delay    time.Duration
}

// CallerOption configures a ClientCaller.
type CallerOption func(*ClientCaller)

// WithRetry retries failed calls up to attempts times in total, waiting delay between tries
// with exponential backoff. Reverts and context cancellation are never retried.
func WithRetry(attempts uint, delay time.Duration) CallerOption {
	return func(c *ClientCaller) {
		if attempts > 0 {
			c.attempts = attempts
		}
		c.delay = delay
	}
}

func NewClientCaller(client ContractCaller, opts ...CallerOption) *ClientCaller {
	c := &ClientCaller{
		client:   client,
		attempts: 1,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Call implements sdk.Caller.
func (c *ClientCaller) Call(ctx context.Context, req types.CallRequest) ([]byte, error) {
	if err := req.Block.Validate(); err != nil {
		return nil, err
	}

	msg := ethereum.CallMsg{
		To:   &req.To,
		Data: req.Data,
	}
	if req.From != nil {
		msg.From = *req.From
	}
	block := blockNumberArg(req.Block)
	lggr := sdk.LoggerFrom(ctx)

	data, err := retry.DoWithData(
		func() ([]byte, error) {
			out, callErr := c.client.CallContract(ctx, msg, block)
			if callErr != nil {
				return nil, classifyCallError(ctx, callErr)
			}

			return out, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			lggr.Debugf("eth_call to %s failed, retrying (attempt %d/%d): %v", req.To.Hex(), n+1, c.attempts, err)
		}),
	)
	if err != nil {
		var transportErr *sdkerrors.TransportError
		if !errors.As(err, &transportErr) {
			err = sdkerrors.NewTransportError(err, nil)
		}

		return nil, err
	}

	return data, nil
}

// classifyCallError wraps a client failure in a TransportError and marks failures that
// another attempt cannot fix as unrecoverable.
func classifyCallError(ctx context.Context, err error) error {
	data := errorData(err)
	transportErr := sdkerrors.NewTransportError(err, data)

	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		len(data) > 0 || isRevert(err) {
		return retry.Unrecoverable(transportErr)
	}

	return transportErr
}

// errorData returns the revert data exposed by an rpc.DataError anywhere in the chain.
func errorData(err error) []byte {
	var de dataError
	if !errors.As(err, &de) {
		return nil
	}

	switch data := de.ErrorData().(type) {
	case string:
		b, decodeErr := hexutil.Decode(data)
		if decodeErr != nil {
			return nil
		}

		return b
	case []byte:
		return data
	case hexutil.Bytes:
		return data
	default:
		return nil
	}
}

func isRevert(err error) bool {
	return strings.Contains(err.Error(), "execution reverted") || strings.Contains(err.Error(), revertPrefix)
}

// blockNumberArg maps a block reference to the block number argument of CallContract:
// nil for latest, the number itself, or the negative rpc.BlockNumber of a tag.
func blockNumberArg(ref types.BlockReference) *big.Int {
	if ref.Number != nil {
		return new(big.Int).Set(ref.Number)
	}

	switch ref.Tag {
	case types.BlockTagPending:
		return big.NewInt(int64(rpc.PendingBlockNumber))
	case types.BlockTagSafe:
		return big.NewInt(int64(rpc.SafeBlockNumber))
	case types.BlockTagFinalized:
		return big.NewInt(int64(rpc.FinalizedBlockNumber))
	case types.BlockTagEarliest:
		return big.NewInt(int64(rpc.EarliestBlockNumber))
	default:
		return nil
	}
}
