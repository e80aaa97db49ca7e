package readcontract

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/readcontract/abi"
	"github.com/smartcontractkit/readcontract/sdk"
	"github.com/smartcontractkit/readcontract/types"
)

// Contract binds an ABI and an address to a Caller.
type Contract struct {
	abi     abi.Set
	address common.Address
	caller  sdk.Caller
	from    *common.Address
}

func NewContract(set abi.Set, address common.Address, caller sdk.Caller) *Contract {
	return &Contract{
		abi:     set,
		address: address,
		caller:  caller,
	}
}

// From returns a copy of the contract whose reads are simulated from account.
func (c *Contract) From(account common.Address) *Contract {
	cp := *c
	cp.from = &account

	return &cp
}

func (c *Contract) Address() common.Address {
	return c.address
}

// Read calls functionName at the latest block.
func (c *Contract) Read(ctx context.Context, functionName string, args ...any) (any, error) {
	return ReadContract(ctx, c.caller, c.params(functionName, args))
}

// ReadAt calls functionName at block.
func (c *Contract) ReadAt(ctx context.Context, block types.BlockReference, functionName string, args ...any) (any, error) {
	return ReadContract(ctx, c.caller, c.params(functionName, args).WithBlock(block))
}

func (c *Contract) params(functionName string, args []any) Params {
	return Params{
		ABI:          c.abi,
		Address:      c.address,
		FunctionName: functionName,
		Args:         args,
		Account:      c.from,
	}
}
