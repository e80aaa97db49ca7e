package readcontract

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/smartcontractkit/readcontract/abi"
	"github.com/smartcontractkit/readcontract/types"
)

// ErrZeroAddress is returned when Params does not name a contract.
var ErrZeroAddress = errors.New("contract address is the zero address")

// Params describes a single read of a contract function.
type Params struct {
	// ABI holds the descriptors of the contract. Only its functions and errors are used.
	ABI     abi.Set        `validate:"required,min=1"`
	Address common.Address `json:"address"`
	// FunctionName is a bare function name or a canonical signature such as
	// "transfer(address,uint256)" selecting one overload.
	FunctionName string `json:"functionName" validate:"required"`
	Args         []any  `json:"args"`

	// Account is the sender the call is simulated from.
	Account *common.Address `json:"account,omitempty"`

	// BlockNumber and BlockTag are mutually exclusive. Leaving both unset reads the latest block.
	BlockNumber *big.Int       `json:"blockNumber,omitempty"`
	BlockTag    types.BlockTag `json:"blockTag,omitempty"`
}

// Validate checks the required fields and the block selection.
func (p Params) Validate() error {
	var validate = validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.Address == (common.Address{}) {
		return ErrZeroAddress
	}

	return p.Block().Validate()
}

// Block returns the block the read is evaluated against.
func (p Params) Block() types.BlockReference {
	return types.BlockReference{Number: p.BlockNumber, Tag: p.BlockTag}
}

// WithBlock returns a copy of p reading at block.
func (p Params) WithBlock(block types.BlockReference) Params {
	p.BlockNumber, p.BlockTag = block.Number, block.Tag

	return p
}
