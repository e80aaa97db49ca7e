package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"github.com/ethereum/go-ethereum/common"
)

// CallRequest is a read-only message call as submitted to a node.
type CallRequest struct {
	// To is the contract being read.
	To common.Address
	// Data is the ABI encoded calldata, selector first.
	Data []byte
	// From is the optional sender the call is simulated from.
	From *common.Address
	// Block is the state the call is evaluated against.
	Block BlockReference
}
