package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"errors"
	"fmt"
	"slices"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// ChainSelector is a unique identifier for a chain.
//
// These values are defined in the chain-selectors dependency.
// https://github.com/smartcontractkit/chain-selectors
type ChainSelector uint64

var (
	// ErrChainFamilyNotFound is returned when the chain family is not found for a selector
	ErrChainFamilyNotFound = errors.New("chain family not found")

	// ErrUnsupportedChainFamily is returned when contract reads are not supported on the
	// chain family
	ErrUnsupportedChainFamily = errors.New("unsupported chain family")
)

// supportedFamilies lists the chain families whose contracts can be read.
var supportedFamilies = []string{
	chainsel.FamilyEVM,
}

// GetChainSelectorFamily returns the family of the chain selector.
func GetChainSelectorFamily(sel ChainSelector) (string, error) {
	family, err := chainsel.GetSelectorFamily(uint64(sel))
	if err != nil {
		return "", fmt.Errorf("%w for selector %d", ErrChainFamilyNotFound, sel)
	}

	if !slices.Contains(supportedFamilies, family) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedChainFamily, family)
	}

	return family, nil
}

// ChainName returns the name of an EVM chain selector, e.g. "ethereum-testnet-sepolia".
func ChainName(sel ChainSelector) (string, error) {
	if _, err := GetChainSelectorFamily(sel); err != nil {
		return "", err
	}

	chain, exists := chainsel.ChainBySelector(uint64(sel))
	if !exists {
		return "", fmt.Errorf("%w for selector %d", ErrChainFamilyNotFound, sel)
	}

	return chain.Name, nil
}
