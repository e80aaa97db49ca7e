// package evmsim implements a simulated EVM chain for testing purposes.
package evmsim

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	gethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/readcontract/sdk/evm"
)

const (
	// DefaultGasLimit is the block gas limit of the simulated chain
	DefaultGasLimit = uint64(8000000)

	// DefaultBalance is the default balance for each account in the simulated chain
	DefaultBalance = 1e18

	// SimulatedChainID is the chain ID used for the simulated chain. EVM Simulated chains always use 1337
	//
	// https://pkg.go.dev/github.com/ethereum/go-ethereum/ethclient/simulated#NewBackend
	SimulatedChainID = 1337

	// codeCopyPrefixSize is the length of the code preceding the payload in ReturnDataCode and
	// RevertCode.
	codeCopyPrefixSize = 15
)

// EVM opcodes used by the generated contracts.
const (
	opPush1    = 0x60
	opPush2    = 0x61
	opPush32   = 0x7f
	opMstore   = 0x52
	opCodecopy = 0x39
	opReturn   = 0xf3
	opRevert   = 0xfd
)

// SimulatedChain represents a simulated chain with a backend and a list of funded accounts.
type SimulatedChain struct {
	Backend  *simulated.Backend
	Accounts []*Account
}

// Account represents a funded account with a private key. Reads may be simulated from it.
type Account struct {
	PrivateKey *ecdsa.PrivateKey
}

// Address extracts the address from the account's private key.
func (a *Account) Address(t *testing.T) common.Address {
	t.Helper()

	publicKeyECDSA, ok := a.PrivateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		t.Fatal("error casting public key from crypto to ecdsa")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA)
}

// NewSimulatedChain creates a new simulated chain with numAccounts funded accounts and the
// given runtime code installed at each address of contracts in the genesis block.
func NewSimulatedChain(t *testing.T, numAccounts uint64, contracts map[common.Address][]byte) SimulatedChain {
	t.Helper()

	accounts := make([]*Account, 0, numAccounts)
	for range numAccounts {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)

		accounts = append(accounts, &Account{PrivateKey: key})
	}

	genesisAlloc := gethTypes.GenesisAlloc{}
	for _, a := range accounts {
		genesisAlloc[a.Address(t)] = gethTypes.Account{
			Balance: big.NewInt(DefaultBalance),
		}
	}
	for addr, code := range contracts {
		genesisAlloc[addr] = gethTypes.Account{
			Code:    code,
			Balance: new(big.Int),
		}
	}

	sim := simulated.NewBackend(genesisAlloc,
		simulated.WithBlockGasLimit(DefaultGasLimit),
	)
	t.Cleanup(func() {
		require.NoError(t, sim.Close())
	})

	return SimulatedChain{
		Backend:  sim,
		Accounts: accounts,
	}
}

// Caller returns an evm.ClientCaller reading from the simulated chain.
func (s *SimulatedChain) Caller(opts ...evm.CallerOption) *evm.ClientCaller {
	return evm.NewClientCaller(s.Backend.Client(), opts...)
}

// ReturnWordCode is runtime code that returns value as a single 32 byte word whatever the
// calldata, e.g. the result of a uint256 getter.
func ReturnWordCode(value *big.Int) []byte {
	code := []byte{opPush32}
	code = append(code, math.U256Bytes(new(big.Int).Set(value))...)

	return append(code,
		opPush1, 0x00, opMstore, // mstore(0, value)
		opPush1, 0x20, opPush1, 0x00, opReturn, // return(0, 32)
	)
}

// ReturnDataCode is runtime code that returns data whatever the calldata. data is typically
// the ABI encoding of a function's outputs.
func ReturnDataCode(data []byte) []byte {
	return codeCopyThen(opReturn, data)
}

// RevertCode is runtime code that reverts with data whatever the calldata, e.g. an
// Error(string) payload or a custom error.
func RevertCode(data []byte) []byte {
	return codeCopyThen(opRevert, data)
}

// codeCopyThen copies data, which is appended to the code, into memory and ends execution
// with op over it.
func codeCopyThen(op byte, data []byte) []byte {
	size := len(data)
	if size > 0xffff {
		panic("evmsim: payload larger than 65535 bytes")
	}
	hi, lo := byte(size>>8), byte(size) //nolint:gosec // bounded above

	code := []byte{
		opPush2, hi, lo, // size
		opPush2, 0x00, codeCopyPrefixSize, // offset of data in the code
		opPush1, 0x00, // destination in memory
		opCodecopy,
		opPush2, hi, lo, // size
		opPush1, 0x00, // offset in memory
		op,
	}

	return append(code, data...)
}
