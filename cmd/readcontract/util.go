package readcontract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartcontractkit/readcontract/abi"
	"github.com/smartcontractkit/readcontract/sdk"
	"github.com/smartcontractkit/readcontract/types"
)

// loadABI reads an ABI from a JSON array or from a Hardhat/Foundry artifact holding it
// under "abi".
func loadABI(path string) (abi.Set, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ABI: %w", err)
	}

	content = bytes.TrimSpace(content)
	if bytes.HasPrefix(content, []byte("{")) {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err = json.Unmarshal(content, &artifact); err != nil {
			return nil, fmt.Errorf("parse artifact %s: %w", path, err)
		}
		if len(artifact.ABI) == 0 {
			return nil, fmt.Errorf("artifact %s has no abi field", path)
		}
		content = artifact.ABI
	}

	set, err := abi.ParseJSON(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse ABI %s: %w", path, err)
	}

	return set, nil
}

// parseArgs turns command line arguments into call arguments. Arrays and tuples are given
// as JSON; numbers inside them keep their full precision. Anything else is passed as the
// string itself and converted by the encoder.
func parseArgs(raw []string) ([]any, error) {
	args := make([]any, 0, len(raw))
	for i, r := range raw {
		trimmed := strings.TrimSpace(r)
		if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
			args = append(args, r)
			continue
		}

		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("argument %d is not valid JSON: %w", i, err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("argument %d has trailing data after the JSON value", i)
		}

		args = append(args, plainNumbers(v))
	}

	return args, nil
}

// plainNumbers replaces json.Number by its decimal string.
func plainNumbers(v any) any {
	switch x := v.(type) {
	case json.Number:
		return x.String()
	case []any:
		for i := range x {
			x[i] = plainNumbers(x[i])
		}

		return x
	case map[string]any:
		for k := range x {
			x[k] = plainNumbers(x[k])
		}

		return x
	default:
		return v
	}
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}

	return common.HexToAddress(s), nil
}

// loadRPCURL returns flagURL when set. Otherwise it loads envFile, when present, and reads
// RPC_URL_<selector> for a non zero selector and RPC_URL else. Variables already set in the
// environment take precedence over the file.
func loadRPCURL(envFile, flagURL string, selector types.ChainSelector) (string, error) {
	if flagURL != "" {
		return flagURL, nil
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("load %s: %w", envFile, err)
	}

	key := "RPC_URL"
	if selector != 0 {
		if _, err := types.GetChainSelectorFamily(selector); err != nil {
			return "", err
		}
		key = fmt.Sprintf("RPC_URL_%d", selector)
	}

	rpcURL := os.Getenv(key)
	if rpcURL == "" {
		return "", fmt.Errorf("%s not found in the environment or %s", key, envFile)
	}

	return rpcURL, nil
}

func newLogger(verbose bool) sdk.Logger {
	if verbose {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}

	return zap.NewNop().Sugar()
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(abi.JSONValue(v), "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(out))

	return err
}
