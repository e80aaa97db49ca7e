package evm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/smartcontractkit/readcontract/abi"
	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
	"github.com/smartcontractkit/readcontract/types"
)

var (
	// hexPattern matches "0x" followed by one or more hex characters
	hexPattern = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	// bytesArrayPattern matches "[[...]]" and captures the content between brackets
	bytesArrayPattern = regexp.MustCompile(`(?s)\[\[(.*)\]\]`)
	// customErrorPattern matches "custom error 0x<8-hex-chars>: <hex-data>"
	// Captures: group 1 = selector (8 hex chars), group 2 = data (hex chars with optional spaces)
	customErrorPattern = regexp.MustCompile(`custom error 0x([0-9a-fA-F]{8}):\s*([0-9a-fA-F\s]+)`)
)

const (
	selectorSize = 4
	revertPrefix = "revert:"
)

// CustomErrorData contains the error selector and its arguments separately.
type CustomErrorData struct {
	Selector [4]byte // 4-byte error selector
	Data     []byte  // Error arguments (ABI-encoded)
}

// NewCustomErrorData splits raw revert data into selector and arguments. It returns nil for
// data shorter than a selector.
func NewCustomErrorData(raw []byte) *CustomErrorData {
	if len(raw) < selectorSize {
		return nil
	}

	c := &CustomErrorData{}
	copy(c.Selector[:], raw[:selectorSize])
	c.Data = common.CopyBytes(raw[selectorSize:])

	return c
}

// MarshalJSON renders the selector/data as hex strings for readability.
func (c *CustomErrorData) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}

	payload := struct {
		Selector string `json:"selector"`
		Data     string `json:"data,omitempty"`
	}{
		Selector: hexutil.Encode(c.Selector[:]),
	}

	if len(c.Data) > 0 {
		payload.Data = hexutil.Encode(c.Data)
	}

	return json.Marshal(payload)
}

// Combined returns the full revert data (selector + data) as a byte slice.
func (c *CustomErrorData) Combined() []byte {
	if c == nil {
		return nil
	}

	return append(c.Selector[:], c.Data...)
}

// HexSelector returns the selector as a 0x-prefixed hex string, e.g. "0x08c379a0".
func (c *CustomErrorData) HexSelector() string {
	if c == nil {
		return ""
	}

	return hexutil.Encode(c.Selector[:])
}

// CallContext identifies the read whose failure is translated.
type CallContext struct {
	ABI      abi.Set
	Address  common.Address
	Function abi.Descriptor
	Args     []any
	From     *common.Address
	Block    types.BlockReference
}

// ExecutionError is a failed contract read together with what was being read and, when
// the failure carried revert data, the decoded revert reason.
type ExecutionError struct {
	// Address is the contract that was called.
	Address      common.Address
	FunctionName string
	// Signature is the canonical signature of the resolved overload.
	Signature string
	Args      []any
	// Sender is the account the call was simulated from, if any.
	Sender *common.Address
	Block  types.BlockReference
	// RevertData is the revert payload exactly as the node returned it.
	RevertData hexutil.Bytes `json:",omitempty"`
	// RawRevertReason splits RevertData into selector and arguments; nil when RevertData is
	// shorter than a selector.
	RawRevertReason *CustomErrorData
	// Revert is the decoded revert payload; nil when the failure carried no revert data.
	Revert *abi.RevertReason `json:"-"`
	// DecodedRevertReason is the human readable revert reason, e.g. "insufficient balance"
	// or "InsufficientBalance(10, 20)".
	DecodedRevertReason string
	// OriginalError is the failure reported by the caller.
	OriginalError error `json:"-"`
}

func (e *ExecutionError) Error() string {
	call := e.describeCall()

	if e.DecodedRevertReason != "" {
		return fmt.Sprintf("execution failed: %s: %v (revert reason: %s)", call, e.OriginalError, e.DecodedRevertReason)
	}
	raw := []byte(e.RevertData)
	if len(raw) == 0 {
		raw = e.RawRevertReason.Combined()
	}
	if len(raw) > 0 {
		return fmt.Sprintf("execution failed: %s: %v (raw revert data: %s)", call, e.OriginalError, hexutil.Encode(raw))
	}

	return fmt.Sprintf("execution failed: %s: %v", call, e.OriginalError)
}

func (e *ExecutionError) Unwrap() error {
	return e.OriginalError
}

// Reverted reports whether the contract reverted, as opposed to the call failing in transit.
func (e *ExecutionError) Reverted() bool {
	return e.Revert != nil || e.DecodedRevertReason != "" || len(e.RevertData) > 0 || e.RawRevertReason != nil
}

// describeCall renders e.g. "balanceOf(0x5B38...) on 0xdAC1... from 0x... at block latest".
func (e *ExecutionError) describeCall() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = fmt.Sprintf("%v", abi.JSONValue(a))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s(%s) on %s", e.FunctionName, strings.Join(args, ", "), e.Address.Hex())
	if e.Sender != nil {
		b.WriteString(" from " + e.Sender.Hex())
	}
	b.WriteString(" at block " + e.Block.String())

	return b.String()
}

// MarshalJSON renders the execution error with a stringified OriginalError for portability.
func (e *ExecutionError) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("null"), nil
	}

	type alias ExecutionError
	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		args[i] = abi.JSONValue(a)
	}

	payload := struct {
		*alias
		Args          []any  `json:"Args"`
		OriginalError string `json:"OriginalError,omitempty"`
	}{
		alias: (*alias)(e),
		Args:  args,
	}

	if e.OriginalError != nil {
		payload.OriginalError = e.OriginalError.Error()
	}

	return json.Marshal(payload)
}

// BuildExecutionError translates a failed read into an ExecutionError. The revert data
// is taken from a TransportError or an rpc.DataError in the chain of err, falling back to
// parsing the error message; it is decoded against the builtin Error and Panic reverts and
// the custom errors of cc.ABI.
func BuildExecutionError(err error, cc CallContext) *ExecutionError {
	if err == nil {
		return nil
	}

	execErr := &ExecutionError{
		Address:       cc.Address,
		FunctionName:  cc.Function.Name,
		Signature:     cc.Function.Signature(),
		Args:          cc.Args,
		Sender:        cc.From,
		Block:         cc.Block,
		OriginalError: err,
	}

	revertData := extractRevertReasonFromError(err)

	// If we have CustomErrorData directly, use it; otherwise construct from RawData
	if revertData.CustomError != nil {
		execErr.RawRevertReason = revertData.CustomError
	} else {
		execErr.RawRevertReason = NewCustomErrorData(revertData.RawData)
	}

	if raw := revertData.RawData; len(raw) > 0 {
		execErr.RevertData = common.CopyBytes(raw)
		execErr.Revert = abi.DecodeRevert(cc.ABI, raw)
		execErr.DecodedRevertReason = execErr.Revert.String()
	} else {
		execErr.DecodedRevertReason = revertData.Decoded
	}

	return execErr
}

// revertReasonData contains the raw revert data or a plain revert string found in an error
type revertReasonData struct {
	RawData     []byte           // Full revert data including selector
	Decoded     string           // Plain string revert reason when no data is available
	CustomError *CustomErrorData // CustomErrorData if extracted directly (selector + data separately)
}

// extractRevertReasonFromError finds the revert data of a failed call. Structured sources
// come first; the textual formats are only considered for errors that mention a revert.
func extractRevertReasonFromError(err error) revertReasonData {
	var transportErr *sdkerrors.TransportError
	if errors.As(err, &transportErr) && len(transportErr.Data) > 0 {
		return revertReasonData{RawData: transportErr.Data}
	}

	if data := errorData(err); len(data) > 0 {
		return revertReasonData{RawData: data}
	}

	if !isRevert(err) && !strings.Contains(err.Error(), "custom error") {
		return revertReasonData{}
	}

	errStr := err.Error()

	// Try to extract from "custom error 0x...: <hex data>" format
	if customErr := extractCustomErrorRevertData(errStr); customErr != nil {
		return revertReasonData{RawData: customErr.Combined(), CustomError: customErr}
	}

	if rawData := extractHexEncodedRevertData(errStr); len(rawData) > 0 {
		return revertReasonData{RawData: rawData}
	}

	if rawData := extractBytesArrayRevertData(errStr); len(rawData) > 0 {
		return revertReasonData{RawData: rawData}
	}

	// Plain string reverts, e.g. "execution reverted: revert: Ownable: caller is not the owner"
	if idx := strings.Index(errStr, revertPrefix); idx != -1 {
		if reason := strings.TrimSpace(errStr[idx+len(revertPrefix):]); reason != "" {
			return revertReasonData{Decoded: reason}
		}
	}

	return revertReasonData{}
}

// extractHexEncodedRevertData extracts hex-encoded revert data (0x...) from an error string.
// Returns the extracted bytes if found, nil otherwise.
func extractHexEncodedRevertData(errStr string) []byte {
	hexStr := hexPattern.FindString(errStr)
	if hexStr == "" {
		return nil
	}

	if data := common.FromHex(hexStr); len(data) > 0 {
		return data
	}

	return nil
}

// extractBytesArrayRevertData extracts bytes array format revert data from an error string.
// Format: "[[...bytes...]]" where bytes are space-separated decimal values.
// Returns the extracted bytes if found, nil otherwise.
func extractBytesArrayRevertData(errStr string) []byte {
	matches := bytesArrayPattern.FindStringSubmatch(errStr)
	if len(matches) < 2 { //nolint
		return nil
	}

	data := parseBytesFromString(matches[1])
	if len(data) > 0 {
		return data
	}

	return nil
}

// extractCustomErrorRevertData extracts revert data from the "custom error 0x...: <hex data>" format.
// Format: "execution reverted: custom error 0xcf479181: 000000000000000000000000000000000000000000000000000000000000000a…"
// Returns the error selector and data separately, or nil if not found.
func extractCustomErrorRevertData(errStr string) *CustomErrorData {
	matches := customErrorPattern.FindStringSubmatch(errStr)
	if len(matches) < 3 { //nolint
		return nil
	}

	selectorBytes := extractHexEncodedRevertData("0x" + matches[1])
	if len(selectorBytes) != selectorSize {
		return nil
	}

	dataHex := strings.Join(strings.Fields(matches[2]), "")
	data := extractHexEncodedRevertData("0x" + dataHex)
	if len(data) == 0 {
		return nil
	}

	var selector [4]byte
	copy(selector[:], selectorBytes)

	return &CustomErrorData{
		Selector: selector,
		Data:     data,
	}
}

// parseBytesFromString parses a string representation of bytes like "8 195 121 160 ..."
func parseBytesFromString(s string) []byte {
	parts := strings.Fields(s)
	if len(parts) == 0 {
		return nil
	}
	bytes := make([]byte, 0, len(parts))
	for _, part := range parts {
		if val, err := strconv.ParseUint(part, 10, 8); err == nil {
			bytes = append(bytes, byte(val))
		}
	}

	return bytes
}
