package types //nolint:revive,nolintlint // allow pkg name 'types'

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
)

// BlockTag names a block relative to the head of the chain.
type BlockTag string

const (
	BlockTagLatest    BlockTag = "latest"
	BlockTagPending   BlockTag = "pending"
	BlockTagSafe      BlockTag = "safe"
	BlockTagFinalized BlockTag = "finalized"
	BlockTagEarliest  BlockTag = "earliest"
)

var blockTags = []BlockTag{BlockTagLatest, BlockTagPending, BlockTagSafe, BlockTagFinalized, BlockTagEarliest}

var (
	// ErrInvalidBlockTag is returned for a tag that is not one of the BlockTag constants.
	ErrInvalidBlockTag = errors.New("invalid block tag")

	// ErrInvalidBlockReference is returned when a block reference is malformed.
	ErrInvalidBlockReference = errors.New("invalid block reference")
)

// Validate checks that the tag is known.
func (t BlockTag) Validate() error {
	if !slices.Contains(blockTags, t) {
		return fmt.Errorf("%w: %q", ErrInvalidBlockTag, string(t))
	}

	return nil
}

// BlockReference selects the chain state a read is evaluated against: either a block
// number or a tag. The zero value refers to the latest block.
type BlockReference struct {
	Number *big.Int
	Tag    BlockTag
}

// LatestBlock refers to the latest block.
func LatestBlock() BlockReference {
	return BlockReference{}
}

// BlockAt refers to the block with the given number.
func BlockAt(number *big.Int) BlockReference {
	return BlockReference{Number: number}
}

// BlockWithTag refers to the block named by tag.
func BlockWithTag(tag BlockTag) BlockReference {
	return BlockReference{Tag: tag}
}

// IsLatest reports whether the reference resolves to the latest block.
func (b BlockReference) IsLatest() bool {
	return b.Number == nil && (b.Tag == "" || b.Tag == BlockTagLatest)
}

// Validate checks that at most one of Number and Tag is set, that Number is not negative
// and that Tag is known.
func (b BlockReference) Validate() error {
	if b.Number != nil && b.Tag != "" {
		return fmt.Errorf("%w: block number %s and block tag %q are mutually exclusive",
			ErrInvalidBlockReference, b.Number, string(b.Tag))
	}

	if b.Number != nil && b.Number.Sign() < 0 {
		return fmt.Errorf("%w: negative block number %s", ErrInvalidBlockReference, b.Number)
	}

	if b.Tag != "" {
		return b.Tag.Validate()
	}

	return nil
}

// String returns the decimal block number or the tag name.
func (b BlockReference) String() string {
	switch {
	case b.Number != nil:
		return b.Number.String()
	case b.Tag != "":
		return string(b.Tag)
	default:
		return string(BlockTagLatest)
	}
}

// ParseBlockReference parses a tag name or a decimal or 0x-prefixed block number. The
// empty string refers to the latest block.
func ParseBlockReference(s string) (BlockReference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LatestBlock(), nil
	}

	tag := BlockTag(strings.ToLower(s))
	if slices.Contains(blockTags, tag) {
		return BlockWithTag(tag), nil
	}

	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return BlockReference{}, fmt.Errorf("%w: %q is neither a block number nor a block tag", ErrInvalidBlockReference, s)
	}

	ref := BlockAt(n)

	return ref, ref.Validate()
}

// MarshalText implements encoding.TextMarshaler.
func (b BlockReference) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BlockReference) UnmarshalText(text []byte) error {
	ref, err := ParseBlockReference(string(text))
	if err != nil {
		return err
	}
	*b = ref

	return nil
}
