package p10

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var structValidator = validator.New()

// ReadConfig parameterizes the P10 read engine: resource bounds, structural
// strictness, and the fallback transfer syntax for FMI-less input.
type ReadConfig struct {
	// RequireDICMPrefix fails with ErrDicmPrefixNotPresent when the 128-byte
	// preamble isn't followed by "DICM".
	RequireDICMPrefix bool

	// RequireOrderedDataElements fails with ErrDataInvalid when a tag at the
	// current nesting level compares less than the previous one. Item and
	// sequence delimiter tags are exempt.
	RequireOrderedDataElements bool

	// DefaultTransferSyntaxUID is used when File Meta Information is absent
	// or does not specify (0002,0010).
	DefaultTransferSyntaxUID string `validate:"omitempty,max=64"`

	// MaxTokenSize bounds the length of a single DataElementValueBytes
	// chunk; larger values are split across multiple tokens. Rounded down
	// to a multiple of 8.
	MaxTokenSize int `validate:"required,gt=0"`

	// MaxStringSize bounds the total materialized length of a value whose
	// VR requires character-set transcoding, since such values cannot be
	// streamed in chunks. Must be >= MaxTokenSize.
	MaxStringSize int `validate:"required,gtefield=MaxTokenSize"`

	// MaxSequenceDepth bounds nested sequence/item depth.
	MaxSequenceDepth int `validate:"required,gt=0"`
}

// DefaultReadConfig returns the engine's out-of-the-box tuning: a DICM
// prefix is required, element ordering is enforced, Implicit VR Little
// Endian is the FMI-less fallback, and resource bounds are generous but
// finite.
func DefaultReadConfig() ReadConfig {
	return ReadConfig{
		RequireDICMPrefix:          true,
		RequireOrderedDataElements: true,
		DefaultTransferSyntaxUID:   "1.2.840.10008.1.2",
		MaxTokenSize:               1 << 20, // 1 MiB
		MaxStringSize:              1 << 24, // 16 MiB
		MaxSequenceDepth:           64,
	}
}

// Validate checks the struct tags above and normalizes MaxTokenSize down to
// a multiple of 8 per the token-chunking contract.
func (c *ReadConfig) Validate() error {
	c.MaxTokenSize -= c.MaxTokenSize % 8
	if c.MaxTokenSize <= 0 {
		return fmt.Errorf("p10: MaxTokenSize must round down to a positive multiple of 8")
	}
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("p10: invalid ReadConfig: %w", err)
	}
	return nil
}

// WriteConfig parameterizes the P10 write engine: implementation identity
// injected into File Meta Information, and deflate tuning for transfer
// syntaxes that compress.
type WriteConfig struct {
	// ImplementationClassUID overrides (0002,0012) on every write.
	ImplementationClassUID string `validate:"required,max=64"`

	// ImplementationVersionName overrides (0002,0013) on every write.
	ImplementationVersionName string `validate:"required,max=16"`

	// DeflateLevel is the compression level used when the active transfer
	// syntax is deflated (compress/flate levels, -1..9).
	DeflateLevel int `validate:"gte=-1,lte=9"`
}

// DefaultWriteConfig returns the write engine's out-of-the-box identity and
// compression tuning.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{
		ImplementationClassUID:    "1.2.826.0.1.3680043.dcmstream.1",
		ImplementationVersionName: "DCMSTREAM1",
		DeflateLevel:              6,
	}
}

// Validate checks the struct tags above.
func (c *WriteConfig) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("p10: invalid WriteConfig: %w", err)
	}
	return nil
}
