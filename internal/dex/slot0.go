package dex

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"poolSnapshot/internal/model"
)

// Slot0 word layout, big-endian byte offsets.
const (
	slot0WordSize   = 32
	slot0TickStart  = 9
	slot0TickEnd    = 12
	slot0PriceStart = 12
	slot0PriceEnd   = 32
)

const (
	MinTick = -1 << 23
	MaxTick = 1<<23 - 1
)

// Slot0 holds the fields decoded from a pool's packed slot0 word.
type Slot0 struct {
	SqrtPriceX96 *uint256.Int
	Tick         int32
	// FeeProtocol is always model.PlaceholderFeeProtocol; its byte is not parsed.
	FeeProtocol string
}

// DecodeSlot0 decodes a hex-encoded slot0 word. The 0x prefix is optional.
// It returns false when the input is not valid hex or is shorter than 32 bytes.
func DecodeSlot0(input string) (Slot0, bool) {
	word, err := decodeHex(input)
	if err != nil || len(word) < slot0WordSize {
		return Slot0{}, false
	}

	return Slot0{
		SqrtPriceX96: new(uint256.Int).SetBytes(word[slot0PriceStart:slot0PriceEnd]),
		Tick:         int24FromBytes(word[slot0TickStart:slot0TickEnd]),
		FeeProtocol:  model.PlaceholderFeeProtocol,
	}, true
}

// Model converts the decoded fields into the document form.
func (s Slot0) Model() model.Slot0 {
	sqrt := "0"
	if s.SqrtPriceX96 != nil {
		sqrt = s.SqrtPriceX96.ToBig().String()
	}
	return model.Slot0{
		FeeProtocol:  s.FeeProtocol,
		Tick:         strconv.FormatInt(int64(s.Tick), 10),
		SqrtPriceX96: sqrt,
	}
}

// Slot0Model decodes input and returns the document form, or the empty slot0 when
// the word cannot be decoded.
func Slot0Model(input string) model.Slot0 {
	decoded, ok := DecodeSlot0(input)
	if !ok {
		return model.Slot0{}
	}
	return decoded.Model()
}

func decodeHex(input string) ([]byte, error) {
	input = strings.TrimPrefix(strings.TrimPrefix(input, "0x"), "0X")
	return hexutil.Decode("0x" + input)
}

// int24FromBytes reads a 3-byte big-endian two's-complement integer.
func int24FromBytes(b []byte) int32 {
	u := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	return int32(u<<8) >> 8
}
