package config

import (
	"fmt"
	"sort"
	"strings"
)

// Layout preset names.
const (
	LayoutPancake = "pancake"
	LayoutUniswap = "uniswap"
)

// StorageLayout tells the V3 pool reader where each field lives in contract storage.
// It is sent as the options parameter of the V3 call.
type StorageLayout struct {
	Slot0Slot         int `json:"slot0Slot"`
	LiquiditySlot     int `json:"liquiditySlot"`
	TicksSlot         int `json:"ticksSlot"`
	TickBitmapSlot    int `json:"tickBitmapSlot"`
	Token0Offset      int `json:"token0Offset"`
	Token1Offset      int `json:"token1Offset"`
	FeeOffset         int `json:"feeOffset"`
	TickSpacingOffset int `json:"tickSpacingOffset"`
}

var layoutPresets = map[string]StorageLayout{
	LayoutPancake: {
		Slot0Slot:         0,
		LiquiditySlot:     5,
		TicksSlot:         6,
		TickBitmapSlot:    7,
		Token0Offset:      2323,
		Token1Offset:      11276,
		FeeOffset:         11312,
		TickSpacingOffset: 11240,
	},
	LayoutUniswap: {
		Slot0Slot:         0,
		LiquiditySlot:     4,
		TicksSlot:         5,
		TickBitmapSlot:    6,
		Token0Offset:      2257,
		Token1Offset:      10528,
		FeeOffset:         10564,
		TickSpacingOffset: 10492,
	},
}

// LayoutNames lists the known presets.
func LayoutNames() []string {
	names := make([]string, 0, len(layoutPresets))
	for name := range layoutPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveLayout returns the named preset with overrides applied. Override keys use the
// same names as the RPC options (e.g. "ticksSlot").
func ResolveLayout(name string, overrides map[string]int) (StorageLayout, error) {
	layout, ok := layoutPresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return StorageLayout{}, fmt.Errorf("unknown v3 layout %q (known: %s)", name, strings.Join(LayoutNames(), ", "))
	}

	for key, value := range overrides {
		field := layout.field(key)
		if field == nil {
			return StorageLayout{}, fmt.Errorf("unknown v3 layout key %q", key)
		}
		*field = value
	}
	return layout, nil
}

func (l *StorageLayout) field(key string) *int {
	switch strings.ToLower(key) {
	case "slot0slot":
		return &l.Slot0Slot
	case "liquidityslot":
		return &l.LiquiditySlot
	case "ticksslot":
		return &l.TicksSlot
	case "tickbitmapslot":
		return &l.TickBitmapSlot
	case "token0offset":
		return &l.Token0Offset
	case "token1offset":
		return &l.Token1Offset
	case "feeoffset":
		return &l.FeeOffset
	case "tickspacingoffset":
		return &l.TickSpacingOffset
	default:
		return nil
	}
}
