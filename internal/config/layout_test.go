package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLayoutPresets(t *testing.T) {
	pancake, err := ResolveLayout("pancake", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, pancake.LiquiditySlot)
	assert.Equal(t, 11312, pancake.FeeOffset)

	uniswap, err := ResolveLayout(" Uniswap ", nil)
	require.NoError(t, err)
	assert.Equal(t, StorageLayout{
		Slot0Slot:         0,
		LiquiditySlot:     4,
		TicksSlot:         5,
		TickBitmapSlot:    6,
		Token0Offset:      2257,
		Token1Offset:      10528,
		FeeOffset:         10564,
		TickSpacingOffset: 10492,
	}, uniswap)
}

func TestResolveLayoutOverrides(t *testing.T) {
	layout, err := ResolveLayout("pancake", map[string]int{"ticksslot": 9, "feeOffset": 1})
	require.NoError(t, err)
	assert.Equal(t, 9, layout.TicksSlot)
	assert.Equal(t, 1, layout.FeeOffset)
	assert.Equal(t, 7, layout.TickBitmapSlot)

	_, err = ResolveLayout("pancake", map[string]int{"bogus": 1})
	assert.Error(t, err)
}

func TestResolveLayoutUnknown(t *testing.T) {
	_, err := ResolveLayout("sushi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pancake, uniswap")
}

func TestStorageLayoutOptionsJSON(t *testing.T) {
	layout, err := ResolveLayout(LayoutPancake, nil)
	require.NoError(t, err)

	data, err := json.Marshal(layout)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"slot0Slot": 0,
		"liquiditySlot": 5,
		"ticksSlot": 6,
		"tickBitmapSlot": 7,
		"token0Offset": 2323,
		"token1Offset": 11276,
		"feeOffset": 11312,
		"tickSpacingOffset": 11240
	}`, string(data))
}
