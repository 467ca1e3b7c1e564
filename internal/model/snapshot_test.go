package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestV2StoreJSON(t *testing.T) {
	data, err := json.Marshal(V2Store{Reserve0: "0x1", Reserve1: "0x2", Fee: V2PairFee})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"v2","protocol":"V2Pair","reserve0":"0x1","reserve1":"0x2","fee":2500}`, string(data))
}

func TestV3StoreJSONEmptyTicks(t *testing.T) {
	data, err := json.Marshal(V3Store{
		Fee:                  "0x64",
		TickSpacing:          "0x1",
		Liquidity:            "0x0",
		TickBitmap:           map[string]any{},
		ProtocolFees:         ProtocolFees{Token0: PlaceholderProtocolFee, Token1: PlaceholderProtocolFee},
		FeeGrowthGlobal0X128: PlaceholderFeeGrowthGlobal,
		FeeGrowthGlobal1X128: PlaceholderFeeGrowthGlobal,
	})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "v3", doc["version"])
	assert.Equal(t, "V3Pool", doc["protocol"])
	assert.Equal(t, map[string]any{}, doc["ticks"])
	assert.Equal(t, map[string]any{}, doc["slot0"])
	assert.Equal(t, "0x0", doc["fee_growth_global_0x128"])
}

func TestStoreVersions(t *testing.T) {
	stores := []Store{V2Store{}, V3Store{}}
	assert.Equal(t, StoreVersionV2, stores[0].StoreVersion())
	assert.Equal(t, StoreVersionV3, stores[1].StoreVersion())
}

func TestSlot0IsZero(t *testing.T) {
	assert.True(t, Slot0{}.IsZero())
	assert.False(t, Slot0{Tick: "0"}.IsZero())
}
