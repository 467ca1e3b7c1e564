// Package snapshot turns raw pool-reader RPC results into canonical pool snapshots.
package snapshot

import (
	"math/big"
	"strings"

	"poolSnapshot/internal/dex"
	"poolSnapshot/internal/model"
)

// RPC result field names.
const (
	fieldBlockNumber = "blockNumber"
	fieldAddress     = "address"
	fieldToken0      = "token0"
	fieldToken1      = "token1"
	fieldReserve0    = "reserve0"
	fieldReserve1    = "reserve1"
	fieldFee         = "fee"
	fieldTickSpacing = "tickSpacing"
	fieldLiquidity   = "liquidity"
	fieldTickBitmap  = "tickBitmap"
	fieldTicks       = "ticks"
	fieldSlot0       = "slot0"
)

// Assemble builds the snapshot document for one pool. Missing fields fall back to
// their defaults; it never fails. Callers pass a protocol accepted by
// model.Protocol.Valid; any other value is assembled as a V2 pair.
func Assemble(protocol model.Protocol, raw model.RawResult, stateBlock uint64) model.PoolSnapshot {
	var store model.Store
	switch protocol {
	case model.ProtocolV2:
		store = assembleV2(raw)
	case model.ProtocolV3:
		store = assembleV3(raw)
	default:
		protocol = model.ProtocolV2
		store = assembleV2(raw)
	}

	return model.PoolSnapshot{
		StateBlock: stateBlock,
		Pool: model.Pool{
			Store:    store,
			Address:  raw.GetOr(fieldAddress, ""),
			Token0:   raw.GetOr(fieldToken0, ""),
			Token1:   raw.GetOr(fieldToken1, ""),
			Dex:      model.DexPancake,
			Protocol: string(protocol),
		},
	}
}

// AssembleResult parses the block number from raw and assembles the snapshot.
func AssembleResult(protocol model.Protocol, raw model.RawResult) model.PoolSnapshot {
	return Assemble(protocol, raw, ParseStateBlock(raw))
}

func assembleV2(raw model.RawResult) model.V2Store {
	return model.V2Store{
		Reserve0: raw.GetOr(fieldReserve0, model.HexZero),
		Reserve1: raw.GetOr(fieldReserve1, model.HexZero),
		Fee:      model.V2PairFee,
	}
}

func assembleV3(raw model.RawResult) model.V3Store {
	slot0, _ := raw.GetString(fieldSlot0)

	return model.V3Store{
		Fee:         raw.GetOr(fieldFee, model.HexZero),
		TickSpacing: raw.GetOr(fieldTickSpacing, model.HexZero),
		Liquidity:   raw.GetOr(fieldLiquidity, model.HexZero),
		TickBitmap:  raw.GetOr(fieldTickBitmap, map[string]any{}),
		Ticks:       dex.NormalizeTicks(raw.GetOr(fieldTicks, nil)),
		Slot0:       dex.Slot0Model(slot0),
		ProtocolFees: model.ProtocolFees{
			Token0: model.PlaceholderProtocolFee,
			Token1: model.PlaceholderProtocolFee,
		},
		FeeGrowthGlobal0X128: model.PlaceholderFeeGrowthGlobal,
		FeeGrowthGlobal1X128: model.PlaceholderFeeGrowthGlobal,
	}
}

// ParseStateBlock reads the hex blockNumber field. Anything missing, malformed or
// wider than 64 bits yields 0.
func ParseStateBlock(raw model.RawResult) uint64 {
	value, ok := raw.GetString(fieldBlockNumber)
	if !ok {
		return 0
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if digits == "" {
		return 0
	}
	number, ok := new(big.Int).SetString(digits, 16)
	if !ok || number.Sign() < 0 || !number.IsUint64() {
		return 0
	}
	return number.Uint64()
}
