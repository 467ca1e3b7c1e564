package model

import "encoding/json"

const (
	// HexZero is the canonical zero for numeric RPC fields, which are carried as hex strings.
	HexZero = "0x0"

	DexPancake = "Pancake"

	// V2PairFee is fixed for every V2 pair; the RPC does not report it.
	V2PairFee = 2500

	StoreVersionV2  = "v2"
	StoreVersionV3  = "v3"
	StoreProtocolV2 = "V2Pair"
	StoreProtocolV3 = "V3Pool"
)

// The fields below are emitted as constants. None of them is decoded from chain state yet:
// feeProtocol lives in the slot0 word but is not parsed, and the fee-growth accumulators and
// protocol fee balances are not requested from the RPC at all.
const (
	PlaceholderFeeProtocol     = HexZero
	PlaceholderFeeGrowthGlobal = HexZero
	PlaceholderFeeGrowthTick   = HexZero
	PlaceholderProtocolFee     = HexZero
)

// PoolSnapshot is the canonical document written for one pool.
type PoolSnapshot struct {
	StateBlock uint64 `json:"state_block"`
	Pool       Pool   `json:"pool"`
}

// Pool wraps the protocol store with the fields shared by every protocol.
type Pool struct {
	Store    Store  `json:"store"`
	Address  any    `json:"address"`
	Token0   any    `json:"token0"`
	Token1   any    `json:"token1"`
	Dex      string `json:"dex"`
	Protocol string `json:"protocol"`
}

// Store is implemented only by V2Store and V3Store.
type Store interface {
	StoreVersion() string
	isStore()
}

// V2Store is the store section of a V2 pair snapshot.
type V2Store struct {
	Reserve0 any    `json:"reserve0"`
	Reserve1 any    `json:"reserve1"`
	Fee      uint32 `json:"fee"`
}

func (V2Store) StoreVersion() string { return StoreVersionV2 }
func (V2Store) isStore()             {}

// MarshalJSON adds the fixed version and protocol tags.
func (s V2Store) MarshalJSON() ([]byte, error) {
	type alias V2Store
	return json.Marshal(struct {
		Version  string `json:"version"`
		Protocol string `json:"protocol"`
		alias
	}{s.StoreVersion(), StoreProtocolV2, alias(s)})
}

// V3Store is the store section of a V3 pool snapshot.
type V3Store struct {
	Fee                  any                  `json:"fee"`
	TickSpacing          any                  `json:"tick_spacing"`
	Liquidity            any                  `json:"liquidity"`
	TickBitmap           any                  `json:"tick_bitmap"`
	Ticks                map[string]TickEntry `json:"ticks"`
	Slot0                Slot0                `json:"slot0"`
	ProtocolFees         ProtocolFees         `json:"protocol_fees"`
	FeeGrowthGlobal0X128 string               `json:"fee_growth_global_0x128"`
	FeeGrowthGlobal1X128 string               `json:"fee_growth_global_1x128"`
}

func (V3Store) StoreVersion() string { return StoreVersionV3 }
func (V3Store) isStore()             {}

// MarshalJSON adds the fixed version and protocol tags.
func (s V3Store) MarshalJSON() ([]byte, error) {
	type alias V3Store
	if s.Ticks == nil {
		s.Ticks = map[string]TickEntry{}
	}
	return json.Marshal(struct {
		Version  string `json:"version"`
		Protocol string `json:"protocol"`
		alias
	}{s.StoreVersion(), StoreProtocolV3, alias(s)})
}

// Slot0 is the decoded slot0 section. The zero value encodes as {}.
type Slot0 struct {
	FeeProtocol  string `json:"fee_protocol,omitempty"`
	Tick         string `json:"tick,omitempty"`
	SqrtPriceX96 string `json:"sqrt_price_x96,omitempty"`
}

// IsZero reports whether slot0 could not be decoded.
func (s Slot0) IsZero() bool {
	return s == Slot0{}
}

// TickEntry is the canonical per-tick record.
type TickEntry struct {
	LiquidityGross        any    `json:"liquidity_gross"`
	LiquidityNet          any    `json:"liquidity_net"`
	FeeGrowthOutside0X128 string `json:"fee_growth_outside_0x128"`
	FeeGrowthOutside1X128 string `json:"fee_growth_outside_1x128"`
}

// ProtocolFees holds the accrued protocol fees per token.
type ProtocolFees struct {
	Token0 string `json:"token0"`
	Token1 string `json:"token1"`
}

// SnapshotRecord is what the sinks receive: the document plus the key it is stored under.
type SnapshotRecord struct {
	Protocol Protocol
	Address  string
	Snapshot PoolSnapshot
}
