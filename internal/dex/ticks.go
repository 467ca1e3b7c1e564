package dex

import "poolSnapshot/internal/model"

// NormalizeTicks maps the RPC tick table (tick index -> camelCase fields) to canonical
// tick entries. Anything other than an object yields an empty table. Snake_case names are
// accepted as well so an already-normalized table passes through unchanged.
func NormalizeTicks(raw any) map[string]model.TickEntry {
	ticks := make(map[string]model.TickEntry)

	table, ok := raw.(map[string]any)
	if !ok {
		return ticks
	}

	for index, value := range table {
		entry, _ := value.(map[string]any)
		ticks[index] = model.TickEntry{
			LiquidityGross:        tickField(entry, "liquidityGross", "liquidity_gross"),
			LiquidityNet:          tickField(entry, "liquidityNet", "liquidity_net"),
			FeeGrowthOutside0X128: model.PlaceholderFeeGrowthTick,
			FeeGrowthOutside1X128: model.PlaceholderFeeGrowthTick,
		}
	}
	return ticks
}

func tickField(entry map[string]any, name, canonical string) any {
	fields := model.RawResult(entry)
	if value, ok := fields[name]; ok {
		return value
	}
	return fields.GetOr(canonical, model.HexZero)
}
