package model

// PoolStats stores per-pool totals folded from emitted events. Volume is
// gross swap input volume per asset; fee is the 0.3% slice of that volume
// retained by the pool.
type PoolStats struct {
	Pool         string `json:"pool"`
	AssetA       string `json:"asset_a"`
	AssetB       string `json:"asset_b"`
	SwapCount    uint64 `json:"swap_count"`
	VolumeA      string `json:"volume_a"`
	VolumeB      string `json:"volume_b"`
	FeeA         string `json:"fee_a"`
	FeeB         string `json:"fee_b"`
	LastReserveA string `json:"last_reserve_a"`
	LastReserveB string `json:"last_reserve_b"`
	LastSeq      uint64 `json:"last_seq"`
}
