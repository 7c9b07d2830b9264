package model

// EventRecord is a domain event enriched with the originating operation and
// the post-operation reserves. Amounts are decimal strings.
type EventRecord struct {
	Seq       uint64 `json:"seq"`
	Pool      string `json:"pool"`
	EventName string `json:"event_name"`
	AssetA    string `json:"asset_a"`
	AssetB    string `json:"asset_b"`
	Provider  string `json:"provider,omitempty"`
	Trader    string `json:"trader,omitempty"`
	AssetIn   string `json:"asset_in,omitempty"`
	AssetOut  string `json:"asset_out,omitempty"`
	AmountA   string `json:"amount_a,omitempty"`
	AmountB   string `json:"amount_b,omitempty"`
	AmountIn  string `json:"amount_in,omitempty"`
	AmountOut string `json:"amount_out,omitempty"`
	Shares    string `json:"shares,omitempty"`
	ReserveA  string `json:"reserve_a"`
	ReserveB  string `json:"reserve_b"`
	EmittedAt string `json:"emitted_at"`
}

// Event names as they appear on the wire.
const (
	EventLiquidityAdded   = "liquidity_added"
	EventLiquidityRemoved = "liquidity_removed"
	EventSwap             = "swap"
)
