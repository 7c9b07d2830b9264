package model

// Operation kinds accepted by the replay runner.
const (
	OpCreatePool      = "create_pool"
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwap            = "swap"
)

// OperationRecord is one submitted pool operation. Amount fields are
// decimal strings; unused fields stay empty depending on the op kind.
type OperationRecord struct {
	Seq         uint64 `json:"seq"`
	Op          string `json:"op"`
	Caller      string `json:"caller"`
	AssetA      string `json:"asset_a"`
	AssetB      string `json:"asset_b"`
	AmountA     string `json:"amount_a,omitempty"`
	AmountB     string `json:"amount_b,omitempty"`
	Shares      string `json:"shares,omitempty"`
	AmountIn    string `json:"amount_in,omitempty"`
	Direction   string `json:"direction,omitempty"`
	SubmittedAt string `json:"submitted_at,omitempty"`
}
