package model

// PoolSnapshot is the persisted state of one pool after replay.
type PoolSnapshot struct {
	Pool        string `json:"pool"`
	AssetA      string `json:"asset_a"`
	AssetB      string `json:"asset_b"`
	ReserveA    string `json:"reserve_a"`
	ReserveB    string `json:"reserve_b"`
	TotalShares string `json:"total_shares"`
	LastSeq     uint64 `json:"last_seq"`
	UpdatedAt   string `json:"updated_at"`
}
