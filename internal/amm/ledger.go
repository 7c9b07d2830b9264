package amm

import (
	"context"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// AssetLedger is the external custodian of asset balances. The pool never
// touches balances directly; it only requests transfers.
//
// Pull moves amount of asset from the caller's account into pool escrow and
// fails if the caller lacks balance or authorization. Push moves amount of
// asset from pool escrow to the recipient and fails if escrow is short.
// Both calls are synchronous and must either fully apply or fully fail.
type AssetLedger interface {
	Pull(ctx context.Context, asset, from common.Address, amount math.Int) error
	Push(ctx context.Context, asset, to common.Address, amount math.Int) error
}
