package amm

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// AddLiquidity deposits amountA and amountB into the pool and mints shares
// to the caller.
//
// The first deposit mints floor(sqrt(amountA*amountB)), fixing the share
// unit scale independent of asset order. Later deposits mint
// min(amountA*totalShares/reserveA, amountB*totalShares/reserveB), so a
// badly matched deposit cannot dilute existing holders.
func (p *Pool) AddLiquidity(ctx context.Context, caller common.Address, amountA, amountB math.Int) (math.Int, error) {
	if amountA.IsNil() || amountB.IsNil() || !amountA.IsPositive() || !amountB.IsPositive() {
		return math.Int{}, fmt.Errorf("deposit amounts must be positive: %w", ErrInvalidAmount)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var minted math.Int
	if p.totalShares.IsZero() {
		product, err := safeMul(amountA, amountB)
		if err != nil {
			return math.Int{}, err
		}
		minted = intSqrt(product)
	} else {
		mintedA, err := safeMulDiv(amountA, p.totalShares, p.reserveA)
		if err != nil {
			return math.Int{}, err
		}
		mintedB, err := safeMulDiv(amountB, p.totalShares, p.reserveB)
		if err != nil {
			return math.Int{}, err
		}
		minted = math.MinInt(mintedA, mintedB)
	}
	if minted.IsZero() {
		return math.Int{}, fmt.Errorf("deposit too small to mint shares: %w", ErrInsufficientLiquidity)
	}

	newReserveA, err := safeAdd(p.reserveA, amountA)
	if err != nil {
		return math.Int{}, err
	}
	newReserveB, err := safeAdd(p.reserveB, amountB)
	if err != nil {
		return math.Int{}, err
	}
	newTotal, err := safeAdd(p.totalShares, minted)
	if err != nil {
		return math.Int{}, err
	}
	newBalance, err := safeAdd(p.balanceLocked(caller), minted)
	if err != nil {
		return math.Int{}, err
	}

	// External calls after all validation; nothing is staged yet, so an
	// early failure needs no rollback and a late one only a refund.
	if err := p.ledger.Pull(ctx, p.assetA, caller, amountA); err != nil {
		return math.Int{}, fmt.Errorf("pull %s: %v: %w", p.assetA, err, ErrTransferFailure)
	}
	if err := p.ledger.Pull(ctx, p.assetB, caller, amountB); err != nil {
		if refundErr := p.ledger.Push(ctx, p.assetA, caller, amountA); refundErr != nil {
			return math.Int{}, fmt.Errorf("pull %s: %v; refund %s also failed: %v: %w",
				p.assetB, err, p.assetA, refundErr, ErrTransferFailure)
		}
		return math.Int{}, fmt.Errorf("pull %s: %v: %w", p.assetB, err, ErrTransferFailure)
	}

	p.reserveA = newReserveA
	p.reserveB = newReserveB
	p.totalShares = newTotal
	p.shares[caller] = newBalance

	p.emitter.Emit(LiquidityAdded{
		Provider:     caller,
		AmountA:      amountA,
		AmountB:      amountB,
		SharesMinted: minted,
	})
	return minted, nil
}

// RemoveLiquidity burns shareAmount of the caller's shares and pays out the
// proportional slice of both reserves. Partial burns of a larger request
// are not attempted.
func (p *Pool) RemoveLiquidity(ctx context.Context, caller common.Address, shareAmount math.Int) (math.Int, math.Int, error) {
	if shareAmount.IsNil() || !shareAmount.IsPositive() {
		return math.Int{}, math.Int{}, fmt.Errorf("burn amount must be positive: %w", ErrInvalidAmount)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	held := p.balanceLocked(caller)
	if held.LT(shareAmount) {
		return math.Int{}, math.Int{}, fmt.Errorf("burn %s exceeds balance %s: %w", shareAmount, held, ErrInsufficientShares)
	}

	amountA, err := safeMulDiv(shareAmount, p.reserveA, p.totalShares)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	amountB, err := safeMulDiv(shareAmount, p.reserveB, p.totalShares)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	newReserveA, err := safeSub(p.reserveA, amountA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	newReserveB, err := safeSub(p.reserveB, amountB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	if err := p.ledger.Push(ctx, p.assetA, caller, amountA); err != nil {
		return math.Int{}, math.Int{}, fmt.Errorf("push %s: %v: %w", p.assetA, err, ErrTransferFailure)
	}
	if err := p.ledger.Push(ctx, p.assetB, caller, amountB); err != nil {
		if reclaimErr := p.ledger.Pull(ctx, p.assetA, caller, amountA); reclaimErr != nil {
			return math.Int{}, math.Int{}, fmt.Errorf("push %s: %v; reclaim %s also failed: %v: %w",
				p.assetB, err, p.assetA, reclaimErr, ErrTransferFailure)
		}
		return math.Int{}, math.Int{}, fmt.Errorf("push %s: %v: %w", p.assetB, err, ErrTransferFailure)
	}

	remaining := held.Sub(shareAmount)
	if remaining.IsZero() {
		delete(p.shares, caller)
	} else {
		p.shares[caller] = remaining
	}
	p.totalShares = p.totalShares.Sub(shareAmount)
	p.reserveA = newReserveA
	p.reserveB = newReserveB

	p.emitter.Emit(LiquidityRemoved{
		Provider:     caller,
		AmountA:      amountA,
		AmountB:      amountB,
		SharesBurned: shareAmount,
	})
	return amountA, amountB, nil
}

// balanceLocked reads a holder balance; callers must hold the lock.
func (p *Pool) balanceLocked(holder common.Address) math.Int {
	if shares, ok := p.shares[holder]; ok {
		return shares
	}
	return math.ZeroInt()
}
