package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"dexamm/internal/ledger"
)

// Genesis seeds the in-memory asset ledger before replay.
type Genesis struct {
	Balances []GenesisBalance `json:"balances"`
}

// GenesisBalance credits one holder with one asset amount.
type GenesisBalance struct {
	Asset  string `json:"asset"`
	Holder string `json:"holder"`
	Amount string `json:"amount"`
}

// LoadGenesis reads a genesis balances file.
func LoadGenesis(path string) (Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("read genesis: %w", err)
	}
	var genesis Genesis
	if err := json.Unmarshal(data, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("parse genesis: %w", err)
	}
	return genesis, nil
}

// SeedLedger credits every genesis balance into the ledger.
func SeedLedger(target *ledger.InMemory, genesis Genesis) error {
	for i, balance := range genesis.Balances {
		asset, err := parseAddress(balance.Asset)
		if err != nil {
			return fmt.Errorf("genesis balance %d: %w", i, err)
		}
		holder, err := parseAddress(balance.Holder)
		if err != nil {
			return fmt.Errorf("genesis balance %d: %w", i, err)
		}
		amount, ok := math.NewIntFromString(balance.Amount)
		if !ok || amount.IsNegative() {
			return fmt.Errorf("genesis balance %d: invalid amount: %s", i, balance.Amount)
		}
		target.Credit(asset, holder, amount)
	}
	return nil
}

func parseAddress(input string) (common.Address, error) {
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}
