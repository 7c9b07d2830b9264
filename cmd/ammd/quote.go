package main

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"dexamm/internal/amm"
)

func runQuote(cmd *cobra.Command, _ []string) error {
	amountIn, err := intFlag(cmd, "amount-in")
	if err != nil {
		return err
	}
	reserveIn, err := intFlag(cmd, "reserve-in")
	if err != nil {
		return err
	}
	reserveOut, err := intFlag(cmd, "reserve-out")
	if err != nil {
		return err
	}

	amountOut, err := amm.Quote(amountIn, reserveIn, reserveOut)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), amountOut.String())
	return nil
}

func intFlag(cmd *cobra.Command, name string) (math.Int, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return math.Int{}, err
	}
	value, ok := math.NewIntFromString(raw)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return value, nil
}
