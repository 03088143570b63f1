package tracing

import (
	"context"
	"fmt"

	"github.com/sarchlab/mcmc/datarecording"
)

// ReadChains returns the sorted names of the chains that have recorded steps.
// Runs that stopped before writing their summaries are listed as well.
func ReadChains(ctx context.Context, reader datarecording.DataReader) ([]string, error) {
	reader.MapTable(StepTable, StepEntry{})

	rows, _, err := reader.Query(ctx, StepTable, datarecording.QueryParams{
		Columns:  []string{"Chain"},
		Distinct: true,
		OrderBy:  "Chain ASC",
	})
	if err != nil {
		return nil, fmt.Errorf("read chains: %w", err)
	}

	chains := make([]string, 0, len(rows))
	for _, r := range rows {
		chains = append(chains, r.(StepEntry).Chain)
	}

	return chains, nil
}

// ReadRealization returns the post burn-in values of a chain in step order.
func ReadRealization(
	ctx context.Context,
	reader datarecording.DataReader,
	chain string,
) ([]float64, error) {
	reader.MapTable(StepTable, StepEntry{})

	rows, _, err := reader.Query(ctx, StepTable, datarecording.QueryParams{
		Where:   "Chain = ? AND BurnIn = 0",
		Args:    []any{chain},
		OrderBy: "Step ASC",
	})
	if err != nil {
		return nil, fmt.Errorf("read chain %s: %w", chain, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("chain %s has no recorded steps", chain)
	}

	x := make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.(StepEntry).Value
	}

	return x, nil
}
