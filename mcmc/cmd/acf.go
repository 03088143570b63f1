package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/mcmc/autocorr"
	"github.com/sarchlab/mcmc/datarecording"
	"github.com/sarchlab/mcmc/tracing"
)

var acfFlags struct {
	maxLag int
	chain  string
}

var acfCmd = &cobra.Command{
	Use:   "acf <file.sqlite3>",
	Short: "Print the autocorrelation of the chains in a recorded run.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printRecordedProfiles(
			cmd.Context(), os.Stdout, args[0], acfFlags.chain, acfFlags.maxLag)
		dieOnErr(err)
	},
}

func init() {
	rootCmd.AddCommand(acfCmd)

	acfCmd.Flags().IntVar(&acfFlags.maxLag, "max-lag", 200,
		"Largest lag of the autocorrelation profile.")
	acfCmd.Flags().StringVar(&acfFlags.chain, "chain", "",
		"Only analyze the named chain.")
}

// printRecordedProfiles recomputes the profile of every recorded chain, or of
// the named one, from its stored steps.
func printRecordedProfiles(
	ctx context.Context,
	out io.Writer,
	filename string,
	chain string,
	maxLag int,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	reader, err := datarecording.NewReader(filename)
	if err != nil {
		return err
	}
	defer reader.Close()

	chains := []string{chain}
	if chain == "" {
		chains, err = tracing.ReadChains(ctx, reader)
		if err != nil {
			return err
		}
	}

	for _, c := range chains {
		x, err := tracing.ReadRealization(ctx, reader, c)
		if err != nil {
			return err
		}

		lag := min(maxLag, len(x)-1)

		profile, err := autocorr.Autocorrelation(x, lag)
		if err != nil {
			return err
		}

		tau, err := autocorr.IntegratedTime(profile)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "%s (%d steps, integrated time %.2f)\n",
			c, len(x), tau)
		writeProfile(out, profile)
		fmt.Fprintln(out)
	}

	return nil
}
