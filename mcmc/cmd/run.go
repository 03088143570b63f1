package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/mcmc/config"
	"github.com/sarchlab/mcmc/datarecording"
	"github.com/sarchlab/mcmc/ensemble"
	"github.com/sarchlab/mcmc/idgen"
	"github.com/sarchlab/mcmc/monitoring"
	"github.com/sarchlab/mcmc/sampler"
	"github.com/sarchlab/mcmc/tracing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one or more chains and report their statistics.",
	Long: "Settings are read from MCMC_* environment variables and an " +
		"optional .env file. Flags override them. A seed of 0 draws a " +
		"seed from the operating system.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		opts, err := runOptionsFromFlags(cmd)
		dieOnErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		var m *monitoring.Monitor
		if opts.monitor {
			m = monitoring.NewMonitor().WithPortNumber(opts.MonitorPort)
			m.StartServer()

			if opts.openBrowser {
				dieOnErr(m.OpenInBrowser())
			}
		}

		err = runChains(ctx, os.Stdout, opts, m)
		dieOnErr(err)

		if m != nil {
			fmt.Fprintf(os.Stderr,
				"Run finished. Monitoring at %s, press Ctrl+C to exit.\n",
				m.URL())
			<-ctx.Done()
			dieOnErr(m.StopServer(context.Background()))
		}
	},
}

type runOptions struct {
	config.RunConfig

	initial     float64
	hasInitial  bool
	monitor     bool
	openBrowser bool
}

var runFlags struct {
	sigma       float64
	burnIn      int
	steps       int
	maxLag      int
	seed        uint64
	chains      int
	initial     float64
	record      string
	csv         string
	monitor     bool
	monitorPort int
	openBrowser bool
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Float64Var(&runFlags.sigma, "sigma", 0,
		"Standard deviation of the proposal step.")
	f.IntVar(&runFlags.burnIn, "burn-in", 0,
		"Number of steps discarded before sampling.")
	f.IntVar(&runFlags.steps, "steps", 0,
		"Number of steps taken by each chain.")
	f.IntVar(&runFlags.maxLag, "max-lag", 0,
		"Largest lag of the autocorrelation profile.")
	f.Uint64Var(&runFlags.seed, "seed", 0,
		"Seed of the first chain. Chain i uses seed+i.")
	f.IntVar(&runFlags.chains, "chains", 0,
		"Number of independent chains.")
	f.Float64Var(&runFlags.initial, "initial", 0,
		"Starting value. Drawn from N(0,1) if unset.")
	f.StringVar(&runFlags.record, "record", "",
		"Record the run into <record>.sqlite3.")
	f.StringVar(&runFlags.csv, "csv", "",
		"Write the post burn-in steps into <csv>.csv.")
	f.BoolVar(&runFlags.monitor, "monitor", false,
		"Serve the progress of the chains over HTTP.")
	f.IntVar(&runFlags.monitorPort, "monitor-port", 0,
		"Port of the monitoring server. Implies --monitor.")
	f.BoolVar(&runFlags.openBrowser, "open-browser", false,
		"Open the monitoring server in a browser. Implies --monitor.")
}

// runOptionsFromFlags starts from the environment and applies the flags the
// user has set.
func runOptionsFromFlags(cmd *cobra.Command) (runOptions, error) {
	cfg, err := config.Load()
	if err != nil {
		return runOptions{}, err
	}

	f := cmd.Flags()

	if f.Changed("sigma") {
		cfg.Sigma = runFlags.sigma
	}

	if f.Changed("burn-in") {
		cfg.BurnIn = runFlags.burnIn
	}

	if f.Changed("steps") {
		cfg.Steps = runFlags.steps
	}

	if f.Changed("max-lag") {
		cfg.MaxLag = runFlags.maxLag
	}

	if f.Changed("seed") {
		cfg.Seed = runFlags.seed
	}

	if f.Changed("chains") {
		cfg.Chains = runFlags.chains
	}

	if f.Changed("record") {
		cfg.Record = runFlags.record
	}

	if f.Changed("csv") {
		cfg.CSV = runFlags.csv
	}

	if f.Changed("monitor-port") {
		cfg.MonitorPort = runFlags.monitorPort
	}

	opts := runOptions{
		RunConfig:   cfg,
		initial:     runFlags.initial,
		hasInitial:  f.Changed("initial"),
		openBrowser: runFlags.openBrowser,
	}
	opts.monitor = runFlags.monitor || runFlags.openBrowser ||
		f.Changed("monitor-port")

	return opts, opts.Validate()
}

// runChains builds the chains, steps them, and writes the report to out. A
// non-nil monitor watches every chain after its burn-in.
func runChains(
	ctx context.Context,
	out io.Writer,
	opts runOptions,
	m *monitoring.Monitor,
) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	seed := opts.Seed
	if seed == 0 {
		var err error

		seed, err = sampler.NewSeed()
		if err != nil {
			return err
		}
	}

	acceptance := tracing.NewAcceptanceTracer()

	b := sampler.MakeBuilder().
		WithSigma(opts.Sigma).
		WithBurnIn(opts.BurnIn).
		WithHook(tracing.NewTraceHook(acceptance))

	if opts.hasInitial {
		b = b.WithInitialValue(opts.initial)
	}

	var backend datarecording.DataRecorder
	if opts.Record != "" {
		backend = datarecording.New(opts.Record)
		defer backend.Close()

		b = b.WithHook(tracing.NewTraceHook(tracing.NewDBTracer(backend)))
	}

	if opts.CSV != "" {
		csv := tracing.NewCSVTracer(opts.CSV)
		defer csv.Close()

		b = b.WithHook(tracing.NewTraceHook(csv))
	}

	chains, err := ensemble.Build(b, opts.Chains, seed, idgen.NewSequential())
	if err != nil {
		return err
	}

	var watchers []*monitoring.ChainWatcher
	if m != nil {
		for _, c := range chains {
			w := m.Watch(c.Name(), uint64(opts.Steps))
			c.AcceptHook(w)
			watchers = append(watchers, w)
		}
	}

	realizations, err := ensemble.Run(ctx, chains, opts.Steps)

	for _, w := range watchers {
		m.CompleteProgressBar(w.ProgressBar())
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(out, "seed %d, sigma %g, burn-in %d, steps %d\n\n",
		seed, opts.Sigma, opts.BurnIn, opts.Steps)

	reports := make([]chainReport, len(chains))
	for i, c := range chains {
		reports[i], err = analyze(c.Summary(), realizations[i], opts.MaxLag)
		if err != nil {
			return err
		}

		reports[i].proposed = acceptance.Proposed(c.Name())
		reports[i].write(out)

		if backend != nil {
			tracing.RecordSummary(backend, reports[i].summary)
			tracing.RecordProfile(backend, c.Name(), reports[i].profile)
		}
	}

	if len(realizations) > 1 {
		if err := writeRHat(out, realizations); err != nil {
			return err
		}
	}

	if backend != nil {
		return backend.Close()
	}

	return nil
}
