package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sensitivity-calc.klederson.com/internal/app"
	"sensitivity-calc.klederson.com/internal/calc"
	"sensitivity-calc.klederson.com/internal/config"
	"sensitivity-calc.klederson.com/internal/logging"
	"sensitivity-calc.klederson.com/internal/service"
)

var (
	flagConfig string

	flagFrequency   float64
	flagBandwidth   float64
	flagDeclination string
	flagPolar       string
	flagMode        string
)

func main() {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "sens-calc",
		Short: "SENS-CALC - Terminal sensitivity calculator for ALMA observations",
		Long: `SENS-CALC keeps the parameters of an ALMA observation consistent while
you edit them, and asks the sensitivity service for the point-source
sensitivity or integration time of the 12m, 7m and Total Power arrays.

Settings are read from ~/.sens-calc.yaml, SENSCALC_* environment variables
and flags, in increasing order of precedence.
Use --demo to answer every request with a built-in radiometer model.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	computeCmd := &cobra.Command{
		Use:   "compute",
		Short: "Calculate once without the terminal UI and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return compute(cmd.Context(), v, cmd.Flags().Changed("frequency"), cmd.Flags().Changed("bandwidth"))
		},
	}
	computeCmd.Flags().Float64Var(&flagFrequency, "frequency", 345, "Observing frequency in GHz")
	computeCmd.Flags().Float64Var(&flagBandwidth, "bandwidth", 7.5, "Bandwidth in GHz")
	computeCmd.Flags().StringVar(&flagDeclination, "declination", "", "Source declination, e.g. -23:01:00")
	computeCmd.Flags().StringVar(&flagPolar, "polarisation", "dual", "Polarisation: single or dual")
	computeCmd.Flags().StringVar(&flagMode, "mode", "sensitivity", "What to calculate: sensitivity or time")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Config file (default ~/.sens-calc.yaml)")
	flags.Bool("demo", false, "Run in demo mode with a built-in radiometer model (no service required)")
	flags.String("service-url", "", "Base URL of the sensitivity service")
	flags.Duration("timeout", 0, "Timeout of a single service call")
	flags.Uint("retries", 0, "Attempts for idempotent lookups")
	flags.String("log-level", "", "Log level: trace, debug, info, warn, error")
	flags.String("log-file", "", "Log file (the UI owns the terminal)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	flags.String("units-sensitivity", "", "Sensitivity unit policy: automatic or preserve")
	flags.String("units-time", "", "Time unit policy: automatic or preserve")

	for key, name := range map[string]string{
		config.KeyDemo:        "demo",
		config.KeyServiceURL:  "service-url",
		config.KeyTimeout:     "timeout",
		config.KeyRetries:     "retries",
		config.KeyLogLevel:    "log-level",
		config.KeyLogFile:     "log-file",
		config.KeyMetricsAddr: "metrics-addr",
		config.KeySensUnits:   "units-sensitivity",
		config.KeyTimeUnits:   "units-time",
	} {
		// Unset flags fall through to the config file and environment.
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: binding --%s: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(computeCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// engine is everything a front end needs to drive the calculator.
type engine struct {
	cfg     config.Config
	store   *calc.Store
	gateway *service.Gateway
	metrics *service.Metrics
	backend string
}

func newEngine(cfg config.Config) (*engine, error) {
	logger := log.WithField("component", "service")

	var (
		client  service.Client
		backend string
	)
	if cfg.Demo {
		client, backend = service.NewDemoClient(), "demo"
	} else {
		hc := service.NewHTTPClient(cfg.Service.URL, cfg.Service.Timeout,
			service.WithRetries(cfg.Service.Retries),
			service.WithBandCacheTTL(cfg.Service.BandCacheTTL),
			service.WithLogger(logger),
		)
		client, backend = hc, hc.BaseURL()
	}

	metrics, err := service.NewMetrics(nil)
	if err != nil {
		return nil, errors.Wrap(err, "registering metrics")
	}
	gw := service.NewGateway(client,
		service.WithMetrics(metrics),
		service.WithGatewayLogger(logger),
		service.WithRequestTimeout(cfg.Service.Timeout),
	)
	store := calc.NewStore(calc.NewState(cfg.Session()), calc.WithStaleHandler(gw.Discarded))
	return &engine{cfg: cfg, store: store, gateway: gw, metrics: metrics, backend: backend}, nil
}

// serveMetrics exposes /metrics until the process exits.
func (e *engine) serveMetrics() {
	addr := e.cfg.Metrics.Addr
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.metrics.Handler())
	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := http.ListenAndServe(addr, mux); err != nil {
			logging.WithStacktrace(log.WithField("addr", addr), errors.WithStack(err)).Error("metrics server stopped")
		}
	}()
}

func setup(v *viper.Viper, logFile bool) (*engine, io.Closer, error) {
	cfg, err := config.Load(v, flagConfig)
	if err != nil {
		return nil, nil, err
	}
	path := ""
	if logFile {
		path = cfg.Log.File
	}
	closer, err := logging.Configure(cfg.Log.Level, path)
	if err != nil {
		return nil, nil, err
	}
	e, err := newEngine(cfg)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	e.serveMetrics()
	return e, closer, nil
}

func run(v *viper.Viper) error {
	e, closer, err := setup(v, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		if !v.GetBool(config.KeyDemo) {
			fmt.Fprintln(os.Stderr, "Point the calculator at a service, or try the demo:")
			fmt.Fprintln(os.Stderr, "  ./sens-calc --service-url https://host/sensitivity-calculator")
			fmt.Fprintln(os.Stderr, "  ./sens-calc --demo    (demo mode, no service needed)")
		}
		return err
	}
	defer closer.Close()

	log.WithFields(log.Fields{"backend": e.backend, "version": config.AppVersion}).Info("starting")
	model := app.New(e.store, e.gateway, e.backend, log.WithField("component", "ui"))

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)
	_, err = p.Run()
	return err
}

func compute(ctx context.Context, v *viper.Viper, freqSet, bwSet bool) error {
	e, closer, err := setup(v, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	var calculate calc.Event
	switch strings.ToLower(flagMode) {
	case "sensitivity":
		calculate = calc.CalculateSensitivity{}
	case "time":
		calculate = calc.CalculateTime{}
	default:
		return errors.Errorf("unknown mode %q: want sensitivity or time", flagMode)
	}

	events := []calc.Event{calc.Started{}}
	if flagDeclination != "" {
		events = append(events, calc.DeclinationEdited{Text: flagDeclination}, calc.DeclinationCommitted{Text: flagDeclination})
	}
	if freqSet {
		events = append(events, calc.FrequencyEdited{Value: flagFrequency})
	}
	if bwSet {
		events = append(events, calc.BandwidthEdited{Value: flagBandwidth})
	}
	events = append(events, calc.PolarisationChanged{Polarisation: polarisation(flagPolar)}, calculate)

	sess := app.NewSession(e.store, e.gateway, config.HistorySize, log.WithField("component", "compute"))
	s := sess.Run(ctx, events...)
	if problems := calc.Validate(s).Problems(); len(problems) > 0 {
		log.WithField("problems", strings.Join(problems, "; ")).Warn("some parameters are invalid")
	}
	fmt.Print(app.Summary(s))
	return nil
}

func polarisation(s string) calc.Polarisation {
	if strings.EqualFold(s, "single") {
		return calc.Single
	}
	return calc.ParsePolarisation(s)
}
