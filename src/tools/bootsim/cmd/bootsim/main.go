package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"awaken/src/boot/exception"
	"awaken/src/hardware/rpi"
	"awaken/src/lib/trust"
	"awaken/src/tools/bootsim"
)

var errBootFailed = errors.New("boot did not complete")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	v           *viper.Viper
	configFile  string
	verbosity   int
	development bool
	log         logr.Logger
}

func newRootCommand() *cobra.Command {
	o := &options{v: bootsim.NewViper(), log: logr.Discard()}
	root := &cobra.Command{
		Use:          "bootsim",
		Short:        "Boot a simulated Raspberry Pi 3 through the awaken boot path",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			log, err := trust.NewZapLogr(o.verbosity, o.development)
			if err != nil {
				return err
			}
			o.log = log
			return nil
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&o.configFile, "config", "c", "", "YAML configuration file")
	pf.IntVarP(&o.verbosity, "verbosity", "v", 0, "0 terse, 1 debug info, 2 show everything")
	pf.BoolVar(&o.development, "development", false, "human readable log output")

	root.AddCommand(newSimulateCommand(o), newDecodeCommand(), newTableCommand(o))
	return root
}

func newSimulateCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Boot every core and print a YAML report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := bootsim.Load(o.v, o.configFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			m := bootsim.NewMetrics()
			report, err := bootsim.Simulate(ctx, cfg, o.log, m)
			if err != nil {
				return err
			}
			if err := report.Write(cmd.OutOrStdout()); err != nil {
				return err
			}
			if cfg.MetricsAddr != "" {
				if err := serveMetrics(ctx, cfg.MetricsAddr, m, o.log); err != nil {
					return err
				}
			}
			if !report.OK() {
				return errBootFailed
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("variant", bootsim.VariantAArch64, "aarch64 or aarch32")
	f.String("level", "EL2", "exception level (aarch64) or CPSR mode (aarch32) the firmware enters with")
	f.Int("cores", rpi.CoreCount, "number of cores")
	f.Bool("multi-core", true, "release the secondary cores")
	f.Duration("settle-delay", 10*time.Millisecond, "console settle delay")
	f.Duration("timeout", 2*time.Second, "give up on a boot after this long")
	f.Bool("trace", false, "include the system register trace of every core")
	f.String("metrics-addr", "", "serve prometheus metrics on this address until interrupted")
	for key, name := range map[string]string{
		"variant":     "variant",
		"level":       "level",
		"cores":       "cores",
		"multiCore":   "multi-core",
		"settleDelay": "settle-delay",
		"timeout":     "timeout",
		"trace":       "trace",
		"metricsAddr": "metrics-addr",
	} {
		if err := o.v.BindPFlag(key, f.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func serveMetrics(ctx context.Context, addr string, m *bootsim.Metrics, log logr.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newDecodeCommand() *cobra.Command {
	var r exception.Record
	var typeName string
	cmd := &cobra.Command{
		Use:   "decode [diagnostic line]",
		Short: "Classify an exception given by flags or by its diagnostic line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				parsed, ok := exception.ParseDiagnostic(args[0])
				if !ok {
					return fmt.Errorf("not an exception diagnostic: %q", args[0])
				}
				r = parsed
			} else {
				t, ok := exception.TypeByName(typeName)
				if !ok {
					return fmt.Errorf("unknown exception type %q", typeName)
				}
				r.Type = t
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(bootsim.Decode(r))
		},
	}
	f := cmd.Flags()
	f.StringVarP(&typeName, "type", "t", exception.CurrentElSpxSync.String(), "exception type name")
	f.Uint64Var(&r.ESR, "esr", 0, "exception syndrome register")
	f.Uint64Var(&r.SPSR, "spsr", 0, "saved program status register")
	f.Uint64Var(&r.FAR, "far", 0, "fault address register")
	f.Uint64Var(&r.ELR, "elr", 0, "exception link register")
	return cmd
}

func newTableCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "table [base]",
		Short: "Build the translation table of the configured variant and list its regions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootsim.Load(o.v, o.configFile)
			if err != nil {
				return err
			}
			base := cfg.TableBase
			if len(args) == 1 {
				if base, err = strconv.ParseUint(args[0], 0, 64); err != nil {
					return fmt.Errorf("table base: %w", err)
				}
			}
			regions, err := bootsim.Table(cfg.Variant, base)
			if err != nil {
				return err
			}
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(bootsim.Regions(regions))
		},
	}
}
