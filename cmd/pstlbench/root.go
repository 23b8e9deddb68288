package main

import (
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/23skdu/longbow-pstl/device"
	"github.com/23skdu/longbow-pstl/internal/config"
)

const (
	algoFlag        = "algo"
	sizeFlag        = "n"
	policyFlag      = "policy"
	repeatFlag      = "repeat"
	seedFlag        = "seed"
	formatFlag      = "format"
	otelFlag        = "otel"
	listenFlag      = "listen"
	maxElementsFlag = "max-elements"
)

// newRootCommand wires the subcommands. The runtime knobs are persistent
// flags bound into internal/config, so they override PSTL_* variables.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pstlbench",
		Short:         "Run parallel STL algorithms under an execution policy",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.Bind(cmd.Flags())
		},
	}

	flags := root.PersistentFlags()
	flags.Int(config.KeyWorkers, runtime.GOMAXPROCS(0), "worker goroutines of the parallel backend")
	flags.Int(config.KeyGrainSize, config.DefaultGrainSize, "smallest number of elements per parallel task")
	flags.Bool(config.KeyNoSIMD, false, "disable the vector backend")
	flags.String(config.KeyDevice, "", "device filter: cpu, gpu, accelerator, a device name, or none")
	flags.String(config.KeyLogLevel, "warn", "library log level")
	flags.Int(config.KeyMaxInFlight, 64, "kernels a device queue accepts before Submit blocks")

	root.AddCommand(newRunCommand(), newDevicesCommand(), newServeCommand())
	return root
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time one algorithm",
		Long:  "Generates random input and times the algorithm under the policy. Valid algorithms: " + strings.Join(workloadNames(), ", ") + ".",
		Args:  cobra.NoArgs,
		RunE:  runRun,
	}
	flags := cmd.Flags()
	flags.String(algoFlag, "sort", "algorithm to run")
	flags.Int(sizeFlag, 1_000_000, "number of elements")
	flags.String(policyFlag, "par", "execution policy: seq, unseq, par, par_unseq, device or fpga")
	flags.Int(repeatFlag, 3, "number of timed runs")
	flags.Uint64(seedFlag, 1, "seed of the generated input")
	flags.String(formatFlag, "text", "output format: text, cbor or arrow")
	flags.Bool(otelFlag, false, "print OpenTelemetry spans to stderr")
	return cmd
}

func runRun(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	var req RunRequest
	var err error
	if req.Algo, err = flags.GetString(algoFlag); err != nil {
		return err
	}
	if req.N, err = flags.GetInt(sizeFlag); err != nil {
		return err
	}
	if req.Policy, err = flags.GetString(policyFlag); err != nil {
		return err
	}
	if req.Repeat, err = flags.GetInt(repeatFlag); err != nil {
		return err
	}
	if req.Seed, err = flags.GetUint64(seedFlag); err != nil {
		return err
	}
	format, err := flags.GetString(formatFlag)
	if err != nil {
		return err
	}
	enableOTel, err := flags.GetBool(otelFlag)
	if err != nil {
		return err
	}

	if enableOTel {
		shutdown, err := initTracer()
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			if err := shutdown(cmd.Context()); err != nil {
				log.Warn().Err(err).Msg("Failed to flush traces")
			}
		}()
	}

	res, err := runBench(cmd.Context(), req)
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), format, res)
}

func newDevicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the devices a device policy can select",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tVENDOR\tCOMPUTE UNITS\tMAX WORK-GROUP\tEMULATED")
			for _, d := range device.Devices() {
				info := d.Info()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%t\n",
					info.Name, info.Type, info.Vendor, info.MaxComputeUnits, info.MaxWorkGroupSize, info.Emulated)
			}
			return tw.Flush()
		},
	}
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve benchmark runs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := cmd.Flags().GetString(listenFlag)
			if err != nil {
				return err
			}
			maxElements, err := cmd.Flags().GetInt64(maxElementsFlag)
			if err != nil {
				return err
			}
			enableOTel, err := cmd.Flags().GetBool(otelFlag)
			if err != nil {
				return err
			}
			if enableOTel {
				shutdown, err := initTracer()
				if err != nil {
					return fmt.Errorf("init tracer: %w", err)
				}
				defer func() { _ = shutdown(cmd.Context()) }()
			}
			return startServer(cmd.Context(), addr, benchRunner{}, maxElements)
		},
	}
	cmd.Flags().String(listenFlag, ":8080", "address to listen on")
	cmd.Flags().Int64(maxElementsFlag, 1<<26, "elements processed concurrently across requests")
	cmd.Flags().Bool(otelFlag, false, "print OpenTelemetry spans to stderr")
	return cmd
}
