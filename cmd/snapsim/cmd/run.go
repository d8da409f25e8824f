package cmd

import (
	"fmt"
	"io"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/snapsim/config"
	"github.com/sarchlab/snapsim/doublemult"
	"github.com/sarchlab/snapsim/snap"
	"github.com/sarchlab/snapsim/tracing"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	runMode    string
	runTraceDB string
	runDump    bool
	runMonitor bool
)

var runCmd = &cobra.Command{
	Use:   "run <job.yaml>",
	Short: "Run a double mult job described in a YAML file.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jf, err := config.LoadJobFile(args[0])
		if err != nil {
			return err
		}

		modeName := jf.Mode
		if cmd.Flags().Changed("mode") {
			modeName = runMode
		}

		mode, err := doublemult.ParseMode(modeName)
		if err != nil {
			return err
		}

		traceDB := settings.TraceDB
		if cmd.Flags().Changed("trace-db") {
			traceDB = runTraceDB
		}

		var monitor *monitoring.Monitor
		if runMonitor {
			monitor = monitoring.NewMonitor()
		}

		return runJob(cmd.OutOrStdout(), jf, mode, traceDB, runDump, monitor)
	},
}

func runJob(
	w io.Writer,
	jf *config.JobFile,
	mode doublemult.Mode,
	traceDB string,
	dump bool,
	monitor *monitoring.Monitor,
) error {
	types, err := jf.BufferTypes()
	if err != nil {
		return err
	}

	builder := config.MakeCardBuilder().
		WithMemoryCapacity(settings.MemCapacity).
		WithMode(mode)

	if monitor != nil {
		builder = builder.WithMonitor(monitor)
	}

	if traceDB != "" {
		recorder := tracing.NewSQLiteJobRecorder(traceDB)
		if err := recorder.Init(); err != nil {
			return err
		}
		atexit.Register(func() { _ = recorder.Close() })

		builder = builder.WithObserver(recorder)
	}

	card, err := builder.Build("Card")
	if err != nil {
		return err
	}

	if monitor != nil {
		monitor.StartServer()
	}

	res, err := card.RunDoublesWithTypes(jf.Input, types)
	if res != nil && dump {
		snap.DumpDescriptor(w, res.Job.Descriptor)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(w, "job %s (%s, %s mode): retc %s\n",
		jf.Name, res.Job.ID, mode.Name(), res.Job.Retc.Name())
	for i, v := range res.Output {
		fmt.Fprintf(w, "out[%d] = %g\n", i, v)
	}

	return nil
}

func init() {
	runCmd.Flags().StringVar(&runMode, "mode", "copy",
		"Processing mode: copy or multiply.")
	runCmd.Flags().StringVar(&runTraceDB, "trace-db", "",
		"Record executed jobs into this SQLite database (without suffix).")
	runCmd.Flags().BoolVar(&runDump, "dump", false,
		"Print the job descriptor after the job completes.")
	runCmd.Flags().BoolVar(&runMonitor, "monitor", false,
		"Serve the akita monitor for the card while the job runs.")

	rootCmd.AddCommand(runCmd)
}
