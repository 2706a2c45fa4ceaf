package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"echogrid/internal/app"
	"echogrid/internal/config"
	"echogrid/internal/monitoring"
	"echogrid/internal/session"
)

var (
	flagDemo    bool
	flagConfig  string
	flagLogFile string
	flagVerbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "echogrid",
		Short: "echogrid - terminal object tracker with distance-driven audio",
		Long: `echogrid estimates the position of a moving object on a 2D grid from
three or more fixed range sensors and drives one audio channel per sensor,
mapping distance to volume, pitch, filter, and reverb.

Real sensing uses BLE beacons bound by MAC address (requires sudo or
CAP_NET_ADMIN). Use --demo for a built-in simulation without hardware.`,
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run with a simulated moving object (no hardware required)")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write diagnostics to this file")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Log at debug level")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	level := logrus.InfoLevel
	if flagVerbose {
		level = logrus.DebugLevel
	}
	closer, err := monitoring.Setup(flagLogFile, level)
	if err != nil {
		return err
	}
	defer closer.Close()
	monitoring.Log().WithField("demo", flagDemo).Info("starting echogrid")

	sess, err := session.New(cfg)
	if err != nil {
		return err
	}

	model := app.New(cfg, sess, flagDemo)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start the range source with a reference to the tea program.
	if err := model.StartSource(p); err != nil {
		if !flagDemo {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(os.Stderr, "BLE scanning requires elevated permissions and MAC bindings.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./echogrid")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./echogrid")
			fmt.Fprintln(os.Stderr, "  ./echogrid --demo    (simulation, no hardware needed)")
		}
		return err
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}
