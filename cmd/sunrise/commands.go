package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/sunrise/internal/config"
	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/discovery"
	"github.com/muurk/sunrise/internal/logging"
	"github.com/muurk/sunrise/internal/poller"
	"github.com/muurk/sunrise/internal/tui"
	"github.com/muurk/sunrise/internal/ui"
)

// requestTimeout bounds one-shot commands
const requestTimeout = 10 * time.Second

// Command flags
var (
	scanTimeout   time.Duration
	scanSave      bool
	outputFormat  string
	watchInterval time.Duration
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)

	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "How long to listen for devices (default from config, 5s)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Remember the devices found in the config file")

	statusCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Poll interval (default from config, 5s)")
}

// runRoot opens the dashboard on a terminal and prints status otherwise
func runRoot(cmd *cobra.Command, args []string) error {
	if ui.IsTerminal() {
		return runDashboard(cmd, args)
	}
	outputFormat = "compact"
	return runStatus(cmd, args)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Long: `Open the full-screen dashboard.

The device status is polled in the background. The field under the cursor is
never overwritten by a poll, so you can edit the alarm while it refreshes.`,
	Example: `  # Discover the device and open the dashboard
  sunrise dashboard

  # Use a specific device, logging to a file
  sunrise dashboard --device 192.168.1.50 --log-level debug --log-file /tmp/sunrise.log`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return errors.New("the dashboard needs an interactive terminal; try 'sunrise status' or 'sunrise watch'")
	}

	reg := loadRegistry()
	t, err := resolveTarget(cmd.Context(), reg)
	if err != nil {
		return err
	}

	logging.Info("Opening dashboard", zap.String("device", t.Address()))
	return tui.Run(cmd.Context(), tui.Options{
		Client:       t.Client(),
		Address:      t.Label(),
		PollInterval: reg.Preferences.PollIntervalDuration(),
	})
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find sunrise devices on the network",
	Long: `Browse the local network over mDNS for sunrise controllers.

The stock firmware does not advertise itself, so most setups configure the
device once with --device or config.yaml instead. Scanning finds controllers
whose firmware runs an mDNS responder publishing an "_http._tcp" service
named "sunrise..." (see name_pattern in the config).

With --save the devices found are remembered, and a single device becomes
the default.`,
	Example: `  # Scan for 5 seconds
  sunrise scan

  # Listen longer and remember what was found
  sunrise scan --timeout 15s --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()

	scanner := discovery.NewScanner()
	scanner.Timeout = reg.Preferences.DiscoverTimeoutDuration()
	if scanTimeout > 0 {
		scanner.Timeout = scanTimeout
	}
	if reg.Preferences != nil && reg.Preferences.NamePattern != "" {
		if err := scanner.SetNamePattern(reg.Preferences.NamePattern); err != nil {
			return err
		}
	}

	fmt.Printf("Scanning for sunrise devices (%s)...\n\n", scanner.Timeout)

	devices, err := scanner.ScanForDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(devices) == 0 {
		r := ui.NewWarningResult("No devices found")
		r.AddDetail("Hint", "check the lamp is powered and on this network")
		r.AddDetail("Hint", "try a longer --timeout, or pass --device <ip>")
		printResult(r)
		return nil
	}

	r := ui.NewSuccessResult(fmt.Sprintf("Found %d device(s)", len(devices)))
	for _, d := range devices {
		r.AddDetail(d.Name, d.Address())
	}
	printResult(r)

	if scanSave {
		if err := saveDevices(reg, devices); err != nil {
			return err
		}
	}
	return nil
}

// saveDevices remembers scan results under their advertised names
func saveDevices(reg *config.Registry, devices []*discovery.Device) error {
	var names []string
	for _, d := range devices {
		name := d.Name
		if name == "" {
			name = strings.TrimSuffix(d.Hostname, ".")
		}
		reg.RememberDevice(name, d.IP, d.Port)
		names = append(names, name)
	}
	if len(names) == 1 && reg.Preferences.DefaultDevice == "" {
		_ = reg.SetDefaultDevice(names[0])
	}
	if err := reg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	path, _ := reg.Path()
	fmt.Printf("Saved to %s\n", path)
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the device status",
	Example: `  sunrise status
  sunrise status --format compact
  sunrise status --device 192.168.1.50 --format json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	t, err := resolveTarget(cmd.Context(), loadRegistry())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	st, err := t.Client().Status(ctx)
	if err != nil {
		return fmt.Errorf("reading status from %s: %w", t.Address(), err)
	}

	switch outputFormat {
	case "compact":
		fmt.Println(st.FormatCompact())
	case "json":
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "detailed", "":
		fmt.Printf("Device: %s\n\n", t.Label())
		fmt.Println(st.FormatDetailed())
	default:
		return fmt.Errorf("unknown format %q (use detailed, compact or json)", outputFormat)
	}
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the device status on every poll",
	Long: `Poll the device and print one compact status line per poll until
interrupted. Failed polls print the reason and polling carries on.`,
	Example: `  sunrise watch
  sunrise watch --interval 2s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	reg := loadRegistry()
	t, err := resolveTarget(cmd.Context(), reg)
	if err != nil {
		return err
	}

	interval := reg.Preferences.PollIntervalDuration()
	if watchInterval > 0 {
		interval = watchInterval
	}

	p := poller.New(t.Client(), func(r poller.Result) {
		fmt.Println(watchLine(r))
	}, poller.WithInterval(interval))

	fmt.Printf("Watching %s every %s (Ctrl+C to stop)\n", t.Label(), p.Interval())

	if err := p.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchLine renders one poll result
func watchLine(r poller.Result) string {
	stamp := r.At.Format("15:04:05")
	if !r.OK() {
		return fmt.Sprintf("%s  unreachable: %s", stamp, device.GetShortErrorMessage(r.Err))
	}
	return stamp + "  " + r.Status.FormatCompact()
}
