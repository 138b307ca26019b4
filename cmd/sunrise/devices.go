package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muurk/sunrise/internal/config"
	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/ui"
)

var devicesCheck bool

func init() {
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(forgetCmd)

	devicesCmd.Flags().BoolVar(&devicesCheck, "check", false, "Ask each device for its status")
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List configured devices",
	Example: `  sunrise devices
  sunrise devices --check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printResult(listDevices(cmd.Context(), loadRegistry(), devicesCheck))
		return nil
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <name>",
	Short: "Remove a configured device",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return loadRegistry().DeviceNames(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := loadRegistry()
		if err := forgetDevice(reg, args[0]); err != nil {
			return err
		}
		printResult(ui.NewSuccessResult("Forgot " + args[0]))
		return nil
	},
}

// listDevices renders the registry, optionally pinging every device
func listDevices(ctx context.Context, reg *config.Registry, check bool) *ui.Result {
	names := reg.DeviceNames()
	if len(names) == 0 {
		r := ui.NewWarningResult("No devices configured")
		r.AddDetail("Hint", "sunrise scan --save, or pass --device <host>")
		return r
	}

	defaultName, _, _ := reg.DefaultDevice()
	r := ui.NewSuccessResult(fmt.Sprintf("%d device(s)", len(names)))
	for _, name := range names {
		host, port := reg.GetDevice(name).Endpoint()
		t := target{Name: name, Host: host, Port: withPort(port, 0)}

		line := t.Address()
		if name == defaultName {
			line += " (default)"
		}
		if check {
			line += "  " + pingLine(ctx, t.Client())
		}
		r.AddDetail(name, line)
	}
	return r
}

func pingLine(ctx context.Context, c *device.Client) string {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		return "unreachable: " + device.GetShortErrorMessage(err)
	}
	return "ok"
}

// forgetDevice removes name and saves the registry
func forgetDevice(reg *config.Registry, name string) error {
	if reg.GetDevice(name) == nil {
		return fmt.Errorf("unknown device %q", name)
	}
	reg.RemoveDevice(name)
	if err := reg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
