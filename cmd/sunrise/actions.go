package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/sunrise/internal/colormodel"
	"github.com/muurk/sunrise/internal/control"
	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/logging"
	"github.com/muurk/sunrise/internal/reconcile"
	"github.com/muurk/sunrise/internal/timemath"
	"github.com/muurk/sunrise/internal/ui"
)

// Action command flags
var (
	onHex         string
	startDuration time.Duration
	startFrom     string
	startTo       string
	alarmStart    string
	alarmEnd      string
	alarmDisabled bool
	alarmEnabled  bool
	noVerify      bool
)

func init() {
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(presetCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(setAlarmCmd)
	rootCmd.AddCommand(setOffsetCmd)

	onCmd.Flags().StringVar(&onHex, "hex", "", "Color as #rrggbb instead of r g b arguments")

	startCmd.Flags().DurationVar(&startDuration, "duration", 0, "Ramp length (e.g. 45m)")
	startCmd.Flags().StringVar(&startFrom, "from", "", "Ramp length from this time (HH:MM)...")
	startCmd.Flags().StringVar(&startTo, "to", "", "...to this time (HH:MM)")

	setAlarmCmd.Flags().StringVar(&alarmStart, "start", "", "Ramp start time (HH:MM)")
	setAlarmCmd.Flags().StringVar(&alarmEnd, "end", "", "Full brightness time (HH:MM)")
	setAlarmCmd.Flags().BoolVar(&alarmDisabled, "disabled", false, "Store the alarm disabled")
	setAlarmCmd.Flags().BoolVar(&alarmEnabled, "enabled", false, "Only enable the alarm, keeping its schedule")
	setAlarmCmd.MarkFlagsMutuallyExclusive("disabled", "enabled")

	for _, c := range []*cobra.Command{setAlarmCmd, setOffsetCmd} {
		c.Flags().BoolVar(&noVerify, "no-verify", false, "Skip reading the status back after saving")
	}
}

var onCmd = &cobra.Command{
	Use:   "on [<r> <g> <b>]",
	Short: "Turn the light on in a color",
	Long: `Turn the light on at full brightness in the given color.

Channels are 0-255. With no arguments the first preset (sunrise) is used.`,
	Example: `  sunrise on 255 60 10
  sunrise on --hex "#ff8c00"`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 3 {
			return fmt.Errorf("expected r g b, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: runOn,
}

func runOn(cmd *cobra.Command, args []string) error {
	handlers := control.NewHandlers(nil)

	switch {
	case onHex != "" && len(args) > 0:
		return fmt.Errorf("use either --hex or r g b, not both")
	case onHex != "":
		handlers.CustomSelected()
		if err := handlers.PickerInput(onHex); err != nil {
			return err
		}
	case len(args) == 3:
		r, g, b, err := parseRGB(args)
		if err != nil {
			return err
		}
		handlers.Selection().SetRGB(r, g, b)
	}

	action := handlers.TurnOn()
	return runAction(cmd, action, "Light on", ui.Detail{Key: "Color", Value: handlers.Selection().Hex()})
}

// parseRGB reads three 0-255 channels
func parseRGB(args []string) (r, g, b uint8, err error) {
	var ch [3]uint8
	for i, name := range []string{"r", "g", "b"} {
		v, err := strconv.ParseUint(args[i], 10, 8)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid %s value %q (expected 0-255)", name, args[i])
		}
		ch[i] = uint8(v)
	}
	return ch[0], ch[1], ch[2], nil
}

var presetCmd = &cobra.Command{
	Use:   "preset <name>",
	Short: "Turn the light on in a preset color",
	Long:  "Turn the light on in a preset color.\n\nPresets: " + presetList(),
	Example: `  sunrise preset warm
  sunrise preset amber`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: presetIDs(),
	RunE: func(cmd *cobra.Command, args []string) error {
		handlers := control.NewHandlers(nil)
		action, err := handlers.PresetSelected(args[0])
		if err != nil {
			return fmt.Errorf("%w (available: %s)", err, strings.Join(presetIDs(), ", "))
		}
		return runAction(cmd, action, "Light on", ui.Detail{Key: "Preset", Value: args[0]},
			ui.Detail{Key: "Color", Value: handlers.Selection().Hex()})
	},
}

func presetIDs() []string {
	var ids []string
	for _, s := range colormodel.Presets() {
		ids = append(ids, s.ID)
	}
	return ids
}

func presetList() string {
	var parts []string
	for _, s := range colormodel.Presets() {
		parts = append(parts, fmt.Sprintf("%s (%s)", s.ID, s.Hex()))
	}
	return strings.Join(parts, ", ")
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a sunrise ramp now",
	Long: `Start ramping the light up now.

The ramp lasts --duration, or the time between --from and --to (an end at or
before the start wraps to the next day). Without either it lasts one hour.`,
	Example: `  sunrise start
  sunrise start --duration 30m
  sunrise start --from 06:30 --to 07:15`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	action, err := startAction(startDuration, startFrom, startTo)
	if err != nil {
		return err
	}
	ms, _ := strconv.ParseInt(action.Request.Get("time"), 10, 64)
	return runAction(cmd, action, "Ramp started", ui.Detail{Key: "Duration", Value: timemath.FormatDuration(ms)})
}

// startAction builds the /start request from the flags. Unlike the
// dashboard, bad input is an error rather than the one hour default.
func startAction(duration time.Duration, from, to string) (*control.Action, error) {
	handlers := control.NewHandlers(nil)

	switch {
	case duration > 0 && (from != "" || to != ""):
		return nil, fmt.Errorf("use either --duration or --from/--to")
	case duration < 0:
		return nil, fmt.Errorf("duration must be positive")
	case duration > 0 && duration < time.Millisecond:
		// the firmware divides by the ramp length in ms
		return nil, fmt.Errorf("duration must be at least 1ms")
	case duration > 0:
		return &control.Action{
			Kind:        control.KindStart,
			Request:     device.StartRequest(duration.Milliseconds()),
			RepollAfter: control.StartSettle,
		}, nil
	case from != "" || to != "":
		if _, err := timemath.RampDuration(from, to); err != nil {
			return nil, fmt.Errorf("--from/--to: %w", err)
		}
	}

	return handlers.StartRamp(reconcile.Form{StartTime: from, EndTime: to}), nil
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop any ramp and turn the light off",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, control.NewHandlers(nil).Stop(), "Light off")
	},
}

var setAlarmCmd = &cobra.Command{
	Use:   "set-alarm",
	Short: "Set the alarm schedule",
	Long: `Store the daily alarm on the device.

--start is when the ramp begins and --end when it reaches full brightness.
An end at or before the start means the next day. Pass --enabled or
--disabled alone to switch the alarm without changing its times.`,
	Example: `  sunrise set-alarm --start 06:30 --end 07:15
  sunrise set-alarm --start 06:30 --end 07:15 --disabled
  sunrise set-alarm --enabled`,
	Args: cobra.NoArgs,
	RunE: runSetAlarm,
}

func runSetAlarm(cmd *cobra.Command, args []string) error {
	action, err := alarmAction(alarmStart, alarmEnd, alarmEnabled, alarmDisabled)
	if err != nil {
		return err
	}

	var details []ui.Detail
	if alarmStart != "" {
		d, _ := timemath.RampDuration(alarmStart, alarmEnd)
		details = append(details,
			ui.Detail{Key: "Start", Value: timemath.FormatMs(mustClock(alarmStart))},
			ui.Detail{Key: "Ramp", Value: timemath.FormatDuration(d)})
	}
	enabled := "yes"
	if action.Request.Get("enabled") == "0" {
		enabled = "no"
	}
	details = append(details, ui.Detail{Key: "Enabled", Value: enabled})

	return runAction(cmd, action, "Alarm saved", details...)
}

// alarmAction builds the /setalarm request for the flags
func alarmAction(start, end string, enable, disable bool) (*control.Action, error) {
	if start == "" && end == "" {
		if !enable && !disable {
			return nil, fmt.Errorf("nothing to set: pass --start and --end, or --enabled/--disabled")
		}
		on := enable
		return &control.Action{
			Kind:    control.KindSaveAlarm,
			Request: device.AlarmUpdate{Enabled: &on}.Request(),
			Ack:     control.AckText,
		}, nil
	}

	if start == "" || end == "" {
		return nil, fmt.Errorf("both --start and --end are needed")
	}
	for _, v := range []string{start, end} {
		if _, err := timemath.ParseClock(v); err != nil {
			return nil, fmt.Errorf("%q: %w", v, err)
		}
	}

	action := control.NewHandlers(nil).SaveAlarm(reconcile.Form{
		StartTime: start,
		EndTime:   end,
		Enabled:   !disable,
	})
	if action == nil {
		return nil, fmt.Errorf("invalid alarm times %s-%s", start, end)
	}
	return action, nil
}

func mustClock(s string) int64 {
	ms, _ := timemath.ParseClock(s)
	return ms
}

var setOffsetCmd = &cobra.Command{
	Use:   "set-offset <hours>",
	Short: "Set the device's UTC offset",
	Long: fmt.Sprintf(`Set the device timezone as a whole number of hours from UTC (%d to %+d).

Negative values need "--" so they are not read as flags.`, control.MinOffsetHours, control.MaxOffsetHours),
	Example: `  sunrise set-offset 1
  sunrise set-offset -- -5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := parseOffset(args[0])
		if err != nil {
			return err
		}
		action := control.NewHandlers(nil).SaveSettings(reconcile.Form{UTCOffsetHours: hours})
		return runAction(cmd, action, "Settings saved", ui.Detail{Key: "UTC offset", Value: fmt.Sprintf("%+dh", hours)})
	},
}

// parseOffset reads "+2", "2" or "-5" and checks the range
func parseOffset(s string) (int, error) {
	h, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSuffix(s, "h"), "+"))
	if err != nil || !control.ValidOffsetHours(h) {
		return 0, fmt.Errorf("invalid offset %q (whole hours, %d to %+d)", s, control.MinOffsetHours, control.MaxOffsetHours)
	}
	return h, nil
}

// runAction sends one action and prints the outcome. Saves are read back
// from /status unless --no-verify is set.
func runAction(cmd *cobra.Command, action *control.Action, title string, details ...ui.Detail) error {
	t, err := resolveTarget(cmd.Context(), loadRegistry())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	out.PrintHeader(ui.NewHeader(cmd.Short, cmd.CommandPath(), ui.Detail{Key: "Device", Value: t.Label()}))

	client := t.Client()
	logging.Debug("Sending action",
		zap.Stringer("kind", action.Kind),
		zap.String("url", client.URL(action.Request)))

	if err := client.Do(ctx, action.Request); err != nil {
		return fmt.Errorf("%s on %s: %w", action.Kind, t.Address(), err)
	}

	if action.Ack != "" && !noVerify {
		if err := verifySave(ctx, client, action); err != nil {
			return err
		}
	}

	r := ui.NewSuccessResult(title)
	r.AddDetail("Device", t.Label())
	for _, d := range details {
		r.AddDetail(d.Key, d.Value)
	}
	printResult(r)
	return nil
}

// verifySave reads the status back until it shows the saved values
func verifySave(ctx context.Context, client *device.Client, action *control.Action) error {
	update, err := device.AlarmUpdateFromRequest(action.Request)
	if err != nil {
		return err
	}

	res := client.VerifyAlarm(ctx, update, nil)
	if res.Success {
		logging.Debug("Save verified", zap.Int("attempts", res.Attempts))
		return nil
	}

	w := ui.NewWarningResult("Saved, but the device reports different values")
	for _, m := range res.Mismatches {
		w.AddDetail("Mismatch", m)
	}
	printResult(w)
	return fmt.Errorf("verification failed after %d attempt(s): %w", res.Attempts, res.Error)
}
