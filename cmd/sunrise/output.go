package main

import (
	"errors"

	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/ui"
)

// out prints command headers and results to stdout
var out = ui.NewPrinter(nil)

// printResult writes a result box, styled on a terminal and plain otherwise
func printResult(r *ui.Result) {
	out.PrintResult(r)
}

// renderError formats a command failure. Device errors get a short message
// and troubleshooting tips.
func renderError(err error) string {
	var devErr *device.DeviceError
	if !errors.As(err, &devErr) {
		return "Error: " + err.Error()
	}

	r := ui.NewFailureResult(device.GetShortErrorMessage(err), err, ui.HintLines(device.GetTroubleshootingHint(err)))
	return out.ResultString(r)
}
