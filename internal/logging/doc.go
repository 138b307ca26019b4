// Package logging provides structured logging for the sunrise CLI.
//
// The package wraps a global zap logger. It is silent by default: nothing is
// written unless a level is given with --log-level or SUNRISE_LOG_LEVEL.
//
//	if err := logging.InitializeWithFile("debug", "/tmp/sunrise.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// While the dashboard is running the terminal belongs to bubbletea, so log
// output should go to a file (--log-file or SUNRISE_LOG_FILE).
//
// Device traffic is logged through LogDeviceCall:
//
//	logging.LogDeviceCall("/start?time=3600000", 42*time.Millisecond, nil)
package logging
