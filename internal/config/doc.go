// Package config stores the user's sunrise devices and preferences in a YAML
// file.
//
// # Configuration File Location
//
//   - $SUNRISE_CONFIG_DIR/config.yaml when the variable is set
//   - Linux: $XDG_CONFIG_HOME/sunrise/config.yaml or $HOME/.config/sunrise/config.yaml
//   - macOS: $HOME/.config/sunrise/config.yaml
//   - Windows: %LOCALAPPDATA%\sunrise\config.yaml
//
// Only device addresses and preferences are stored. The dashboard form (alarm
// times, color selection) always comes from the device and is never persisted.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	registry.RememberDevice("bedroom", "192.168.1.50", 80)
//	_ = registry.SetDefaultDevice("bedroom")
//	if err := registry.Save(); err != nil {
//	    return err
//	}
//
// Writes go to a temporary file that is renamed over the old one.
package config
