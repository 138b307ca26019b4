package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sunrise/internal/config"
	"github.com/muurk/sunrise/internal/device"
	"github.com/muurk/sunrise/internal/discovery"
	"github.com/muurk/sunrise/internal/logging"
	"github.com/muurk/sunrise/internal/ui"
)

// Persistent flags
var (
	deviceAddr  string
	devicePort  int
	httpTimeout time.Duration
	logLevel    string
	logFile     string
)

// target is a resolved device
type target struct {
	Name string // configured or advertised name; empty for a bare address
	Host string
	Port int
}

// Address returns host:port for display
func (t target) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// Label is the name when there is one, else the address
func (t target) Label() string {
	if t.Name != "" {
		return t.Name + " (" + t.Address() + ")"
	}
	return t.Address()
}

// Client builds a device client for the target
func (t target) Client() *device.Client {
	c := device.NewClient(t.Host, t.Port)
	if httpTimeout > 0 {
		c.SetTimeout(httpTimeout)
	}
	return c
}

// loadRegistry reads the config file. A broken file is reported but does not
// stop commands that name a device explicitly.
func loadRegistry() *config.Registry {
	reg, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Ignoring unreadable config", zap.Error(err))
		return config.NewRegistry()
	}
	return reg
}

// resolveTarget picks the device: --device (an address or a configured
// name), then the configured default, then, when auto_discover is on, mDNS
// discovery if exactly one device answers.
func resolveTarget(ctx context.Context, reg *config.Registry) (target, error) {
	t, ok, err := resolveConfigured(reg, deviceAddr, devicePort)
	if err != nil || ok {
		return t, err
	}

	if reg.Preferences != nil && !reg.Preferences.AutoDiscover {
		return target{}, errors.New("no device configured; pass --device <host>, or set auto_discover in config.yaml if your firmware advertises over mDNS")
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = reg.Preferences.DiscoverTimeoutDuration()
	if reg.Preferences != nil && reg.Preferences.NamePattern != "" {
		if err := scanner.SetNamePattern(reg.Preferences.NamePattern); err != nil {
			return target{}, err
		}
	}

	if ui.IsTerminal() {
		fmt.Fprintf(os.Stderr, "No device specified, scanning for %s...\n", scanner.Timeout)
	}
	found, err := scanner.FindOne(ctx)
	if err != nil {
		return target{}, fmt.Errorf("discovery: %w", err)
	}

	logging.Info("Using discovered device", zap.String("device", found.String()))
	return target{Name: found.Name, Host: found.IP, Port: withPort(found.Port, devicePort)}, nil
}

// resolveConfigured handles everything that needs no network: an explicit
// address, a configured name, or the configured default
func resolveConfigured(reg *config.Registry, addr string, port int) (target, bool, error) {
	if addr != "" {
		if d := reg.GetDevice(addr); d != nil {
			host, p := d.Endpoint()
			return target{Name: addr, Host: host, Port: withPort(p, port)}, true, nil
		}
		host, p, err := splitAddress(addr)
		if err != nil {
			return target{}, false, err
		}
		return target{Host: host, Port: withPort(p, port)}, true, nil
	}

	if name, d, ok := reg.DefaultDevice(); ok {
		host, p := d.Endpoint()
		return target{Name: name, Host: host, Port: withPort(p, port)}, true, nil
	}

	return target{}, false, nil
}

// splitAddress accepts "host", "host:port" and "[v6]:port"
func splitAddress(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		// no port given
		return addr, 0, nil
	}
	p, err := strconv.Atoi(portStr)
	if err != nil || p <= 0 || p > 65535 {
		return "", 0, fmt.Errorf("invalid port in %q", addr)
	}
	return host, p, nil
}

// withPort lets --port override whatever port the source gave
func withPort(fromSource, flag int) int {
	if flag > 0 {
		return flag
	}
	if fromSource > 0 {
		return fromSource
	}
	return device.DefaultPort
}
