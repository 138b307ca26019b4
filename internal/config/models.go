package config

import (
	"fmt"
	"sort"
	"time"
)

// Defaults applied when a preference is missing or zero
const (
	DefaultPollIntervalSeconds    = 5
	DefaultDiscoverTimeoutSeconds = 5
)

// Registry is the whole user configuration file.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by a user-chosen name
	Preferences *Preferences       `yaml:"preferences,omitempty"`

	// path is where Save writes; empty means the default location
	path string
}

// Device is a remembered sunrise controller.
type Device struct {
	Address  string    `yaml:"address"`             // Host name or IP
	Port     int       `yaml:"port,omitempty"`      // HTTP port, 80 when zero
	Nickname string    `yaml:"nickname,omitempty"`  // Shown in the dashboard header
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last successful discovery or connection
}

// Endpoint returns the address and the port with the default applied.
func (d *Device) Endpoint() (string, int) {
	if d.Port == 0 {
		return d.Address, 80
	}
	return d.Address, d.Port
}

// Preferences are application-wide settings.
type Preferences struct {
	DefaultDevice   string `yaml:"default_device,omitempty"` // Name in Devices used when --device is absent
	PollInterval    int    `yaml:"poll_interval"`            // Dashboard status poll period in seconds
	DiscoverTimeout int    `yaml:"discover_timeout"`         // mDNS discovery timeout in seconds
	AutoDiscover    bool   `yaml:"auto_discover"`            // Fall back to mDNS when no device is configured; off by default
	NamePattern     string `yaml:"name_pattern,omitempty"`   // Overrides the discovery name filter
}

// PollIntervalDuration returns the poll period, defaulted when unset
func (p *Preferences) PollIntervalDuration() time.Duration {
	if p == nil || p.PollInterval <= 0 {
		return DefaultPollIntervalSeconds * time.Second
	}
	return time.Duration(p.PollInterval) * time.Second
}

// DiscoverTimeoutDuration returns the discovery timeout, defaulted when unset
func (p *Preferences) DiscoverTimeoutDuration() time.Duration {
	if p == nil || p.DiscoverTimeout <= 0 {
		return DefaultDiscoverTimeoutSeconds * time.Second
	}
	return time.Duration(p.DiscoverTimeout) * time.Second
}

func defaultPreferences() *Preferences {
	return &Preferences{
		PollInterval:    DefaultPollIntervalSeconds,
		DiscoverTimeout: DefaultDiscoverTimeoutSeconds,
	}
}

// NewRegistry creates a Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// GetDevice returns a remembered device, or nil.
func (r *Registry) GetDevice(name string) *Device {
	return r.Devices[name]
}

// EnsureDevice returns the named entry, creating an empty one if needed.
func (r *Registry) EnsureDevice(name string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}
	if device, exists := r.Devices[name]; exists {
		return device
	}
	device := &Device{}
	r.Devices[name] = device
	return device
}

// RememberDevice records where a device was last reached.
func (r *Registry) RememberDevice(name, address string, port int) *Device {
	device := r.EnsureDevice(name)
	device.Address = address
	device.Port = port
	device.LastSeen = time.Now()
	return device
}

// RemoveDevice forgets a device and clears it as default.
func (r *Registry) RemoveDevice(name string) {
	delete(r.Devices, name)
	if r.Preferences != nil && r.Preferences.DefaultDevice == name {
		r.Preferences.DefaultDevice = ""
	}
}

// SetDefaultDevice selects the device used when none is named.
func (r *Registry) SetDefaultDevice(name string) error {
	if r.GetDevice(name) == nil {
		return fmt.Errorf("unknown device %q", name)
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	r.Preferences.DefaultDevice = name
	return nil
}

// DefaultDevice returns the configured default device, if any. A registry
// holding exactly one device treats it as the default.
func (r *Registry) DefaultDevice() (string, *Device, bool) {
	if r.Preferences != nil && r.Preferences.DefaultDevice != "" {
		if d := r.GetDevice(r.Preferences.DefaultDevice); d != nil {
			return r.Preferences.DefaultDevice, d, true
		}
	}
	if len(r.Devices) == 1 {
		for name, d := range r.Devices {
			return name, d, true
		}
	}
	return "", nil, false
}

// DeviceNames lists remembered devices alphabetically.
func (r *Registry) DeviceNames() []string {
	names := make([]string, 0, len(r.Devices))
	for name := range r.Devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
