package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if got != dir {
		t.Errorf("GetConfigDir() = %v, want %v", got, dir)
	}
}

func TestGetConfigDir_Default(t *testing.T) {
	t.Setenv(EnvConfigDir, "")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if !strings.Contains(configDir, "sunrise") {
		t.Errorf("GetConfigDir() = %v, should contain 'sunrise'", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil || reg.Preferences == nil {
		t.Fatal("Devices and Preferences should be initialized")
	}
	if reg.Preferences.AutoDiscover {
		t.Error("AutoDiscover should be off by default")
	}
	if reg.Preferences.PollIntervalDuration() != 5*time.Second {
		t.Errorf("PollIntervalDuration() = %v", reg.Preferences.PollIntervalDuration())
	}
}

func TestPreferences_Defaults(t *testing.T) {
	var nilPrefs *Preferences
	if nilPrefs.PollIntervalDuration() != DefaultPollIntervalSeconds*time.Second {
		t.Error("nil preferences should give the default poll interval")
	}

	p := &Preferences{PollInterval: 2, DiscoverTimeout: -1}
	if p.PollIntervalDuration() != 2*time.Second {
		t.Errorf("PollIntervalDuration() = %v", p.PollIntervalDuration())
	}
	if p.DiscoverTimeoutDuration() != DefaultDiscoverTimeoutSeconds*time.Second {
		t.Errorf("DiscoverTimeoutDuration() = %v", p.DiscoverTimeoutDuration())
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	d1 := reg.EnsureDevice("bedroom")
	if d1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}
	if d2 := reg.EnsureDevice("bedroom"); d1 != d2 {
		t.Error("EnsureDevice() should return the same instance for the same name")
	}
	if d3 := reg.EnsureDevice("kitchen"); d1 == d3 {
		t.Error("EnsureDevice() should create a new instance for a different name")
	}
}

func TestRegistryRememberDevice(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.RememberDevice("bedroom", "192.168.1.50", 0)
	after := time.Now()

	d := reg.GetDevice("bedroom")
	if d == nil {
		t.Fatal("device should exist after RememberDevice()")
	}
	host, port := d.Endpoint()
	if host != "192.168.1.50" || port != 80 {
		t.Errorf("Endpoint() = %s:%d", host, port)
	}
	if d.LastSeen.Before(before) || d.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", d.LastSeen, before, after)
	}
}

func TestRegistryDefaultDevice(t *testing.T) {
	reg := NewRegistry()

	if _, _, ok := reg.DefaultDevice(); ok {
		t.Error("empty registry should have no default")
	}

	reg.RememberDevice("bedroom", "10.0.0.2", 80)
	if name, _, ok := reg.DefaultDevice(); !ok || name != "bedroom" {
		t.Errorf("single device should be the default, got %q %v", name, ok)
	}

	reg.RememberDevice("kitchen", "10.0.0.3", 80)
	if _, _, ok := reg.DefaultDevice(); ok {
		t.Error("two devices and no preference should have no default")
	}

	if err := reg.SetDefaultDevice("attic"); err == nil {
		t.Error("SetDefaultDevice() accepted an unknown name")
	}
	if err := reg.SetDefaultDevice("kitchen"); err != nil {
		t.Fatalf("SetDefaultDevice() error = %v", err)
	}
	if name, d, ok := reg.DefaultDevice(); !ok || name != "kitchen" || d.Address != "10.0.0.3" {
		t.Errorf("DefaultDevice() = %q %+v %v", name, d, ok)
	}

	reg.RemoveDevice("kitchen")
	if reg.Preferences.DefaultDevice != "" {
		t.Error("removing the default device should clear the preference")
	}
	if got := reg.DeviceNames(); len(got) != 1 || got[0] != "bedroom" {
		t.Errorf("DeviceNames() = %v", got)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() missing file error = %v", err)
	}
	reg.RememberDevice("bedroom", "192.168.1.50", 8080).Nickname = "Bedroom"
	if err := reg.SetDefaultDevice("bedroom"); err != nil {
		t.Fatal(err)
	}
	reg.Preferences.PollInterval = 3

	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	d := loaded.GetDevice("bedroom")
	if d == nil {
		t.Fatal("device missing after reload")
	}
	if d.Address != "192.168.1.50" || d.Port != 8080 || d.Nickname != "Bedroom" {
		t.Errorf("loaded device = %+v", d)
	}
	if loaded.Preferences.DefaultDevice != "bedroom" || loaded.Preferences.PollInterval != 3 {
		t.Errorf("loaded preferences = %+v", loaded.Preferences)
	}
}

func TestParseRegistry(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "minimal",
			yaml: "version: 1\n",
		},
		{
			name: "devices",
			yaml: "version: 1\ndevices:\n  bedroom:\n    address: 10.0.0.2\n",
		},
		{
			name:    "wrong version",
			yaml:    "version: 2\n",
			wantErr: true,
		},
		{
			name:    "device without address",
			yaml:    "version: 1\ndevices:\n  bedroom:\n    port: 80\n",
			wantErr: true,
		},
		{
			name:    "not yaml",
			yaml:    "version: [\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := parseRegistry([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRegistry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (reg.Devices == nil || reg.Preferences == nil) {
				t.Error("parseRegistry() should fill in missing sections")
			}
		})
	}
}

func TestLoadRegistry_UsesConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	data := "version: 1\ndevices:\n  lamp:\n    address: sunrise.local\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatal(err)
	}
	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.GetDevice("lamp") == nil {
		t.Error("registry not read from SUNRISE_CONFIG_DIR")
	}
	if p, _ := reg.Path(); p != filepath.Join(dir, "config.yaml") {
		t.Errorf("Path() = %v", p)
	}
}
