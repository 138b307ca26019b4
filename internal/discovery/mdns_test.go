package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	e := zeroconf.NewServiceEntry(instance, ServiceType, ServiceDomain)
	e.HostName = host
	e.Port = port
	e.AddrIPv4 = v4
	e.AddrIPv6 = v6
	e.Text = txt
	return e
}

func ips(s ...string) []net.IP {
	out := make([]net.IP, 0, len(s))
	for _, v := range s {
		out = append(out, net.ParseIP(v))
	}
	return out
}

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantIP   string
		wantPort int
	}{
		{
			name:     "instance name matches",
			entry:    entry("sunrise-bedroom", "esp-4a1f.local.", 80, ips("192.168.4.16"), nil),
			wantIP:   "192.168.4.16",
			wantPort: 80,
		},
		{
			name:     "hostname matches",
			entry:    entry("Alarm", "sunrise.local.", 8080, ips("10.0.0.5"), nil),
			wantIP:   "10.0.0.5",
			wantPort: 8080,
		},
		{
			name:     "case insensitive",
			entry:    entry("Sunrise Lamp", "", 80, ips("10.0.0.6"), nil),
			wantIP:   "10.0.0.6",
			wantPort: 80,
		},
		{
			name:     "no port defaults to 80",
			entry:    entry("sunrise", "sunrise.local.", 0, ips("172.16.0.1"), nil),
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name:    "other http service",
			entry:   entry("printer", "printer.local.", 80, ips("192.168.1.1"), nil),
			wantNil: true,
		},
		{
			name:    "no names at all",
			entry:   entry("", "", 80, ips("192.168.1.1"), nil),
			wantNil: true,
		},
		{
			name:    "no address",
			entry:   entry("sunrise", "sunrise.local.", 80, nil, nil),
			wantNil: true,
		},
		{
			name:     "IPv6 only",
			entry:    entry("sunrise", "sunrise.local.", 80, nil, ips("fe80::1")),
			wantIP:   "fe80::1",
			wantPort: 80,
		},
		{
			name:     "prefers IPv4",
			entry:    entry("sunrise", "sunrise.local.", 80, ips("192.168.1.50"), ips("fe80::2")),
			wantIP:   "192.168.1.50",
			wantPort: 80,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}
			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want device")
			}

			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.Name != tt.entry.Instance || device.Hostname != tt.entry.HostName {
				t.Errorf("names = %q/%q, want %q/%q", device.Name, device.Hostname, tt.entry.Instance, tt.entry.HostName)
			}
			if time.Since(device.DiscoveredAt) > time.Second {
				t.Errorf("device.DiscoveredAt is not recent: %v", device.DiscoveredAt)
			}
		})
	}
}

func TestScanner_parseServiceEntry_Metadata(t *testing.T) {
	scanner := NewScanner()

	device := scanner.parseServiceEntry(entry("sunrise", "sunrise.local.", 80, ips("192.168.4.16"), nil,
		"path=/", "fw=2.1", "flag", "eq=a=b"))
	if device == nil {
		t.Fatal("parseServiceEntry() = nil, want device")
	}

	want := map[string]string{
		"path": "/",
		"fw":   "2.1",
		"flag": "",
		"eq":   "a=b",
	}
	if len(device.Metadata) != len(want) {
		t.Errorf("device.Metadata has %d entries, want %d", len(device.Metadata), len(want))
	}
	for k, v := range want {
		if got, ok := device.Metadata[k]; !ok || got != v {
			t.Errorf("device.Metadata[%q] = %q (present %v), want %q", k, got, ok, v)
		}
	}
}

func TestScanner_SetNamePattern(t *testing.T) {
	scanner := NewScanner()

	if err := scanner.SetNamePattern(`^alarm-`); err != nil {
		t.Fatalf("SetNamePattern() error = %v", err)
	}
	if scanner.parseServiceEntry(entry("sunrise", "", 80, ips("10.0.0.1"), nil)) != nil {
		t.Error("old pattern still applied")
	}
	if scanner.parseServiceEntry(entry("alarm-kitchen", "", 80, ips("10.0.0.1"), nil)) == nil {
		t.Error("new pattern not applied")
	}

	if err := scanner.SetNamePattern(`(`); err == nil {
		t.Error("SetNamePattern() accepted an invalid pattern")
	}

	scanner.NamePattern = nil
	if scanner.parseServiceEntry(entry("anything", "", 80, ips("10.0.0.1"), nil)) == nil {
		t.Error("nil pattern should accept every named entry")
	}
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
	if scanner.NamePattern == nil || scanner.NamePattern.String() != DefaultNamePattern {
		t.Errorf("scanner.NamePattern = %v, want %s", scanner.NamePattern, DefaultNamePattern)
	}
}

func TestScanner_FindOne_Cancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("opens multicast sockets")
	}

	scanner := NewScanner()
	scanner.Timeout = 50 * time.Millisecond
	// Name nothing on a real network will use.
	if err := scanner.SetNamePattern(`^zz-no-such-device-zz$`); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanner.FindOne(ctx)
	if err == nil {
		t.Error("FindOne() error = nil, want an error")
	}
}
