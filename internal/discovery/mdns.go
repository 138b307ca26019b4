package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/sunrise/internal/logging"
)

const (
	// ServiceType is what the controller firmware advertises
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is how long a scan listens for answers
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an entry carries no port
	DefaultPort = 80

	// DefaultNamePattern matches the instance or host names of sunrise devices
	DefaultNamePattern = `(?i)^sunrise`
)

// Scanner browses the local network for sunrise devices
type Scanner struct {
	// Timeout is the maximum time to listen for answers
	Timeout time.Duration

	// NamePattern filters entries by instance name or hostname
	NamePattern *regexp.Regexp
}

// NewScanner creates a scanner with the default timeout and name filter
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:     DefaultScanTimeout,
		NamePattern: regexp.MustCompile(DefaultNamePattern),
	}
}

// SetNamePattern replaces the name filter
func (s *Scanner) SetNamePattern(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid name pattern %q: %w", pattern, err)
	}
	s.NamePattern = re
	return nil
}

// ScanForDevices listens for the scanner's timeout (or until ctx is done)
// and returns every matching device, deduplicated by address.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)

	var (
		mu      sync.Mutex
		devices []*Device
		seen    = make(map[string]bool)
	)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-entries:
				if !ok {
					return
				}
				device := s.parseServiceEntry(entry)
				if device == nil {
					continue
				}
				mu.Lock()
				if !seen[device.Address()] {
					seen[device.Address()] = true
					devices = append(devices, device)
					logging.Debug("Discovered device",
						zap.String("name", device.Name),
						zap.String("address", device.Address()))
				}
				mu.Unlock()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Device, len(devices))
	copy(out, devices)
	return out, nil
}

// FindOne scans and returns the single matching device. Zero or several
// matches are errors, since picking one silently could target the wrong room.
func (s *Scanner) FindOne(ctx context.Context) (*Device, error) {
	devices, err := s.ScanForDevices(ctx)
	if err != nil {
		return nil, err
	}
	switch len(devices) {
	case 0:
		return nil, fmt.Errorf("no sunrise device found within %s", s.Timeout)
	case 1:
		return devices[0], nil
	default:
		names := make([]string, 0, len(devices))
		for _, d := range devices {
			names = append(names, d.Address())
		}
		return nil, fmt.Errorf("found %d sunrise devices (%s), pick one with --device", len(devices), strings.Join(names, ", "))
	}
}

// parseServiceEntry converts an entry to a Device, or nil if it is not one
// of ours or has no address
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}
	if !s.matches(entry.Instance) && !s.matches(entry.HostName) {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	return &Device{
		Name:         entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

func (s *Scanner) matches(name string) bool {
	if name == "" {
		return false
	}
	if s.NamePattern == nil {
		return true
	}
	return s.NamePattern.MatchString(name)
}

// Scan is a convenience wrapper with a custom timeout
func Scan(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.ScanForDevices(ctx)
}
