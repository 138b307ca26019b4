// Package discovery finds sunrise controllers on the local network over mDNS.
//
// The controller firmware advertises a plain "_http._tcp" service. The
// scanner browses for that type and keeps entries whose instance name or
// hostname matches DefaultNamePattern (case-insensitive "sunrise" prefix),
// which can be replaced with SetNamePattern.
//
// # Usage
//
//	scanner := discovery.NewScanner()
//	found, err := scanner.FindOne(ctx)
//	if err != nil {
//	    return err
//	}
//	client := device.NewClientWithURL(found.BaseURL())
//
// # Network Requirements
//
//   - multicast on the local interface
//   - UDP 5353 allowed through the firewall
//   - the device on the same segment as this machine
package discovery
