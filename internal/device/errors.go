package device

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"syscall"
)

// ErrorType represents the category of a device communication failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the device did not answer in time
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening on the device port
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates the device hostname could not be resolved
	ErrTypeDNS
	// ErrTypeHTTP indicates a non-2xx response
	ErrTypeHTTP
	// ErrTypeParse indicates a malformed /status payload
	ErrTypeParse
	// ErrTypeValidation indicates a request that was rejected before sending
	ErrTypeValidation
)

// NetworkErrorSubtype narrows down ErrTypeNetwork
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorHostUnreachable
	NetworkErrorNetworkUnreachable
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// DeviceError is returned by every Client operation that fails
type DeviceError struct {
	Type           ErrorType
	Message        string
	StatusCode     int // HTTP status code, when Type is ErrTypeHTTP
	Err            error
	NetworkSubtype NetworkErrorSubtype
	Path           string // endpoint that failed, when known
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	prefix := e.Type.String()
	if e.Path != "" {
		prefix += " " + e.Path
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error onto a DeviceError
func ClassifyNetworkError(err error) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{Type: ErrTypeTimeout, Message: "request timed out", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &DeviceError{Type: ErrTypeConnectionRefused, Message: "device refused connection", Err: err}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &DeviceError{Type: ErrTypeNetwork, Message: "host unreachable", Err: err, NetworkSubtype: NetworkErrorHostUnreachable}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &DeviceError{Type: ErrTypeNetwork, Message: "network unreachable", Err: err, NetworkSubtype: NetworkErrorNetworkUnreachable}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &DeviceError{Type: ErrTypeNetwork, Message: "network error occurred", Err: err}
}

// NewNetworkError creates a classified network error with a custom message
func NewNetworkError(path, message string, err error) *DeviceError {
	classified := ClassifyNetworkError(err)
	if classified == nil {
		classified = &DeviceError{Type: ErrTypeNetwork, Err: err}
	}
	classified.Message = message
	classified.Path = path
	return classified
}

// NewHTTPError creates an error for a non-2xx response
func NewHTTPError(path string, statusCode int) *DeviceError {
	return &DeviceError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		StatusCode: statusCode,
		Path:       path,
	}
}

// NewParseError creates an error for an undecodable payload
func NewParseError(path, message string, err error) *DeviceError {
	return &DeviceError{Type: ErrTypeParse, Message: message, Err: err, Path: path}
}

// NewValidationError creates an error for a request rejected locally
func NewValidationError(message string) *DeviceError {
	return &DeviceError{Type: ErrTypeValidation, Message: message}
}

func asDeviceError(err error) (*DeviceError, bool) {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr, true
	}
	return nil, false
}

// IsNetworkError reports transport failures (including timeout, refused and DNS)
func IsNetworkError(err error) bool {
	devErr, ok := asDeviceError(err)
	if !ok {
		return false
	}
	switch devErr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	}
	return false
}

// IsHTTPError reports a non-2xx response
func IsHTTPError(err error) bool {
	devErr, ok := asDeviceError(err)
	return ok && devErr.Type == ErrTypeHTTP
}

// IsParseError reports a malformed status payload
func IsParseError(err error) bool {
	devErr, ok := asDeviceError(err)
	return ok && devErr.Type == ErrTypeParse
}

// IsValidationError reports a locally rejected request
func IsValidationError(err error) bool {
	devErr, ok := asDeviceError(err)
	return ok && devErr.Type == ErrTypeValidation
}

// GetShortErrorMessage returns a one-line message suitable for a status bar
func GetShortErrorMessage(err error) string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return err.Error()
	}

	switch devErr.Type {
	case ErrTypeTimeout:
		return "Device not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Device refused connection"
	case ErrTypeDNS:
		return "Cannot resolve device hostname"
	case ErrTypeNetwork:
		switch devErr.NetworkSubtype {
		case NetworkErrorHostUnreachable:
			return "Device unreachable - check network connection"
		case NetworkErrorNetworkUnreachable:
			return "Network unreachable - check WiFi connection"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Device error (HTTP %d)", devErr.StatusCode)
	case ErrTypeParse:
		return "Failed to parse device status"
	default:
		return devErr.Message
	}
}

// GetTroubleshootingHint returns multi-line advice for an error
func GetTroubleshootingHint(err error) string {
	devErr, ok := asDeviceError(err)
	if !ok {
		return "An unexpected error occurred. Please try again."
	}

	switch devErr.Type {
	case ErrTypeTimeout, ErrTypeNetwork:
		return strings.Join([]string{
			"The sunrise lamp did not answer.",
			"Troubleshooting:",
			"  • Check that the lamp controller is powered and joined to WiFi",
			"  • Verify you are on the same network as the controller",
			"  • Run 'sunrise scan' to look it up again",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"The controller refused the connection.",
			"Troubleshooting:",
			"  • Verify the port (default is 80)",
			"  • The web server may still be starting - wait a few seconds",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the controller hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead (--device 192.168.1.50)",
			"  • Check that mDNS works on this network",
		}, "\n")

	case ErrTypeHTTP:
		return fmt.Sprintf("The controller answered HTTP %d. Check the firmware version.", devErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"The controller's /status payload could not be read.",
			"This usually means the firmware and this tool are out of step.",
		}, "\n")

	default:
		return "Check the error message for details."
	}
}
