package device

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Endpoint paths exposed by the sunrise firmware
const (
	PathStatus   = "/status"
	PathOn       = "/on"
	PathStart    = "/start"
	PathStop     = "/stop"
	PathSetAlarm = "/setalarm"
)

// Param is a single query parameter
type Param struct {
	Key   string
	Value string
}

// Request is a GET against one of the device endpoints.
// Params keep their insertion order so that logged and sent URLs read the
// same way the firmware documents them (hour, min, duration, ...).
type Request struct {
	Path   string
	Params []Param
}

// Add appends a parameter and returns the request for chaining
func (r Request) Add(key, value string) Request {
	r.Params = append(append([]Param(nil), r.Params...), Param{Key: key, Value: value})
	return r
}

// Get returns the first value for key, or "" when absent
func (r Request) Get(key string) string {
	for _, p := range r.Params {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Query encodes the parameters in order, without the leading "?"
func (r Request) Query() string {
	parts := make([]string, 0, len(r.Params))
	for _, p := range r.Params {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// String returns path plus query, e.g. "/on?r=255&g=60&b=10"
func (r Request) String() string {
	if len(r.Params) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query()
}

// StatusRequest fetches the authoritative device state
func StatusRequest() Request {
	return Request{Path: PathStatus}
}

// OnRequest turns the strip on at full brightness in the given color
func OnRequest(r, g, b uint8) Request {
	return Request{Path: PathOn}.
		Add("r", strconv.Itoa(int(r))).
		Add("g", strconv.Itoa(int(g))).
		Add("b", strconv.Itoa(int(b)))
}

// StartRequest begins a ramp lasting durationMs from now
func StartRequest(durationMs int64) Request {
	return Request{Path: PathStart}.Add("time", strconv.FormatInt(durationMs, 10))
}

// StopRequest halts any ramp and switches the strip off
func StopRequest() Request {
	return Request{Path: PathStop}
}

// AlarmUpdate is a partial update of the alarm schedule.
// Nil fields are not sent, so the device keeps its current value for them.
type AlarmUpdate struct {
	Hour     *int
	Min      *int
	Duration *int64 // ramp length in milliseconds
	Enabled  *bool
	// UTCOffset is the device timezone offset in seconds
	UTCOffset *int
}

// IsEmpty reports whether the update carries no fields
func (u AlarmUpdate) IsEmpty() bool {
	return u.Hour == nil && u.Min == nil && u.Duration == nil && u.Enabled == nil && u.UTCOffset == nil
}

// Request builds the /setalarm call for the fields that are set
func (u AlarmUpdate) Request() Request {
	req := Request{Path: PathSetAlarm}

	if u.Hour != nil {
		req = req.Add("hour", strconv.Itoa(*u.Hour))
	}
	if u.Min != nil {
		req = req.Add("min", strconv.Itoa(*u.Min))
	}
	if u.Duration != nil {
		req = req.Add("duration", strconv.FormatInt(*u.Duration, 10))
	}
	if u.Enabled != nil {
		// Firmware compares toInt() == 1
		v := "0"
		if *u.Enabled {
			v = "1"
		}
		req = req.Add("enabled", v)
	}
	if u.UTCOffset != nil {
		req = req.Add("utcoffset", strconv.Itoa(*u.UTCOffset))
	}

	return req
}

// ScheduleUpdate builds the update sent when the alarm card is saved
func ScheduleUpdate(hour, min int, durationMs int64, enabled bool) AlarmUpdate {
	return AlarmUpdate{Hour: &hour, Min: &min, Duration: &durationMs, Enabled: &enabled}
}

// OffsetUpdate builds an update that only changes the timezone offset
func OffsetUpdate(offsetSeconds int) AlarmUpdate {
	return AlarmUpdate{UTCOffset: &offsetSeconds}
}

// OffsetHoursToSeconds converts the display unit (hours) to the wire unit
func OffsetHoursToSeconds(hours int) int {
	return hours * int(time.Hour/time.Second)
}
