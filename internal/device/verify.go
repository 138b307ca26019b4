package device

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// VerificationOptions controls how a saved alarm update is read back
type VerificationOptions struct {
	// MaxRetries is the number of extra reads after the first
	MaxRetries int

	// InitialDelay gives the firmware time to apply the update
	InitialDelay time.Duration

	// RetryDelay is the pause between reads, doubled each time up to MaxRetryDelay
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

// DefaultVerificationOptions returns the settings used by the CLI
func DefaultVerificationOptions() *VerificationOptions {
	return &VerificationOptions{
		MaxRetries:    2,
		InitialDelay:  300 * time.Millisecond,
		RetryDelay:    500 * time.Millisecond,
		MaxRetryDelay: 2 * time.Second,
	}
}

// VerificationResult is the outcome of reading an update back
type VerificationResult struct {
	Success    bool
	Attempts   int
	Status     *Status  // last status read, if any
	Mismatches []string // fields that differ on the last read
	Error      error
}

// Mismatches lists the fields of u that st does not reflect. The ramp
// length is only compared when the firmware reports it.
func (u AlarmUpdate) Mismatches(st *Status) []string {
	var out []string
	if u.Hour != nil && st.AlarmHour != *u.Hour {
		out = append(out, fmt.Sprintf("hour: expected %d, got %d", *u.Hour, st.AlarmHour))
	}
	if u.Min != nil && st.AlarmMin != *u.Min {
		out = append(out, fmt.Sprintf("minute: expected %d, got %d", *u.Min, st.AlarmMin))
	}
	if u.Enabled != nil && st.AlarmEnabled != *u.Enabled {
		out = append(out, fmt.Sprintf("enabled: expected %v, got %v", *u.Enabled, st.AlarmEnabled))
	}
	if u.UTCOffset != nil && st.UTCOffset != *u.UTCOffset {
		out = append(out, fmt.Sprintf("utc offset: expected %ds, got %ds", *u.UTCOffset, st.UTCOffset))
	}
	if u.Duration != nil && st.FadeDuration > 0 && st.FadeDuration != *u.Duration {
		out = append(out, fmt.Sprintf("duration: expected %dms, got %dms", *u.Duration, st.FadeDuration))
	}
	return out
}

// AlarmUpdateFromRequest recovers the update carried by a /setalarm request
func AlarmUpdateFromRequest(req Request) (AlarmUpdate, error) {
	if req.Path != PathSetAlarm {
		return AlarmUpdate{}, NewValidationError("not a " + PathSetAlarm + " request: " + req.Path)
	}

	var u AlarmUpdate
	for _, p := range req.Params {
		switch p.Key {
		case "hour", "min", "utcoffset":
			v, err := strconv.Atoi(p.Value)
			if err != nil {
				return AlarmUpdate{}, NewValidationError(fmt.Sprintf("bad %s %q", p.Key, p.Value))
			}
			switch p.Key {
			case "hour":
				u.Hour = &v
			case "min":
				u.Min = &v
			default:
				u.UTCOffset = &v
			}
		case "duration":
			v, err := strconv.ParseInt(p.Value, 10, 64)
			if err != nil {
				return AlarmUpdate{}, NewValidationError(fmt.Sprintf("bad duration %q", p.Value))
			}
			u.Duration = &v
		case "enabled":
			v := p.Value == "1"
			u.Enabled = &v
		}
	}
	return u, nil
}

// VerifyAlarm reads /status until it reflects u or the retries run out
func (c *Client) VerifyAlarm(ctx context.Context, u AlarmUpdate, opts *VerificationOptions) *VerificationResult {
	if opts == nil {
		opts = DefaultVerificationOptions()
	}
	result := &VerificationResult{}
	if u.IsEmpty() {
		result.Success = true
		return result
	}

	if err := sleep(ctx, opts.InitialDelay); err != nil {
		result.Error = err
		return result
	}

	delay := opts.RetryDelay
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, delay); err != nil {
				result.Error = err
				return result
			}
			delay *= 2
			if opts.MaxRetryDelay > 0 && delay > opts.MaxRetryDelay {
				delay = opts.MaxRetryDelay
			}
		}
		result.Attempts++

		st, err := c.Status(ctx)
		if err != nil {
			result.Error = fmt.Errorf("attempt %d: %w", result.Attempts, err)
			continue
		}
		result.Status = st
		result.Mismatches = u.Mismatches(st)
		if len(result.Mismatches) == 0 {
			result.Success = true
			result.Error = nil
			return result
		}
		result.Error = fmt.Errorf("device does not reflect the update: %s", strings.Join(result.Mismatches, "; "))
	}
	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
