package health

import (
	"regexp"
	"strings"
	"time"
)

// State is the coarse health of a check
type State string

// Health states, ordered by severity
const (
	StateHealthy   State = "healthy"
	StateDegraded  State = "degraded"
	StateUnhealthy State = "unhealthy"
)

func (s State) severity() int {
	switch s {
	case StateHealthy:
		return 0
	case StateDegraded:
		return 1
	default:
		return 2
	}
}

// Status is the result of one check, or the aggregate of several
type Status struct {
	Name      string         `json:"name"`
	Healthy   bool           `json:"healthy"`
	State     State          `json:"state"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
	Checks    []Status       `json:"checks,omitempty"`
}

func newStatus(name string, state State, message string) Status {
	return Status{
		Name:      name,
		Healthy:   state == StateHealthy,
		State:     state,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Healthy creates a healthy status
func Healthy(name, message string) Status { return newStatus(name, StateHealthy, message) }

// Degraded creates a degraded status
func Degraded(name, message string) Status { return newStatus(name, StateDegraded, message) }

// Unhealthy creates an unhealthy status
func Unhealthy(name, message string) Status { return newStatus(name, StateUnhealthy, message) }

// FromError creates an unhealthy status with a sanitized error message
func FromError(name string, err error) Status {
	if err == nil {
		return Healthy(name, "ok")
	}
	return Unhealthy(name, Sanitize(err.Error()))
}

// WithDetail returns a copy of the status carrying key=value
func (s Status) WithDetail(key string, value any) Status {
	details := make(map[string]any, len(s.Details)+1)
	for k, v := range s.Details {
		details[k] = v
	}
	details[key] = value
	s.Details = details
	return s
}

// Aggregate folds checks into one status named name. The worst state wins.
func Aggregate(name string, checks []Status) Status {
	if len(checks) == 0 {
		return Healthy(name, "No checks registered")
	}

	worst := StateHealthy
	for _, c := range checks {
		if c.State.severity() > worst.severity() {
			worst = c.State
		}
	}

	var status Status
	switch worst {
	case StateUnhealthy:
		status = Unhealthy(name, "One or more checks are unhealthy")
	case StateDegraded:
		status = Degraded(name, "One or more checks are degraded")
	default:
		status = Healthy(name, "All checks are healthy")
	}
	status.Checks = append([]Status(nil), checks...)
	return status
}

var (
	urlRegex        = regexp.MustCompile(`(?:https?|nats|tls|wss?)://[^\s]+`)
	unixPathRegex   = regexp.MustCompile(`/[a-zA-Z0-9/_.-]+`)
	ipAddrRegex     = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	portRegex       = regexp.MustCompile(`:\d{2,5}\b`)
	credentialRegex = regexp.MustCompile(`(?i)(password|token|secret|credential)[^a-zA-Z]*[:=][^,\s}]+`)
)

// Sanitize strips URLs, paths, addresses and credentials from a message.
// URLs are replaced before paths since they contain them.
func Sanitize(msg string) string {
	if msg == "" {
		return ""
	}
	msg = urlRegex.ReplaceAllString(msg, "[URL]")
	msg = unixPathRegex.ReplaceAllString(msg, "[PATH]")
	msg = ipAddrRegex.ReplaceAllString(msg, "[IP]")
	msg = portRegex.ReplaceAllString(msg, "[PORT]")

	lower := strings.ToLower(msg)
	for _, word := range []string{"password", "token", "secret", "credential"} {
		if strings.Contains(lower, word) {
			return credentialRegex.ReplaceAllString(msg, "[REDACTED]")
		}
	}
	return msg
}
