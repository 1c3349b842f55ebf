package health

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/esengine/nova-ecs-editor/component"
)

// RegistryCheck is degraded while the registry holds no components
func RegistryCheck(registry *component.Registry) Checker {
	return CheckFunc{CheckName: "registry", Fn: func(context.Context) Status {
		if registry == nil {
			return Unhealthy("", "registry not initialized")
		}
		n := registry.Len()
		if n == 0 {
			return Degraded("", "no components registered").WithDetail("components", 0)
		}
		return Healthy("", "components registered").WithDetail("components", n)
	}}
}

// NATSCheck reports the event connection. A nil connection means events are
// disabled, which is healthy.
func NATSCheck(nc *nats.Conn) Checker {
	return CheckFunc{CheckName: "nats", Fn: func(context.Context) Status {
		if nc == nil {
			return Healthy("", "registration events disabled")
		}
		switch {
		case nc.IsConnected():
			return Healthy("", "connected")
		case nc.IsReconnecting():
			return Degraded("", "reconnecting")
		case nc.IsClosed():
			return Unhealthy("", "connection closed")
		default:
			s := Degraded("", "not connected")
			if err := nc.LastError(); err != nil {
				s.Message = Sanitize(err.Error())
			}
			return s
		}
	}}
}
