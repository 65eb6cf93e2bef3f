package probe

import "context"

// Probe runs one fresh health check per call.
type Probe interface {
	CheckStatus(ctx context.Context) error
}

type ProbeFunc func(ctx context.Context) error

func (f ProbeFunc) CheckStatus(ctx context.Context) error {
	return f(ctx)
}

type ProbeResult struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type InstancesResponse struct {
	Instances []string `json:"instances"`
}
