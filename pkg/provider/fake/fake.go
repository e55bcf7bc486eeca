// Package fake provides an in-memory provider for tests and local dry runs.
package fake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SkiffProject/skiff/pkg/clock"
	"github.com/SkiffProject/skiff/pkg/provider"
)

// Config configures the fake provider.
type Config struct {
	// Region reported on launched instances.
	Region string

	// AddressDelay is how long after launch an instance takes to reach
	// the running state and receive a public address.
	AddressDelay time.Duration

	// LaunchErr, when set, makes every Launch call fail with it.
	LaunchErr error

	// Clock drives address assignment. If nil, uses real time.
	Clock clock.Clock

	// Logger for provider events. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Provider simulates a cloud provider in memory.
type Provider struct {
	config Config
	clock  clock.Clock
	logger *slog.Logger

	mu         sync.Mutex
	instances  map[string]*record
	nextIP     int
	terminated map[string]int // instance ID -> Terminate call count
}

type record struct {
	instance   provider.Instance
	launchedAt time.Time
	userData   string
}

// New creates a fake provider.
func New(cfg Config) *Provider {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		config:     cfg,
		clock:      clk,
		logger:     logger,
		instances:  make(map[string]*record),
		terminated: make(map[string]int),
	}
}

func (p *Provider) Name() string {
	return "fake"
}

// Launch records a new pending instance. The public address appears once
// the configured AddressDelay has elapsed on the provider's clock.
func (p *Provider) Launch(ctx context.Context, req provider.LaunchRequest) (*provider.Instance, error) {
	if p.config.LaunchErr != nil {
		return nil, p.config.LaunchErr
	}
	if req.InstanceType == "" {
		return nil, fmt.Errorf("instance type is required")
	}

	id := "i-" + uuid.NewString()[:12]

	p.mu.Lock()
	p.nextIP++
	rec := &record{
		instance: provider.Instance{
			ID:           id,
			Provider:     "fake",
			Region:       p.config.Region,
			InstanceType: req.InstanceType,
			State:        "pending",
			Tags:         req.Tags,
		},
		launchedAt: p.clock.Now(),
		userData:   req.UserData,
	}
	p.instances[id] = rec
	p.mu.Unlock()

	p.logger.Info("launched fake instance",
		slog.String("instance_id", id),
		slog.String("instance_type", req.InstanceType),
	)

	inst := rec.instance
	return &inst, nil
}

// Describe returns the instance's current state. Address assignment is a
// pure function of elapsed time since launch.
func (p *Provider) Describe(ctx context.Context, instanceID string) (*provider.Instance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.instances[instanceID]
	if !ok {
		return nil, fmt.Errorf("instance %s not found", instanceID)
	}

	inst := rec.instance
	if inst.State == "pending" && p.clock.Since(rec.launchedAt) >= p.config.AddressDelay {
		p.nextIP++
		rec.instance.State = "running"
		rec.instance.PublicIP = fmt.Sprintf("203.0.113.%d", p.nextIP%250+1)
		rec.instance.PublicDNS = fmt.Sprintf("%s.fake.internal", instanceID)
		inst = rec.instance
	}
	return &inst, nil
}

// Terminate marks an instance terminated. Unknown or already-terminated
// instances are not errors.
func (p *Provider) Terminate(ctx context.Context, instanceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.terminated[instanceID]++
	if rec, ok := p.instances[instanceID]; ok {
		rec.instance.State = "terminated"
	}

	p.logger.Info("terminated fake instance", slog.String("instance_id", instanceID))
	return nil
}

// TerminateCalls returns how many times Terminate was called for an instance.
func (p *Provider) TerminateCalls(instanceID string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated[instanceID]
}

// UserData returns the bootstrap script an instance was launched with.
func (p *Provider) UserData(instanceID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec, ok := p.instances[instanceID]; ok {
		return rec.userData
	}
	return ""
}

// RunningCount returns the number of instances not yet terminated.
func (p *Provider) RunningCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, rec := range p.instances {
		if rec.instance.State != "terminated" {
			n++
		}
	}
	return n
}
