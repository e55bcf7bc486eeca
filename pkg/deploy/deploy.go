// Package deploy orchestrates the lifecycle of a single document-service
// instance: launch, wait for an address, wait for the service to answer
// health checks, and tear the instance down if it never does.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SkiffProject/skiff/pkg/clock"
	"github.com/SkiffProject/skiff/pkg/poll"
	"github.com/SkiffProject/skiff/pkg/preset"
	"github.com/SkiffProject/skiff/pkg/provider"
	"github.com/SkiffProject/skiff/pkg/userdata"
)

// DefaultTimeout is the total wait budget when the request does not set one.
const DefaultTimeout = 7 * time.Minute

const (
	defaultAddressPollInterval = 5 * time.Second
	defaultServicePollInterval = 10 * time.Second
)

// Request describes one deployment. Built once per Deploy call, never mutated.
type Request struct {
	// Config is the resolved deployment preset.
	Config preset.Config
	// InstanceType is the provider machine type to launch.
	InstanceType string
	// Tags are attached to the instance.
	Tags map[string]string
	// Timeout is the total budget covering both the address wait and the
	// service wait. Zero means DefaultTimeout.
	Timeout time.Duration
	// VolumeSizeGB sizes the root volume. Zero means the provider default.
	VolumeSizeGB int
}

// InstanceDetails is returned to the caller once the service has answered
// at least one health check. The caller owns teardown from then on.
type InstanceDetails struct {
	InstanceID   string `json:"instance_id"`
	Region       string `json:"region"`
	InstanceType string `json:"instance_type"`
	PublicIP     string `json:"public_ip"`
	PublicDNS    string `json:"public_dns,omitempty"`
	APIURL       string `json:"api_url"`
}

// HealthChecker reports whether the service behind an API URL is answering.
type HealthChecker interface {
	Check(ctx context.Context, apiURL string) error
}

// Config configures deployment timing.
type Config struct {
	// AddressPollInterval is the pause between provider address queries.
	// Defaults to 5 seconds.
	AddressPollInterval time.Duration

	// ServicePollInterval is the pause between health checks. Defaults to
	// 10 seconds. Keep the health client's per-request timeout below it.
	ServicePollInterval time.Duration

	// Clock drives the deadline and poll waits. If nil, uses real time.
	Clock clock.Clock

	// Logger for lifecycle events. If nil, uses slog.Default().
	Logger *slog.Logger
}

// Deployer runs the deployment state machine against one provider.
type Deployer struct {
	provider provider.Provider
	checker  HealthChecker
	config   Config
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a deployer.
func New(p provider.Provider, checker HealthChecker, cfg Config) *Deployer {
	if cfg.AddressPollInterval == 0 {
		cfg.AddressPollInterval = defaultAddressPollInterval
	}
	if cfg.ServicePollInterval == 0 {
		cfg.ServicePollInterval = defaultServicePollInterval
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Deployer{
		provider: p,
		checker:  checker,
		config:   cfg,
		clock:    clk,
		logger:   logger,
	}
}

// Deploy launches an instance and waits for the service to become ready.
//
// One absolute deadline, fixed at entry, covers both the address wait and
// the service wait. Every instance the provider creates reaches exactly
// one terminal: returned as InstanceDetails (caller owns it from then on),
// or terminated here before the error is returned.
func (d *Deployer) Deploy(ctx context.Context, req Request) (*InstanceDetails, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	start := d.clock.Now()
	deadline := start.Add(timeout)

	script, err := userdata.Render(req.Config.Template, userdata.Params{
		Image: req.Config.Image,
		Port:  req.Config.APIPort,
		GPU:   req.Config.GPUCapable && provider.IsGPUInstanceType(req.InstanceType),
	})
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("skiff-%s-%s", req.Config.Name, uuid.NewString()[:8])
	d.logger.Info("provisioning instance",
		slog.String("name", name),
		slog.String("config", req.Config.Name),
		slog.String("instance_type", req.InstanceType),
		slog.Duration("timeout", timeout),
	)

	inst, err := d.provider.Launch(ctx, provider.LaunchRequest{
		Name:         name,
		InstanceType: req.InstanceType,
		APIPort:      req.Config.APIPort,
		VolumeSizeGB: req.VolumeSizeGB,
		Tags:         req.Tags,
		UserData:     script,
	})
	if err != nil {
		// Creation never succeeded: nothing to tear down.
		d.logger.Warn("provisioning failed", slog.String("error", err.Error()))
		return nil, &ProvisioningError{Err: err}
	}

	d.logger.Info("instance created, waiting for address",
		slog.String("instance_id", inst.ID),
	)

	address, err := d.awaitAddress(ctx, inst.ID, deadline)
	if err != nil {
		return nil, d.teardown(ctx, inst.ID, &TimeoutError{Phase: PhaseAddress, InstanceID: inst.ID, Err: err})
	}

	apiURL := fmt.Sprintf("http://%s:%d", address.PublicIP, req.Config.APIPort)
	d.logger.Info("address assigned, waiting for service",
		slog.String("instance_id", inst.ID),
		slog.String("api_url", apiURL),
	)

	if err := d.awaitService(ctx, apiURL, deadline); err != nil {
		return nil, d.teardown(ctx, inst.ID, &TimeoutError{Phase: PhaseService, InstanceID: inst.ID, Err: err})
	}

	d.logger.Info("service ready",
		slog.String("instance_id", inst.ID),
		slog.String("api_url", apiURL),
		slog.Duration("elapsed", d.clock.Since(start)),
	)

	return &InstanceDetails{
		InstanceID:   inst.ID,
		Region:       address.Region,
		InstanceType: address.InstanceType,
		PublicIP:     address.PublicIP,
		PublicDNS:    address.PublicDNS,
		APIURL:       apiURL,
	}, nil
}

// Terminate destroys an instance on caller request. Already-gone instances
// are not errors; genuine provider failures are.
func (d *Deployer) Terminate(ctx context.Context, instanceID string) error {
	if err := d.provider.Terminate(ctx, instanceID); err != nil {
		return &TerminationError{InstanceID: instanceID, Err: err}
	}
	d.logger.Info("instance terminated", slog.String("instance_id", instanceID))
	return nil
}

// awaitAddress polls the provider until the instance has a public address.
func (d *Deployer) awaitAddress(ctx context.Context, instanceID string, deadline time.Time) (*provider.Instance, error) {
	var found *provider.Instance
	err := poll.Do(ctx, poll.Config{
		Interval: d.config.AddressPollInterval,
		Deadline: deadline,
		Clock:    d.clock,
	}, func(ctx context.Context) error {
		inst, err := d.provider.Describe(ctx, instanceID)
		if err != nil {
			return err
		}
		if inst.PublicIP == "" {
			return fmt.Errorf("instance %s has no public address yet (state %s)", instanceID, inst.State)
		}
		found = inst
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// awaitService polls the health endpoint until it answers. The checker
// bounds each request well below the poll interval, so one hanging call
// cannot eat the deadline unnoticed.
func (d *Deployer) awaitService(ctx context.Context, apiURL string, deadline time.Time) error {
	return poll.Do(ctx, poll.Config{
		Interval: d.config.ServicePollInterval,
		Deadline: deadline,
		Clock:    d.clock,
	}, func(ctx context.Context) error {
		return d.checker.Check(ctx, apiURL)
	})
}

// teardown terminates the instance and shapes the failure the caller sees.
// It runs even when the surrounding context is already cancelled, because
// a skipped teardown means a forgotten billable instance. A termination
// failure is appended to the original failure, never substituted for it.
func (d *Deployer) teardown(ctx context.Context, instanceID string, cause *TimeoutError) error {
	d.logger.Warn("deployment failed, terminating instance",
		slog.String("instance_id", instanceID),
		slog.String("phase", string(cause.Phase)),
	)

	if err := d.provider.Terminate(context.WithoutCancel(ctx), instanceID); err != nil {
		termErr := &TerminationError{InstanceID: instanceID, Err: err}
		d.logger.Error("termination failed",
			slog.String("instance_id", instanceID),
			slog.String("error", err.Error()),
		)
		return errors.Join(cause, termErr)
	}

	d.logger.Info("instance terminated after failed deployment",
		slog.String("instance_id", instanceID),
	)
	return cause
}
