// Package provider abstracts cloud-specific instance operations.
package provider

import "context"

// Instance is a provisioned compute instance as last observed at the provider.
type Instance struct {
	ID           string
	Provider     string
	Region       string
	InstanceType string
	State        string // pending, running, terminating, terminated
	PublicIP     string
	PublicDNS    string
	Tags         map[string]string
}

// LaunchRequest contains parameters for creating an instance.
type LaunchRequest struct {
	// Name is the value of the instance Name tag.
	Name string
	// InstanceType is the provider-specific machine type.
	InstanceType string
	// APIPort is opened to the world alongside the remote-access port.
	APIPort int
	// VolumeSizeGB sizes the root volume. Zero means the provider default.
	VolumeSizeGB int
	// Tags are attached to the instance in addition to the Name tag.
	Tags map[string]string
	// UserData is the bootstrap script run on first boot.
	UserData string
}

// Provider abstracts a cloud's instance lifecycle.
//
// Launch returns as soon as the provider accepts the request; the instance
// is typically still pending and has no public address yet. Callers poll
// Describe until an address appears. Terminate is idempotent: terminating
// an instance that is already gone is not an error.
type Provider interface {
	Name() string
	Launch(ctx context.Context, req LaunchRequest) (*Instance, error)
	Describe(ctx context.Context, instanceID string) (*Instance, error)
	Terminate(ctx context.Context, instanceID string) error
}
