package deploy

import "fmt"

// Phase identifies which wait the deadline interrupted. Both phases share
// one deadline but failures stay distinguishable for diagnostics.
type Phase string

const (
	// PhaseAddress is the wait for the provider to assign a public address.
	PhaseAddress Phase = "address"
	// PhaseService is the wait for the service to answer health checks.
	PhaseService Phase = "service"
)

// ProvisioningError reports that the provider rejected instance creation.
// No instance exists in this case, so no teardown happens.
type ProvisioningError struct {
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning failed: %v", e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that the deployment deadline passed before the
// instance became ready. The instance has been handed to the terminator
// by the time callers see this error.
type TimeoutError struct {
	Phase      Phase
	InstanceID string
	Err        error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("deployment timed out waiting for %s (instance %s): %v", e.Phase, e.InstanceID, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// TerminationError reports that teardown itself failed. It always means a
// potentially running, unmanaged instance, so callers must surface it.
type TerminationError struct {
	InstanceID string
	Err        error
}

func (e *TerminationError) Error() string {
	return fmt.Sprintf("terminating instance %s failed, manual cleanup may be required: %v", e.InstanceID, e.Err)
}

func (e *TerminationError) Unwrap() error {
	return e.Err
}
