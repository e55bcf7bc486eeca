// Package aws implements the provider interface on EC2.
package aws

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/SkiffProject/skiff/pkg/provider"
)

const (
	// managedByTag marks instances created by this tool so operators can
	// find strays.
	managedByTagKey   = "skiff:managed"
	managedByTagValue = "true"

	defaultVolumeSizeGB      = 28
	defaultSecurityGroupName = "skiff-api-server"
)

// EC2Client is the subset of the EC2 API the provider uses. The concrete
// *ec2.Client satisfies it; tests substitute mocks.
type EC2Client interface {
	RunInstances(ctx context.Context, params *ec2.RunInstancesInput, optFns ...func(*ec2.Options)) (*ec2.RunInstancesOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	TerminateInstances(ctx context.Context, params *ec2.TerminateInstancesInput, optFns ...func(*ec2.Options)) (*ec2.TerminateInstancesOutput, error)
	DescribeVpcs(ctx context.Context, params *ec2.DescribeVpcsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error)
	CreateSecurityGroup(ctx context.Context, params *ec2.CreateSecurityGroupInput, optFns ...func(*ec2.Options)) (*ec2.CreateSecurityGroupOutput, error)
	DescribeSecurityGroups(ctx context.Context, params *ec2.DescribeSecurityGroupsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error)
	AuthorizeSecurityGroupIngress(ctx context.Context, params *ec2.AuthorizeSecurityGroupIngressInput, optFns ...func(*ec2.Options)) (*ec2.AuthorizeSecurityGroupIngressOutput, error)
}

// Config holds configuration for the EC2 provider.
type Config struct {
	// Region is the AWS region to operate in. Required.
	Region string

	// AMIOverride skips the built-in Ubuntu AMI table when set.
	AMIOverride string

	// SecurityGroupName names the shared security group that opens the
	// API port and SSH. Defaults to "skiff-api-server".
	SecurityGroupName string
}

// Provider implements provider.Provider for EC2.
type Provider struct {
	config Config
	client EC2Client
}

// New creates an EC2 provider with credentials resolved from the default
// AWS credential chain (environment, shared config, instance role).
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("region is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewWithClient(cfg, ec2.NewFromConfig(awsCfg)), nil
}

// NewWithClient creates an EC2 provider with an injected client.
func NewWithClient(cfg Config, client EC2Client) *Provider {
	if cfg.SecurityGroupName == "" {
		cfg.SecurityGroupName = defaultSecurityGroupName
	}
	return &Provider{config: cfg, client: client}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "aws"
}

// Launch creates one EC2 instance and returns without waiting for it to
// reach the running state or receive an address.
func (p *Provider) Launch(ctx context.Context, req provider.LaunchRequest) (*provider.Instance, error) {
	if req.InstanceType == "" {
		return nil, fmt.Errorf("instance type is required")
	}

	imageID := p.config.AMIOverride
	if imageID == "" {
		var err error
		imageID, err = resolveAMI(p.config.Region, req.InstanceType)
		if err != nil {
			return nil, err
		}
	}

	groupID, err := p.ensureSecurityGroup(ctx, req.APIPort)
	if err != nil {
		return nil, fmt.Errorf("preparing security group: %w", err)
	}

	volumeSize := int32(req.VolumeSizeGB)
	if volumeSize == 0 {
		volumeSize = defaultVolumeSizeGB
	}

	input := &ec2.RunInstancesInput{
		ImageId:          awssdk.String(imageID),
		InstanceType:     types.InstanceType(req.InstanceType),
		MinCount:         awssdk.Int32(1),
		MaxCount:         awssdk.Int32(1),
		UserData:         awssdk.String(base64.StdEncoding.EncodeToString([]byte(req.UserData))),
		SecurityGroupIds: []string{groupID},
		BlockDeviceMappings: []types.BlockDeviceMapping{
			{
				DeviceName: awssdk.String("/dev/sda1"),
				Ebs: &types.EbsBlockDevice{
					VolumeSize:          awssdk.Int32(volumeSize),
					VolumeType:          types.VolumeTypeGp3,
					DeleteOnTermination: awssdk.Bool(true),
				},
			},
		},
		TagSpecifications: []types.TagSpecification{
			{
				ResourceType: types.ResourceTypeInstance,
				Tags:         buildTags(req.Name, req.Tags),
			},
		},
	}

	out, err := p.client.RunInstances(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("launching instance: %w", err)
	}
	if len(out.Instances) == 0 {
		return nil, fmt.Errorf("launching instance: provider returned no instances")
	}

	return p.toInstance(out.Instances[0]), nil
}

// Describe returns the current state of an instance, including its public
// address once one has been assigned.
func (p *Provider) Describe(ctx context.Context, instanceID string) (*provider.Instance, error) {
	out, err := p.client.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		return nil, fmt.Errorf("describing instance %s: %w", instanceID, err)
	}

	for _, reservation := range out.Reservations {
		for _, inst := range reservation.Instances {
			if awssdk.ToString(inst.InstanceId) == instanceID {
				return p.toInstance(inst), nil
			}
		}
	}
	return nil, fmt.Errorf("instance %s not found", instanceID)
}

// Terminate destroys an instance. Terminating an instance that is already
// gone is not an error.
func (p *Provider) Terminate(ctx context.Context, instanceID string) error {
	_, err := p.client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{instanceID},
	})
	if err != nil {
		if isAPIError(err, "InvalidInstanceID.NotFound") {
			return nil
		}
		return fmt.Errorf("terminating instance %s: %w", instanceID, err)
	}
	return nil
}

func (p *Provider) toInstance(inst types.Instance) *provider.Instance {
	return &provider.Instance{
		ID:           awssdk.ToString(inst.InstanceId),
		Provider:     "aws",
		Region:       p.config.Region,
		InstanceType: string(inst.InstanceType),
		State:        mapEC2State(inst.State),
		PublicIP:     awssdk.ToString(inst.PublicIpAddress),
		PublicDNS:    awssdk.ToString(inst.PublicDnsName),
		Tags:         extractTags(inst.Tags),
	}
}

func buildTags(name string, tags map[string]string) []types.Tag {
	out := []types.Tag{
		{Key: awssdk.String("Name"), Value: awssdk.String(name)},
		{Key: awssdk.String(managedByTagKey), Value: awssdk.String(managedByTagValue)},
	}
	for k, v := range tags {
		out = append(out, types.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}
	return out
}

// extractTags converts EC2 tags to a plain map, dropping the Name tag and
// the managed-by marker.
func extractTags(tags []types.Tag) map[string]string {
	out := make(map[string]string)
	for _, tag := range tags {
		key := awssdk.ToString(tag.Key)
		if key == "Name" || key == managedByTagKey {
			continue
		}
		out[key] = awssdk.ToString(tag.Value)
	}
	return out
}

func mapEC2State(state *types.InstanceState) string {
	if state == nil {
		return "unknown"
	}
	switch state.Name {
	case types.InstanceStateNamePending:
		return "pending"
	case types.InstanceStateNameRunning:
		return "running"
	case types.InstanceStateNameShuttingDown, types.InstanceStateNameStopping:
		return "terminating"
	case types.InstanceStateNameStopped, types.InstanceStateNameTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

func isAPIError(err error, code string) bool {
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == code
}
