package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const sshPort = 22

// ensureSecurityGroup creates (or finds) the security group in the default
// VPC and opens the API port plus SSH. Safe to call on every launch: both
// the group and its rules tolerate already-exists responses.
func (p *Provider) ensureSecurityGroup(ctx context.Context, apiPort int) (string, error) {
	vpcID, err := p.defaultVPC(ctx)
	if err != nil {
		return "", err
	}

	groupID, err := p.findOrCreateGroup(ctx, vpcID)
	if err != nil {
		return "", err
	}

	if err := p.authorizeIngress(ctx, groupID, apiPort); err != nil {
		return "", err
	}
	return groupID, nil
}

func (p *Provider) defaultVPC(ctx context.Context) (string, error) {
	out, err := p.client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []types.Filter{
			{Name: awssdk.String("isDefault"), Values: []string{"true"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("describing VPCs: %w", err)
	}
	if len(out.Vpcs) == 0 {
		return "", fmt.Errorf("no default VPC in region %s", p.config.Region)
	}
	return awssdk.ToString(out.Vpcs[0].VpcId), nil
}

func (p *Provider) findOrCreateGroup(ctx context.Context, vpcID string) (string, error) {
	created, err := p.client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   awssdk.String(p.config.SecurityGroupName),
		Description: awssdk.String("API and SSH access for skiff-managed instances"),
		VpcId:       awssdk.String(vpcID),
	})
	if err == nil {
		return awssdk.ToString(created.GroupId), nil
	}
	if !isAPIError(err, "InvalidGroup.Duplicate") {
		return "", fmt.Errorf("creating security group: %w", err)
	}

	existing, err := p.client.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []types.Filter{
			{Name: awssdk.String("group-name"), Values: []string{p.config.SecurityGroupName}},
			{Name: awssdk.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("describing existing security group: %w", err)
	}
	if len(existing.SecurityGroups) == 0 {
		return "", fmt.Errorf("security group %s reported as duplicate but not found", p.config.SecurityGroupName)
	}
	return awssdk.ToString(existing.SecurityGroups[0].GroupId), nil
}

func (p *Provider) authorizeIngress(ctx context.Context, groupID string, apiPort int) error {
	_, err := p.client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: awssdk.String(groupID),
		IpPermissions: []types.IpPermission{
			ingressRule(sshPort),
			ingressRule(apiPort),
		},
	})
	if err != nil && !isAPIError(err, "InvalidPermission.Duplicate") {
		return fmt.Errorf("authorizing ingress: %w", err)
	}
	return nil
}

func ingressRule(port int) types.IpPermission {
	return types.IpPermission{
		IpProtocol: awssdk.String("tcp"),
		FromPort:   awssdk.Int32(int32(port)),
		ToPort:     awssdk.Int32(int32(port)),
		IpRanges: []types.IpRange{
			{CidrIp: awssdk.String("0.0.0.0/0")},
		},
	}
}
