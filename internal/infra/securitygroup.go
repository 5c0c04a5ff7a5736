package infra

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"
)

const (
	portSSH  = int32(22)
	portHTTP = int32(80)

	anywhere = "0.0.0.0/0"
)

var (
	ErrNoDefaultVPC       = fmt.Errorf("account has no default VPC in this region")
	ErrCreateSecGroup     = fmt.Errorf("failed to create security group")
	ErrAuthorizeIngress   = fmt.Errorf("failed to authorize ingress rule")
	ErrDeleteSecGroup     = fmt.Errorf("failed to delete security group")
	ErrDescribeDefaultVPC = fmt.Errorf("failed to look up the default VPC")
)

// ingressPorts returns the inbound TCP ports the security group opens to the
// world: SSH always, HTTP only when requested.
func ingressPorts(allowHTTP bool) []int32 {
	ports := []int32{portSSH}
	if allowHTTP {
		ports = append(ports, portHTTP)
	}
	return ports
}

// defaultVPC returns the ID of the region's default VPC, where the instance
// and its security group are placed.
func defaultVPC(ctx context.Context, client *ec2.Client) (string, error) {
	out, err := client.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []types.Filter{
			{Name: aws.String("is-default"), Values: []string{"true"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDescribeDefaultVPC, err)
	}
	if len(out.Vpcs) == 0 || out.Vpcs[0].VpcId == nil {
		return "", ErrNoDefaultVPC
	}
	return *out.Vpcs[0].VpcId, nil
}

// createSecurityGroup creates the instance's security group in the default
// VPC and opens SSH to the world, plus HTTP when allowHTTP is set. Outbound
// traffic rides on the VPC's default allow-all egress rule.
func createSecurityGroup(ctx context.Context, client *ec2.Client, groupName string, allowHTTP bool, tags []types.Tag) (string, error) {
	log := clog.FromContext(ctx)

	vpcID, err := defaultVPC(ctx, client)
	if err != nil {
		return "", err
	}

	result, err := client.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(groupName),
		Description: aws.String("scraper-app instance security group"),
		VpcId:       aws.String(vpcID),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeSecurityGroup,
			Tags:         tags,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCreateSecGroup, err)
	}
	sgID := *result.GroupId
	log.Info("created security group", "id", sgID, "vpc", vpcID)

	for _, port := range ingressPorts(allowHTTP) {
		_, err := client.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:    aws.String(sgID),
			IpProtocol: aws.String("tcp"),
			FromPort:   aws.Int32(port),
			ToPort:     aws.Int32(port),
			CidrIp:     aws.String(anywhere),
		})
		if err != nil {
			return sgID, fmt.Errorf("%w (tcp/%d): %w", ErrAuthorizeIngress, port, err)
		}
		log.Info("authorized ingress", "port", port, "cidr", anywhere)
	}

	return sgID, nil
}

func deleteSecurityGroup(ctx context.Context, client *ec2.Client, sgID string) error {
	log := clog.FromContext(ctx)
	log.Info("deleting security group", "id", sgID)
	_, err := client.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
		GroupId: aws.String(sgID),
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("%w: %w", ErrDeleteSecGroup, err)
	}
	return nil
}
