package infra

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"
)

var (
	ErrLaunchInstance    = fmt.Errorf("failed to launch instance")
	ErrInstanceWait      = fmt.Errorf("failed waiting for instance to run")
	ErrInstanceNoIP      = fmt.Errorf("instance has no public IP")
	ErrTerminateInstance = fmt.Errorf("failed to terminate instance")
)

// waitTimeout caps the SDK waiters; the caller's context usually expires
// first.
const waitTimeout = 10 * time.Minute

type launchParams struct {
	AMI             string
	InstanceType    types.InstanceType
	KeyName         string
	SecurityGroupID string
	UserData        string
	Tags            []types.Tag
}

// launchInstance starts a single instance with the boot script attached and
// waits until it is running with a public IP. It returns the instance ID and
// public IP.
func launchInstance(ctx context.Context, client *ec2.Client, p launchParams) (string, string, error) {
	log := clog.FromContext(ctx)

	result, err := client.RunInstances(ctx, &ec2.RunInstancesInput{
		ImageId:          aws.String(p.AMI),
		InstanceType:     p.InstanceType,
		MinCount:         aws.Int32(1),
		MaxCount:         aws.Int32(1),
		KeyName:          aws.String(p.KeyName),
		SecurityGroupIds: []string{p.SecurityGroupID},
		UserData:         aws.String(base64.StdEncoding.EncodeToString([]byte(p.UserData))),
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeInstance,
			Tags:         p.Tags,
		}},
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrLaunchInstance, err)
	}
	if len(result.Instances) == 0 || result.Instances[0].InstanceId == nil {
		return "", "", fmt.Errorf("%w: no instance in response", ErrLaunchInstance)
	}
	id := *result.Instances[0].InstanceId
	log.Info("launched instance", "id", id, "type", p.InstanceType)

	log.Info("waiting for instance to enter running state", "id", id)
	waiter := ec2.NewInstanceRunningWaiter(client)
	out, err := waiter.WaitForOutput(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	}, waitTimeout)
	if err != nil {
		return id, "", fmt.Errorf("%w: %w", ErrInstanceWait, err)
	}

	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return id, "", fmt.Errorf("%w: instance missing from waiter output", ErrInstanceWait)
	}
	inst := out.Reservations[0].Instances[0]
	if inst.PublicIpAddress == nil {
		return id, "", ErrInstanceNoIP
	}
	ip := *inst.PublicIpAddress
	log.Info("instance running", "id", id, "ip", ip)

	return id, ip, nil
}

// terminateInstance terminates the instance and waits for full termination
// so dependent resources (the security group) can be deleted afterwards.
func terminateInstance(ctx context.Context, client *ec2.Client, id string) error {
	log := clog.FromContext(ctx)
	log.Info("terminating instance", "id", id)

	_, err := client.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrTerminateInstance, err)
	}

	waiter := ec2.NewInstanceTerminatedWaiter(client)
	if err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	}, waitTimeout); err != nil {
		// The terminate call succeeded; a slow waiter should not fail the
		// whole teardown, but the caller deserves to know.
		log.Warn("timed out waiting for instance termination", "id", id, "error", err)
	}
	return nil
}
