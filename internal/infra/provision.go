// Package infra provisions the scraper's single-instance deployment: an EC2
// key pair, a security group, and an Amazon Linux 2 instance whose first-boot
// script installs docker and launches the scraper container.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
)

var ErrAWSConfig = fmt.Errorf("failed to load AWS configuration")

// NewEC2Client builds an EC2 client from the ambient AWS credential chain.
func NewEC2Client(ctx context.Context, region string) (*ec2.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAWSConfig, err)
	}
	return ec2.NewFromConfig(cfg), nil
}

func resourceTags(name string) []types.Tag {
	return []types.Tag{
		{Key: aws.String("Name"), Value: aws.String(name)},
		{Key: aws.String("ManagedBy"), Value: aws.String("scraperctl")},
	}
}

// Up brings up the full deployment. On any failure, everything created so
// far is torn down before the error is returned; a successful bring-up is
// recorded in the returned State. keyDir is where the private key pem file
// lands.
func Up(ctx context.Context, client *ec2.Client, cfg Config, keyDir string) (*State, error) {
	log := clog.FromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// A short random suffix keeps repeated deployments from colliding on
	// AWS resource names.
	suffix := uuid.NewString()[:8]
	stack := new(Stack)

	st, err := up(ctx, client, cfg, keyDir, suffix, stack)
	if err != nil {
		log.Error("bring-up failed, unwinding partial deployment", "error", err)
		if unwindErr := stack.Unwind(ctx); unwindErr != nil {
			log.Error("partial teardown also failed; resources may be leaked", "error", unwindErr)
		}
		return nil, err
	}
	return st, nil
}

func up(ctx context.Context, client *ec2.Client, cfg Config, keyDir, suffix string, stack *Stack) (*State, error) {
	log := clog.FromContext(ctx)
	tags := resourceTags(cfg.Name)

	keyName := fmt.Sprintf("%s-key-%s", cfg.Name, suffix)
	keyPath, err := createKeyPair(ctx, client, keyName, keyDir, tags)
	if err != nil {
		return nil, err
	}
	stack.Push(func(ctx context.Context) error {
		return deleteKeyPair(ctx, client, keyName, keyPath)
	})

	sgName := fmt.Sprintf("%s-sg-%s", cfg.Name, suffix)
	sgID, err := createSecurityGroup(ctx, client, sgName, cfg.AllowHTTP, tags)
	if sgID != "" {
		stack.Push(func(ctx context.Context) error {
			return deleteSecurityGroup(ctx, client, sgID)
		})
	}
	if err != nil {
		return nil, err
	}

	ami, err := ResolveAMI(ctx, client)
	if err != nil {
		return nil, err
	}

	userData, err := RenderUserData(cfg)
	if err != nil {
		return nil, err
	}

	instanceID, instanceIP, err := launchInstance(ctx, client, launchParams{
		AMI:             ami,
		InstanceType:    types.InstanceType(cfg.InstanceType),
		KeyName:         keyName,
		SecurityGroupID: sgID,
		UserData:        userData,
		Tags:            tags,
	})
	if instanceID != "" {
		stack.Push(func(ctx context.Context) error {
			return terminateInstance(ctx, client, instanceID)
		})
	}
	if err != nil {
		return nil, err
	}

	log.Info("deployment is up", "instance", instanceID, "instance_ip", instanceIP)
	return &State{
		Name:            cfg.Name,
		Region:          cfg.Region,
		Image:           cfg.Image,
		KeyName:         keyName,
		KeyPath:         keyPath,
		SecurityGroupID: sgID,
		InstanceID:      instanceID,
		InstanceIP:      instanceIP,
		AllowHTTP:       cfg.AllowHTTP,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Down tears down everything recorded in st, in reverse creation order.
func Down(ctx context.Context, client *ec2.Client, st *State) error {
	stack := new(Stack)
	if st.KeyName != "" {
		stack.Push(func(ctx context.Context) error {
			return deleteKeyPair(ctx, client, st.KeyName, st.KeyPath)
		})
	}
	if st.SecurityGroupID != "" {
		stack.Push(func(ctx context.Context) error {
			return deleteSecurityGroup(ctx, client, st.SecurityGroupID)
		})
	}
	if st.InstanceID != "" {
		stack.Push(func(ctx context.Context) error {
			return terminateInstance(ctx, client, st.InstanceID)
		})
	}
	return stack.Unwind(ctx)
}
