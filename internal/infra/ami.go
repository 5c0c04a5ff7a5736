package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/chainguard-dev/clog"
)

// amiNamePattern matches Amazon Linux 2 HVM images with gp2 root volumes.
const amiNamePattern = "amzn2-ami-hvm-*-x86_64-gp2"

var (
	ErrDescribeImages = fmt.Errorf("failed to describe images")
	ErrNoMatchingAMI  = fmt.Errorf("no available AMI matched " + amiNamePattern)
)

// ResolveAMI returns the ID of the most recent available Amazon Linux 2
// image owned by Amazon, matching by CreationDate.
func ResolveAMI(ctx context.Context, client *ec2.Client) (string, error) {
	log := clog.FromContext(ctx)

	out, err := client.DescribeImages(ctx, &ec2.DescribeImagesInput{
		Owners: []string{"amazon"},
		Filters: []types.Filter{
			{Name: aws.String("name"), Values: []string{amiNamePattern}},
			{Name: aws.String("state"), Values: []string{"available"}},
			{Name: aws.String("architecture"), Values: []string{"x86_64"}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDescribeImages, err)
	}

	image, ok := mostRecentImage(out.Images)
	if !ok {
		return "", ErrNoMatchingAMI
	}
	log.Info("resolved AMI", "id", *image.ImageId, "name", aws.ToString(image.Name), "created", aws.ToString(image.CreationDate))
	return *image.ImageId, nil
}

// mostRecentImage picks the image with the newest CreationDate. Images
// without a parseable CreationDate or an ID never win.
func mostRecentImage(images []types.Image) (types.Image, bool) {
	var (
		best     types.Image
		bestTime time.Time
		found    bool
	)
	for _, img := range images {
		if img.ImageId == nil || img.CreationDate == nil {
			continue
		}
		created, err := time.Parse(time.RFC3339, *img.CreationDate)
		if err != nil {
			continue
		}
		if !found || created.After(bestTime) {
			best = img
			bestTime = created
			found = true
		}
	}
	return best, found
}
