package infra

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func image(id, created string) types.Image {
	return types.Image{
		ImageId:      aws.String(id),
		CreationDate: aws.String(created),
	}
}

func TestMostRecentImage(t *testing.T) {
	t.Run("picks-newest-creation-date", func(t *testing.T) {
		best, ok := mostRecentImage([]types.Image{
			image("ami-old", "2023-01-15T08:00:00Z"),
			image("ami-new", "2025-06-01T12:30:00Z"),
			image("ami-mid", "2024-11-20T00:00:00Z"),
		})
		require.True(t, ok)
		assert.Equal(t, "ami-new", *best.ImageId)
	})

	t.Run("skips-malformed-entries", func(t *testing.T) {
		best, ok := mostRecentImage([]types.Image{
			{ImageId: aws.String("ami-no-date")},
			image("ami-bad-date", "yesterday-ish"),
			image("ami-valid", "2024-01-01T00:00:00Z"),
		})
		require.True(t, ok)
		assert.Equal(t, "ami-valid", *best.ImageId)
	})

	t.Run("empty-input", func(t *testing.T) {
		_, ok := mostRecentImage(nil)
		assert.False(t, ok)
	})
}
