package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, "xerrion/scraper-app:latest", cfg.Image)
	assert.Equal(t, "http://127.0.0.1", cfg.BaseAPIURL)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "t2.micro", cfg.InstanceType)
	assert.Equal(t, "scraper-app", cfg.Name)
	assert.False(t, cfg.AllowHTTP)
}

func TestConfigDefaultsDoNotOverride(t *testing.T) {
	cfg := Config{
		Image:        "example.com/org/app:v2",
		Region:       "eu-west-1",
		InstanceType: "t3.small",
	}
	cfg.ApplyDefaults()
	assert.Equal(t, "example.com/org/app:v2", cfg.Image)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "t3.small", cfg.InstanceType)
}

func TestConfigValidate(t *testing.T) {
	t.Run("credentials-have-no-default", func(t *testing.T) {
		cfg := Config{}
		cfg.ApplyDefaults()
		require.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)

		cfg.ClientID = "id"
		require.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)

		cfg.ClientSecret = "secret"
		require.NoError(t, cfg.Validate())
	})

	t.Run("image-must-parse", func(t *testing.T) {
		cfg := Config{
			Image:        "not a valid image!!",
			ClientID:     "id",
			ClientSecret: "secret",
		}
		cfg.ApplyDefaults()
		require.ErrorIs(t, cfg.Validate(), ErrBadImage)
	})
}
