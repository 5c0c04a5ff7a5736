package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cmd := newRenderCmd()
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	assert.Equal(t, "xerrion/scraper-app:latest", cfg.Image)
	assert.Equal(t, "http://127.0.0.1", cfg.BaseAPIURL)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, "t2.micro", cfg.InstanceType)
	assert.Empty(t, cfg.ClientID)
	assert.Empty(t, cfg.ClientSecret)
}

func TestLoadConfigLayering(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("scraperctl.yaml", []byte(
		"region: eu-central-1\nallow-http: true\nclient-id: file-id\n",
	), 0o600))
	t.Setenv("SCRAPER_CLIENT_ID", "env-id")

	cmd := newRenderCmd()
	require.NoError(t, cmd.Flags().Set("client-secret", "flag-secret"))

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)

	// Environment beats the config file; flags beat both.
	assert.Equal(t, "env-id", cfg.ClientID)
	assert.Equal(t, "flag-secret", cfg.ClientSecret)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.True(t, cfg.AllowHTTP)
}
