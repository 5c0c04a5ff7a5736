package infra

import (
	"strings"
	"testing"

	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderUserData(t *testing.T) {
	cfg := Config{
		Image:        "xerrion/scraper-app:latest",
		BaseAPIURL:   "https://api.example.com",
		ClientID:     "client-1",
		ClientSecret: "s3cret",
	}
	script, err := RenderUserData(cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "#!/bin/bash"))
	for _, want := range []string{
		"yum update -y",
		"amazon-linux-extras install docker -y",
		"service docker start",
		"usermod -a -G docker ec2-user",
		"-e BASE_API_URL=https://api.example.com",
		"-e CLIENT_ID=client-1",
		"-e CLIENT_SECRET=s3cret",
		"xerrion/scraper-app:latest",
	} {
		assert.Contains(t, script, want)
	}
}

func TestRenderUserDataQuotesMetacharacters(t *testing.T) {
	cfg := Config{
		Image:        "xerrion/scraper-app:latest",
		BaseAPIURL:   "http://127.0.0.1",
		ClientID:     "id; rm -rf /",
		ClientSecret: `pa$s "word" && echo pwned`,
	}
	script, err := RenderUserData(cfg)
	require.NoError(t, err)

	// The raw metacharacter sequences must not survive unquoted.
	assert.NotContains(t, script, "CLIENT_ID=id; rm -rf /")
	assert.Contains(t, script, "CLIENT_ID="+shellquote.Join(cfg.ClientID))
	assert.Contains(t, script, "CLIENT_SECRET="+shellquote.Join(cfg.ClientSecret))

	// The docker run line must still split back into exactly the intended
	// words, credentials intact.
	var runLine string
	for line := range strings.Lines(strings.ReplaceAll(script, "\\\n", "")) {
		if strings.Contains(line, "docker run") {
			runLine = strings.TrimSpace(line)
			break
		}
	}
	require.NotEmpty(t, runLine)
	words, err := shellquote.Split(runLine)
	require.NoError(t, err)
	assert.Contains(t, words, "CLIENT_ID=id; rm -rf /")
	assert.Contains(t, words, "CLIENT_SECRET="+cfg.ClientSecret)
	assert.Equal(t, "xerrion/scraper-app:latest", words[len(words)-1])
}

func TestRenderUserDataRedacted(t *testing.T) {
	cfg := Config{
		Image:        "xerrion/scraper-app:latest",
		BaseAPIURL:   "http://127.0.0.1",
		ClientID:     "client-1",
		ClientSecret: "s3cret",
	}
	script, err := RenderUserDataRedacted(cfg)
	require.NoError(t, err)
	assert.NotContains(t, script, "s3cret")
	assert.NotContains(t, script, "client-1")
	assert.Contains(t, script, "<redacted>")
}
