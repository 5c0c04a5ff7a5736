package infra

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kballard/go-shellquote"
)

// ContainerName is the fixed name the boot script gives the scraper
// container, so later inspection can find it.
const ContainerName = "scraper-app"

// userDataTemplate is the first-boot script for an Amazon Linux 2 instance:
// install and start docker, then launch the scraper container with its
// configuration injected as environment variables. The script is linear on
// purpose; cloud-init runs it exactly once and the container's restart
// policy owns recovery from there.
//
// All substituted values are shell-quoted before they reach the template.
var userDataTemplate = template.Must(template.New("userdata").Parse(`#!/bin/bash
set -euxo pipefail
yum update -y
amazon-linux-extras install docker -y
service docker start
usermod -a -G docker ec2-user
docker run -d --restart always --name {{.ContainerName}} \
  -e BASE_API_URL={{.BaseAPIURL}} \
  -e CLIENT_ID={{.ClientID}} \
  -e CLIENT_SECRET={{.ClientSecret}} \
  {{.Image}}
`))

var ErrRenderUserData = fmt.Errorf("failed to render user data script")

type userDataParams struct {
	ContainerName string
	BaseAPIURL    string
	ClientID      string
	ClientSecret  string
	Image         string
}

// RenderUserData produces the instance boot script for cfg. Every value
// interpolated into the docker run command is shell-quoted, so credentials
// containing shell metacharacters cannot alter the command.
func RenderUserData(cfg Config) (string, error) {
	params := userDataParams{
		ContainerName: ContainerName,
		BaseAPIURL:    shellquote.Join(cfg.BaseAPIURL),
		ClientID:      shellquote.Join(cfg.ClientID),
		ClientSecret:  shellquote.Join(cfg.ClientSecret),
		Image:         shellquote.Join(cfg.Image),
	}
	var sb strings.Builder
	if err := userDataTemplate.Execute(&sb, params); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRenderUserData, err)
	}
	return sb.String(), nil
}

// RenderUserDataRedacted renders the boot script with the credential values
// masked, for display.
func RenderUserDataRedacted(cfg Config) (string, error) {
	redacted := cfg
	redacted.ClientID = "<redacted>"
	redacted.ClientSecret = "<redacted>"
	return RenderUserData(redacted)
}
