package infra

import (
	"fmt"

	"github.com/google/go-containerregistry/pkg/name"
)

var (
	ErrMissingCredentials = fmt.Errorf("client_id and client_secret are required and have no default")
	ErrBadImage           = fmt.Errorf("docker image name is not a valid reference")
)

// Config is the deployment's input surface: the image to run, the scraper's
// API endpoint and credentials, and where/how to place the instance.
type Config struct {
	// Image is the docker image the instance boots (docker_image_name).
	Image string

	// BaseAPIURL, ClientID and ClientSecret are injected into the container
	// environment by the boot script. The credentials are sensitive: they
	// must never appear in logs or unredacted render output.
	BaseAPIURL   string
	ClientID     string
	ClientSecret string

	// Placement.
	Region       string
	InstanceType string

	// AllowHTTP additionally opens inbound TCP/80 on the security group.
	// SSH (TCP/22) is always open.
	AllowHTTP bool

	// Name prefixes all created resource names and tags.
	Name string
}

func (c *Config) ApplyDefaults() {
	if c.Image == "" {
		c.Image = "xerrion/scraper-app:latest"
	}
	if c.BaseAPIURL == "" {
		c.BaseAPIURL = "http://127.0.0.1"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.InstanceType == "" {
		c.InstanceType = "t2.micro"
	}
	if c.Name == "" {
		c.Name = "scraper-app"
	}
}

func (c *Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrMissingCredentials
	}
	if _, err := name.ParseReference(c.Image); err != nil {
		return fmt.Errorf("%w: %w", ErrBadImage, err)
	}
	return nil
}
