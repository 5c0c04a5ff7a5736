package infra

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/chainguard-dev/clog"
	"github.com/docker/cli/cli/connhelper"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

var (
	ErrDockerConnect      = fmt.Errorf("failed to reach the docker daemon on the instance")
	ErrContainerNotFound  = fmt.Errorf("scraper container not found on the instance (boot script may still be running)")
	ErrContainerInspect   = fmt.Errorf("failed to inspect the scraper container")
	ErrContainerLogsFetch = fmt.Errorf("failed to fetch scraper container logs")
)

// ContainerStatus is what 'scraperctl status' reports about the scraper
// container running on the instance.
type ContainerStatus struct {
	ID      string
	Image   string
	State   string
	Status  string
	Started string
	Logs    string
}

// dockerOverSSH builds a docker API client that tunnels to the instance's
// daemon over SSH with the deployment's private key, the same way one would
// with DOCKER_HOST=ssh://ec2-user@<ip>.
func dockerOverSSH(ctx context.Context, st *State) (*client.Client, error) {
	log := clog.FromContext(ctx)

	url := fmt.Sprintf("ssh://%s", net.JoinHostPort(st.InstanceIP, strconv.Itoa(int(portSSH))))
	opts := []string{
		"-o", "StrictHostKeyChecking=no",
		"-o", "UserKnownHostsFile=/dev/null",
		"-i", st.KeyPath,
		"-l", "ec2-user",
	}

	helper, err := connhelper.GetConnectionHelperWithSSHOpts(url, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDockerConnect, err)
	}

	cli, err := client.NewClientWithOpts(
		client.WithHTTPClient(&http.Client{
			Transport: &http.Transport{DialContext: helper.Dialer},
		}),
		client.WithHost(url),
		client.WithAPIVersionNegotiation(),
		client.WithDialContext(helper.Dialer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDockerConnect, err)
	}

	log.Debug("created docker SSH client", "target", url)
	return cli, nil
}

// Status reports the state and recent logs of the scraper container on the
// deployed instance.
func Status(ctx context.Context, st *State) (*ContainerStatus, error) {
	cli, err := dockerOverSSH(ctx, st)
	if err != nil {
		return nil, err
	}
	defer cli.Close()

	containers, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", ContainerName)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDockerConnect, err)
	}
	if len(containers) == 0 {
		return nil, ErrContainerNotFound
	}

	inspect, err := cli.ContainerInspect(ctx, containers[0].ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainerInspect, err)
	}

	status := &ContainerStatus{
		ID:     inspect.ID,
		Image:  containers[0].Image,
		Status: containers[0].Status,
	}
	if inspect.State != nil {
		status.State = inspect.State.Status
		status.Started = inspect.State.StartedAt
	}

	logs, err := cli.ContainerLogs(ctx, inspect.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       "20",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainerLogsFetch, err)
	}
	defer logs.Close()

	var buf bytes.Buffer
	// Container logs are stream-multiplexed unless the container runs with
	// a TTY.
	if _, err := stdcopy.StdCopy(&buf, &buf, logs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainerLogsFetch, err)
	}
	status.Logs = buf.String()

	return status, nil
}
