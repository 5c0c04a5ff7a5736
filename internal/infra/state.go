package infra

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// DefaultStateFile is where scraperctl records what it created, relative to
// the working directory.
const DefaultStateFile = "scraperctl.state.json"

var (
	ErrStateNotFound = fmt.Errorf("no deployment state found (nothing deployed, or wrong directory)")
	ErrStateRead     = fmt.Errorf("failed to read deployment state")
	ErrStateWrite    = fmt.Errorf("failed to write deployment state")
)

// State records the identifiers of every resource a deployment created, so
// a later down or status invocation can find them again.
type State struct {
	Name            string    `json:"name"`
	Region          string    `json:"region"`
	Image           string    `json:"image"`
	KeyName         string    `json:"key_name"`
	KeyPath         string    `json:"key_path"`
	SecurityGroupID string    `json:"security_group_id"`
	InstanceID      string    `json:"instance_id"`
	InstanceIP      string    `json:"instance_ip"`
	AllowHTTP       bool      `json:"allow_http"`
	CreatedAt       time.Time `json:"created_at"`
}

// Save writes the state as JSON, private to the invoking user since the key
// file path and instance address are operationally sensitive.
func (s *State) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStateWrite, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrStateWrite, err)
	}
	return nil
}

// LoadState reads a previously saved state file.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrStateNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrStateRead, err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStateRead, err)
	}
	return &st, nil
}

// RemoveState deletes the state file after a successful teardown.
func RemoveState(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}
