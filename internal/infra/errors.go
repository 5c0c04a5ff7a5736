package infra

import (
	"errors"

	"github.com/aws/smithy-go"
)

// isNotFound reports whether err is an EC2 API error saying the resource is
// already gone. Teardown treats these as success so a retried down can
// finish a partially failed one.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "InvalidGroup.NotFound", "InvalidGroupId.NotFound",
		"InvalidKeyPair.NotFound", "InvalidInstanceID.NotFound":
		return true
	}
	return false
}
