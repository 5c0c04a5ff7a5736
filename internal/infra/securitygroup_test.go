package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngressPorts(t *testing.T) {
	t.Run("ssh-only", func(t *testing.T) {
		assert.Equal(t, []int32{22}, ingressPorts(false))
	})
	t.Run("ssh-and-http", func(t *testing.T) {
		assert.Equal(t, []int32{22, 80}, ingressPorts(true))
	})
}
