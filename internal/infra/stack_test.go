package infra

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackUnwindOrder(t *testing.T) {
	var order []string
	s := new(Stack)
	for _, name := range []string{"keypair", "secgroup", "instance"} {
		s.Push(func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	require.NoError(t, s.Unwind(t.Context()))
	assert.Equal(t, []string{"instance", "secgroup", "keypair"}, order)

	// A second unwind is a no-op.
	order = nil
	require.NoError(t, s.Unwind(t.Context()))
	assert.Empty(t, order)
}

func TestStackUnwindJoinsErrors(t *testing.T) {
	errA := fmt.Errorf("a")
	errB := fmt.Errorf("b")
	s := new(Stack)
	s.Push(func(ctx context.Context) error { return errA })
	s.Push(func(ctx context.Context) error { return nil })
	s.Push(func(ctx context.Context) error { return errB })
	err := s.Unwind(t.Context())
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
}
