package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCommand struct {
	Fail   bool
	Result string
}

func (c *testCommand) Validate() error {
	if c.Fail {
		return errors.New("invalid command")
	}
	return nil
}

func TestCommandBus_SendDispatchesByType(t *testing.T) {
	b := NewCommandBus()
	err := b.Register(&testCommand{}, CommandHandlerFunc(func(_ context.Context, cmd Command) error {
		cmd.(*testCommand).Result = "handled"
		return nil
	}))
	require.NoError(t, err)

	cmd := &testCommand{}
	require.NoError(t, b.Send(context.Background(), cmd))
	assert.Equal(t, "handled", cmd.Result)
}

func TestCommandBus_SendValidatesFirst(t *testing.T) {
	b := NewCommandBus()
	called := false
	require.NoError(t, b.Register(&testCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		called = true
		return nil
	})))

	err := b.Send(context.Background(), &testCommand{Fail: true})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestCommandBus_UnregisteredCommand(t *testing.T) {
	b := NewCommandBus()

	err := b.Send(context.Background(), &testCommand{})

	assert.Error(t, err)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	handler := CommandHandlerFunc(func(context.Context, Command) error { return nil })

	require.NoError(t, b.Register(&testCommand{}, handler))
	assert.Error(t, b.Register(&testCommand{}, handler))
}

func TestCommandBus_MiddlewareWrapsHandlers(t *testing.T) {
	b := NewCommandBus()
	order := []string{}
	require.NoError(t, b.Register(&testCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		order = append(order, "handler")
		return nil
	})))

	b.Use(func(next CommandHandler) CommandHandler {
		return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
			order = append(order, "middleware")
			return next.Handle(ctx, cmd)
		})
	})

	require.NoError(t, b.Send(context.Background(), &testCommand{}))
	assert.Equal(t, []string{"middleware", "handler"}, order)
}
