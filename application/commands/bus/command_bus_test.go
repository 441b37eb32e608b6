package bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type renameCommand struct {
	Name string
}

func (c renameCommand) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type clearCommand struct{}

func (clearCommand) Validate() error { return nil }

func TestCommandBus_SendDispatchesToRegisteredHandler(t *testing.T) {
	b := NewCommandBus()
	var handled renameCommand
	err := b.Register(renameCommand{}, CommandHandlerFunc(func(_ context.Context, cmd Command) error {
		handled = cmd.(renameCommand)
		return nil
	}))
	require.NoError(t, err)

	err = b.Send(context.Background(), renameCommand{Name: "board"})

	require.NoError(t, err)
	assert.Equal(t, "board", handled.Name)
}

func TestCommandBus_SendValidatesBeforeDispatch(t *testing.T) {
	b := NewCommandBus()
	called := false
	require.NoError(t, b.Register(renameCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		called = true
		return nil
	})))

	err := b.Send(context.Background(), renameCommand{})

	assert.Error(t, err)
	assert.False(t, called)
}

func TestCommandBus_SendUnregisteredCommand(t *testing.T) {
	b := NewCommandBus()

	err := b.Send(context.Background(), clearCommand{})

	assert.Error(t, err)
}

func TestCommandBus_DuplicateRegistration(t *testing.T) {
	b := NewCommandBus()
	noop := CommandHandlerFunc(func(context.Context, Command) error { return nil })

	require.NoError(t, b.Register(clearCommand{}, noop))
	err := b.Register(clearCommand{}, noop)

	assert.Error(t, err)
}

func TestCommandBus_HandlerErrorIsWrapped(t *testing.T) {
	b := NewCommandBus()
	require.NoError(t, b.Register(clearCommand{}, CommandHandlerFunc(func(context.Context, Command) error {
		return errors.New("boom")
	})))

	err := b.Send(context.Background(), clearCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestPipeline_AppliesMiddlewareInOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next CommandHandler) CommandHandler {
			return CommandHandlerFunc(func(ctx context.Context, cmd Command) error {
				order = append(order, name)
				return next.Handle(ctx, cmd)
			})
		}
	}

	p := NewPipeline(mark("outer"), mark("inner"))
	handler := p.Execute(CommandHandlerFunc(func(context.Context, Command) error {
		order = append(order, "handler")
		return nil
	}))

	require.NoError(t, handler.Handle(context.Background(), clearCommand{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
