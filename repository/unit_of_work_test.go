package repository

import (
	"context"
	"testing"
	"time"

	"fundbridge/events"
	"fundbridge/models"
	"fundbridge/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		received <- event
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	user := testutil.CreateTestUser(models.RoleInvestor)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	uow.EventBus().Publish(events.UserCreatedEvent{UserID: user.ID, Email: user.Email, Role: user.Role})
	require.NoError(t, uow.Commit())
	require.NoError(t, uow.Rollback()) // no-op after commit

	select {
	case event := <-received:
		assert.Equal(t, user.ID, event.(events.UserCreatedEvent).UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not flushed after commit")
	}

	stored, err := NewUserRepository(testDB.DB).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventTypeUserCreated, func(ctx context.Context, event events.Event) {
		received <- event
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)
	user := testutil.CreateTestUser(models.RoleInvestor)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.UserRepository().Create(ctx, user))
	uow.EventBus().Publish(events.UserCreatedEvent{UserID: user.ID})
	require.NoError(t, uow.Rollback())

	select {
	case <-received:
		t.Fatal("event delivered after rollback")
	case <-time.After(100 * time.Millisecond):
	}

	stored, err := NewUserRepository(testDB.DB).GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestUnitOfWork_RepositoriesRequireBegin(t *testing.T) {
	uow := &unitOfWork{transactionalBus: events.NewTransactionalBus(events.NewBus())}

	assert.Panics(t, func() { uow.UserRepository() })
	assert.Panics(t, func() { uow.PitchRepository() })
	assert.Error(t, uow.Commit())
	assert.NoError(t, uow.Rollback())
}
