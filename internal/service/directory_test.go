package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/filedrive/filedrive-server/internal/model"
	"github.com/filedrive/filedrive-server/internal/testutil"
)

func TestDirectory_Create(t *testing.T) {
	t.Run("creates user with generated id", func(t *testing.T) {
		userStore := &MockUserStore{}
		userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.ID != uuid.Nil && u.Token == "user_a" && u.Name == "Ada"
		})).Return(model.User{ID: uuid.New(), Token: "user_a", Name: "Ada"}, nil)

		service := NewDirectory(userStore, testutil.MakeNoopLogger())

		user, err := service.Create(context.Background(), "user_a", "Ada", "https://img/a")
		require.NoError(t, err)
		assert.Equal(t, "user_a", user.Token)

		userStore.AssertExpectations(t)
	})

	t.Run("empty token rejected", func(t *testing.T) {
		userStore := &MockUserStore{}

		service := NewDirectory(userStore, testutil.MakeNoopLogger())

		_, err := service.Create(context.Background(), "", "Ada", "")
		var validationErr *model.ValidationError
		assert.ErrorAs(t, err, &validationErr)

		userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestDirectory_ResolveByToken(t *testing.T) {
	userStore := &MockUserStore{}
	userStore.On("GetByToken", mock.Anything, "user_gone").Return(model.User{}, model.ErrNotFound)

	service := NewDirectory(userStore, testutil.MakeNoopLogger())

	_, err := service.ResolveByToken(context.Background(), "user_gone")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDirectory_Memberships(t *testing.T) {
	user := model.User{ID: uuid.New(), Token: "user_a"}

	t.Run("add resolves token first", func(t *testing.T) {
		userStore := &MockUserStore{}
		userStore.On("GetByToken", mock.Anything, "user_a").Return(user, nil)
		userStore.On("AddMembership", mock.Anything, user.ID, "org_1", model.RoleMember).Return(nil)

		service := NewDirectory(userStore, testutil.MakeNoopLogger())

		require.NoError(t, service.AddMembership(context.Background(), "user_a", "org_1", model.RoleMember))
		userStore.AssertExpectations(t)
	})

	t.Run("role update converges on delivered value", func(t *testing.T) {
		userStore := &MockUserStore{}
		userStore.On("GetByToken", mock.Anything, "user_a").Return(user, nil)
		userStore.On("UpdateMembershipRole", mock.Anything, user.ID, "org_1", model.RoleAdmin).Return(nil)

		service := NewDirectory(userStore, testutil.MakeNoopLogger())

		require.NoError(t, service.UpdateMembershipRole(context.Background(), "user_a", "org_1", model.RoleAdmin))
	})

	t.Run("remove for unknown user surfaces not found", func(t *testing.T) {
		userStore := &MockUserStore{}
		userStore.On("GetByToken", mock.Anything, "user_gone").Return(model.User{}, model.ErrNotFound)

		service := NewDirectory(userStore, testutil.MakeNoopLogger())

		err := service.RemoveMembership(context.Background(), "user_gone", "org_1")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
