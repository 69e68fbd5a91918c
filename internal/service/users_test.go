package service

import (
	"context"
	"testing"
	"time"

	"github.com/lalith-99/interskill/internal/auth"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newUserService(t *testing.T) (*UserService, *repository.Store) {
	t.Helper()
	store := memory.New()
	return NewUserService(store.Users, store.Requests, testSecret, time.Hour, zap.NewNop()), store
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	user, err := svc.RegisterStaff(ctx, StaffInput{Username: "Anita", Password: "secret1", FullName: "Anita Rao"})
	require.NoError(t, err)
	assert.Equal(t, "anita", user.Username)
	assert.Equal(t, models.RoleStaff, user.Role)

	sess, err := svc.Login(ctx, "ANITA ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.User.ID)

	claims, err := auth.ParseToken(sess.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "Anita Rao", claims.Name)
	assert.Equal(t, models.RoleStaff, claims.Role)

	_, err = svc.Login(ctx, "anita", "wrong")
	assert.Equal(t, KindAuth, KindOf(err))
	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.Equal(t, KindAuth, KindOf(err))
	_, err = svc.Login(ctx, "", "")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRegisterStaff_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	_, err := svc.RegisterStaff(ctx, StaffInput{Username: "x", Password: "123"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.RegisterStaff(ctx, StaffInput{Username: "x", Password: "secret1", Role: "owner"})
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.RegisterStaff(ctx, StaffInput{Username: "x", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.RegisterStaff(ctx, StaffInput{Username: "X", Password: "secret2"})
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestUpdateProfile_StaffPasswordIsQueued(t *testing.T) {
	ctx := context.Background()
	svc, store := newUserService(t)

	user, err := svc.RegisterStaff(ctx, StaffInput{Username: "ravi", Password: "oldpass", Phone: "555"})
	require.NoError(t, err)
	actor := Actor{ID: user.ID, Name: user.DisplayName(), Role: user.Role}

	sess, err := svc.UpdateProfile(ctx, actor, ProfileInput{FullName: "Ravi Kumar", Password: "newpass"})
	require.NoError(t, err)
	assert.True(t, sess.PendingApproval)
	assert.Equal(t, "Ravi Kumar", sess.User.FullName)
	assert.Equal(t, "555", sess.User.Phone)

	// Old password still works until an admin approves.
	_, err = svc.Login(ctx, "ravi", "oldpass")
	require.NoError(t, err)

	pending, err := store.Requests.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, models.RequestPasswordUpdate, pending[0].Type)
	require.NotNil(t, pending[0].UserID)
	assert.Equal(t, user.ID, *pending[0].UserID)
	assert.Equal(t, "HO", pending[0].Branch)
	assert.True(t, auth.CheckPassword(pending[0].PasswordHash, "newpass"))
}

func TestUpdateProfile_AdminPasswordApplies(t *testing.T) {
	ctx := context.Background()
	svc, store := newUserService(t)

	user, err := svc.RegisterStaff(ctx, StaffInput{Username: "root", Password: "oldpass", Role: models.RoleAdmin})
	require.NoError(t, err)
	actor := Actor{ID: user.ID, Name: user.DisplayName(), Role: user.Role}

	sess, err := svc.UpdateProfile(ctx, actor, ProfileInput{Password: "newpass"})
	require.NoError(t, err)
	assert.False(t, sess.PendingApproval)

	_, err = svc.Login(ctx, "root", "newpass")
	require.NoError(t, err)

	pending, err := store.Requests.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestUpdateRoleAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	root, err := svc.RegisterStaff(ctx, StaffInput{Username: "root", Password: "secret1", Role: models.RoleAdmin})
	require.NoError(t, err)
	staff, err := svc.RegisterStaff(ctx, StaffInput{Username: "meera", Password: "secret1"})
	require.NoError(t, err)
	rootActor := Actor{ID: root.ID, Name: "root", Role: models.RoleAdmin}

	updated, err := svc.UpdateRole(ctx, staff.ID, "Admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	_, err = svc.UpdateRole(ctx, staff.ID, "owner")
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = svc.UpdateRole(ctx, "missing", models.RoleStaff)
	assert.Equal(t, KindNotFound, KindOf(err))

	assert.Equal(t, KindValidation, KindOf(svc.Delete(ctx, rootActor, root.ID)))
	require.NoError(t, svc.Delete(ctx, rootActor, staff.ID))
	assert.Equal(t, KindNotFound, KindOf(svc.Delete(ctx, rootActor, staff.ID)))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, root.ID, users[0].ID)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newUserService(t)

	created, err := svc.EnsureAdmin(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.EnsureAdmin(ctx, "Admin", "bootstrap")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureAdmin(ctx, "admin", "other-password")
	require.NoError(t, err)
	assert.False(t, created)

	sess, err := svc.Login(ctx, "admin", "bootstrap")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, sess.User.Role)
}
