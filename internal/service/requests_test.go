package service

import (
	"context"
	"testing"
	"time"

	"github.com/lalith-99/interskill/internal/auth"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestCreate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRequestService(store.Requests, store.Users, zap.NewNop())

	_, err := svc.Create(ctx, RequestInput{FullName: "Neha", Email: "neha@example.com"})
	assert.Equal(t, KindValidation, KindOf(err))

	req, err := svc.Create(ctx, RequestInput{FullName: "Neha", Email: "Neha@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, models.RequestRegistration, req.Type)
	assert.Equal(t, "neha@example.com", req.Email)
	assert.Equal(t, "HO", req.Branch)
	assert.NotEqual(t, "secret1", req.PasswordHash)
	assert.True(t, auth.CheckPassword(req.PasswordHash, "secret1"))

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestRequestApprove_Registration(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRequestService(store.Requests, store.Users, zap.NewNop())
	users := NewUserService(store.Users, store.Requests, testSecret, time.Hour, zap.NewNop())

	req, err := svc.Create(ctx, RequestInput{FullName: "Neha", Email: "neha@example.com", Branch: "Kochi", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, req.ID)
	require.NoError(t, err)

	sess, err := users.Login(ctx, "neha@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, sess.User.Role)
	assert.Equal(t, "Kochi", sess.User.Branch)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// A second registration for the same address collides with the account.
	again, err := svc.Create(ctx, RequestInput{FullName: "Neha", Email: "neha@example.com", Password: "secret2"})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, again.ID)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestRequestApprove_PasswordUpdate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRequestService(store.Requests, store.Users, zap.NewNop())
	users := NewUserService(store.Users, store.Requests, testSecret, time.Hour, zap.NewNop())

	user, err := users.RegisterStaff(ctx, StaffInput{Username: "ravi", Password: "oldpass"})
	require.NoError(t, err)
	_, err = users.UpdateProfile(ctx, Actor{ID: user.ID, Role: user.Role}, ProfileInput{Password: "newpass"})
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	msg, err := svc.Approve(ctx, pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Password updated successfully", msg)

	_, err = users.Login(ctx, "ravi", "newpass")
	require.NoError(t, err)
	_, err = users.Login(ctx, "ravi", "oldpass")
	assert.Equal(t, KindAuth, KindOf(err))
}

func TestRequestApprove_UserGone(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRequestService(store.Requests, store.Users, zap.NewNop())

	userID := "vanished"
	require.NoError(t, store.Requests.Create(ctx, &models.StaffRequest{
		ID:           "r1",
		Status:       models.RequestPending,
		Type:         models.RequestPasswordUpdate,
		UserID:       &userID,
		PasswordHash: "x",
	}))

	_, err := svc.Approve(ctx, "r1")
	assert.Equal(t, KindNotFound, KindOf(err))

	// The request stays queued so an admin can reject it.
	got, err := store.Requests.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRequestDeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewRequestService(store.Requests, store.Users, zap.NewNop())

	req, err := svc.Create(ctx, RequestInput{FullName: "Neha", Email: "neha@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, req.ID))
	assert.Equal(t, KindNotFound, KindOf(svc.Delete(ctx, req.ID)))

	_, err = svc.Approve(ctx, req.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}
