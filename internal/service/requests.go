package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/interskill/internal/auth"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/sanitize"
	"go.uber.org/zap"
)

// RequestInput is a public self-registration.
type RequestInput struct {
	FullName string
	Email    string
	Phone    string
	Branch   string
	Password string
}

// RequestService manages the staff request queue. Approving a request is
// the only path that turns a request into account state.
type RequestService struct {
	requests repository.StaffRequestRepository
	users    repository.UserRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewRequestService(requests repository.StaffRequestRepository, users repository.UserRepository, logger *zap.Logger) *RequestService {
	return &RequestService{
		requests: requests,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

// Create queues a registration request. The proposed password is hashed
// before it is stored.
func (s *RequestService) Create(ctx context.Context, in RequestInput) (*models.StaffRequest, error) {
	req := &models.StaffRequest{
		ID:       uuid.NewString(),
		FullName: sanitize.Text(in.FullName),
		Email:    normalizeUsername(sanitize.Text(in.Email)),
		Phone:    sanitize.Text(in.Phone),
		Branch:   sanitize.Text(in.Branch),
		Status:   models.RequestPending,
		Type:     models.RequestRegistration,
	}
	if req.FullName == "" || req.Email == "" || in.Password == "" {
		return nil, Validation("fullName, email and password are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, Validation("password must be at least 6 characters")
	}
	if req.Branch == "" {
		req.Branch = defaultBranch
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, &Error{Kind: KindStore, Message: "internal server error", Err: err}
	}
	req.PasswordHash = hash
	req.CreatedAt = s.now().UTC()

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, storeError("create staff request", err)
	}
	return req, nil
}

func (s *RequestService) ListPending(ctx context.Context) ([]models.StaffRequest, error) {
	reqs, err := s.requests.ListPending(ctx)
	if err != nil {
		return nil, storeError("list staff requests", err)
	}
	return reqs, nil
}

// Delete rejects a request by removing it.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	removed, err := s.requests.Delete(ctx, id)
	if err != nil {
		return storeError("delete staff request", err)
	}
	if !removed {
		return NotFound("request not found")
	}
	return nil
}

// Approve applies a request and removes it from the queue. A password
// update replaces the linked user's password hash. A registration creates
// a staff account whose username is the request e-mail.
func (s *RequestService) Approve(ctx context.Context, id string) (string, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return "", storeError("get staff request", err)
	}
	if req == nil {
		return "", NotFound("request not found")
	}

	var msg string
	switch req.Type {
	case models.RequestPasswordUpdate:
		if err := s.applyPassword(ctx, req); err != nil {
			return "", err
		}
		msg = "Password updated successfully"
	case models.RequestRegistration:
		if err := s.register(ctx, req); err != nil {
			return "", err
		}
		msg = "Staff account created"
	default:
		return "", Validation("cannot approve this request type")
	}

	if _, err := s.requests.Delete(ctx, req.ID); err != nil {
		return "", storeError("delete staff request", err)
	}
	s.logger.Info("staff request approved",
		zap.String("request_id", req.ID),
		zap.String("type", req.Type),
	)
	return msg, nil
}

func (s *RequestService) applyPassword(ctx context.Context, req *models.StaffRequest) error {
	if req.UserID == nil {
		return Validation("request is not linked to a user")
	}
	user, err := s.users.GetByID(ctx, *req.UserID)
	if err != nil {
		return storeError("get user", err)
	}
	if user == nil {
		return NotFound("user not found")
	}

	user.PasswordHash = req.PasswordHash
	user.UpdatedAt = s.now().UTC()
	ok, err := s.users.Update(ctx, user)
	if err != nil {
		return storeError("update user", err)
	}
	if !ok {
		return NotFound("user not found")
	}
	return nil
}

func (s *RequestService) register(ctx context.Context, req *models.StaffRequest) error {
	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     normalizeUsername(req.Email),
		PasswordHash: req.PasswordHash,
		Role:         models.RoleStaff,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Branch:       req.Branch,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Conflict("user already exists")
		}
		return storeError("create user", err)
	}
	return nil
}
