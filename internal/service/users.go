package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/interskill/internal/auth"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/sanitize"
	"go.uber.org/zap"
)

const minPasswordLen = 6

// defaultBranch is recorded when a staff member has no branch on file.
const defaultBranch = "HO"

// StaffInput creates a console account.
type StaffInput struct {
	Username string
	Password string
	Role     string
	FullName string
	Email    string
	Phone    string
	Branch   string
}

// ProfileInput updates the caller's own account. Blank fields keep their
// current value.
type ProfileInput struct {
	FullName string
	Email    string
	Phone    string
	Branch   string
	Password string
}

// Session is a successful login or profile update: a fresh token plus the
// account it was issued for.
type Session struct {
	Token string
	User  *models.User

	// PendingApproval is set when a staff password change was queued as a
	// staff request instead of being applied.
	PendingApproval bool
}

type UserService struct {
	users    repository.UserRepository
	requests repository.StaffRequestRepository
	secret   string
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserService(
	users repository.UserRepository,
	requests repository.StaffRequestRepository,
	secret string,
	ttl time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:    users,
		requests: requests,
		secret:   secret,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks the credentials and issues a token. Unknown usernames and
// wrong passwords produce the same error.
func (s *UserService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, Validation("username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, storeError("find user", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, Unauthorized("invalid username or password")
	}

	return s.session(user)
}

// RegisterStaff creates an account directly. Role defaults to staff.
func (s *UserService) RegisterStaff(ctx context.Context, in StaffInput) (*models.User, error) {
	username := normalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return nil, Validation("username and password are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, Validation("password must be at least 6 characters")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleStaff
	}
	if !validRole(role) {
		return nil, Validation("role must be admin or staff")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, &Error{Kind: KindStore, Message: "internal server error", Err: err}
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     sanitize.Text(in.FullName),
		Email:        sanitize.Text(in.Email),
		Phone:        sanitize.Text(in.Phone),
		Branch:       sanitize.Text(in.Branch),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}

// GetByID returns the stored account, or nil when it no longer exists.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get user", err)
	}
	return user, nil
}

// StaffDirectory returns every account for the chat contact list. Callers
// project it down to public fields.
func (s *UserService) StaffDirectory(ctx context.Context) ([]models.User, error) {
	return s.List(ctx)
}

// Delete removes an account. Admins cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, actor Actor, id string) error {
	if id == actor.ID {
		return Validation("you cannot delete your own account")
	}
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return storeError("delete user", err)
	}
	if !removed {
		return NotFound("user not found")
	}
	s.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", actor.ID))
	return nil
}

// UpdateRole changes an account's role.
func (s *UserService) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if !validRole(role) {
		return nil, Validation("role must be admin or staff")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if user == nil {
		return nil, NotFound("user not found")
	}

	user.Role = role
	user.UpdatedAt = s.now().UTC()
	if err := s.update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the caller's profile changes. An admin's new
// password takes effect at once; a staff member's is queued as a
// password_update staff request for an admin to approve.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, in ProfileInput) (*Session, error) {
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError("get user", err)
	}
	if user == nil {
		return nil, NotFound("user not found")
	}

	if v := sanitize.Text(in.FullName); v != "" {
		user.FullName = v
	}
	if v := sanitize.Text(in.Email); v != "" {
		user.Email = v
	}
	if v := sanitize.Text(in.Phone); v != "" {
		user.Phone = v
	}
	if v := sanitize.Text(in.Branch); v != "" {
		user.Branch = v
	}

	pending := false
	if in.Password != "" {
		if len(in.Password) < minPasswordLen {
			return nil, Validation("password must be at least 6 characters")
		}
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return nil, &Error{Kind: KindStore, Message: "internal server error", Err: err}
		}

		if user.Role == models.RoleAdmin {
			user.PasswordHash = hash
		} else {
			if err := s.queuePasswordChange(ctx, user, hash); err != nil {
				return nil, err
			}
			pending = true
		}
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.update(ctx, user); err != nil {
		return nil, err
	}

	sess, err := s.session(user)
	if err != nil {
		return nil, err
	}
	sess.PendingApproval = pending
	return sess, nil
}

// EnsureAdmin creates an admin account with the given credentials unless
// the username already exists. Reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return false, nil
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, storeError("find admin", err)
	}
	if existing != nil {
		return false, nil
	}

	if _, err := s.RegisterStaff(ctx, StaffInput{
		Username: username,
		Password: password,
		Role:     models.RoleAdmin,
		FullName: "Administrator",
	}); err != nil {
		if KindOf(err) == KindConflict {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("bootstrap admin created", zap.String("username", username))
	return true, nil
}

func (s *UserService) queuePasswordChange(ctx context.Context, user *models.User, hash string) error {
	branch := user.Branch
	if branch == "" {
		branch = defaultBranch
	}
	userID := user.ID
	req := &models.StaffRequest{
		ID:           uuid.NewString(),
		FullName:     user.DisplayName(),
		Email:        user.Email,
		Phone:        user.Phone,
		Branch:       branch,
		PasswordHash: hash,
		Status:       models.RequestPending,
		Type:         models.RequestPasswordUpdate,
		UserID:       &userID,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return storeError("queue password change", err)
	}
	return nil
}

func (s *UserService) create(ctx context.Context, user *models.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return Conflict("user already exists")
		}
		return storeError("create user", err)
	}
	return nil
}

func (s *UserService) update(ctx context.Context, user *models.User) error {
	ok, err := s.users.Update(ctx, user)
	if err != nil {
		return storeError("update user", err)
	}
	if !ok {
		return NotFound("user not found")
	}
	return nil
}

func (s *UserService) session(user *models.User) (*Session, error) {
	token, err := auth.GenerateToken(user, s.secret, s.ttl)
	if err != nil {
		return nil, &Error{Kind: KindStore, Message: "internal server error", Err: err}
	}
	return &Session{Token: token, User: user}, nil
}

func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

func validRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleStaff
}
