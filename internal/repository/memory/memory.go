// Package memory is a process-local backend. It backs STORE_DRIVER=memory
// for local development and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
)

// New returns a Store whose repositories share nothing but the process.
func New() *repository.Store {
	return &repository.Store{
		Leads:      NewLeadStore(),
		Messages:   NewMessageStore(),
		Users:      NewUserStore(),
		Requests:   NewStaffRequestStore(),
		Stats:      NewStatisticStore(),
		Categories: NewCategoryStore(),
		Reviews:    NewReviewStore(),
		Ping:       func(context.Context) error { return nil },
	}
}

// ---------------------------------------------------------------
// Leads
// ---------------------------------------------------------------

type LeadStore struct {
	mu    sync.RWMutex
	leads map[string]*models.Lead
}

func NewLeadStore() *LeadStore {
	return &LeadStore{leads: make(map[string]*models.Lead)}
}

func (s *LeadStore) Create(ctx context.Context, lead *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[lead.ID] = copyLead(lead)
	return nil
}

func (s *LeadStore) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.leads[id]
	if !ok {
		return nil, nil
	}
	return copyLead(l), nil
}

func (s *LeadStore) List(ctx context.Context, deleted bool) ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	leads := make([]models.Lead, 0)
	for _, l := range s.leads {
		if l.IsDeleted == deleted {
			leads = append(leads, *copyLead(l))
		}
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].CreatedAt.After(leads[j].CreatedAt)
	})
	return leads, nil
}

func (s *LeadStore) UpdateStatusAndRemark(ctx context.Context, id string, status *string, remark *models.Remark) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok {
		return nil, nil
	}
	if status != nil {
		l.Status = *status
	}
	if remark != nil {
		l.Remarks = append(l.Remarks, *remark)
	}
	l.UpdatedAt = time.Now().UTC()
	return copyLead(l), nil
}

func (s *LeadStore) MarkDeleted(ctx context.Context, id string, by models.AuthorRef, at time.Time) (*models.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.leads[id]
	if !ok {
		return nil, nil
	}
	l.IsDeleted = true
	l.DeletedBy = &by
	l.DeletedAt = &at
	l.UpdatedAt = at
	return copyLead(l), nil
}

func (s *LeadStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[id]; !ok {
		return false, nil
	}
	delete(s.leads, id)
	return true, nil
}

func copyLead(l *models.Lead) *models.Lead {
	c := *l
	c.Remarks = append(make([]models.Remark, 0, len(l.Remarks)), l.Remarks...)
	if l.DeletedBy != nil {
		by := *l.DeletedBy
		c.DeletedBy = &by
	}
	if l.DeletedAt != nil {
		at := *l.DeletedAt
		c.DeletedAt = &at
	}
	return &c
}

// ---------------------------------------------------------------
// Messages
// ---------------------------------------------------------------

type MessageStore struct {
	mu   sync.RWMutex
	msgs []models.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{}
}

func (s *MessageStore) Create(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, copyMessage(msg))
	return nil
}

func (s *MessageStore) ListGeneral(ctx context.Context, limit int) ([]models.Message, error) {
	return s.filter(limit, func(m *models.Message) bool {
		return m.Recipient == nil
	}), nil
}

func (s *MessageStore) ListDirect(ctx context.Context, a, b string, limit int) ([]models.Message, error) {
	return s.filter(limit, func(m *models.Message) bool {
		if m.Recipient == nil {
			return false
		}
		return (m.Sender == a && *m.Recipient == b) || (m.Sender == b && *m.Recipient == a)
	}), nil
}

func (s *MessageStore) filter(limit int, keep func(*models.Message) bool) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, 0)
	for i := range s.msgs {
		if keep(&s.msgs[i]) {
			out = append(out, copyMessage(&s.msgs[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

func copyMessage(m *models.Message) models.Message {
	c := *m
	if m.Recipient != nil {
		r := *m.Recipient
		c.Recipient = &r
	}
	return c
}

// ---------------------------------------------------------------
// Users
// ---------------------------------------------------------------

type UserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]models.User)}
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return repository.ErrDuplicate
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *UserStore) Update(ctx context.Context, u *models.User) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return false, nil
	}
	s.users[u.ID] = *u
	return true, nil
}

func (s *UserStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

// ---------------------------------------------------------------
// Staff requests
// ---------------------------------------------------------------

type StaffRequestStore struct {
	mu   sync.RWMutex
	reqs map[string]models.StaffRequest
}

func NewStaffRequestStore() *StaffRequestStore {
	return &StaffRequestStore{reqs: make(map[string]models.StaffRequest)}
}

func (s *StaffRequestStore) Create(ctx context.Context, r *models.StaffRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reqs[r.ID] = *r
	return nil
}

func (s *StaffRequestStore) GetByID(ctx context.Context, id string) (*models.StaffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reqs[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *StaffRequestStore) ListPending(ctx context.Context) ([]models.StaffRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.StaffRequest, 0)
	for _, r := range s.reqs {
		if r.Status == models.RequestPending {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *StaffRequestStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reqs[id]; !ok {
		return false, nil
	}
	delete(s.reqs, id)
	return true, nil
}

// ---------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------

type StatisticStore struct {
	mu    sync.RWMutex
	stats []models.Statistic
}

func NewStatisticStore() *StatisticStore {
	return &StatisticStore{}
}

func (s *StatisticStore) List(ctx context.Context) ([]models.Statistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Statistic, 0, len(s.stats)), s.stats...), nil
}

func (s *StatisticStore) Upsert(ctx context.Context, stat *models.Statistic) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.stats {
		if s.stats[i].Label == stat.Label {
			s.stats[i].Value = stat.Value
			if stat.Icon != "" {
				s.stats[i].Icon = stat.Icon
			}
			*stat = s.stats[i]
			return false, nil
		}
	}
	s.stats = append(s.stats, *stat)
	return true, nil
}

// ---------------------------------------------------------------
// Categories
// ---------------------------------------------------------------

type CategoryStore struct {
	mu   sync.RWMutex
	cats map[string]models.Category
}

func NewCategoryStore() *CategoryStore {
	return &CategoryStore{cats: make(map[string]models.Category)}
}

// nameTaken reports whether a category other than id already uses name.
// Callers hold the lock.
func (s *CategoryStore) nameTaken(name, id string) bool {
	for _, c := range s.cats {
		if c.Name == name && c.ID != id {
			return true
		}
	}
	return false
}

func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(c.Name, "") {
		return repository.ErrDuplicate
	}
	s.cats[c.ID] = *c
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cats[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	out := make([]models.Category, 0, len(s.cats))
	for _, c := range s.cats {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cats[c.ID]; !ok {
		return false, nil
	}
	if s.nameTaken(c.Name, c.ID) {
		return false, repository.ErrDuplicate
	}
	s.cats[c.ID] = *c
	return true, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cats[id]; !ok {
		return false, nil
	}
	delete(s.cats, id)
	return true, nil
}

// ---------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------

type ReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]models.Review
}

func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: make(map[string]models.Review)}
}

func (s *ReviewStore) Create(ctx context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := 0
	for _, existing := range s.reviews {
		if existing.Order+1 > next {
			next = existing.Order + 1
		}
	}
	r.Order = next
	s.reviews[r.ID] = *r
	return nil
}

func (s *ReviewStore) List(ctx context.Context) ([]models.Review, error) {
	s.mu.RLock()
	out := make([]models.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *ReviewStore) Reorder(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range ids {
		r, ok := s.reviews[id]
		if !ok {
			continue
		}
		r.Order = i
		s.reviews[id] = r
	}
	return nil
}

func (s *ReviewStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return false, nil
	}
	delete(s.reviews, id)
	return true, nil
}

var (
	_ repository.CategoryRepository     = (*CategoryStore)(nil)
	_ repository.ReviewRepository       = (*ReviewStore)(nil)
	_ repository.LeadRepository         = (*LeadStore)(nil)
	_ repository.MessageRepository      = (*MessageStore)(nil)
	_ repository.UserRepository         = (*UserStore)(nil)
	_ repository.StaffRequestRepository = (*StaffRequestStore)(nil)
	_ repository.StatisticRepository    = (*StatisticStore)(nil)
)
