package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/observ"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/sanitize"
	"go.uber.org/zap"
)

// Lead list views and delete modes accepted from the console.
const (
	ViewDeleted         = "deleted"
	DeleteModePermanent = "permanent"
)

// LeadNotifier is told about every new lead after it is stored.
type LeadNotifier interface {
	LeadCreated(ctx context.Context, lead *models.Lead) error
}

// LeadInput is a public lead submission.
type LeadInput struct {
	Name     string
	Email    string
	Phone    string
	Interest string
	Source   string
}

// LeadService owns every state transition of a lead after creation.
type LeadService struct {
	leads    repository.LeadRepository
	notifier LeadNotifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewLeadService(leads repository.LeadRepository, notifier LeadNotifier, logger *zap.Logger) *LeadService {
	return &LeadService{
		leads:    leads,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores a new lead with status New. Name, phone and source are
// required.
func (s *LeadService) Create(ctx context.Context, in LeadInput) (*models.Lead, error) {
	lead := &models.Lead{
		ID:       uuid.NewString(),
		Name:     sanitize.Text(in.Name),
		Email:    sanitize.Text(in.Email),
		Phone:    sanitize.Text(in.Phone),
		Interest: sanitize.Text(in.Interest),
		Source:   sanitize.Text(in.Source),
		Status:   models.LeadStatusNew,
		Remarks:  make([]models.Remark, 0),
	}
	if lead.Name == "" || lead.Phone == "" || lead.Source == "" {
		return nil, Validation("name, phone and source are required")
	}
	lead.CreatedAt = s.now().UTC()
	lead.UpdatedAt = lead.CreatedAt

	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, storeError("create lead", err)
	}
	observ.RecordLeadCreated(lead.Source)

	if s.notifier != nil {
		if err := s.notifier.LeadCreated(ctx, lead); err != nil {
			s.logger.Warn("lead notification failed",
				zap.String("lead_id", lead.ID),
				zap.Error(err),
			)
		}
	}
	return lead, nil
}

// List returns leads newest first. Only an admin asking for the deleted
// view gets the trash; every other combination gets active leads.
func (s *LeadService) List(ctx context.Context, actor Actor, view string) ([]models.Lead, error) {
	deleted := actor.IsAdmin() && view == ViewDeleted

	leads, err := s.leads.List(ctx, deleted)
	if err != nil {
		return nil, storeError("list leads", err)
	}
	return leads, nil
}

// Get returns one lead. A soft-deleted lead is only visible to admins.
func (s *LeadService) Get(ctx context.Context, actor Actor, id string) (*models.Lead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get lead", err)
	}
	if lead == nil || (lead.IsDeleted && !actor.IsAdmin()) {
		return nil, NotFound("lead not found")
	}
	return lead, nil
}

// UpdateStatusAndRemark overwrites the status when status is non-nil and
// appends a remark attributed to actor when remark is non-blank. Both
// happen in one write.
func (s *LeadService) UpdateStatusAndRemark(ctx context.Context, actor Actor, id string, status *string, remark string) (*models.Lead, error) {
	if status != nil && !models.ValidLeadStatus(*status) {
		return nil, Validation("status must be one of New, Handled, Completed")
	}

	var entry *models.Remark
	if text := sanitize.Text(remark); text != "" {
		entry = &models.Remark{
			Text: text,
			By:   actor.ID,
			Name: actor.Name,
			Date: s.now().UTC(),
		}
	}

	if status == nil && entry == nil {
		lead, err := s.leads.GetByID(ctx, id)
		if err != nil {
			return nil, storeError("get lead", err)
		}
		if lead == nil {
			return nil, NotFound("lead not found")
		}
		return lead, nil
	}

	lead, err := s.leads.UpdateStatusAndRemark(ctx, id, status, entry)
	if err != nil {
		return nil, storeError("update lead", err)
	}
	if lead == nil {
		return nil, NotFound("lead not found")
	}
	return lead, nil
}

// Delete removes a lead. Staff always soft-delete and get a Conflict when
// the lead is already in the trash. Admins soft-delete without that guard,
// or remove the lead for good with mode "permanent". Reports whether the
// delete was permanent.
func (s *LeadService) Delete(ctx context.Context, actor Actor, id, mode string) (bool, error) {
	if actor.IsAdmin() && mode == DeleteModePermanent {
		removed, err := s.leads.Delete(ctx, id)
		if err != nil {
			return false, storeError("delete lead", err)
		}
		if !removed {
			return false, NotFound("lead not found")
		}
		s.logger.Info("lead permanently deleted",
			zap.String("lead_id", id),
			zap.String("by", actor.ID),
		)
		return true, nil
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return false, storeError("get lead", err)
	}
	if lead == nil {
		return false, NotFound("lead not found")
	}
	if lead.IsDeleted && !actor.IsAdmin() {
		return false, Conflict("lead is already deleted")
	}

	updated, err := s.leads.MarkDeleted(ctx, id, actor.Ref(), s.now().UTC())
	if err != nil {
		return false, storeError("soft delete lead", err)
	}
	if updated == nil {
		return false, NotFound("lead not found")
	}
	return false, nil
}
