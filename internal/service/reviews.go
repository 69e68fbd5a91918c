package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository"
	"github.com/lalith-99/interskill/internal/sanitize"
	"go.uber.org/zap"
)

const (
	minRating = 1
	maxRating = 5
)

// ReviewInput creates a testimonial. Blank Role means models.DefaultReviewRole
// and nil Rating means models.DefaultReviewRating.
type ReviewInput struct {
	Name   string
	Role   string
	Review string
	Rating *int
	Image  string
}

type ReviewService struct {
	reviews repository.ReviewRepository
	logger  *zap.Logger
	now     func() time.Time
}

func NewReviewService(reviews repository.ReviewRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, logger: logger, now: time.Now}
}

// List returns reviews in display order.
func (s *ReviewService) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.reviews.List(ctx)
	if err != nil {
		return nil, storeError("list reviews", err)
	}
	return reviews, nil
}

// Create appends a review after the current last one.
func (s *ReviewService) Create(ctx context.Context, in ReviewInput) (*models.Review, error) {
	now := s.now().UTC()
	r := &models.Review{
		ID:        uuid.NewString(),
		Name:      sanitize.Text(in.Name),
		Role:      sanitize.Text(in.Role),
		Review:    sanitize.Text(in.Review),
		Rating:    models.DefaultReviewRating,
		Image:     strings.TrimSpace(in.Image),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if r.Name == "" || r.Review == "" {
		return nil, Validation("name and review are required")
	}
	if r.Role == "" {
		r.Role = models.DefaultReviewRole
	}
	if in.Rating != nil {
		if *in.Rating < minRating || *in.Rating > maxRating {
			return nil, Validation("rating must be between 1 and 5")
		}
		r.Rating = *in.Rating
	}
	if r.Image != "" && !validImageRef(r.Image) {
		return nil, Validation("image must be an http(s) URL or a path starting with /")
	}

	if err := s.reviews.Create(ctx, r); err != nil {
		return nil, storeError("create review", err)
	}
	return r, nil
}

// Reorder sets each review's order to its position in ids. Ids that no
// longer resolve are skipped.
func (s *ReviewService) Reorder(ctx context.Context, ids []string) error {
	if ids == nil {
		return Validation("invalid data format")
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return Validation("invalid data format")
		}
	}
	if err := s.reviews.Reorder(ctx, ids); err != nil {
		return storeError("reorder reviews", err)
	}
	return nil
}

func (s *ReviewService) Delete(ctx context.Context, actor Actor, id string) error {
	ok, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return storeError("delete review", err)
	}
	if !ok {
		return NotFound("review not found")
	}
	s.logger.Info("review deleted", zap.String("review_id", id), zap.String("by", actor.ID))
	return nil
}

// validImageRef accepts absolute http(s) URLs and site-relative paths.
func validImageRef(ref string) bool {
	if strings.ContainsAny(ref, "<>\"' ") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return u.Host == "" && strings.HasPrefix(u.Path, "/") && !strings.HasPrefix(ref, "//")
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
