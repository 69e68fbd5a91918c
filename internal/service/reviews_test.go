package service

import (
	"context"
	"testing"
	"time"

	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newReviewService(t *testing.T) *ReviewService {
	t.Helper()
	svc := NewReviewService(memory.NewReviewStore(), zap.NewNop())
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return svc
}

func createReview(t *testing.T, svc *ReviewService, name string) *models.Review {
	t.Helper()
	r, err := svc.Create(context.Background(), ReviewInput{Name: name, Review: "Great trainers"})
	require.NoError(t, err)
	return r
}

func reviewNames(reviews []models.Review) []string {
	names := make([]string, 0, len(reviews))
	for _, r := range reviews {
		names = append(names, r.Name)
	}
	return names
}

func TestReviewCreate_Defaults(t *testing.T) {
	svc := newReviewService(t)

	r := createReview(t, svc, "Priya")
	assert.Equal(t, models.DefaultReviewRole, r.Role)
	assert.Equal(t, models.DefaultReviewRating, r.Rating)
	assert.Equal(t, "", r.Image)
	assert.Equal(t, 0, r.Order)
}

func TestReviewCreate_Validation(t *testing.T) {
	ctx := context.Background()
	svc := newReviewService(t)

	tests := []struct {
		name string
		in   ReviewInput
	}{
		{"missing name", ReviewInput{Review: "Good"}},
		{"missing review", ReviewInput{Name: "Priya"}},
		{"markup only review", ReviewInput{Name: "Priya", Review: "<script>x</script>"}},
		{"rating too low", ReviewInput{Name: "Priya", Review: "Good", Rating: intPtr(0)}},
		{"rating too high", ReviewInput{Name: "Priya", Review: "Good", Rating: intPtr(6)}},
		{"image scheme", ReviewInput{Name: "Priya", Review: "Good", Image: "javascript:alert(1)"}},
		{"image markup", ReviewInput{Name: "Priya", Review: "Good", Image: `/a.png"><script>`}},
		{"image protocol relative", ReviewInput{Name: "Priya", Review: "Good", Image: "//evil.example/a.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.in)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestReviewCreate_KeepsGivenFields(t *testing.T) {
	svc := newReviewService(t)

	r, err := svc.Create(context.Background(), ReviewInput{
		Name:   " <b>Ravi</b> ",
		Role:   "Java Developer",
		Review: "Placed in 3 months",
		Rating: intPtr(4),
		Image:  "https://cdn.example.com/ravi.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi", r.Name)
	assert.Equal(t, "Java Developer", r.Role)
	assert.Equal(t, 4, r.Rating)
	assert.Equal(t, "https://cdn.example.com/ravi.jpg", r.Image)

	r, err = svc.Create(context.Background(), ReviewInput{Name: "Meena", Review: "Good", Image: "/uploads/meena.png"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/meena.png", r.Image)
}

func TestReviewCreate_AppendsAfterLast(t *testing.T) {
	ctx := context.Background()
	svc := newReviewService(t)

	a := createReview(t, svc, "A")
	b := createReview(t, svc, "B")
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)

	// Deleting the first does not make the next review reuse order 1.
	require.NoError(t, svc.Delete(ctx, admin, a.ID))
	c := createReview(t, svc, "C")
	assert.Equal(t, 2, c.Order)

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, reviewNames(reviews))
}

func TestReviewReorder(t *testing.T) {
	ctx := context.Background()
	svc := newReviewService(t)

	a := createReview(t, svc, "A")
	b := createReview(t, svc, "B")
	c := createReview(t, svc, "C")

	require.NoError(t, svc.Reorder(ctx, []string{c.ID, "gone", a.ID, b.ID}))

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, reviewNames(reviews))
	assert.Equal(t, 0, reviews[0].Order)
	assert.Equal(t, 2, reviews[1].Order)
	assert.Equal(t, 3, reviews[2].Order)

	assert.Equal(t, KindValidation, KindOf(svc.Reorder(ctx, nil)))
	assert.Equal(t, KindValidation, KindOf(svc.Reorder(ctx, []string{a.ID, ""})))
	require.NoError(t, svc.Reorder(ctx, []string{}))
}

func TestReviewList_NewestFirstWithinOrder(t *testing.T) {
	ctx := context.Background()
	svc := newReviewService(t)

	a := createReview(t, svc, "A")
	b := createReview(t, svc, "B")
	require.NoError(t, svc.Reorder(ctx, []string{a.ID, b.ID}))
	// Both at order 0: the newer review wins the tie.
	require.NoError(t, svc.Reorder(ctx, []string{b.ID}))
	require.NoError(t, svc.Reorder(ctx, []string{a.ID}))

	reviews, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, reviewNames(reviews))
}

func TestReviewDelete_Unknown(t *testing.T) {
	svc := newReviewService(t)
	assert.Equal(t, KindNotFound, KindOf(svc.Delete(context.Background(), admin, "missing")))
}
