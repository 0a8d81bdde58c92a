package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/cssprep-api/internal/models"
)

func setupEssayTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Essay{}))
	return db
}

func TestEssayRepositoryListFiltersAndPaginates(t *testing.T) {
	db := setupEssayTestDB(t)
	repo := NewEssayRepository(db)
	ctx := context.Background()

	alice := models.Profile{Email: "alice@example.com"}
	bob := models.Profile{Email: "bob@example.com"}
	require.NoError(t, db.Create(&alice).Error)
	require.NoError(t, db.Create(&bob).Error)

	base := time.Now().Add(-time.Hour)
	essays := []models.Essay{
		{UserID: alice.ID, Kind: models.EssayKindText, Content: "first", TotalMarks: 60, Source: "ai", CreatedAt: base},
		{UserID: alice.ID, Kind: models.EssayKindPDF, Content: "second", TotalMarks: 70, Source: "fallback", CreatedAt: base.Add(time.Minute)},
		{UserID: alice.ID, Kind: models.EssayKindText, Content: "third", TotalMarks: 80, Source: "ai", CreatedAt: base.Add(2 * time.Minute)},
		{UserID: bob.ID, Kind: models.EssayKindText, Content: "other", TotalMarks: 50, Source: "ai", CreatedAt: base},
	}
	for i := range essays {
		require.NoError(t, repo.Create(ctx, &essays[i]))
	}

	items, total, err := repo.List(ctx, EssayFilter{UserID: &alice.ID})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	require.Equal(t, "third", items[0].Content, "newest essay should appear first")

	paged, total, err := repo.List(ctx, EssayFilter{UserID: &alice.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	require.Equal(t, "first", paged[0].Content)

	fallback := "fallback"
	degraded, total, err := repo.List(ctx, EssayFilter{Source: &fallback})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.True(t, degraded[0].IsFallback())

	all, total, err := repo.List(ctx, EssayFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(4), total)
	require.Len(t, all, 4)
}

func TestEssayRepositoryGetByID(t *testing.T) {
	db := setupEssayTestDB(t)
	repo := NewEssayRepository(db)
	ctx := context.Background()

	essay := models.Essay{UserID: 1, Kind: models.EssayKindText, Content: "essay", TotalMarks: 42, Source: "ai", Result: []byte(`{"score":42}`)}
	require.NoError(t, repo.Create(ctx, &essay))

	stored, err := repo.GetByID(ctx, essay.ID)
	require.NoError(t, err)
	require.Equal(t, 42, stored.TotalMarks)
	require.JSONEq(t, `{"score":42}`, string(stored.Result))

	_, err = repo.GetByID(ctx, essay.ID+100)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProfileRepositorySubscriptionRoundTrip(t *testing.T) {
	db := setupEssayTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profile := models.Profile{Email: "sub@example.com", Name: "Sub"}
	require.NoError(t, repo.Create(ctx, &profile))

	stored, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	require.Equal(t, models.SubscriptionStatusInactive, stored.SubscriptionStatus)
	require.Equal(t, "student", stored.Role)
	require.False(t, stored.HasActiveSubscription(time.Now()))

	expires := time.Now().Add(24 * time.Hour)
	stored.SubscriptionStatus = models.SubscriptionStatusActive
	stored.SubscriptionExpiresAt = &expires
	require.NoError(t, repo.Update(ctx, &stored))

	updated, err := repo.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	require.True(t, updated.HasActiveSubscription(time.Now()))
	require.False(t, updated.HasActiveSubscription(time.Now().Add(48*time.Hour)))
}
