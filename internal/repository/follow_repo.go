package repository

import (
	"context"

	"cookbook/internal/domain"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Add(ctx context.Context, userID, authorID int64) error {
	return r.db.WithContext(ctx).Create(&domain.Follow{
		UserID:   userID,
		AuthorID: authorID,
	}).Error
}

func (r *FollowRepository) Remove(ctx context.Context, userID, authorID int64) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Authors returns the users the given user follows, ordered by username,
// with the total for pagination.
func (r *FollowRepository) Authors(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error) {
	const followedBy = "id IN (SELECT author_id FROM follows WHERE user_id = ?)"

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where(followedBy, userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).Where(followedBy, userID).Order("username")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	var authors []domain.User
	if err := q.Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// SetForAuthors returns which of the given authors the user follows,
// batched per page.
func (r *FollowRepository) SetForAuthors(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	set := make(map[int64]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return set, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
