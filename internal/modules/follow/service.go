package follow

import (
	"context"
	"errors"

	"cookbook/internal/domain"
	"cookbook/internal/repository"

	"gorm.io/gorm"
)

type FollowStore interface {
	Add(ctx context.Context, userID, authorID int64) error
	Remove(ctx context.Context, userID, authorID int64) error
	Exists(ctx context.Context, userID, authorID int64) (bool, error)
	Authors(ctx context.Context, userID int64, limit, offset int) ([]domain.User, int64, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type RecipeStore interface {
	ByAuthorIDs(ctx context.Context, authorIDs []int64) ([]domain.Recipe, error)
	CountByAuthorIDs(ctx context.Context, authorIDs []int64) (map[int64]int64, error)
}

type Service struct {
	follows FollowStore
	users   UserStore
	recipes RecipeStore
}

func NewService(follows FollowStore, users UserStore, recipes RecipeStore) *Service {
	return &Service{follows: follows, users: users, recipes: recipes}
}

// Subscribe follows the author for the user. The self-follow check runs
// before the existence check; repeating the call fails with
// ErrAlreadyFollowing.
func (s *Service) Subscribe(ctx context.Context, userID, authorID int64, recipesLimit int) (*AuthorResponse, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	exists, err := s.follows.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFollowing
	}

	if err := s.follows.Add(ctx, userID, authorID); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}

	recipes, err := s.recipes.ByAuthorIDs(ctx, []int64{authorID})
	if err != nil {
		return nil, err
	}
	counts, err := s.recipes.CountByAuthorIDs(ctx, []int64{authorID})
	if err != nil {
		return nil, err
	}

	resp := toAuthorResponse(author, recipes, counts[authorID], recipesLimit)
	return &resp, nil
}

func (s *Service) Unsubscribe(ctx context.Context, userID, authorID int64) error {
	if err := s.follows.Remove(ctx, userID, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFollowing
		}
		return err
	}
	return nil
}

// Subscriptions lists the authors the user follows with their recipes.
// Recipes and counts come from one batched query each, not one per author.
func (s *Service) Subscriptions(ctx context.Context, userID int64, page, limit, recipesLimit int) (*SubscriptionsResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	authors, total, err := s.follows.Authors(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]int64, 0, len(authors))
	for _, a := range authors {
		authorIDs = append(authorIDs, a.ID)
	}

	recipes, err := s.recipes.ByAuthorIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byAuthor := make(map[int64][]domain.Recipe, len(authors))
	for _, r := range recipes {
		byAuthor[r.AuthorID] = append(byAuthor[r.AuthorID], r)
	}

	counts, err := s.recipes.CountByAuthorIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]AuthorResponse, 0, len(authors))
	for i := range authors {
		a := &authors[i]
		views = append(views, toAuthorResponse(a, byAuthor[a.ID], counts[a.ID], recipesLimit))
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	return &SubscriptionsResponse{
		Authors:    views,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
