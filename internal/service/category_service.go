package service

import (
	"context"
	"strings"

	"taskplanner/internal/apperr"
	"taskplanner/internal/model"
	"taskplanner/internal/repository"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) List(ctx context.Context, userID uint) ([]model.Category, error) {
	categories, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("category", "list categories", err)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id uint) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, storeError("category", "find category", err)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, userID uint, name string) (*model.Category, error) {
	name, err := s.checkName(ctx, userID, name, 0)
	if err != nil {
		return nil, err
	}
	category := &model.Category{UserID: userID, Name: name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, storeError("category", "create category", err)
	}
	return category, nil
}

func (s *CategoryService) Rename(ctx context.Context, userID, id uint, name string) (*model.Category, error) {
	category, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	name, err = s.checkName(ctx, userID, name, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, category, name); err != nil {
		return nil, storeError("category", "rename category", err)
	}
	category.Name = name
	return category, nil
}

// Delete removes the category and its tasks.
func (s *CategoryService) Delete(ctx context.Context, userID, id uint) error {
	return storeError("category", "delete category", s.repo.Delete(ctx, userID, id))
}

func (s *CategoryService) checkName(ctx context.Context, userID uint, name string, excludeID uint) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("name", "Category name is required")
	}
	exists, err := s.repo.ExistsByName(ctx, userID, name, excludeID)
	if err != nil {
		return "", storeError("category", "check category name", err)
	}
	if exists {
		return "", apperr.Conflict("name", "Name has already been taken")
	}
	return name, nil
}
