package client

import (
	"context"
	"fmt"
	"net/http"

	"taskplanner/internal/model"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), nil, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := c.do(ctx, http.MethodPost, "/categories", categoryRequest{Name: name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames a category.
func (c *Client) UpdateCategory(ctx context.Context, id uint, name string) (*model.Category, error) {
	var category model.Category
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/categories/%d", id), categoryRequest{Name: name}, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category together with its tasks.
func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), nil, nil)
}
