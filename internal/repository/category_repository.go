package repository

import (
	"context"

	"github.com/caseflow/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.ComplaintCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ComplaintCategory, error)
	Update(ctx context.Context, category *models.ComplaintCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.ComplaintCategory, error)

	CreateSubcategory(ctx context.Context, subcategory *models.ComplaintSubcategory) error
	FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*models.ComplaintSubcategory, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.ComplaintCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.ComplaintCategory, error) {
	var category models.ComplaintCategory
	err := r.db.WithContext(ctx).
		Preload("Subcategories").
		First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.ComplaintCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ComplaintCategory{}, "id = ?", id).Error
}

func (r *categoryRepository) List(ctx context.Context) ([]models.ComplaintCategory, error) {
	var categories []models.ComplaintCategory
	err := r.db.WithContext(ctx).
		Preload("Subcategories").
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CreateSubcategory(ctx context.Context, subcategory *models.ComplaintSubcategory) error {
	return r.db.WithContext(ctx).Create(subcategory).Error
}

func (r *categoryRepository) FindSubcategoryByID(ctx context.Context, id uuid.UUID) (*models.ComplaintSubcategory, error) {
	var subcategory models.ComplaintSubcategory
	err := r.db.WithContext(ctx).First(&subcategory, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &subcategory, nil
}

func (r *categoryRepository) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.ComplaintSubcategory{}, "id = ?", id).Error
}
