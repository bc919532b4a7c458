package repository

import (
	"context"

	"eonestep.com/institutebackend/internal/model"
	"gorm.io/gorm"
)

type FranchiseRepository interface {
	// Create inserts the franchise and assigns its tenant code from the
	// generated ID, both inside one transaction.
	Create(ctx context.Context, franchise *model.Franchise) error
	FindByID(ctx context.Context, id uint) (*model.Franchise, error)
	FindByEmail(ctx context.Context, email string) (*model.Franchise, error)
	FindAll(ctx context.Context) ([]model.Franchise, error)
	FindByStatus(ctx context.Context, status string) ([]model.Franchise, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, franchise *model.Franchise) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	// Approve applies the approval state change and creates the login user
	// as a single atomic unit.
	Approve(ctx context.Context, franchise *model.Franchise, user *model.User) error
	// UpdatePasswords writes the same hash to the franchise row and its
	// linked user atomically.
	UpdatePasswords(ctx context.Context, franchise *model.Franchise, user *model.User, hash string) error
}

type franchiseRepository struct {
	db *gorm.DB
}

func NewFranchiseRepository(db *gorm.DB) FranchiseRepository {
	return &franchiseRepository{db: db}
}

func (r *franchiseRepository) Create(ctx context.Context, franchise *model.Franchise) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(franchise).Error; err != nil {
			return err
		}

		// Second write: the code depends on the generated ID.
		code := model.FranchiseCode(franchise.ID)
		franchise.Code = &code
		return tx.Model(franchise).Update("code", code).Error
	})
}

func (r *franchiseRepository) FindByID(ctx context.Context, id uint) (*model.Franchise, error) {
	var franchise model.Franchise
	if err := r.db.WithContext(ctx).First(&franchise, id).Error; err != nil {
		return nil, err
	}

	return &franchise, nil
}

func (r *franchiseRepository) FindByEmail(ctx context.Context, email string) (*model.Franchise, error) {
	var franchise model.Franchise
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&franchise).Error; err != nil {
		return nil, err
	}

	return &franchise, nil
}

func (r *franchiseRepository) FindAll(ctx context.Context) ([]model.Franchise, error) {
	var franchises []model.Franchise
	if err := r.db.WithContext(ctx).Find(&franchises).Error; err != nil {
		return nil, err
	}

	return franchises, nil
}

func (r *franchiseRepository) FindByStatus(ctx context.Context, status string) ([]model.Franchise, error) {
	var franchises []model.Franchise
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&franchises).Error; err != nil {
		return nil, err
	}

	return franchises, nil
}

func (r *franchiseRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Franchise{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *franchiseRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Franchise{}).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *franchiseRepository) Save(ctx context.Context, franchise *model.Franchise) error {
	return r.db.WithContext(ctx).Save(franchise).Error
}

func (r *franchiseRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Franchise{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *franchiseRepository) Approve(ctx context.Context, franchise *model.Franchise, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(franchise).Updates(map[string]any{
			"status":   model.StatusApproved,
			"password": franchise.Password,
		}).Error; err != nil {
			return err
		}

		return tx.Create(user).Error
	})
}

func (r *franchiseRepository) UpdatePasswords(ctx context.Context, franchise *model.Franchise, user *model.User, hash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(franchise).Update("password", hash).Error; err != nil {
			return err
		}

		return tx.Model(user).Updates(map[string]any{
			"password":             hash,
			"must_change_password": true,
		}).Error
	})
}
