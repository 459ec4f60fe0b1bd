package repository

import (
	"context"

	"github.com/yukikurage/talent-registration-api/internal/models"
	"gorm.io/gorm"
)

// GormDevelopmentPlanRepository is a GORM implementation of DevelopmentPlanRepository
type GormDevelopmentPlanRepository struct {
	db *gorm.DB
}

// NewDevelopmentPlanRepository creates a new DevelopmentPlanRepository
func NewDevelopmentPlanRepository(db *gorm.DB) DevelopmentPlanRepository {
	return &GormDevelopmentPlanRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("horizon").Order("sort_order")
}

// Create stores a plan together with its items
func (r *GormDevelopmentPlanRepository) Create(ctx context.Context, plan *models.DevelopmentPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := plan.Items
		if err := tx.Omit("Items", "Employee").Create(plan).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].PlanID = plan.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		plan.Items = items
		return nil
	})
}

// FindByID finds a plan with its items
func (r *GormDevelopmentPlanRepository) FindByID(ctx context.Context, id uint64) (*models.DevelopmentPlan, error) {
	var plan models.DevelopmentPlan
	if err := r.db.WithContext(ctx).Preload("Items", orderedItems).First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindLatestByEmployee finds the most recent plan of an employee
func (r *GormDevelopmentPlanRepository) FindLatestByEmployee(ctx context.Context, employeeID uint64) (*models.DevelopmentPlan, error) {
	var plan models.DevelopmentPlan
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("employee_id = ?", employeeID).
		Order("id DESC").
		First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// ReplaceItems updates the plan period and swaps its items in a transaction
func (r *GormDevelopmentPlanRepository) ReplaceItems(ctx context.Context, plan *models.DevelopmentPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DevelopmentPlan{}).
			Where("id = ?", plan.ID).
			Update("period", plan.Period).Error; err != nil {
			return err
		}

		if err := tx.Where("plan_id = ?", plan.ID).Delete(&models.DevelopmentPlanItem{}).Error; err != nil {
			return err
		}

		for i := range plan.Items {
			plan.Items[i].PlanID = plan.ID
		}
		if len(plan.Items) > 0 {
			if err := tx.Create(&plan.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
