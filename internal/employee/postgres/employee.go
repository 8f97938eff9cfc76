package postgres

import (
	"context"

	employeeDatamodel "github.com/frahmantamala/recruitment-management/internal/core/datamodel/employee"
	"github.com/frahmantamala/recruitment-management/internal/employee"
	"github.com/frahmantamala/recruitment-management/internal/store"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	return store.TranslateError(store.DB(ctx, r.db).Create(e).Error)
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	if err := store.DB(ctx, r.db).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, store.TranslateError(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) GetByUserID(ctx context.Context, userID string) (*employeeDatamodel.Employee, error) {
	var e employeeDatamodel.Employee
	if err := store.DB(ctx, r.db).Where("user_id = ?", userID).First(&e).Error; err != nil {
		return nil, store.TranslateError(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) List(ctx context.Context, limit, offset int) ([]*employeeDatamodel.Employee, int64, error) {
	db := store.DB(ctx, r.db)

	var total int64
	if err := db.Model(&employeeDatamodel.Employee{}).Count(&total).Error; err != nil {
		return nil, 0, store.TranslateError(err)
	}

	var employees []*employeeDatamodel.Employee
	query := db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&employees).Error
	return employees, total, store.TranslateError(err)
}

func (r *EmployeeRepository) Update(ctx context.Context, e *employeeDatamodel.Employee) error {
	return store.TranslateError(store.DB(ctx, r.db).Save(e).Error)
}
