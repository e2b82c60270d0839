package services

import (
	"context"

	"jobsite-api/models"

	"gorm.io/gorm"
)

// GormStore is the Postgres-backed Store. The application owns id assignment,
// so rows are written with their primary keys already set.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates or updates the schema for every entity table.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.TimeLog{},
		&models.Estimate{},
		&models.Expense{},
		&models.Invoice{},
		&models.InventoryItem{},
	)
}

func listRows[T any](ctx context.Context, db *gorm.DB, entity string) ([]T, error) {
	var rows []T
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, &StoreError{Entity: entity, Op: "list", Err: err}
	}
	return rows, nil
}

func createRow(ctx context.Context, db *gorm.DB, entity string, row interface{}) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return &StoreError{Entity: entity, Op: "create", Err: err}
	}
	return nil
}

func saveRow(ctx context.Context, db *gorm.DB, entity string, row interface{}) error {
	if err := db.WithContext(ctx).Save(row).Error; err != nil {
		return &StoreError{Entity: entity, Op: "update", Err: err}
	}
	return nil
}

func deleteRow(ctx context.Context, db *gorm.DB, entity string, model interface{}, id int) error {
	if err := db.WithContext(ctx).Delete(model, id).Error; err != nil {
		return &StoreError{Entity: entity, Op: "delete", Err: err}
	}
	return nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return listRows[models.User](ctx, s.db, "user")
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return createRow(ctx, s.db, "user", user)
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	return saveRow(ctx, s.db, "user", user)
}

func (s *GormStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	return listRows[models.Project](ctx, s.db, "project")
}

func (s *GormStore) CreateProject(ctx context.Context, project *models.Project) error {
	return createRow(ctx, s.db, "project", project)
}

func (s *GormStore) UpdateProject(ctx context.Context, project *models.Project) error {
	return saveRow(ctx, s.db, "project", project)
}

func (s *GormStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	return listRows[models.Task](ctx, s.db, "task")
}

func (s *GormStore) CreateTask(ctx context.Context, task *models.Task) error {
	return createRow(ctx, s.db, "task", task)
}

func (s *GormStore) UpdateTask(ctx context.Context, task *models.Task) error {
	return saveRow(ctx, s.db, "task", task)
}

func (s *GormStore) ListTimeLogs(ctx context.Context) ([]models.TimeLog, error) {
	return listRows[models.TimeLog](ctx, s.db, "time_log")
}

func (s *GormStore) CreateTimeLog(ctx context.Context, log *models.TimeLog) error {
	return createRow(ctx, s.db, "time_log", log)
}

func (s *GormStore) UpdateTimeLog(ctx context.Context, log *models.TimeLog) error {
	return saveRow(ctx, s.db, "time_log", log)
}

func (s *GormStore) DeleteTimeLog(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, "time_log", &models.TimeLog{}, id)
}

func (s *GormStore) ListEstimates(ctx context.Context) ([]models.Estimate, error) {
	return listRows[models.Estimate](ctx, s.db, "estimate")
}

func (s *GormStore) CreateEstimate(ctx context.Context, estimate *models.Estimate) error {
	return createRow(ctx, s.db, "estimate", estimate)
}

func (s *GormStore) UpdateEstimate(ctx context.Context, estimate *models.Estimate) error {
	return saveRow(ctx, s.db, "estimate", estimate)
}

func (s *GormStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return listRows[models.Expense](ctx, s.db, "expense")
}

func (s *GormStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return createRow(ctx, s.db, "expense", expense)
}

func (s *GormStore) DeleteExpense(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, "expense", &models.Expense{}, id)
}

func (s *GormStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return listRows[models.Invoice](ctx, s.db, "invoice")
}

func (s *GormStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return createRow(ctx, s.db, "invoice", invoice)
}

func (s *GormStore) UpdateInvoice(ctx context.Context, invoice *models.Invoice) error {
	return saveRow(ctx, s.db, "invoice", invoice)
}

func (s *GormStore) DeleteInvoice(ctx context.Context, id int) error {
	return deleteRow(ctx, s.db, "invoice", &models.Invoice{}, id)
}

func (s *GormStore) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	return listRows[models.InventoryItem](ctx, s.db, "inventory_item")
}

func (s *GormStore) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	return createRow(ctx, s.db, "inventory_item", item)
}

func (s *GormStore) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	return saveRow(ctx, s.db, "inventory_item", item)
}
