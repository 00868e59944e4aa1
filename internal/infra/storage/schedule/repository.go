package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/trimtime/booking-service/internal/domain"
	"github.com/trimtime/booking-service/pkg/dbmetrics"
	"github.com/trimtime/booking-service/pkg/psqlbuilder"
)

// Repository репозиторий для работы с конфигурацией расписания салона
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetEffectiveConfig возвращает действующую конфигурацию рабочего окна
// для мастера: персональная строка (employee_id = employeeID) имеет
// приоритет над общесалонной (employee_id IS NULL).
//
// Отсутствие конфигурации - ошибка ErrScheduleNotFound, значений
// по умолчанию репозиторий не подставляет.
func (r *Repository) GetEffectiveConfig(ctx context.Context, businessID int64, employeeID *int64) (*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	employeeFilter := squirrel.Or{
		squirrel.Eq{"employee_id": nil},
	}
	if employeeID != nil {
		employeeFilter = append(employeeFilter, squirrel.Eq{"employee_id": *employeeID})
	}

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"employee_id",
		"start_hour",
		"end_hour",
		"slot_interval_minutes",
		"created_at",
		"updated_at",
	).
		From("schedule_configs").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(employeeFilter).
		OrderBy("employee_id NULLS LAST").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEffectiveConfig - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	cfg, err := scanConfig(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEffectiveConfig - scan config: %v", ErrScanRow, err)
	}

	return cfg, nil
}

// GetAllByBusiness возвращает все конфигурации салона: общесалонную
// и персональные для мастеров
func (r *Repository) GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.ScheduleConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"employee_id",
		"start_hour",
		"end_hour",
		"slot_interval_minutes",
		"created_at",
		"updated_at",
	).
		From("schedule_configs").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("employee_id NULLS FIRST, employee_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.ScheduleConfig, 0)
	for rows.Next() {
		cfg, err := scanConfig(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByBusiness - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// GetRestrictedWindows возвращает ограниченные окна салона,
// отсортированные по началу окна
func (r *Repository) GetRestrictedWindows(ctx context.Context, businessID int64) ([]domain.RestrictedWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"start_minute_of_day",
		"end_minute_of_day",
		"required_tier",
		"bypass_fee_minor_units",
	).
		From("restricted_windows").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("start_minute_of_day ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRestrictedWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRestrictedWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]domain.RestrictedWindow, 0)
	for rows.Next() {
		var rw domain.RestrictedWindow
		err := rows.Scan(
			&rw.ID,
			&rw.BusinessID,
			&rw.StartMinuteOfDay,
			&rw.EndMinuteOfDay,
			&rw.RequiredTier,
			&rw.BypassFeeMinorUnits,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRestrictedWindows - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, rw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRestrictedWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// ReplaceForBusiness атомарно заменяет все конфигурации и ограниченные
// окна салона. Вызывается внутри транзакции service-слоя.
func (r *Repository) ReplaceForBusiness(ctx context.Context, businessID int64, configs []*domain.ScheduleConfig, windows []domain.RestrictedWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteConfigs, args, err := psqlbuilder.Delete("schedule_configs").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - build delete configs query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteConfigs, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - delete configs: %v", ErrExecQuery, err)
	}

	deleteWindows, args, err := psqlbuilder.Delete("restricted_windows").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - build delete windows query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteWindows, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForBusiness - delete windows: %v", ErrExecQuery, err)
	}

	for _, cfg := range configs {
		query, args, err := psqlbuilder.Insert("schedule_configs").
			Columns("business_id", "employee_id", "start_hour", "end_hour", "slot_interval_minutes").
			Values(businessID, cfg.EmployeeID, cfg.Window.StartHour, cfg.Window.EndHour, cfg.Window.SlotIntervalMinutes).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceForBusiness - build insert config query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceForBusiness - insert config: %v", ErrExecQuery, err)
		}
	}

	for _, rw := range windows {
		query, args, err := psqlbuilder.Insert("restricted_windows").
			Columns("business_id", "start_minute_of_day", "end_minute_of_day", "required_tier", "bypass_fee_minor_units").
			Values(businessID, rw.StartMinuteOfDay, rw.EndMinuteOfDay, rw.RequiredTier, rw.BypassFeeMinorUnits).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceForBusiness - build insert window query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceForBusiness - insert window: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// scanConfig сканирует строку в модель конфигурации расписания
func scanConfig(scan func(dest ...interface{}) error) (*domain.ScheduleConfig, error) {
	var cfg domain.ScheduleConfig
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&cfg.ID,
		&cfg.BusinessID,
		&cfg.EmployeeID,
		&cfg.Window.StartHour,
		&cfg.Window.EndHour,
		&cfg.Window.SlotIntervalMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}
