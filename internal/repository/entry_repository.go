package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/facultyhub/calendar_engine/internal/model"
)

const entryColumns = `id, title, description, entry_type, start_time, end_time,
		is_recurring, recurrence_pattern, days_of_week, location, color,
		department_id, course_id, is_cancelled, is_completed, attendees,
		created_at, updated_at`

// EntryRepository управляет записями расписания в базе данных.
// Это единственный писатель записей: движок читает их и никогда не изменяет.
type EntryRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewEntryRepository создаёт новый репозиторий записей
func NewEntryRepository(pool *pgxpool.Pool, logger *zap.Logger) *EntryRepository {
	return &EntryRepository{
		pool:   pool,
		logger: logger,
	}
}

// GetEntries возвращает записи окна [start, end), ограниченные scope.
// Повторяющиеся мастера, начавшиеся до конца окна, попадают в выборку целиком —
// какие их вхождения действительно лежат в окне, решает разворачиватель.
func (r *EntryRepository) GetEntries(ctx context.Context, start, end time.Time, scope model.Scope) ([]model.ScheduleEntry, error) {
	conditions := []string{
		"((start_time < $2 AND end_time > $1) OR (is_recurring AND start_time < $2))",
	}
	args := []any{start, end}

	if scope.DepartmentID != nil {
		args = append(args, *scope.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if scope.CourseID != nil {
		args = append(args, *scope.CourseID)
		conditions = append(conditions, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if scope.ProfessorID != nil {
		args = append(args, *scope.ProfessorID)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(attendees)", len(args)))
	}
	if scope.OfficeHoursOnly {
		args = append(args, string(model.EntryTypeOfficeHours))
		conditions = append(conditions, fmt.Sprintf("entry_type = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM schedule_entries
		WHERE %s
		ORDER BY start_time, id
	`, entryColumns, strings.Join(conditions, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []model.ScheduleEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedule entries: %w", err)
	}

	return entries, nil
}

// GetByID получает запись по ID
func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_entries WHERE id = $1`, entryColumns)

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule entry by id: %w", err)
	}

	return &entry, nil
}

// Create создаёт новую запись расписания
func (r *EntryRepository) Create(ctx context.Context, entry *model.ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	query := `
		INSERT INTO schedule_entries (id, title, description, entry_type, start_time, end_time,
			is_recurring, recurrence_pattern, days_of_week, location, color,
			department_id, course_id, is_cancelled, is_completed, attendees)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		entry.ID,
		entry.Title,
		entry.Description,
		string(entry.EntryType),
		entry.StartTime,
		entry.EndTime,
		entry.IsRecurring,
		nullablePattern(entry.RecurrencePattern),
		weekdaysToInt16(entry.DaysOfWeek),
		entry.Location,
		entry.Color,
		entry.DepartmentID,
		entry.CourseID,
		entry.IsCancelled,
		entry.IsCompleted,
		entry.Attendees,
	).Scan(&entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}

	return nil
}

// Update обновляет запись расписания
func (r *EntryRepository) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE schedule_entries
		SET title = $2, description = $3, entry_type = $4, start_time = $5, end_time = $6,
			is_recurring = $7, recurrence_pattern = $8, days_of_week = $9, location = $10,
			color = $11, department_id = $12, course_id = $13, is_cancelled = $14,
			is_completed = $15, attendees = $16, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx,
		query,
		entry.ID,
		entry.Title,
		entry.Description,
		string(entry.EntryType),
		entry.StartTime,
		entry.EndTime,
		entry.IsRecurring,
		nullablePattern(entry.RecurrencePattern),
		weekdaysToInt16(entry.DaysOfWeek),
		entry.Location,
		entry.Color,
		entry.DepartmentID,
		entry.CourseID,
		entry.IsCancelled,
		entry.IsCompleted,
		entry.Attendees,
	).Scan(&entry.UpdatedAt)

	if err == pgx.ErrNoRows {
		return fmt.Errorf("schedule entry not found")
	}
	if err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}

	return nil
}

// Delete удаляет запись расписания
func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

// rowScanner покрывает pgx.Row и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry читает одну строку в модель записи
func scanEntry(row rowScanner) (model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	var entryType string
	var pattern *string
	var days []int16

	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&entry.Description,
		&entryType,
		&entry.StartTime,
		&entry.EndTime,
		&entry.IsRecurring,
		&pattern,
		&days,
		&entry.Location,
		&entry.Color,
		&entry.DepartmentID,
		&entry.CourseID,
		&entry.IsCancelled,
		&entry.IsCompleted,
		&entry.Attendees,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return entry, err
	}

	entry.EntryType = model.EntryType(entryType)
	if pattern != nil {
		entry.RecurrencePattern = model.RecurrencePattern(*pattern)
	}
	entry.DaysOfWeek = int16ToWeekdays(days)

	return entry, nil
}

func nullablePattern(p model.RecurrencePattern) *string {
	if p == "" {
		return nil
	}
	s := string(p)
	return &s
}

func weekdaysToInt16(days []model.Weekday) []int16 {
	if days == nil {
		return nil
	}
	out := make([]int16, len(days))
	for i, d := range days {
		out[i] = int16(d)
	}
	return out
}

func int16ToWeekdays(days []int16) []model.Weekday {
	if days == nil {
		return nil
	}
	out := make([]model.Weekday, len(days))
	for i, d := range days {
		out[i] = model.Weekday(d)
	}
	return out
}
