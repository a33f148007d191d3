package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/facultyhub/calendar_engine/internal/model"
)

// DirectoryRepository отдаёт каталоги кафедр, курсов и преподавателей.
// Используется только для заполнения фильтров, к алгоритмическому ядру
// не относится.
type DirectoryRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDirectoryRepository создаёт новый репозиторий каталогов
func NewDirectoryRepository(pool *pgxpool.Pool, logger *zap.Logger) *DirectoryRepository {
	return &DirectoryRepository{
		pool:   pool,
		logger: logger,
	}
}

// ListDepartments возвращает все кафедры
func (r *DirectoryRepository) ListDepartments(ctx context.Context) ([]model.Department, error) {
	query := `
		SELECT id, name, created_at
		FROM departments
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}

	return departments, nil
}

// ListCourses возвращает курсы, опционально ограниченные кафедрой
func (r *DirectoryRepository) ListCourses(ctx context.Context, departmentID *uuid.UUID) ([]model.Course, error) {
	query := `
		SELECT id, department_id, name, code, created_at
		FROM courses
		WHERE $1::uuid IS NULL OR department_id = $1
		ORDER BY code
	`

	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.DepartmentID, &c.Name, &c.Code, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}

	return courses, nil
}

// ListProfessors возвращает преподавателей, опционально ограниченных кафедрой
func (r *DirectoryRepository) ListProfessors(ctx context.Context, departmentID *uuid.UUID) ([]model.Professor, error) {
	query := `
		SELECT id, department_id, full_name, email, created_at
		FROM professors
		WHERE $1::uuid IS NULL OR department_id = $1
		ORDER BY full_name
	`

	rows, err := r.pool.Query(ctx, query, departmentID)
	if err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	defer rows.Close()

	var professors []model.Professor
	for rows.Next() {
		var p model.Professor
		if err := rows.Scan(&p.ID, &p.DepartmentID, &p.FullName, &p.Email, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan professor: %w", err)
		}
		professors = append(professors, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate professors: %w", err)
	}

	return professors, nil
}
