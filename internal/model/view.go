package model

import (
	"time"

	"github.com/google/uuid"
)

// ViewMode определяет, какое подмножество записей показывается на сетке
type ViewMode string

const (
	ViewModePersonal    ViewMode = "personal"
	ViewModeDepartment  ViewMode = "department"
	ViewModeCourse      ViewMode = "course"
	ViewModeOfficeHours ViewMode = "office_hours"
)

// ViewSelector описывает активный выбор пользователя: роль, режим просмотра
// и фильтры. Не сохраняется — живёт только в состоянии сервиса.
type ViewSelector struct {
	Role         Role
	ViewerID     uuid.UUID  // действующий пользователь
	ViewMode     ViewMode
	DepartmentID *uuid.UUID // фильтр по кафедре
	CourseID     *uuid.UUID // фильтр по курсу
	ProfessorID  *uuid.UUID // выбор преподавателя (только для админа)
}

// Scope — то, что передаётся источнику данных при запросе записей.
// Пустое (nil) поле означает "без ограничения по этому измерению".
type Scope struct {
	ViewMode        ViewMode
	DepartmentID    *uuid.UUID
	CourseID        *uuid.UUID
	ProfessorID     *uuid.UUID
	OfficeHoursOnly bool
}

// Department — элемент каталога кафедр (используется только для фильтров)
type Department struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Course — элемент каталога курсов
type Course struct {
	ID           uuid.UUID `json:"id"`
	DepartmentID uuid.UUID `json:"department_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	CreatedAt    time.Time `json:"created_at"`
}

// Professor — элемент каталога преподавателей
type Professor struct {
	ID           uuid.UUID `json:"id"`
	DepartmentID uuid.UUID `json:"department_id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}
