package service

import (
	"github.com/google/uuid"

	"github.com/facultyhub/calendar_engine/internal/model"
)

// BuildScope переводит активный выбор (роль, режим, фильтры) в scope
// для источника данных. Чистая функция — выборка, а не загрузка.
func BuildScope(sel model.ViewSelector) model.Scope {
	scope := model.Scope{ViewMode: sel.ViewMode}

	switch sel.ViewMode {
	case model.ViewModePersonal:
		scope.ProfessorID = effectiveProfessor(sel)
	case model.ViewModeDepartment:
		// nil-фильтр означает "все кафедры, доступные вызывающему" —
		// интерпретация остаётся за источником данных
		scope.DepartmentID = sel.DepartmentID
	case model.ViewModeCourse:
		scope.CourseID = sel.CourseID
	case model.ViewModeOfficeHours:
		scope.OfficeHoursOnly = true
		scope.ProfessorID = effectiveProfessor(sel)
	}

	return scope
}

// FilterForView — защитный фильтр поверх ответа источника данных.
// Гарантирует изоляцию режимов: запись чужого режима не попадёт в привязку,
// даже если источник вернул более широкий набор.
func FilterForView(sel model.ViewSelector, entries []model.ScheduleEntry) []model.ScheduleEntry {
	result := make([]model.ScheduleEntry, 0, len(entries))

	for _, entry := range entries {
		if matchesView(sel, entry) {
			result = append(result, entry)
		}
	}

	return result
}

func matchesView(sel model.ViewSelector, entry model.ScheduleEntry) bool {
	switch sel.ViewMode {
	case model.ViewModePersonal:
		return entry.HasAttendee(*effectiveProfessor(sel))

	case model.ViewModeDepartment:
		if sel.DepartmentID == nil {
			return true
		}
		return entry.DepartmentID != nil && *entry.DepartmentID == *sel.DepartmentID

	case model.ViewModeCourse:
		if sel.CourseID == nil {
			return true
		}
		return entry.CourseID != nil && *entry.CourseID == *sel.CourseID

	case model.ViewModeOfficeHours:
		if entry.EntryType != model.EntryTypeOfficeHours {
			return false
		}
		return entry.HasAttendee(*effectiveProfessor(sel))
	}

	return false
}

// effectiveProfessor определяет, чьё расписание смотрим. По умолчанию —
// собственное расписание действующего пользователя; выбранный админом
// преподаватель переопределяет его, но не является обязательным условием.
func effectiveProfessor(sel model.ViewSelector) *uuid.UUID {
	if sel.Role == model.RoleAdmin && sel.ProfessorID != nil {
		return sel.ProfessorID
	}

	viewer := sel.ViewerID
	return &viewer
}
