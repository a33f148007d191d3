package model

// Role определяет роль пользователя в системе
type Role string

const (
	RoleProfessor Role = "professor"
	RoleAdmin     Role = "admin"
)

// RoleConfig описывает, какие типы записей доступны роли
// и какой режим просмотра открывается по умолчанию.
// Таблица конфигурации вместо ветвления по ролям внутри движка.
type RoleConfig struct {
	EntryTypes      []EntryType
	DefaultViewMode ViewMode
}

// Allows проверяет, разрешён ли тип записи для этой роли
func (c RoleConfig) Allows(t EntryType) bool {
	for _, et := range c.EntryTypes {
		if et == t {
			return true
		}
	}
	return false
}

// DefaultRoleConfigs возвращает стандартную таблицу конфигураций ролей
func DefaultRoleConfigs() map[Role]RoleConfig {
	return map[Role]RoleConfig{
		RoleProfessor: {
			EntryTypes: []EntryType{
				EntryTypeLecture,
				EntryTypeOfficeHours,
				EntryTypeDepartmentMeeting,
				EntryTypeGrading,
				EntryTypeAdvising,
				EntryTypeResearch,
				EntryTypePersonal,
			},
			DefaultViewMode: ViewModePersonal,
		},
		RoleAdmin: {
			EntryTypes: []EntryType{
				EntryTypeMeeting,
				EntryTypeDepartmentMeeting,
				EntryTypeCourseEvent,
				EntryTypeAdminTask,
				EntryTypePersonal,
			},
			DefaultViewMode: ViewModeDepartment,
		},
	}
}
