package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/facultyhub/calendar_engine/internal/grid"
	"github.com/facultyhub/calendar_engine/internal/model"
	"github.com/facultyhub/calendar_engine/internal/recurrence"
)

// ErrStaleResponse — ответ источника пришёл после того, как запрошено новое
// окно или фильтр. Молча отбрасывается, к сетке не применяется.
var ErrStaleResponse = errors.New("stale schedule response discarded")

// FetchError — сбой источника данных. Повторяемая ошибка: ранее построенная
// сетка сохраняется, вызывающий может повторить запрос.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("schedule fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Retryable всегда истинен: сбой загрузки не фатален для сессии
func (e *FetchError) Retryable() bool {
	return true
}

const (
	fetchRetryBase = 200 * time.Millisecond
	fetchRetryMax  = 2 // повторов сверх первой попытки
)

// EntrySource — источник записей расписания. Повторные вызовы с теми же
// аргументами идемпотентны.
type EntrySource interface {
	GetEntries(ctx context.Context, start, end time.Time, scope model.Scope) ([]model.ScheduleEntry, error)
}

// DirectorySource — каталог кафедр/курсов/преподавателей для фильтров
type DirectorySource interface {
	ListDepartments(ctx context.Context) ([]model.Department, error)
	ListCourses(ctx context.Context, departmentID *uuid.UUID) ([]model.Course, error)
	ListProfessors(ctx context.Context, departmentID *uuid.UUID) ([]model.Professor, error)
}

// Directory — каталоги для заполнения фильтров
type Directory struct {
	Departments []model.Department
	Courses     []model.Course
	Professors  []model.Professor
}

// ViewService держит всё изменяемое состояние календаря в одном месте:
// текущее окно, активный выбор, последняя удачно построенная сетка и номер
// последнего запроса. Порядок ответов гарантирует номер: применяется только
// ответ последнего запрошенного окна.
type ViewService struct {
	source    EntrySource
	directory DirectorySource
	expander  *recurrence.Expander
	gridCfg   grid.Config
	roles     map[model.Role]model.RoleConfig
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	window   model.WeekWindow
	selector model.ViewSelector
	seq      uint64
	current  *grid.WeekGrid
}

// NewViewService создаёт сервис с окном текущей недели и режимом просмотра
// по умолчанию для роли
func NewViewService(
	source EntrySource,
	directory DirectorySource,
	expander *recurrence.Expander,
	gridCfg grid.Config,
	selector model.ViewSelector,
	logger *zap.Logger,
) *ViewService {
	roles := model.DefaultRoleConfigs()

	if selector.ViewMode == "" {
		if rc, ok := roles[selector.Role]; ok {
			selector.ViewMode = rc.DefaultViewMode
		}
	}

	s := &ViewService{
		source:    source,
		directory: directory,
		expander:  expander,
		gridCfg:   gridCfg,
		roles:     roles,
		logger:    logger,
		now:       time.Now,
		selector:  selector,
	}
	s.window = model.WeekOf(s.now().In(gridCfg.Location))

	return s
}

// Window возвращает текущее окно недели
func (s *ViewService) Window() model.WeekWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// Selector возвращает активный выбор
func (s *ViewService) Selector() model.ViewSelector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector
}

// Current возвращает последнюю удачно построенную сетку (nil, если её ещё нет).
// При ожидании загрузки или сбое источника предыдущая сетка остаётся видимой.
func (s *ViewService) Current() *grid.WeekGrid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Next переходит к следующей неделе и перестраивает сетку
func (s *ViewService) Next(ctx context.Context) error {
	return s.navigate(ctx, func(w model.WeekWindow) model.WeekWindow { return w.Next() })
}

// Prev переходит к предыдущей неделе и перестраивает сетку
func (s *ViewService) Prev(ctx context.Context) error {
	return s.navigate(ctx, func(w model.WeekWindow) model.WeekWindow { return w.Prev() })
}

// Today возвращается к неделе, содержащей сегодняшний день.
// Повторный вызов в тот же день даёт то же окно.
func (s *ViewService) Today(ctx context.Context) error {
	today := s.now().In(s.gridCfg.Location)
	return s.navigate(ctx, func(model.WeekWindow) model.WeekWindow { return model.WeekOf(today) })
}

// JumpTo переходит к неделе, содержащей указанную дату
func (s *ViewService) JumpTo(ctx context.Context, date time.Time) error {
	return s.navigate(ctx, func(model.WeekWindow) model.WeekWindow {
		return model.WeekOf(date.In(s.gridCfg.Location))
	})
}

// SetSelector меняет режим просмотра или фильтры. Прежний агрегированный
// результат при этом недействителен — выполняется свежий цикл
// загрузка → разворачивание → привязка.
func (s *ViewService) SetSelector(ctx context.Context, selector model.ViewSelector) error {
	s.mu.Lock()
	if selector.ViewMode == "" {
		if rc, ok := s.roles[selector.Role]; ok {
			selector.ViewMode = rc.DefaultViewMode
		}
	}
	s.selector = selector
	s.seq++
	seq, window, sel := s.seq, s.window, s.selector
	s.mu.Unlock()

	return s.refresh(ctx, seq, window, sel)
}

// Refresh перестраивает сетку для текущего окна и выбора без навигации
func (s *ViewService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq, window, sel := s.seq, s.window, s.selector
	s.mu.Unlock()

	return s.refresh(ctx, seq, window, sel)
}

// Directory загружает каталоги для фильтров. К алгоритмическому ядру
// не относится — только заполнение выпадающих списков.
func (s *ViewService) Directory(ctx context.Context) (*Directory, error) {
	departments, err := s.directory.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}

	courses, err := s.directory.ListCourses(ctx, s.Selector().DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	professors, err := s.directory.ListProfessors(ctx, s.Selector().DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}

	return &Directory{
		Departments: departments,
		Courses:     courses,
		Professors:  professors,
	}, nil
}

// navigate атомарно меняет окно относительно диспетчеризации загрузки:
// номер запроса увеличивается под тем же замком, что и окно
func (s *ViewService) navigate(ctx context.Context, shift func(model.WeekWindow) model.WeekWindow) error {
	s.mu.Lock()
	s.window = shift(s.window)
	s.seq++
	seq, window, sel := s.seq, s.window, s.selector
	s.mu.Unlock()

	return s.refresh(ctx, seq, window, sel)
}

// refresh выполняет цикл загрузка → фильтрация → разворачивание → привязка.
// Результат применяется только если за время загрузки не был запрошен
// новый номер: побеждает последнее запрошенное окно, а не последний
// пришедший ответ.
func (s *ViewService) refresh(ctx context.Context, seq uint64, window model.WeekWindow, sel model.ViewSelector) error {
	scope := BuildScope(sel)

	entries, err := s.fetch(ctx, window, scope)
	if err != nil {
		s.logger.Error("Schedule fetch failed, keeping previous grid",
			zap.Time("window_start", window.Start),
			zap.Error(err))
		return &FetchError{Err: err}
	}

	entries = FilterForView(sel, entries)

	occurrences, skipped := s.expander.ExpandAll(entries, window)
	if len(skipped) > 0 {
		s.logger.Warn("Excluded invalid entries from grid",
			zap.Int("count", len(skipped)))
	}

	bound := s.gridCfg.BindWeek(window, occurrences)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq {
		s.logger.Debug("Discarding stale schedule response",
			zap.Uint64("response_seq", seq),
			zap.Uint64("current_seq", s.seq))
		return ErrStaleResponse
	}

	s.current = &bound
	return nil
}

// fetch загружает записи с ограниченным числом повторов
func (s *ViewService) fetch(ctx context.Context, window model.WeekWindow, scope model.Scope) ([]model.ScheduleEntry, error) {
	backoff := retry.WithMaxRetries(fetchRetryMax, retry.NewExponential(fetchRetryBase))

	var entries []model.ScheduleEntry
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var fetchErr error
		entries, fetchErr = s.source.GetEntries(ctx, window.Start, window.End, scope)
		if fetchErr != nil {
			return retry.RetryableError(fetchErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
