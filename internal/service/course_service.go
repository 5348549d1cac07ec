package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campus/internal/cache"
	"campus/internal/errors"
	"campus/internal/model"
	"campus/internal/repository"
)

const courseCacheTTL = 5 * time.Minute

// CourseCounts bundles the course totals shown on the admin dashboard.
type CourseCounts struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// CourseService handles course catalog operations.
type CourseService interface {
	CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uint, name, code string, duration int, description string) (*model.Course, error)
	DeleteCourse(ctx context.Context, id uint) error
	GetCourse(ctx context.Context, id uint) (*model.Course, error)
	GetCourseByCode(ctx context.Context, code string) (*model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListByActive(ctx context.Context, active bool) ([]model.Course, error)
	SearchCourses(ctx context.Context, keyword string) ([]model.Course, error)
	SetCourseActive(ctx context.Context, id uint, active bool) (*model.Course, error)
	ToggleCourseActive(ctx context.Context, id uint) (*model.Course, error)
	Counts(ctx context.Context) (*CourseCounts, error)
}

type courseService struct {
	repo  repository.CourseRepository
	cache *cache.Client
}

// NewCourseService creates a new course service.
func NewCourseService(repo repository.CourseRepository, cache *cache.Client) CourseService {
	return &courseService{repo: repo, cache: cache}
}

func (s *courseService) cacheKey(id uint) string {
	return fmt.Sprintf("course:%d", id)
}

// CreateCourse creates a course after checking code uniqueness. The unique
// index on code backs the pre-check, so a concurrent create of the same code
// still surfaces as ErrCourseCodeTaken.
func (s *courseService) CreateCourse(ctx context.Context, course *model.Course) (*model.Course, error) {
	if course == nil || course.Code == "" || course.Name == "" {
		return nil, errors.ErrInvalidArgument
	}
	if course.Duration <= 0 {
		return nil, errors.ErrInvalidArgument
	}

	if _, err := s.repo.FindByCode(ctx, course.Code); err == nil {
		return nil, errors.ErrCourseCodeTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check course code: %w", err)
	}

	if err := s.repo.Create(ctx, course); err != nil {
		if errors.IsDuplicateEntry(err) {
			return nil, errors.ErrCourseCodeTaken
		}
		return nil, fmt.Errorf("create course: %w", err)
	}
	return course, nil
}

// UpdateCourse updates the editable course fields.
func (s *courseService) UpdateCourse(ctx context.Context, id uint, name, code string, duration int, description string) (*model.Course, error) {
	course, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if code != "" && code != course.Code {
		if _, err := s.repo.FindByCode(ctx, code); err == nil {
			return nil, errors.ErrCourseCodeTaken
		} else if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check course code: %w", err)
		}
		course.Code = code
	}
	if name != "" {
		course.Name = name
	}
	if duration > 0 {
		course.Duration = duration
	}
	course.Description = description

	if err := s.repo.Update(ctx, course); err != nil {
		if errors.IsDuplicateEntry(err) {
			return nil, errors.ErrCourseCodeTaken
		}
		return nil, fmt.Errorf("update course: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return course, nil
}

// DeleteCourse removes a course. Enrollment rows referring to it are cleaned
// up by the storage layer's foreign-key cascade.
func (s *courseService) DeleteCourse(ctx context.Context, id uint) error {
	if _, err := s.getForUpdate(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// GetCourse retrieves a course by ID with caching.
func (s *courseService) GetCourse(ctx context.Context, id uint) (*model.Course, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Course
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(course); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, courseCacheTTL)
	}
	return course, nil
}

// GetCourseByCode retrieves a course by its unique code.
func (s *courseService) GetCourseByCode(ctx context.Context, code string) (*model.Course, error) {
	if code == "" {
		return nil, errors.ErrInvalidArgument
	}
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *courseService) ListCourses(ctx context.Context) ([]model.Course, error) {
	return s.repo.List(ctx)
}

func (s *courseService) ListByActive(ctx context.Context, active bool) ([]model.Course, error) {
	return s.repo.ListByActive(ctx, active)
}

func (s *courseService) SearchCourses(ctx context.Context, keyword string) ([]model.Course, error) {
	return s.repo.Search(ctx, keyword)
}

// SetCourseActive sets the active flag, independent of deletion.
func (s *courseService) SetCourseActive(ctx context.Context, id uint, active bool) (*model.Course, error) {
	course, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Active = active
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return course, nil
}

// ToggleCourseActive flips the active flag.
func (s *courseService) ToggleCourseActive(ctx context.Context, id uint) (*model.Course, error) {
	course, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetCourseActive(ctx, id, !course.Active)
}

// Counts returns total and active course counts.
func (s *courseService) Counts(ctx context.Context) (*CourseCounts, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.repo.CountByActive(ctx, true)
	if err != nil {
		return nil, err
	}
	return &CourseCounts{Total: total, Active: active}, nil
}

func (s *courseService) getForUpdate(ctx context.Context, id uint) (*model.Course, error) {
	if id == 0 {
		return nil, errors.ErrInvalidArgument
	}
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}
