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

const enrollmentCacheTTL = 2 * time.Minute

// EnrollmentStats summarizes the ledger for a single course.
type EnrollmentStats struct {
	CourseID         uint  `json:"course_id"`
	EnrolledStudents int64 `json:"enrolled_students"`
}

// EnrollmentService is the policy engine deciding when a student may be
// enrolled in or removed from a course, and the only path that mutates the
// enrollment ledger.
type EnrollmentService interface {
	CanEnroll(ctx context.Context, studentID, courseID uint) (bool, error)
	Enroll(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error)
	Unenroll(ctx context.Context, studentID, courseID uint) (bool, error)
	IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error)
	ListAll(ctx context.Context) ([]model.Enrollment, error)
	StudentsByCourse(ctx context.Context, courseID uint) ([]model.User, error)
	AvailableCourses(ctx context.Context, studentID uint) ([]model.Course, error)
	Stats(ctx context.Context, courseID uint) (*EnrollmentStats, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	userRepo       repository.UserRepository
	courseRepo     repository.CourseRepository
	cache          *cache.Client
	now            func() time.Time
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	cache *cache.Client,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		courseRepo:     courseRepo,
		cache:          cache,
		now:            time.Now,
	}
}

func (s *enrollmentService) cacheKey(studentID uint) string {
	return fmt.Sprintf("enrollments:student:%d", studentID)
}

// CanEnroll answers "may this student enroll in this course right now" as a
// single boolean. Ineligibility is a normal outcome, never an error: a missing
// student or course, an existing enrollment, or an inactive record all yield
// false. The reason is deliberately not distinguished here; Enroll reports it.
func (s *enrollmentService) CanEnroll(ctx context.Context, studentID, courseID uint) (bool, error) {
	if studentID == 0 || courseID == 0 {
		return false, nil
	}

	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("find student: %w", err)
	}

	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("find course: %w", err)
	}

	exists, err := s.enrollmentRepo.ExistsByPair(ctx, studentID, courseID)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	if exists {
		return false, nil
	}

	if !course.Active {
		return false, nil
	}
	if !student.Active {
		return false, nil
	}

	return true, nil
}

// Enroll re-validates eligibility and inserts the enrollment row. The
// pre-checks produce precise error reasons, but the unique index on
// (student_id, course_id) is the authoritative gate: when two concurrent
// calls race for the same pair, the loser's insert fails with a duplicate
// key and is reported as ErrAlreadyEnrolled.
func (s *enrollmentService) Enroll(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	if studentID == 0 || courseID == 0 {
		return nil, errors.ErrInvalidArgument
	}

	student, err := s.userRepo.FindByID(ctx, studentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	course, err := s.courseRepo.FindByID(ctx, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}

	exists, err := s.enrollmentRepo.ExistsByPair(ctx, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if exists {
		return nil, errors.ErrAlreadyEnrolled
	}

	if !course.Active {
		return nil, errors.ErrCourseInactive
	}
	if !student.Active {
		return nil, errors.ErrStudentInactive
	}

	enrollment := &model.Enrollment{
		StudentID:  student.ID,
		CourseID:   course.ID,
		EnrolledAt: s.now(),
	}
	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		if errors.IsDuplicateEntry(err) {
			return nil, errors.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(studentID))

	return enrollment, nil
}

// Unenroll removes the enrollment for the pair if it exists. Absence is the
// one deliberate non-error of the engine: removing a row that is not there
// is an idempotent no-op signalled by false.
func (s *enrollmentService) Unenroll(ctx context.Context, studentID, courseID uint) (bool, error) {
	if studentID == 0 || courseID == 0 {
		return false, errors.ErrInvalidArgument
	}

	enrollment, err := s.enrollmentRepo.FindByPair(ctx, studentID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, fmt.Errorf("find enrollment: %w", err)
	}

	if err := s.enrollmentRepo.Delete(ctx, enrollment.ID); err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(studentID))

	return true, nil
}

// IsEnrolled reports whether an enrollment row exists for the pair.
func (s *enrollmentService) IsEnrolled(ctx context.Context, studentID, courseID uint) (bool, error) {
	if studentID == 0 || courseID == 0 {
		return false, nil
	}
	return s.enrollmentRepo.ExistsByPair(ctx, studentID, courseID)
}

// ListByStudent returns the student's enrollments with courses preloaded.
func (s *enrollmentService) ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	if studentID == 0 {
		return nil, errors.ErrInvalidArgument
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(studentID)); data != nil {
		var cached []model.Enrollment
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	enrollments, err := s.enrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(enrollments); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(studentID), payload, enrollmentCacheTTL)
	}
	return enrollments, nil
}

// ListAll returns the whole ledger with both sides preloaded.
func (s *enrollmentService) ListAll(ctx context.Context) ([]model.Enrollment, error) {
	return s.enrollmentRepo.List(ctx)
}

// StudentsByCourse returns the roster of a course.
func (s *enrollmentService) StudentsByCourse(ctx context.Context, courseID uint) ([]model.User, error) {
	if courseID == 0 {
		return nil, errors.ErrInvalidArgument
	}
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return s.enrollmentRepo.StudentsByCourse(ctx, courseID)
}

// AvailableCourses returns active courses the student is not yet enrolled in.
func (s *enrollmentService) AvailableCourses(ctx context.Context, studentID uint) ([]model.Course, error) {
	if studentID == 0 {
		return nil, errors.ErrInvalidArgument
	}

	active, err := s.courseRepo.ListByActive(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}

	enrollments, err := s.enrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	enrolled := make(map[uint]struct{}, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.CourseID] = struct{}{}
	}

	available := make([]model.Course, 0, len(active))
	for _, c := range active {
		if _, ok := enrolled[c.ID]; !ok {
			available = append(available, c)
		}
	}
	return available, nil
}

// Stats returns the enrolled-student count for a course.
func (s *enrollmentService) Stats(ctx context.Context, courseID uint) (*EnrollmentStats, error) {
	if courseID == 0 {
		return nil, errors.ErrInvalidArgument
	}
	if _, err := s.courseRepo.FindByID(ctx, courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}

	count, err := s.enrollmentRepo.CountByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	return &EnrollmentStats{CourseID: courseID, EnrolledStudents: count}, nil
}
