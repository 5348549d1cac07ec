package repository

import (
	"context"

	"gorm.io/gorm"

	"campus/internal/model"
)

// EnrollmentRepository defines ledger persistence operations. Create relies on
// the (student_id, course_id) unique index: inserting a duplicate pair fails
// with a constraint violation, which the service layer classifies.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	Delete(ctx context.Context, id uint) error
	FindByPair(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error)
	ExistsByPair(ctx context.Context, studentID, courseID uint) (bool, error)
	ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error)
	List(ctx context.Context) ([]model.Enrollment, error)
	StudentsByCourse(ctx context.Context, courseID uint) ([]model.User, error)
	CountByCourse(ctx context.Context, courseID uint) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository builds a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Enrollment{}, id).Error
}

func (r *enrollmentRepository) FindByPair(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) ExistsByPair(ctx context.Context, studentID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).Preload("Student").
		Where("course_id = ?", courseID).
		Order("enrolled_at").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) List(ctx context.Context) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).Preload("Student").Preload("Course").
		Order("enrolled_at").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) StudentsByCourse(ctx context.Context, courseID uint) ([]model.User, error) {
	var students []model.User
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN enrollments ON enrollments.student_id = users.id").
		Where("enrollments.course_id = ?", courseID).
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

func (r *enrollmentRepository) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
