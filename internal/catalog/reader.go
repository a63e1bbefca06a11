// Package catalog assembles the course listing served on the course
// management page and the JSON API.
package catalog

import (
	"fmt"
	"sort"

	"github.com/kotoba-school/kotoba/internal/models"
)

// CourseStore is the persistence surface the reader needs. The database
// package implements it.
type CourseStore interface {
	GetCoursesOrdered() ([]*models.Course, error)
	GetLessonsOrdered() ([]*models.Lesson, error)
}

// Reader builds complete course listings from a CourseStore
type Reader struct {
	store CourseStore
}

// NewReader builds a catalog reader on top of a store
func NewReader(store CourseStore) *Reader {
	return &Reader{store: store}
}

// ListCourses returns every course in display order with its lessons
// attached in lesson-number order. An empty catalog yields an empty
// slice, never nil, so the API always serialises to a JSON array.
func (r *Reader) ListCourses() ([]*models.Course, error) {
	courses, err := r.store.GetCoursesOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load courses: %w", err)
	}
	if len(courses) == 0 {
		return []*models.Course{}, nil
	}

	lessons, err := r.store.GetLessonsOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}

	grouped := make(map[int64][]*models.Lesson, len(courses))
	for _, lesson := range lessons {
		grouped[lesson.CourseID] = append(grouped[lesson.CourseID], lesson)
	}

	for _, course := range courses {
		courseLessons := grouped[course.ID]
		if courseLessons == nil {
			courseLessons = []*models.Lesson{}
		}
		// The store already orders lessons, but the page layout depends
		// on lesson numbers being ascending, so it is enforced here too.
		sort.SliceStable(courseLessons, func(i, j int) bool {
			return courseLessons[i].LessonNumber < courseLessons[j].LessonNumber
		})
		course.Lessons = courseLessons
	}

	return courses, nil
}
