package database

import (
	"fmt"

	"github.com/kotoba-school/kotoba/internal/models"
)

const (
	query_GetCoursesOrdered = `SELECT id, level_code, name, description, display_order
	FROM courses ORDER BY display_order, id`

	query_GetLessonsOrdered = `SELECT id, course_id, lesson_number, title, summary
	FROM lessons ORDER BY course_id, lesson_number`
)

// GetCoursesOrdered returns all courses in catalog display order
func (db *Database) GetCoursesOrdered() ([]*models.Course, error) {
	rows, err := retryableQuery(db.mainDB, query_GetCoursesOrdered)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.LevelCode, &c.Name, &c.Description, &c.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}

// GetLessonsOrdered returns every lesson, grouped by course and ordered
// by lesson number within each course.
func (db *Database) GetLessonsOrdered() ([]*models.Lesson, error) {
	rows, err := retryableQuery(db.mainDB, query_GetLessonsOrdered)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.CourseID, &l.LessonNumber, &l.Title, &l.Summary); err != nil {
			return nil, fmt.Errorf("failed to scan lesson row: %w", err)
		}
		lessons = append(lessons, &l)
	}
	return lessons, rows.Err()
}
