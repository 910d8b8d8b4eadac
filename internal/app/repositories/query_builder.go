package repositories

import (
	"fmt"
	"strings"

	"github.com/ncastell/classtrack/internal/app/auth"
)

// conditionSet accumulates WHERE conditions with positional arguments.
type conditionSet struct {
	conds []string
	args  []interface{}
}

// add appends a condition whose %s placeholders are replaced by the next
// positional parameters, one per value.
func (c *conditionSet) add(expr string, values ...interface{}) {
	placeholders := make([]interface{}, len(values))
	for i, v := range values {
		c.args = append(c.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(c.args))
	}
	c.conds = append(c.conds, fmt.Sprintf(expr, placeholders...))
}

// where renders the accumulated conditions, or "" when there are none.
func (c *conditionSet) where() string {
	if len(c.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.conds, " AND ")
}

// addScope translates a role scope into a condition over the student and
// course-tutor columns. Caller-supplied filters added afterwards are
// ANDed in, so they can only narrow the scoped set.
func (c *conditionSet) addScope(scope auth.Scope, studentCol, tutorCol string) {
	switch {
	case scope.All:
		// no restriction
	case scope.StudentID != nil:
		c.add(studentCol+" = %s", *scope.StudentID)
	case scope.TutorTeacherID != nil:
		c.add(tutorCol+" = %s", *scope.TutorTeacherID)
	case scope.ParentChildIDs != nil:
		c.add(studentCol+" = ANY(%s)", scope.ParentChildIDs)
	default:
		c.conds = append(c.conds, "FALSE")
	}
}

// addCourseScope translates a role scope into a condition over course
// rows: students and parents reach courses through enrollment, tutors
// through the tutor column.
func (c *conditionSet) addCourseScope(scope auth.Scope, courseCol, tutorCol string) {
	switch {
	case scope.All:
		// no restriction
	case scope.StudentID != nil:
		c.add(courseCol+" IN (SELECT course_id FROM students WHERE id = %s)", *scope.StudentID)
	case scope.TutorTeacherID != nil:
		c.add(tutorCol+" = %s", *scope.TutorTeacherID)
	case scope.ParentChildIDs != nil:
		c.add(courseCol+" IN (SELECT course_id FROM students WHERE id = ANY(%s))", scope.ParentChildIDs)
	default:
		c.conds = append(c.conds, "FALSE")
	}
}
