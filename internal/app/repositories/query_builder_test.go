package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ncastell/classtrack/internal/app/auth"
)

func TestConditionSet(t *testing.T) {
	c := &conditionSet{}
	assert.Equal(t, "", c.where())

	c.add("g.student_id = %s", int64(4))
	c.add("g.period = %s", "2024-T1")

	assert.Equal(t, " WHERE g.student_id = $1 AND g.period = $2", c.where())
	assert.Equal(t, []interface{}{int64(4), "2024-T1"}, c.args)
}

func TestAddScope(t *testing.T) {
	studentID := int64(4)
	teacherID := int64(7)

	tests := []struct {
		name      string
		scope     auth.Scope
		wantWhere string
		wantArgs  []interface{}
	}{
		{"all", auth.Scope{All: true}, "", nil},
		{"student", auth.Scope{StudentID: &studentID}, " WHERE g.student_id = $1", []interface{}{int64(4)}},
		{"tutor", auth.Scope{TutorTeacherID: &teacherID}, " WHERE c.tutor_id = $1", []interface{}{int64(7)}},
		{"parent", auth.Scope{ParentChildIDs: []int64{4, 8}}, " WHERE g.student_id = ANY($1)", []interface{}{[]int64{4, 8}}},
		{"parent with no children still binds", auth.Scope{ParentChildIDs: []int64{}}, " WHERE g.student_id = ANY($1)", []interface{}{[]int64{}}},
		{"none", auth.Scope{None: true}, " WHERE FALSE", nil},
		{"zero scope matches nothing", auth.Scope{}, " WHERE FALSE", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &conditionSet{}
			c.addScope(tt.scope, "g.student_id", "c.tutor_id")
			assert.Equal(t, tt.wantWhere, c.where())
			assert.Equal(t, tt.wantArgs, c.args)
		})
	}
}

func TestAddCourseScope(t *testing.T) {
	studentID := int64(4)
	teacherID := int64(7)

	tests := []struct {
		name      string
		scope     auth.Scope
		wantWhere string
		wantArgs  []interface{}
	}{
		{"all", auth.Scope{All: true}, "", nil},
		{"student reaches the enrolled course", auth.Scope{StudentID: &studentID},
			" WHERE c.id IN (SELECT course_id FROM students WHERE id = $1)", []interface{}{int64(4)}},
		{"tutor", auth.Scope{TutorTeacherID: &teacherID}, " WHERE c.tutor_id = $1", []interface{}{int64(7)}},
		{"parent reaches the children's courses", auth.Scope{ParentChildIDs: []int64{4, 8}},
			" WHERE c.id IN (SELECT course_id FROM students WHERE id = ANY($1))", []interface{}{[]int64{4, 8}}},
		{"none", auth.Scope{None: true}, " WHERE FALSE", nil},
		{"zero scope matches nothing", auth.Scope{}, " WHERE FALSE", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &conditionSet{}
			c.addCourseScope(tt.scope, "c.id", "c.tutor_id")
			assert.Equal(t, tt.wantWhere, c.where())
			assert.Equal(t, tt.wantArgs, c.args)
		})
	}
}

func TestScopeThenFilterNarrows(t *testing.T) {
	studentID := int64(4)

	c := &conditionSet{}
	c.addScope(auth.Scope{StudentID: &studentID}, "a.student_id", "c.tutor_id")
	c.add("a.present = %s", true)

	assert.Equal(t, " WHERE a.student_id = $1 AND a.present = $2", c.where())
}
