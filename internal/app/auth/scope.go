package auth

import "github.com/ncastell/classtrack/internal/app/models"

// Scope restricts which student-owned records a caller may list. Exactly
// one mode is active: All, per-student, per-tutor, per-parent, or None.
// Query filters supplied by the caller are applied after the scope, so
// filtering can only narrow what the role already sees.
type Scope struct {
	// All grants unrestricted visibility (admin).
	All bool
	// StudentID limits to that student's own records.
	StudentID *int64
	// TutorTeacherID limits to students whose course tutor is this teacher.
	TutorTeacherID *int64
	// ParentChildIDs limits to the listed children. An empty, non-nil
	// slice matches nothing.
	ParentChildIDs []int64
	// None matches nothing (unknown role).
	None bool
}

// ScopeFor derives the listing scope from a resolved identity.
func ScopeFor(ident *Identity) Scope {
	switch ident.Role {
	case models.RoleAdmin:
		return Scope{All: true}
	case models.RoleTeacher:
		return Scope{TutorTeacherID: ident.TeacherID}
	case models.RoleStudent:
		return Scope{StudentID: ident.StudentID}
	case models.RoleParent:
		children := ident.ChildIDs
		if children == nil {
			children = []int64{}
		}
		return Scope{ParentChildIDs: children}
	}
	return Scope{None: true}
}

// Ownership describes one record's owning student for object-level
// permission checks.
type Ownership struct {
	StudentID int64
	// CourseTutorID is the tutor of the student's course, when assigned.
	CourseTutorID *int64
	// ParentIDs are the parents linked to the student.
	ParentIDs []int64
}

// CanRead reports whether the identity may see a record owned by the
// given student. Checks short-circuit in role order: admin, the student
// themself, the course tutor, then a linked parent.
func CanRead(ident *Identity, own Ownership) bool {
	if ident.Role == models.RoleAdmin {
		return true
	}
	if ident.StudentID != nil && *ident.StudentID == own.StudentID {
		return true
	}
	if ident.TeacherID != nil && own.CourseTutorID != nil && *ident.TeacherID == *own.CourseTutorID {
		return true
	}
	if ident.ParentID != nil {
		for _, pid := range own.ParentIDs {
			if pid == *ident.ParentID {
				return true
			}
		}
	}
	return false
}

// CanModify reports whether the identity may create or change a record
// owned by the given student. Only admins and the tutor of the student's
// course qualify; a subject teacher who is not the tutor may not, and
// students and parents never may.
func CanModify(ident *Identity, own Ownership) bool {
	if ident.Role == models.RoleAdmin {
		return true
	}
	return ident.TeacherID != nil && own.CourseTutorID != nil && *ident.TeacherID == *own.CourseTutorID
}
