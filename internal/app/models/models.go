package models

// RoleType identifies the role a user account resolves to.
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
	RoleStudent RoleType = "STUDENT"
	RoleParent  RoleType = "PARENT"
	RoleUnknown RoleType = "UNKNOWN"
)

// ParticipationKind categorizes a participation record.
type ParticipationKind string

const (
	ParticipationOral       ParticipationKind = "oral"
	ParticipationWritten    ParticipationKind = "written"
	ParticipationGroup      ParticipationKind = "group"
	ParticipationIndividual ParticipationKind = "individual"
	ParticipationProject    ParticipationKind = "project"
)

// ValidParticipationKind reports whether k is one of the known kinds.
func ValidParticipationKind(k ParticipationKind) bool {
	switch k {
	case ParticipationOral, ParticipationWritten, ParticipationGroup,
		ParticipationIndividual, ParticipationProject:
		return true
	}
	return false
}

// CourseLevel identifies the school stage a course belongs to.
type CourseLevel string

const (
	LevelInitial   CourseLevel = "INITIAL"
	LevelPrimary   CourseLevel = "PRIMARY"
	LevelSecondary CourseLevel = "SECONDARY"
)
