// Package routes wires the HTTP surface
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/ncastell/classtrack/internal/app/controllers"
	"github.com/ncastell/classtrack/internal/middleware"
	"github.com/ncastell/classtrack/internal/pkg/auth"
)

// Controllers bundles every controller for route registration.
type Controllers struct {
	Auth          *controllers.AuthController
	School        *controllers.SchoolController
	Course        *controllers.CourseController
	People        *controllers.PeopleController
	Grade         *controllers.GradeController
	Attendance    *controllers.AttendanceController
	Participation *controllers.ParticipationController
	Dashboard     *controllers.DashboardController
	Health        *controllers.HealthController
}

// Register mounts every route on the engine. All /api/v1 routes except
// login and refresh require a bearer token. The QR check-in route gets
// its own limiter in addition to the server-wide one.
func Register(router *gin.Engine, ctrl Controllers, jwtService *auth.JWTService,
	identities middleware.IdentityResolver, checkinLimit gin.HandlerFunc) {
	router.GET("/health", ctrl.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", ctrl.Auth.Login)
		authGroup.POST("/refresh", ctrl.Auth.Refresh)
	}

	protected := v1.Group("")
	protected.Use(middleware.Authentication(jwtService, identities))
	{
		protected.POST("/auth/logout", ctrl.Auth.Logout)

		schools := protected.Group("/schools")
		{
			schools.POST("", ctrl.School.Create)
			schools.GET("", ctrl.School.List)
			schools.GET("/:id", ctrl.School.Get)
			schools.PUT("/:id", ctrl.School.Update)
			schools.POST("/:id/rotate-token", ctrl.School.RotateToken)
		}

		courses := protected.Group("/courses")
		{
			courses.POST("", ctrl.Course.Create)
			courses.GET("", ctrl.Course.List)
			courses.GET("/:id", ctrl.Course.Get)
			courses.PUT("/:id", ctrl.Course.Update)
			courses.GET("/:id/subjects", ctrl.Course.Subjects)
		}
		protected.POST("/subjects", ctrl.Course.CreateSubject)

		teachers := protected.Group("/teachers")
		{
			teachers.POST("", ctrl.People.CreateTeacher)
			teachers.GET("", ctrl.People.ListTeachers)
			teachers.GET("/:id", ctrl.People.GetTeacher)
		}

		students := protected.Group("/students")
		{
			students.POST("", ctrl.People.CreateStudent)
			students.GET("", ctrl.People.ListStudents)
			students.GET("/:id", ctrl.People.GetStudent)
		}

		parents := protected.Group("/parents")
		{
			parents.POST("", ctrl.People.CreateParent)
			parents.GET("", ctrl.People.ListParents)
			parents.GET("/:id", ctrl.People.GetParent)
			parents.POST("/:id/children/:studentId", ctrl.People.LinkChild)
			parents.DELETE("/:id/children/:studentId", ctrl.People.UnlinkChild)
		}

		grades := protected.Group("/grades")
		{
			grades.POST("", ctrl.Grade.Create)
			grades.GET("", ctrl.Grade.List)
			grades.GET("/:id", ctrl.Grade.Get)
			grades.PUT("/:id", ctrl.Grade.Update)
			grades.DELETE("/:id", ctrl.Grade.Delete)
		}

		attendance := protected.Group("/attendance")
		{
			attendance.POST("/qr", checkinLimit, ctrl.Attendance.CheckIn)
			attendance.POST("", ctrl.Attendance.Create)
			attendance.GET("", ctrl.Attendance.List)
			attendance.GET("/:id", ctrl.Attendance.Get)
			attendance.PUT("/:id", ctrl.Attendance.Update)
		}

		participations := protected.Group("/participations")
		{
			participations.POST("", ctrl.Participation.Create)
			participations.GET("", ctrl.Participation.List)
			participations.GET("/:id", ctrl.Participation.Get)
			participations.DELETE("/:id", ctrl.Participation.Delete)
		}

		dashboards := protected.Group("/dashboards")
		{
			dashboards.GET("/parent", ctrl.Dashboard.ParentDashboard)
			dashboards.GET("/teacher", ctrl.Dashboard.TeacherDashboard)
			dashboards.GET("/children/:id", ctrl.Dashboard.ChildDetail)
		}
		protected.GET("/predictions/:studentId/:period", ctrl.Dashboard.Predict)
	}
}
