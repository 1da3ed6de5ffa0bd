package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/roob1e/tabularium/config"
	"github.com/roob1e/tabularium/internal/api/handler"
	"github.com/roob1e/tabularium/internal/api/middleware"
	"github.com/roob1e/tabularium/pkg/jwt"
	"github.com/roob1e/tabularium/pkg/redis"
)

// login/register attempts per client IP
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Setup builds the gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── health ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public
		auth := v1.Group("/auth")
		{
			limited := middleware.RateLimit(rdb, authRateLimit, authRateWindow)
			auth.POST("/login", limited, h.Auth.Login)
			auth.POST("/register", limited, h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)

			students := authorized.Group("/students")
			{
				students.GET("", h.Student.ListStudents)
				students.GET("/:id", h.Student.GetStudent)
				students.POST("", h.Student.CreateStudent)
				students.PUT("/:id", h.Student.UpdateStudent)
				students.DELETE("/:id", h.Student.DeleteStudent)
			}

			groups := authorized.Group("/groups")
			{
				groups.GET("", h.Group.ListGroups)
				groups.GET("/:id", h.Group.GetGroup)
				groups.POST("", h.Group.CreateGroup)
				groups.PUT("/:id", h.Group.UpdateGroup)
				groups.DELETE("/:id", h.Group.DeleteGroup)
			}

			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Subject.ListSubjects)
				subjects.GET("/:id", h.Subject.GetSubject)
				subjects.POST("", h.Subject.CreateSubject)
				subjects.PUT("/:id", h.Subject.UpdateSubject)
				subjects.DELETE("/:id", h.Subject.DeleteSubject)
			}

			teachers := authorized.Group("/teachers")
			{
				teachers.GET("", h.Teacher.ListTeachers)
				teachers.GET("/:id", h.Teacher.GetTeacher)
				teachers.POST("", h.Teacher.CreateTeacher)
				teachers.PUT("/:id", h.Teacher.UpdateTeacher)
				teachers.DELETE("/:id", h.Teacher.DeleteTeacher)
			}

			grades := authorized.Group("/grades")
			{
				grades.GET("", h.Grade.ListGrades)
				grades.GET("/:id", h.Grade.GetGrade)
				grades.POST("", h.Grade.CreateGrade)
				grades.PUT("/:id", h.Grade.UpdateGrade)
				grades.DELETE("/:id", h.Grade.DeleteGrade)
			}

			// annual promotion
			sched := authorized.Group("/scheduler")
			{
				sched.POST("/date", h.Scheduler.SetDate)
				sched.GET("/cron", h.Scheduler.GetCron)
				sched.POST("/run", h.Scheduler.RunNow)
				sched.GET("/last-run", h.Scheduler.LastRun)
				sched.GET("/calendar.ics", h.Scheduler.Calendar)
			}

			export := authorized.Group("/export")
			{
				export.GET("/students", h.Export.ExportStudents)
				export.GET("/promotion", h.Export.ExportPromotion)
			}
		}
	}

	return r
}
