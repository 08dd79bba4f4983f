package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups everything RegisterRoutes mounts. Reports may be nil when exports are disabled.
type Handlers struct {
	Shifts     *ShiftHandler
	Schedule   *ScheduleHandler
	Attendance *AttendanceHandler
	Reports    *ReportHandler
	Ops        *MetricsHandler
}

// RegisterRoutes mounts the probes at the root and the API under prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/health", h.Ops.Health)
	r.GET("/ready", h.Ops.Ready)
	r.GET("/metrics", h.Ops.Prometheus)

	api := r.Group(prefix)

	shifts := api.Group("/shifts")
	shifts.GET("", h.Shifts.List)
	shifts.POST("", h.Shifts.Create)
	shifts.GET("/unassigned", h.Shifts.Unassigned)
	shifts.GET("/:id", h.Shifts.Get)
	shifts.POST("/:id/reassign", h.Shifts.Reassign)

	schedule := api.Group("/schedule")
	schedule.GET("/week", h.Schedule.Week)
	schedule.GET("/slots", h.Schedule.Slots)

	attendance := api.Group("/attendance")
	attendance.GET("/daily", h.Attendance.Daily)
	attendance.GET("/summary", h.Attendance.Summary)
	attendance.GET("/export", h.Attendance.Export)
	attendance.POST("/clock-events", h.Attendance.RecordClockEvent)

	if h.Reports != nil {
		reports := api.Group("/reports")
		reports.POST("/attendance", h.Reports.CreateAttendance)
		reports.GET("/download", h.Reports.Download)
		reports.GET("/:id", h.Reports.Status)
	}
}
