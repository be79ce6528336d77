package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/audit"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/cache"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/config"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/handlers"
	infraRepo "github.com/ClinicaVidaNova/clinic-scheduler/internal/infra/repository"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/middleware"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/models"
	"github.com/ClinicaVidaNova/clinic-scheduler/internal/storage"
	ucAssignment "github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/assignment"
	ucReport "github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/report"
	ucSchedule "github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/schedule"
	ucStock "github.com/ClinicaVidaNova/clinic-scheduler/internal/usecase/stock"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	uploader *storage.Uploader,
	reportCache *cache.Cache,
) {

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	scheduleRepo := infraRepo.NewScheduleGormRepository(db)
	stockRepo := infraRepo.NewStockGormRepository(db)
	clientRepo := infraRepo.NewClientGormRepository(db)
	reportSource := infraRepo.NewReportGormSource(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createScheduleUC := ucSchedule.NewCreateSchedule(scheduleRepo, auditDispatcher)
	editScheduleUC := ucSchedule.NewEditSchedule(scheduleRepo, auditDispatcher)
	reassignScheduleUC := ucSchedule.NewReassignSchedule(scheduleRepo, auditDispatcher)
	cancelScheduleUC := ucSchedule.NewCancelSchedule(scheduleRepo, auditDispatcher)
	confirmScheduleUC := ucSchedule.NewConfirmSchedule(scheduleRepo, auditDispatcher)
	listSchedulesUC := ucSchedule.NewListSchedules(scheduleRepo)

	stockLedger := ucStock.NewLedger(stockRepo, auditDispatcher)
	internTracker := ucAssignment.NewTracker(clientRepo, auditDispatcher)
	financialReportUC := ucReport.NewFinancialReport(reportSource)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	userHandler := handlers.NewUserHandler(db, auditDispatcher)
	clientHandler := handlers.NewClientHandler(db, internTracker, uploader, auditDispatcher)

	scheduleHandler := handlers.NewScheduleHandler(
		createScheduleUC,
		editScheduleUC,
		reassignScheduleUC,
		cancelScheduleUC,
		confirmScheduleUC,
		listSchedulesUC,
		uploader,
	)

	stockHandler := handlers.NewStockHandler(stockRepo, stockLedger)
	financialNoteHandler := handlers.NewFinancialNoteHandler(db)
	reportHandler := handlers.NewReportHandler(financialReportUC, reportCache)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	coordinatorOnly := middleware.RequireRole(models.RoleCoordinator)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)

			// ------------------------------
			// USERS (coordenação)
			// ------------------------------
			secured.GET("/users", userHandler.List)
			secured.GET("/users/:id", userHandler.Get)
			secured.POST("/users", coordinatorOnly, userHandler.Create)
			secured.PATCH("/users/:id", coordinatorOnly, userHandler.Update)
			secured.DELETE("/users/:id", coordinatorOnly, userHandler.Delete)

			// ------------------------------
			// CLIENTS
			// ------------------------------
			secured.GET("/clients", clientHandler.List)
			secured.POST("/clients", clientHandler.Create)
			secured.GET("/clients/:id", clientHandler.Get)
			secured.PUT("/clients/:id", clientHandler.Update)
			secured.DELETE("/clients/:id", coordinatorOnly, clientHandler.Delete)

			secured.GET("/clients/:id/history", clientHandler.History)

			secured.POST("/clients/:id/notes", clientHandler.AddNote)
			secured.DELETE("/clients/:id/notes/:noteId", clientHandler.DeleteNote)

			secured.POST("/clients/:id/documents", clientHandler.AddDocument)
			secured.DELETE("/clients/:id/documents/:documentId", clientHandler.DeleteDocument)

			secured.POST("/clients/:id/intern", coordinatorOnly, clientHandler.AssignIntern)
			secured.DELETE("/clients/:id/intern", coordinatorOnly, clientHandler.UnassignIntern)

			// ------------------------------
			// SCHEDULES
			// ------------------------------
			secured.POST("/schedules", scheduleHandler.Create)
			secured.GET("/schedules", scheduleHandler.ListByDate)
			secured.GET("/schedules/month", scheduleHandler.ListByMonth)
			secured.PUT("/schedules/:id", scheduleHandler.Update)
			secured.PATCH("/schedules/:id/reassign", coordinatorOnly, scheduleHandler.Reassign)
			secured.PATCH("/schedules/:id/cancel", scheduleHandler.Cancel)
			secured.POST("/schedules/:id/confirm", scheduleHandler.Confirm)

			// ------------------------------
			// STOCK
			// ------------------------------
			secured.GET("/stock/items", stockHandler.ListItems)
			secured.POST("/stock/items", stockHandler.CreateItem)
			secured.PUT("/stock/items/:id", stockHandler.UpdateItem)
			secured.DELETE("/stock/items/:id", coordinatorOnly, stockHandler.DeleteItem)
			secured.POST("/stock/items/:id/receive", stockHandler.Receive)
			secured.POST("/stock/items/:id/consume", stockHandler.Consume)
			secured.GET("/stock/movements", stockHandler.ListMovements)
			secured.GET("/stock/summary", stockHandler.Summary)

			// ------------------------------
			// FINANCEIRO
			// ------------------------------
			secured.GET("/financial/notes", coordinatorOnly, financialNoteHandler.List)
			secured.POST("/financial/notes", coordinatorOnly, financialNoteHandler.Create)
			secured.DELETE("/financial/notes/:id", coordinatorOnly, financialNoteHandler.Delete)

			secured.GET("/reports/financial", coordinatorOnly, reportHandler.Financial)

			secured.GET("/audit-logs", coordinatorOnly, auditLogsHandler.List)
		}
	}
}
