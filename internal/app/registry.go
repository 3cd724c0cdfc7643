package app

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"leavedesk/internal/asset"
	"leavedesk/internal/department"
	"leavedesk/internal/employee"
	"leavedesk/internal/leave"
	"leavedesk/internal/messaging/kafka"
	"leavedesk/internal/notification"
	"leavedesk/internal/rbac"
	"leavedesk/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	mailer notification.Mailer,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	assetRepo := asset.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)
	if err := rbacService.LoadPolicy(context.Background()); err != nil {
		return err
	}

	// --- Services ---
	employeeService := employee.NewService(db, employeeRepo)
	dispatcher := notification.NewDispatcher(employeeService, mailer, os.Getenv("APP_BASE_URL"))
	departmentService := department.NewService(db, departmentRepo)
	assetService := asset.NewService(db, assetRepo, employeeService)
	leaveService := leave.NewService(db, leaveRepo, employeeService, dispatcher, outboxRepo)

	// --- Handlers ---
	assetHandler := asset.NewHandler(assetService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		asset.RegisterRoutes(api, assetHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
	}

	return nil
}
