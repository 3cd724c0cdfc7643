package asset

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	assets := rg.Group("/assets")
	assets.Use(middleware.AuthMiddleware())
	{
		assets.GET("", middleware.RBACAuthorize(rbacService, "asset", "read"), handler.GetAll)
		assets.GET("/:id", middleware.RBACAuthorize(rbacService, "asset", "read"), handler.GetByID)
		assets.GET("/by-employee/:employee_id", middleware.RBACAuthorize(rbacService, "asset", "read"), handler.GetByEmployee)
		assets.POST("", middleware.RBACAuthorize(rbacService, "asset", "create"), handler.Create)
		assets.PUT("/:id", middleware.RBACAuthorize(rbacService, "asset", "update"), handler.Update)
		assets.POST("/:id/assign", middleware.RBACAuthorize(rbacService, "asset", "assign"), handler.Assign)
		assets.POST("/:id/unassign", middleware.RBACAuthorize(rbacService, "asset", "assign"), handler.Unassign)
		assets.DELETE("/:id", middleware.RBACAuthorize(rbacService, "asset", "delete"), handler.Delete)
	}
}
