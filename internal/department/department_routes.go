package department

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	depts := rg.Group("/departments")
	depts.Use(middleware.AuthMiddleware())
	{
		depts.GET("", middleware.RBACAuthorize(rbacService, "department", "read"), handler.GetAll)
		depts.GET("/:id", middleware.RBACAuthorize(rbacService, "department", "read"), handler.GetByID)
		depts.POST("", middleware.RBACAuthorize(rbacService, "department", "create"), handler.Create)
		depts.PUT("/:id", middleware.RBACAuthorize(rbacService, "department", "update"), handler.Update)
		depts.DELETE("/:id", middleware.RBACAuthorize(rbacService, "department", "delete"), handler.Delete)
	}
}
