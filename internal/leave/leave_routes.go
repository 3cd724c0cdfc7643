package leave

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/types", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetTypes)
		leaves.GET("/pending-count", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.PendingCount)
		leaves.GET("/by-employee/:employee_id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByEmployee)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.GET("/:id/evaluate", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Evaluate)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), middleware.Idempotency(rdb), handler.Create)
		leaves.POST("/:id/approve-l1", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ApproveL1)
		leaves.POST("/:id/approve-l2", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ApproveL2)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
		leaves.POST("/:id/reset", middleware.RBACAuthorize(rbacService, "leave", "admin"), handler.Reset)
	}
}
