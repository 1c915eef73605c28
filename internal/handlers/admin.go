package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"miniportfolio/api/internal/middleware"
)

type adminUserResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Name                string     `json:"name"`
	Role                string     `json:"role"`
	CreatedAt           time.Time  `json:"createdAt"`
	PortfolioItemsCount int        `json:"portfolioItemsCount"`
	LastLogin           *time.Time `json:"lastLogin"`
}

type statsResponse struct {
	TotalUsers          int64 `json:"totalUsers"`
	AdminUsers          int64 `json:"adminUsers"`
	RegularUsers        int64 `json:"regularUsers"`
	TotalPortfolioItems int64 `json:"totalPortfolioItems"`
	ActiveUsers         int64 `json:"activeUsers"`
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	summaries, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	users := make([]adminUserResponse, 0, len(summaries))
	for _, s := range summaries {
		users = append(users, adminUserResponse{
			ID:                  s.ID,
			Email:               s.Email,
			Name:                s.Name,
			Role:                string(s.Role),
			CreatedAt:           s.CreatedAt,
			PortfolioItemsCount: s.PortfolioItemsCount,
			LastLogin:           s.LastLogin,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

type deactivateUserRequest struct {
	UserID string `json:"userId"`
}

func (h HandlerSet) AdminDeactivateUser(c *gin.Context) {
	var req deactivateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId required"})
		return
	}

	if err := h.authService.DeactivateUser(c.Request.Context(), middleware.UserID(c), req.UserID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) AdminStats(c *gin.Context) {
	stats, err := h.authService.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": statsResponse{
		TotalUsers:          stats.TotalUsers,
		AdminUsers:          stats.AdminUsers,
		RegularUsers:        stats.RegularUsers,
		TotalPortfolioItems: stats.TotalPortfolioItems,
		ActiveUsers:         stats.ActiveUsers,
	}})
}
