package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"miniportfolio/api/internal/middleware"
	"miniportfolio/api/internal/models"
)

type replacePortfolioRequest struct {
	Items []models.PortfolioItem `json:"items"`
}

func (h HandlerSet) GetPortfolio(c *gin.Context) {
	items, err := h.portfolioService.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) ReplacePortfolio(c *gin.Context) {
	var req replacePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.portfolioService.Replace(c.Request.Context(), middleware.UserID(c), req.Items); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
