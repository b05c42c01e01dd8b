package handler

import (
	"net/http"

	"github.com/Tengorio/12pavos/internal/middleware"
	"github.com/Tengorio/12pavos/internal/service"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	svc *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

type DateReq struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (h *AvailabilityHandler) AddDate(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	var req DateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}
	changed, err := h.svc.AddDate(c.Request.Context(), uid.(uint64), req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed})
}

func (h *AvailabilityHandler) RemoveDate(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	var req DateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}
	changed, err := h.svc.RemoveDate(c.Request.Context(), uid.(uint64), req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "changed": changed})
}

func (h *AvailabilityHandler) Mine(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	dates, err := h.svc.MyDates(c.Request.Context(), uid.(uint64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "dates": dates})
}

// Summary 全员日期统计
func (h *AvailabilityHandler) Summary(c *gin.Context) {
	counts, err := h.svc.GroupSummary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "summary": counts})
}
