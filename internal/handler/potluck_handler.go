package handler

import (
	"net/http"

	"github.com/Tengorio/12pavos/internal/middleware"
	"github.com/Tengorio/12pavos/internal/service"

	"github.com/gin-gonic/gin"
)

type PotluckHandler struct {
	svc *service.PotluckService
}

func NewPotluckHandler(svc *service.PotluckService) *PotluckHandler {
	return &PotluckHandler{svc: svc}
}

type SaveOptionsReq struct {
	Dish1 string `json:"dish_1"`
	Dish2 string `json:"dish_2"`
	Dish3 string `json:"dish_3"`
}

func (h *PotluckHandler) Save(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	var req SaveOptionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}
	if err := h.svc.SaveOptions(c.Request.Context(), uid.(uint64), req.Dish1, req.Dish2, req.Dish3); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0})
}

func (h *PotluckHandler) Mine(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	entry, err := h.svc.MyEntry(c.Request.Context(), uid.(uint64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	if entry == nil {
		c.JSON(http.StatusOK, gin.H{"code": 0, "entry": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "entry": gin.H{
		"dish_1":   entry.Dish1,
		"dish_2":   entry.Dish2,
		"dish_3":   entry.Dish3,
		"assigned": entry.AssignedDish,
	}})
}

// List 大家都报了什么
func (h *PotluckHandler) List(c *gin.Context) {
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "entries": list})
}

// AutoAssign 一键分配，重跑覆盖
func (h *PotluckHandler) AutoAssign(c *gin.Context) {
	list, err := h.svc.AutoAssign(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "entries": list})
}
