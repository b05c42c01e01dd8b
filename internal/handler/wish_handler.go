package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Tengorio/12pavos/internal/middleware"
	"github.com/Tengorio/12pavos/internal/repository/mysql"
	"github.com/Tengorio/12pavos/internal/service"

	"github.com/gin-gonic/gin"
)

type WishHandler struct {
	svc *service.WishService
}

func NewWishHandler(svc *service.WishService) *WishHandler {
	return &WishHandler{svc: svc}
}

type AddWishReq struct {
	Description string `json:"description"`
}

// Create 新增心愿，上限 5 条
func (h *WishHandler) Create(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	var req AddWishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid params"})
		return
	}

	id, err := h.svc.AddWish(c.Request.Context(), uid.(uint64), req.Description)
	if err != nil {
		if errors.Is(err, mysql.ErrWishCapExceeded) {
			c.JSON(http.StatusConflict, gin.H{"code": 1, "msg": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "id": id})
}

// Mine 本人心愿列表，只带 claimed 布尔
func (h *WishHandler) Mine(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	list, err := h.svc.ListOwn(c.Request.Context(), uid.(uint64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "wishes": list})
}

// Market 匿名礼物市场，顺序每次随机
func (h *WishHandler) Market(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	list, err := h.svc.Browse(c.Request.Context(), uid.(uint64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "wishes": list})
}

func (h *WishHandler) Claim(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	wid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || wid == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid wish id"})
		return
	}
	err = h.svc.Claim(c.Request.Context(), wid, uid.(uint64))
	if err != nil {
		c.JSON(claimStatus(err), gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "ticket": wid})
}

func (h *WishHandler) Release(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	wid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || wid == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"code": 1, "msg": "invalid wish id"})
		return
	}
	err = h.svc.Release(c.Request.Context(), wid, uid.(uint64))
	if err != nil {
		c.JSON(claimStatus(err), gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0})
}

// Claims 我认领的礼物，票号即贴在礼物上的编号
func (h *WishHandler) Claims(c *gin.Context) {
	uid, _ := c.Get(middleware.ContextUserIDKey)
	list, err := h.svc.MyClaims(c.Request.Context(), uid.(uint64))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 1, "msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "claims": list})
}

// 业务性失败都是 4xx；剩下的当基础设施故障走 500，调用方可重试
func claimStatus(err error) int {
	switch {
	case errors.Is(err, mysql.ErrWishNotFound):
		return http.StatusNotFound
	case errors.Is(err, mysql.ErrSelfClaim):
		return http.StatusForbidden
	case errors.Is(err, mysql.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, mysql.ErrNotClaimant):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
