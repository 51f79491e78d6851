package controller

import (
	"kpi_tracker_backend/internal/middleware"
	"kpi_tracker_backend/internal/service"
	"kpi_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UpdateController KPI 打卡记录
type UpdateController struct {
	CheckinService *service.CheckinService
}

func NewUpdateController(checkinService *service.CheckinService) *UpdateController {
	return &UpdateController{CheckinService: checkinService}
}

// ListUpdates godoc
// @Summary KPI 打卡记录
// @Tags 打卡
// @Produce json
// @Security ApiKeyAuth
// @Param kpiId query string true "KPI ID"
// @Success 200 {object} util.Response{data=[]model.KPIUpdate}
// @Failure 400 {object} util.Response "缺少 kpiId"
// @Router /api/updates [get]
func (c *UpdateController) ListUpdates(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	kpiID := ctx.Query("kpiId")
	if kpiID == "" {
		util.BadRequest(ctx, "kpiId is required")
		return
	}

	updates, err := c.CheckinService.ListUpdates(userID, kpiID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, updates)
}

// CreateUpdate godoc
// @Summary 提交打卡
// @Description recordedAt 缺省为当前时间（毫秒）
// @Tags 打卡
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateCheckinRequest true "打卡数据"
// @Success 201 {object} util.Response{data=model.KPIUpdate}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "KPI 已归档"
// @Router /api/updates [post]
func (c *UpdateController) CreateUpdate(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.CreateCheckinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	update, err := c.CheckinService.CreateUpdate(ctx.Request.Context(), userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, update)
}

// EditUpdate godoc
// @Summary 修改最近一次打卡
// @Tags 打卡
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "打卡ID"
// @Param body body service.EditCheckinRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.KPIUpdate}
// @Failure 403 {object} util.Response "不是创建者"
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "不是最近一次打卡"
// @Router /api/updates/{id} [patch]
func (c *UpdateController) EditUpdate(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.EditCheckinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	update, err := c.CheckinService.EditUpdate(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, update)
}

// DeleteUpdate godoc
// @Summary 删除最近一次打卡
// @Tags 打卡
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "打卡ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/updates/{id} [delete]
func (c *UpdateController) DeleteUpdate(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	if err := c.CheckinService.DeleteUpdate(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}
