package controller

import (
	"kpi_tracker_backend/internal/middleware"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/service"
	"kpi_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type KPIController struct {
	KPIService *service.KPIService
}

func NewKPIController(kpiService *service.KPIService) *KPIController {
	return &KPIController{KPIService: kpiService}
}

// ListKPIs godoc
// @Summary KPI 列表
// @Description 不传 goalId 时返回团队全部 KPI
// @Tags KPI
// @Produce json
// @Security ApiKeyAuth
// @Param goalId query string false "目标ID"
// @Success 200 {object} util.Response{data=[]model.KPI}
// @Router /api/kpis [get]
func (c *KPIController) ListKPIs(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	kpis, err := c.KPIService.ListKPIs(userID, ctx.Query("goalId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, kpis)
}

// CreateKPI godoc
// @Summary 创建 KPI
// @Tags KPI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateKPIRequest true "KPI 信息"
// @Success 201 {object} util.Response{data=model.KPI}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response "目标不存在或无权访问"
// @Router /api/kpis [post]
func (c *KPIController) CreateKPI(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.CreateKPIRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	kpi, err := c.KPIService.CreateKPI(ctx.Request.Context(), userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, kpi)
}

// GetKPI godoc
// @Summary KPI 详情
// @Tags KPI
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "KPI ID"
// @Success 200 {object} util.Response{data=service.KPIDetail}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/kpis/{id} [get]
func (c *KPIController) GetKPI(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	detail, err := c.KPIService.GetKPI(userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// UpdateKPI godoc
// @Summary 部分更新 KPI
// @Tags KPI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "KPI ID"
// @Param body body service.UpdateKPIRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.KPI}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/kpis/{id} [patch]
func (c *KPIController) UpdateKPI(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.UpdateKPIRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	kpi, err := c.KPIService.UpdateKPI(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, kpi)
}

// ArchiveKPI godoc
// @Summary 归档 KPI
// @Tags KPI
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "KPI ID"
// @Success 200 {object} util.Response
// @Router /api/kpis/{id} [delete]
func (c *KPIController) ArchiveKPI(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	if err := c.KPIService.ArchiveKPI(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id"), "status": model.StatusArchived})
}
