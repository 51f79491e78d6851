package controller

import (
	"kpi_tracker_backend/internal/middleware"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/service"
	"kpi_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	GoalService *service.GoalService
}

func NewGoalController(goalService *service.GoalService) *GoalController {
	return &GoalController{GoalService: goalService}
}

// ListGoals godoc
// @Summary 团队目标列表
// @Tags 目标
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "active 或 archived"
// @Success 200 {object} util.Response{data=[]model.Goal}
// @Failure 400 {object} util.Response "状态参数无效"
// @Router /api/goals [get]
func (c *GoalController) ListGoals(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	goals, err := c.GoalService.ListGoals(userID, model.Status(ctx.Query("status")))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, goals)
}

// CreateGoal godoc
// @Summary 创建目标
// @Tags 目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateGoalRequest true "目标信息"
// @Success 201 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response
// @Router /api/goals [post]
func (c *GoalController) CreateGoal(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	goal, err := c.GoalService.CreateGoal(ctx.Request.Context(), userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, goal)
}

// GetGoal godoc
// @Summary 目标详情
// @Description 包含 KPI 列表、加权进度和剩余天数
// @Tags 目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "目标ID"
// @Success 200 {object} util.Response{data=service.GoalProgress}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [get]
func (c *GoalController) GetGoal(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	goal, err := c.GoalService.GetGoal(userID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// UpdateGoal godoc
// @Summary 部分更新目标
// @Description dueDate 传 null 清除截止日期
// @Tags 目标
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "目标ID"
// @Param body body service.UpdateGoalRequest true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Goal}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [patch]
func (c *GoalController) UpdateGoal(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.UpdateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	goal, err := c.GoalService.UpdateGoal(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, goal)
}

// ArchiveGoal godoc
// @Summary 归档目标
// @Tags 目标
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "目标ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/goals/{id} [delete]
func (c *GoalController) ArchiveGoal(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	if err := c.GoalService.ArchiveGoal(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id"), "status": model.StatusArchived})
}
