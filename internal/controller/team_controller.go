package controller

import (
	"kpi_tracker_backend/internal/middleware"
	"kpi_tracker_backend/internal/service"
	"kpi_tracker_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TeamController struct {
	TeamService *service.TeamService
}

func NewTeamController(teamService *service.TeamService) *TeamController {
	return &TeamController{TeamService: teamService}
}

// CreateTeam godoc
// @Summary 创建团队
// @Description 调用者成为团队 owner，已在团队中返回 409
// @Tags 团队
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateTeamRequest true "团队名称"
// @Success 201 {object} util.Response{data=model.Team}
// @Failure 409 {object} util.Response
// @Router /api/teams [post]
func (c *TeamController) CreateTeam(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.CreateTeamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	team, err := c.TeamService.CreateTeam(userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, team)
}

// GetTeam godoc
// @Summary 当前团队及成员
// @Tags 团队
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Team}
// @Failure 403 {object} util.Response "未加入团队"
// @Router /api/team [get]
func (c *TeamController) GetTeam(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	team, err := c.TeamService.GetTeam(userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, team)
}

// AddMember godoc
// @Summary 添加团队成员
// @Tags 团队
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AddMemberRequest true "成员邮箱与角色"
// @Success 201 {object} util.Response{data=model.Membership}
// @Failure 403 {object} util.Response "非 owner"
// @Failure 404 {object} util.Response "用户不存在"
// @Failure 409 {object} util.Response "用户已在团队中"
// @Router /api/team/members [post]
func (c *TeamController) AddMember(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		return
	}

	var req service.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BindError(ctx, err)
		return
	}

	member, err := c.TeamService.AddMember(userID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, member)
}
