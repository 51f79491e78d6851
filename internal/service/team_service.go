package service

import (
	"errors"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/repository"
	"kpi_tracker_backend/internal/util"

	"gorm.io/gorm"
)

// TeamService 团队管理，同时负责团队范围的权限校验
type TeamService struct {
	TeamRepo *repository.TeamRepository
	UserRepo *repository.UserRepository
}

func NewTeamService(teamRepo *repository.TeamRepository, userRepo *repository.UserRepository) *TeamService {
	return &TeamService{
		TeamRepo: teamRepo,
		UserRepo: userRepo,
	}
}

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type AddMemberRequest struct {
	Email string         `json:"email" binding:"required,email"`
	Role  model.TeamRole `json:"role" binding:"omitempty,oneof=owner member"`
}

// CreateTeam 创建团队，调用者成为 owner
func (s *TeamService) CreateTeam(userID string, req CreateTeamRequest) (*model.Team, error) {
	if _, err := s.ResolveTeamID(userID); err == nil {
		return nil, util.ErrAlreadyInTeam
	} else if !errors.Is(err, util.ErrNoTeam) {
		return nil, err
	}

	team := &model.Team{Name: req.Name}
	if err := s.TeamRepo.CreateWithOwner(team, userID); err != nil {
		return nil, err
	}
	return s.TeamRepo.FindByID(team.ID)
}

func (s *TeamService) GetTeam(userID string) (*model.Team, error) {
	teamID, err := s.ResolveTeamID(userID)
	if err != nil {
		return nil, err
	}
	team, err := s.TeamRepo.FindByID(teamID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTeamNotFound
	}
	return team, err
}

// AddMember 仅 owner 可以邀请；被邀请用户必须已注册且尚未加入团队
func (s *TeamService) AddMember(userID string, req AddMemberRequest) (*model.Membership, error) {
	self, err := s.TeamRepo.FindMembershipByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNoTeam
	} else if err != nil {
		return nil, err
	}
	if self.Role != model.TeamOwner {
		return nil, util.ErrPermissionDenied
	}

	user, err := s.UserRepo.FindByEmail(req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if _, err := s.ResolveTeamID(user.ID); err == nil {
		return nil, util.ErrAlreadyInTeam
	} else if !errors.Is(err, util.ErrNoTeam) {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.TeamMember
	}
	member := &model.Membership{
		TeamID: self.TeamID,
		UserID: user.ID,
		Role:   role,
	}
	if err := s.TeamRepo.AddMember(member); err != nil {
		return nil, err
	}
	member.User = user
	return member, nil
}

// ResolveTeamID 调用者所属团队
func (s *TeamService) ResolveTeamID(userID string) (string, error) {
	member, err := s.TeamRepo.FindMembershipByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", util.ErrNoTeam
	}
	if err != nil {
		return "", err
	}
	return member.TeamID, nil
}

// AssertMember 负责人必须是该团队成员
func (s *TeamService) AssertMember(teamID, userID string) error {
	member, err := s.TeamRepo.FindMembershipByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrInvalidOwner
	}
	if err != nil {
		return err
	}
	if member.TeamID != teamID {
		return util.ErrInvalidOwner
	}
	return nil
}

// AssertTeamScope 资源所属团队必须与调用者一致
func (s *TeamService) AssertTeamScope(userID, teamID string) error {
	userTeamID, err := s.ResolveTeamID(userID)
	if err != nil {
		return err
	}
	if userTeamID != teamID {
		return util.ErrPermissionDenied
	}
	return nil
}
