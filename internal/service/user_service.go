package service

import (
	"context"
	"errors"
	"fmt"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/repository"
	"kpi_tracker_backend/internal/util"
	"mime/multipart"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
	TeamRepo *repository.TeamRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, teamRepo *repository.TeamRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		TeamRepo: teamRepo,
		Storage:  storage,
	}
}

type Profile struct {
	User   *model.User     `json:"user"`
	TeamID *string         `json:"teamId"`
	Role   *model.TeamRole `json:"role"`
}

func (s *UserService) GetProfile(userID string) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}
	member, err := s.TeamRepo.FindMembershipByUserID(userID)
	if err == nil {
		profile.TeamID = &member.TeamID
		profile.Role = &member.Role
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return profile, nil
}

// UploadAvatar 只接受图片，存储后回写头像地址
func (s *UserService) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (string, error) {
	if file.Size > util.MaxAvatarSize {
		return "", util.ErrAvatarTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/%s/%s%s", userID, model.GenerateUUID(), util.ExtensionForMime(mimeType))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatar(userID, url); err != nil {
		return "", err
	}
	return url, nil
}
