package util

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailRegistered  = errors.New("email already registered")
	ErrInvalidLogin     = errors.New("invalid credentials")
	ErrPermissionDenied = errors.New("permission denied")

	ErrNoTeam        = errors.New("user does not belong to a team")
	ErrAlreadyInTeam = errors.New("user already belongs to a team")
	ErrTeamNotFound  = errors.New("team not found")

	ErrGoalNotFound    = errors.New("goal not found")
	ErrGoalArchived    = errors.New("goal is archived")
	ErrKPINotFound     = errors.New("kpi not found")
	ErrKPIArchived     = errors.New("kpi is archived")
	ErrUpdateNotFound  = errors.New("update not found")
	ErrNotLatestUpdate = errors.New("only the most recent update can be changed")

	ErrInvalidTarget    = errors.New("target value must be greater than 0")
	ErrInvalidWeight    = errors.New("weight must not be negative")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidValue     = errors.New("value must not be negative")
	ErrInvalidOwner     = errors.New("owner must be a member of the team")

	ErrAvatarTooLarge  = errors.New("avatar file is too large")
	ErrInvalidFileType = errors.New("invalid file type")
)
