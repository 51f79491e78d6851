package util

import (
	"errors"
	"kpi_tracker_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// BindError 请求体绑定失败时返回 400；校验错误按字段列出失败的规则
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, e := range verrs {
			fields[e.Field()] = e.Tag()
		}
		c.JSON(http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: "Missing or invalid fields",
			Errors:  fields,
		})
		return
	}
	BadRequest(c, err.Error())
}

// HandleError 将领域错误映射为 HTTP 状态码
func HandleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrGoalNotFound),
		errors.Is(err, ErrKPINotFound),
		errors.Is(err, ErrUpdateNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTeamNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrNoTeam):
		Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrEmailRegistered),
		errors.Is(err, ErrAlreadyInTeam),
		errors.Is(err, ErrNotLatestUpdate),
		errors.Is(err, ErrKPIArchived),
		errors.Is(err, ErrGoalArchived):
		Conflict(c, err.Error())
	case errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrInvalidWeight),
		errors.Is(err, ErrInvalidDirection),
		errors.Is(err, ErrInvalidFrequency),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidValue),
		errors.Is(err, ErrInvalidOwner),
		errors.Is(err, ErrAvatarTooLarge),
		errors.Is(err, ErrInvalidFileType):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrInvalidLogin):
		Error(c, http.StatusUnauthorized, err.Error())
	default:
		LogInternalError(c, err)
	}
}
