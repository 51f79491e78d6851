package middleware

import (
	"kpi_tracker_backend/internal/config"
	"kpi_tracker_backend/internal/util"
	"kpi_tracker_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验 Bearer token（或 ?token= 参数），成功后把 claims 写入上下文的 "user"
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.String("path", c.FullPath()), zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// CurrentUserID 只能在 AuthMiddleware 之后调用
func CurrentUserID(c *gin.Context) (string, bool) {
	claims := util.GetUserFromContext(c)
	if claims == nil || claims.UserID == "" {
		util.Unauthorized(c)
		return "", false
	}
	return claims.UserID, true
}
