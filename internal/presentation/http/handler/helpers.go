package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/isp-billing-api/internal/domain/entity"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/dto/response"
	"github.com/sangkips/isp-billing-api/internal/presentation/http/middleware"
	"github.com/sangkips/isp-billing-api/pkg/utils"
)

// currentActor returns the authenticated operator or writes a 401
func currentActor(c *gin.Context) (entity.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "User not authenticated")
	}
	return actor, ok
}

// pathID parses a uuid path parameter or writes a 400
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
