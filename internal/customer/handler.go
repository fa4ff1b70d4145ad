// File: internal/customer/handler.go
package customer

import (
	"localpro_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for customer handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new customer handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for customer profile operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	customerGroup := router.Group("/customer")
	{
		customerGroup.GET("", h.getAllProfiles)
		customerGroup.GET("/:id", h.getProfileByID)

		customerGroup.POST("", authMW, h.saveProfile)
		customerGroup.GET("/profile", authMW, h.getOwnProfile)
	}
}

func (h *Handler) saveProfile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request body: "+err.Error()))
		return
	}

	resp, err := h.service.SaveProfile(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile saved successfully.", resp)
}

func (h *Handler) getOwnProfile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	resp, err := h.service.GetOwnProfile(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", resp)
}

func (h *Handler) getProfileByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid customer ID format."))
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", resp)
}

func (h *Handler) getAllProfiles(c *gin.Context) {
	page, pageSize := common.GetPaginationParams(c)
	profiles, pagination, err := h.service.GetAll(c.Request.Context(), page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "", profiles, pagination)
}
