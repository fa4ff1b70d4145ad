// File: internal/catalog/handler.go
package catalog

import (
	"errors"

	"localpro_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for catalog handlers.
type Handler struct {
	manager Manager
	logger  *zap.Logger
}

// NewHandler creates a new catalog handler.
func NewHandler(manager Manager, logger *zap.Logger) *Handler {
	return &Handler{
		manager: manager,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for catalog operations under the
// provider subtree.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	servicesGroup := router.Group("/provider/services")
	{
		servicesGroup.GET("/services/:providerId", h.listByProvider)

		servicesGroup.POST("", authMW, h.createService)
		servicesGroup.GET("", authMW, h.listOwn)
		servicesGroup.GET("/:id", authMW, h.getService)
		servicesGroup.PUT("/:id", authMW, h.updateService)
		servicesGroup.DELETE("/:id", authMW, h.deleteService)
	}
}

func (h *Handler) createService(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, bindError(err))
		return
	}

	resp, err := h.manager.Create(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Service created successfully.", resp)
}

func (h *Handler) listOwn(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	services, err := h.manager.ListOwn(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", services)
}

func (h *Handler) getService(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid service ID format."))
		return
	}

	resp, err := h.manager.GetByID(c.Request.Context(), userID, serviceID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", resp)
}

func (h *Handler) updateService(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid service ID format."))
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, bindError(err))
		return
	}

	resp, err := h.manager.Update(c.Request.Context(), userID, serviceID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Service updated successfully.", resp)
}

func (h *Handler) deleteService(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid service ID format."))
		return
	}

	if err := h.manager.Delete(c.Request.Context(), userID, serviceID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Service deleted.", nil)
}

func (h *Handler) listByProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid provider ID format."))
		return
	}

	services, err := h.manager.ListByProvider(c.Request.Context(), providerID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", services)
}

func bindError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return common.NewValidationAPIError(common.FormatValidationErrors(validationErrs))
	}
	return common.ErrBadRequest.WithDetails("Invalid request body: " + err.Error())
}
