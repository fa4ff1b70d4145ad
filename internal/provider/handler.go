// File: internal/provider/handler.go
package provider

import (
	"encoding/json"
	"strconv"
	"strings"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for provider handlers.
type Handler struct {
	service    Service
	activities activity.Service
	logger     *zap.Logger
}

// NewHandler creates a new provider handler.
func NewHandler(service Service, activities activity.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service:    service,
		activities: activities,
		logger:     logger,
	}
}

// RegisterRoutes sets up the routes for provider profile operations. The
// catalog handler registers the /provider/services subtree separately.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	providerGroup := router.Group("/provider")
	{
		providerGroup.GET("", h.getAllProfiles)
		providerGroup.GET("/:id", h.getProfileByID)

		providerGroup.POST("", authMW, h.saveProfile)
		providerGroup.DELETE("", authMW, h.deleteProfile)
		providerGroup.GET("/profile", authMW, h.getOwnProfile)
		providerGroup.GET("/stats", authMW, h.getStats)
		providerGroup.GET("/activity", authMW, h.getActivity)
		providerGroup.GET("/search", authMW, h.search)
	}
}

// saveProfile handles the multipart profile upsert. The location field is a
// JSON string, services may arrive as repeated fields, a JSON array or a
// comma-separated list.
func (h *Handler) saveProfile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User ID not found."))
		return
	}

	if err := c.Request.ParseMultipartForm(10 << 20); err != nil {
		h.logger.Warn("Save profile: Failed to parse multipart form", zap.Error(err), zap.String("userID", userID.String()))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid request format or file too large: "+err.Error()))
		return
	}

	input := SaveProfileInput{
		FullName:    c.PostForm("fullName"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Phone:       c.PostForm("phone"),
		Services:    parseServicesField(c.PostFormArray("services")),
	}

	if locationJSON := c.PostForm("location"); locationJSON != "" {
		if err := json.Unmarshal([]byte(locationJSON), &input.Location); err != nil {
			h.logger.Warn("Save profile: Unparseable location field", zap.Error(err), zap.String("userID", userID.String()))
		}
	}

	photo, err := c.FormFile("photo")
	if err != nil {
		photo = nil // photo is optional
	}

	resp, err := h.service.SaveProfile(c.Request.Context(), userID, input, photo)
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

func (h *Handler) deleteProfile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if err := h.service.DeleteProfile(c.Request.Context(), userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Profile deleted.", nil)
}

func (h *Handler) getProfileByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid provider ID format."))
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

func (h *Handler) getStats(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", stats)
}

func (h *Handler) getActivity(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("limit must be a number."))
			return
		}
		limit = parsed
	}

	entries, err := h.activities.Query(c.Request.Context(), userID, limit)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", entries)
}

func (h *Handler) search(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "", results)
}

// parseServicesField normalizes the services form field. A single value may
// be a JSON array or a comma-separated list.
func parseServicesField(values []string) []string {
	if len(values) == 1 {
		raw := strings.TrimSpace(values[0])
		if strings.HasPrefix(raw, "[") {
			var parsed []string
			if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
				values = parsed
			}
		} else if strings.Contains(raw, ",") {
			values = strings.Split(raw, ",")
		}
	}

	services := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			services = append(services, trimmed)
		}
	}
	return services
}
