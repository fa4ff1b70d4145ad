// File: internal/customer/service.go
package customer

import (
	"context"
	"encoding/json"
	"strings"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/common"
	"localpro_backend/internal/provider"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines customer profile business logic.
type Service interface {
	SaveProfile(ctx context.Context, userID uuid.UUID, req SaveProfileRequest) (*ProfileResponse, error)
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProfileResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]ProfileResponse, *common.Pagination, error)
}

type serviceImpl struct {
	repo       Repository
	users      provider.UserFlagger
	activities activity.Service
	logger     *zap.Logger
}

// NewService creates a new customer service.
func NewService(repo Repository, users provider.UserFlagger, activities activity.Service, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:       repo,
		users:      users,
		activities: activities,
		logger:     logger.Named("customer_service"),
	}
}

// SaveProfile creates or fully overwrites the caller's profile.
func (s *serviceImpl) SaveProfile(ctx context.Context, userID uuid.UUID, req SaveProfileRequest) (*ProfileResponse, error) {
	location := decodeLocation(req)

	if missing := validateSaveRequest(req, location); len(missing) > 0 {
		return nil, common.NewMissingFieldsError(missing)
	}

	profile := &CustomerProfile{
		UserID:   userID,
		FullName: strings.TrimSpace(req.FullName),
		Phone:    strings.TrimSpace(req.Phone),
		City:     strings.TrimSpace(location.City),
		Region:   strings.TrimSpace(location.Region),
		Town:     strings.TrimSpace(location.Town),
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		s.logger.Error("Customer profile upsert failed", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not save profile.")
	}

	if err := s.users.SetProfileUpdated(ctx, userID); err != nil {
		s.logger.Warn("Failed to flag profile_updated", zap.String("userID", userID.String()), zap.Error(err))
	}

	s.activities.Record(ctx, userID, activity.ProfileUpdated, "Customer profile was updated", &profile.ID, entityTypePtr())

	resp := ToProfileResponse(profile)
	return &resp, nil
}

// GetOwnProfile returns the caller's profile.
func (s *serviceImpl) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile)
	return &resp, nil
}

// GetByID returns a profile by its ID with the owner's email attached.
func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProfileResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(&row.CustomerProfile)
	resp.Email = row.Email
	return &resp, nil
}

// GetAll returns a page of customer profiles.
func (s *serviceImpl) GetAll(ctx context.Context, page, pageSize int) ([]ProfileResponse, *common.Pagination, error) {
	profiles, pagination, err := s.repo.FindAll(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list customer profiles", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve customers.")
	}

	responses := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, ToProfileResponse(&profiles[i]))
	}
	return responses, pagination, nil
}

// decodeLocation accepts the location either as an embedded object or as a
// JSON-encoded string. Malformed values decode to an empty location and are
// caught by required-field validation.
func decodeLocation(req SaveProfileRequest) provider.Location {
	var loc provider.Location
	switch v := req.RawLocation.(type) {
	case string:
		if err := json.Unmarshal([]byte(v), &loc); err != nil {
			return provider.Location{}
		}
	case map[string]interface{}:
		raw, err := json.Marshal(v)
		if err != nil {
			return provider.Location{}
		}
		if err := json.Unmarshal(raw, &loc); err != nil {
			return provider.Location{}
		}
	}
	return loc
}

func validateSaveRequest(req SaveProfileRequest, loc provider.Location) []string {
	var missing []string
	if strings.TrimSpace(req.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(loc.City) == "" && strings.TrimSpace(loc.Region) == "" && strings.TrimSpace(loc.Town) == "" {
		missing = append(missing, "location")
	}
	return missing
}

func entityTypePtr() *string {
	t := "customer_profile"
	return &t
}
