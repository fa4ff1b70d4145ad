// File: internal/provider/service.go
package provider

import (
	"context"
	"mime/multipart"
	"strings"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/common"
	"localpro_backend/internal/config"
	"localpro_backend/internal/filestorage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceCounter reports how many catalog services a provider owns. The
// catalog repository satisfies this.
type ServiceCounter interface {
	CountByProvider(ctx context.Context, providerID uuid.UUID) (int64, error)
}

// UserFlagger marks the owning user's profile_updated flag after a save.
// The user repository satisfies this.
type UserFlagger interface {
	SetProfileUpdated(ctx context.Context, id uuid.UUID) error
}

// Service defines provider profile business logic.
type Service interface {
	SaveProfile(ctx context.Context, userID uuid.UUID, input SaveProfileInput, photo *multipart.FileHeader) (*ProfileResponse, error)
	GetOwnProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProfileResponse, error)
	GetAll(ctx context.Context, page, pageSize int) ([]ProfileResponse, *common.Pagination, error)
	DeleteProfile(ctx context.Context, userID uuid.UUID) error
	Search(ctx context.Context, query SearchQuery) ([]ProfileResponse, error)
	Stats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error)
}

type serviceImpl struct {
	cfg        *config.Config
	repo       Repository
	files      *filestorage.FileStorageService
	indexer    *SearchIndexer
	counter    ServiceCounter
	users      UserFlagger
	activities activity.Service
	logger     *zap.Logger
}

// NewService creates a new provider service.
func NewService(
	cfg *config.Config,
	repo Repository,
	files *filestorage.FileStorageService,
	indexer *SearchIndexer,
	counter ServiceCounter,
	users UserFlagger,
	activities activity.Service,
	logger *zap.Logger,
) Service {
	return &serviceImpl{
		cfg:        cfg,
		repo:       repo,
		files:      files,
		indexer:    indexer,
		counter:    counter,
		users:      users,
		activities: activities,
		logger:     logger.Named("provider_service"),
	}
}

// SaveProfile creates or fully overwrites the caller's profile. Field
// validation runs before the photo touches disk; a database failure removes
// the freshly written photo so no orphan file remains; on success the
// superseded photo is deleted after the row is committed.
func (s *serviceImpl) SaveProfile(ctx context.Context, userID uuid.UUID, input SaveProfileInput, photo *multipart.FileHeader) (*ProfileResponse, error) {
	if missing := validateProfileInput(input); len(missing) > 0 {
		return nil, common.NewMissingFieldsError(missing)
	}

	var oldPhoto string
	if existing, err := s.repo.FindByUserID(ctx, userID); err == nil {
		oldPhoto = existing.Photo
	}

	newPhoto := oldPhoto
	if photo != nil {
		savedPath, err := s.files.SaveUploadedFile(photo, filestorage.ProviderPhotosDir)
		if err != nil {
			s.logger.Warn("Failed to store profile photo", zap.String("userID", userID.String()), zap.Error(err))
			return nil, common.ErrBadRequest.WithDetails("Could not store the uploaded photo: " + err.Error())
		}
		newPhoto = savedPath
	}

	profile := &ProviderProfile{
		UserID:      userID,
		FullName:    strings.TrimSpace(input.FullName),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Phone:       strings.TrimSpace(input.Phone),
		Services:    input.Services,
		City:        strings.TrimSpace(input.Location.City),
		Region:      strings.TrimSpace(input.Location.Region),
		Town:        strings.TrimSpace(input.Location.Town),
		Photo:       newPhoto,
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		if photo != nil && newPhoto != "" {
			if delErr := s.files.DeleteFile(newPhoto); delErr != nil {
				s.logger.Warn("Failed to clean up photo after save failure",
					zap.String("path", newPhoto), zap.Error(delErr))
			}
		}
		s.logger.Error("Provider profile upsert failed", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not save profile.")
	}

	// The old photo is only removed once the new row is committed.
	if photo != nil && oldPhoto != "" && oldPhoto != newPhoto {
		if err := s.files.DeleteFile(oldPhoto); err != nil {
			s.logger.Warn("Failed to delete superseded photo", zap.String("path", oldPhoto), zap.Error(err))
		}
	}

	if err := s.users.SetProfileUpdated(ctx, userID); err != nil {
		s.logger.Warn("Failed to flag profile_updated", zap.String("userID", userID.String()), zap.Error(err))
	}

	s.activities.Record(ctx, userID, activity.ProfileUpdated, "Provider profile was updated", &profile.ID, strPtr("provider_profile"))

	if err := s.indexer.Index(ctx, profile); err != nil {
		s.logger.Warn("Best-effort profile indexing failed", zap.String("profileID", profile.ID.String()), zap.Error(err))
	}

	resp := ToProfileResponse(profile, s.cfg.UploadPublicBaseURL)
	return &resp, nil
}

// GetOwnProfile returns the caller's profile.
func (s *serviceImpl) GetOwnProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(profile, s.cfg.UploadPublicBaseURL)
	return &resp, nil
}

// GetByID returns a profile by its ID for the public detail view, with the
// owner's email attached.
func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*ProfileResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(&row.ProviderProfile, s.cfg.UploadPublicBaseURL)
	resp.Email = row.Email
	return &resp, nil
}

// GetAll returns a page of profiles for the public directory.
func (s *serviceImpl) GetAll(ctx context.Context, page, pageSize int) ([]ProfileResponse, *common.Pagination, error) {
	profiles, pagination, err := s.repo.FindAll(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to list provider profiles", zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve providers.")
	}
	return s.toResponses(profiles), pagination, nil
}

// DeleteProfile removes the caller's profile row and best-effort deletes
// the photo file. Credentials, services and activity are left in place.
func (s *serviceImpl) DeleteProfile(ctx context.Context, userID uuid.UUID) error {
	deleted, err := s.repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if deleted.Photo != "" {
		if err := s.files.DeleteFile(deleted.Photo); err != nil {
			s.logger.Warn("Failed to delete profile photo", zap.String("path", deleted.Photo), zap.Error(err))
		}
	}

	if err := s.indexer.Delete(ctx, deleted.ID.String()); err != nil {
		s.logger.Warn("Best-effort profile unindexing failed", zap.String("profileID", deleted.ID.String()), zap.Error(err))
	}
	return nil
}

// Search filters profiles by services and location. When Elasticsearch is
// configured it answers first; any failure there falls back to SQL.
func (s *serviceImpl) Search(ctx context.Context, query SearchQuery) ([]ProfileResponse, error) {
	if s.indexer.Enabled() {
		ids, err := s.indexer.Search(ctx, query)
		if err == nil {
			uuids := make([]uuid.UUID, 0, len(ids))
			for _, id := range ids {
				if parsed, parseErr := uuid.Parse(id); parseErr == nil {
					uuids = append(uuids, parsed)
				}
			}
			profiles, err := s.repo.FindByIDs(ctx, uuids)
			if err == nil {
				return s.toResponses(profiles), nil
			}
			s.logger.Warn("Hydrating search hits failed, falling back to SQL", zap.Error(err))
		} else {
			s.logger.Warn("Elasticsearch search failed, falling back to SQL", zap.Error(err))
		}
	}

	profiles, err := s.repo.Search(ctx, query)
	if err != nil {
		s.logger.Error("Provider search failed", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Search failed.")
	}
	return s.toResponses(profiles), nil
}

// Stats returns the dashboard counters. Bookings and reviews have no
// backing subsystem and stay zero.
func (s *serviceImpl) Stats(ctx context.Context, userID uuid.UUID) (*StatsResponse, error) {
	count, err := s.counter.CountByProvider(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count services", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not compute stats.")
	}
	return &StatsResponse{ServicesCount: count}, nil
}

func (s *serviceImpl) toResponses(profiles []ProviderProfile) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, ToProfileResponse(&profiles[i], s.cfg.UploadPublicBaseURL))
	}
	return responses
}

// validateProfileInput returns the required fields missing from a save
// request, in a stable order.
func validateProfileInput(input SaveProfileInput) []string {
	var missing []string
	if strings.TrimSpace(input.FullName) == "" {
		missing = append(missing, "fullName")
	}
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(input.Services) == 0 {
		missing = append(missing, "services")
	}
	return missing
}

func strPtr(s string) *string {
	return &s
}
