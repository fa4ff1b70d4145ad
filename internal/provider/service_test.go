package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/common"
	"localpro_backend/internal/config"
	"localpro_backend/internal/filestorage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProviderRepository is a mock type for provider.Repository
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Upsert(ctx context.Context, profile *ProviderProfile) error {
	args := m.Called(ctx, profile)
	if args.Error(0) == nil && profile.ID == uuid.Nil {
		profile.ID = uuid.New() // Simulate DB generating ID
	}
	return args.Error(0)
}

func (m *MockProviderRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*ProviderProfile, error) {
	args := m.Called(ctx, userID)
	var profile *ProviderProfile
	if args.Get(0) != nil {
		profile = args.Get(0).(*ProviderProfile)
	}
	return profile, args.Error(1)
}

func (m *MockProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ProfileWithEmail, error) {
	args := m.Called(ctx, id)
	var row *ProfileWithEmail
	if args.Get(0) != nil {
		row = args.Get(0).(*ProfileWithEmail)
	}
	return row, args.Error(1)
}

func (m *MockProviderRepository) FindAll(ctx context.Context, page, pageSize int) ([]ProviderProfile, *common.Pagination, error) {
	args := m.Called(ctx, page, pageSize)
	var profiles []ProviderProfile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]ProviderProfile)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return profiles, pagination, args.Error(2)
}

func (m *MockProviderRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (*ProviderProfile, error) {
	args := m.Called(ctx, userID)
	var profile *ProviderProfile
	if args.Get(0) != nil {
		profile = args.Get(0).(*ProviderProfile)
	}
	return profile, args.Error(1)
}

func (m *MockProviderRepository) Search(ctx context.Context, query SearchQuery) ([]ProviderProfile, error) {
	args := m.Called(ctx, query)
	var profiles []ProviderProfile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]ProviderProfile)
	}
	return profiles, args.Error(1)
}

func (m *MockProviderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]ProviderProfile, error) {
	args := m.Called(ctx, ids)
	var profiles []ProviderProfile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]ProviderProfile)
	}
	return profiles, args.Error(1)
}

func (m *MockProviderRepository) FindAllForSync(ctx context.Context, offset, limit int) ([]ProviderProfile, error) {
	args := m.Called(ctx, offset, limit)
	var profiles []ProviderProfile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]ProviderProfile)
	}
	return profiles, args.Error(1)
}

// MockServiceCounter is a mock type for provider.ServiceCounter
type MockServiceCounter struct {
	mock.Mock
}

func (m *MockServiceCounter) CountByProvider(ctx context.Context, providerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserFlagger is a mock type for provider.UserFlagger
type MockUserFlagger struct {
	mock.Mock
}

func (m *MockUserFlagger) SetProfileUpdated(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockActivityService is a mock type for activity.Service
type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) Record(ctx context.Context, userID uuid.UUID, actType activity.ActivityType, message string, entityID *uuid.UUID, entityType *string) {
	m.Called(ctx, userID, actType, message, entityID, entityType)
}

func (m *MockActivityService) Query(ctx context.Context, userID uuid.UUID, limit int) ([]activity.Activity, error) {
	args := m.Called(ctx, userID, limit)
	var entries []activity.Activity
	if args.Get(0) != nil {
		entries = args.Get(0).([]activity.Activity)
	}
	return entries, args.Error(1)
}

// Test Suite Setup
type ProviderServiceTestSuite struct {
	service        Service
	mockRepo       *MockProviderRepository
	mockCounter    *MockServiceCounter
	mockUsers      *MockUserFlagger
	mockActivities *MockActivityService
	storageDir     string
}

func setupProviderServiceTestSuite(t *testing.T) *ProviderServiceTestSuite {
	ts := &ProviderServiceTestSuite{}
	ts.mockRepo = new(MockProviderRepository)
	ts.mockCounter = new(MockServiceCounter)
	ts.mockUsers = new(MockUserFlagger)
	ts.mockActivities = new(MockActivityService)
	ts.storageDir = t.TempDir()

	logger := zap.NewNop()
	files, err := filestorage.NewFileStorageService(ts.storageDir, logger)
	require.NoError(t, err)

	cfg := &config.Config{
		UploadStoragePath:   ts.storageDir,
		UploadPublicBaseURL: "/uploads",
	}

	// nil client keeps the indexer disabled so search exercises the SQL path.
	indexer := NewSearchIndexer(nil, logger)

	ts.service = NewService(cfg, ts.mockRepo, files, indexer, ts.mockCounter, ts.mockUsers, ts.mockActivities, logger)
	return ts
}

func validSaveInput() SaveProfileInput {
	return SaveProfileInput{
		FullName:    "Abel Tesfaye",
		Title:       "Master Electrician",
		Description: "Residential and commercial wiring.",
		Phone:       "+251911000000",
		Services:    []string{"electrical", "wiring"},
		Location:    Location{City: "Addis Ababa", Region: "Addis Ababa", Town: "Bole"},
	}
}

// newPhotoHeader builds a multipart.FileHeader the way Gin would hand one to
// the service, so photo writes hit the real filesystem.
func newPhotoHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, filename))
	partHeader.Set("Content-Type", "image/jpeg")

	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	require.NotEmpty(t, form.File["photo"])
	return form.File["photo"][0]
}

// --- Test Cases ---

func TestProviderService_SaveProfile_Success(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("FindByUserID", ctx, userID).Return(nil, common.ErrNotFound).Once()
	ts.mockRepo.On("Upsert", ctx, mock.MatchedBy(func(p *ProviderProfile) bool {
		return p.UserID == userID && p.FullName == "Abel Tesfaye" && len(p.Services) == 2
	})).Return(nil).Once()
	ts.mockUsers.On("SetProfileUpdated", ctx, userID).Return(nil).Once()
	ts.mockActivities.On("Record", ctx, userID, activity.ProfileUpdated, mock.AnythingOfType("string"),
		mock.Anything, mock.Anything).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, validSaveInput(), nil)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "Abel Tesfaye", resp.FullName)
	assert.Equal(t, "Addis Ababa", resp.Location.City)
	ts.mockRepo.AssertExpectations(t)
	ts.mockUsers.AssertExpectations(t)
	ts.mockActivities.AssertExpectations(t)
}

func TestProviderService_SaveProfile_ReplacesSupersededPhoto(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	oldPhotoRel := filestorage.ProviderPhotosDir + "/old.jpg"
	oldPhotoAbs := filepath.Join(ts.storageDir, filestorage.ProviderPhotosDir, "old.jpg")
	require.NoError(t, os.MkdirAll(filepath.Dir(oldPhotoAbs), os.ModePerm))
	require.NoError(t, os.WriteFile(oldPhotoAbs, []byte("old photo bytes"), 0644))

	existing := &ProviderProfile{UserID: userID, Photo: oldPhotoRel}
	existing.ID = uuid.New()

	ts.mockRepo.On("FindByUserID", ctx, userID).Return(existing, nil).Once()
	ts.mockRepo.On("Upsert", ctx, mock.Anything).Return(nil).Once()
	ts.mockUsers.On("SetProfileUpdated", ctx, userID).Return(nil).Once()
	ts.mockActivities.On("Record", ctx, userID, activity.ProfileUpdated, mock.AnythingOfType("string"),
		mock.Anything, mock.Anything).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, validSaveInput(), newPhotoHeader(t, "new.jpg", "new photo bytes"))

	require.NoError(t, err)
	require.NotNil(t, resp)

	newPhotoRel := strings.TrimPrefix(resp.PhotoURL, "/uploads/")
	require.NotEmpty(t, newPhotoRel)
	assert.NotEqual(t, oldPhotoRel, newPhotoRel)

	content, err := os.ReadFile(filepath.Join(ts.storageDir, filepath.FromSlash(newPhotoRel)))
	require.NoError(t, err)
	assert.Equal(t, "new photo bytes", string(content))

	_, err = os.Stat(oldPhotoAbs)
	assert.True(t, os.IsNotExist(err), "Superseded photo should be deleted after the save commits")
}

func TestProviderService_SaveProfile_UpsertFailureRemovesNewPhoto(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("FindByUserID", ctx, userID).Return(nil, common.ErrNotFound).Once()
	ts.mockRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("db down")).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, validSaveInput(), newPhotoHeader(t, "orphan.jpg", "orphan bytes"))

	require.Error(t, err)
	assert.Nil(t, resp)

	photosDir := filepath.Join(ts.storageDir, filestorage.ProviderPhotosDir)
	entries, readErr := os.ReadDir(photosDir)
	if readErr == nil {
		assert.Empty(t, entries, "No photo file should survive a failed save")
	} else {
		assert.True(t, os.IsNotExist(readErr))
	}
}

func TestProviderService_SaveProfile_MissingFields(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()

	input := validSaveInput()
	input.FullName = "  "
	input.Phone = ""
	input.Services = nil

	resp, err := ts.service.SaveProfile(ctx, uuid.New(), input, nil)

	require.Error(t, err)
	assert.Nil(t, resp)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "MISSING_FIELDS", apiErr.Code)

	details, ok := apiErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"fullName", "phone", "services"}, details["fields"])
	ts.mockRepo.AssertNotCalled(t, "Upsert")
}

func TestProviderService_SaveProfile_UpsertFailure(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("FindByUserID", ctx, userID).Return(nil, common.ErrNotFound).Once()
	ts.mockRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("db down")).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, validSaveInput(), nil)

	require.Error(t, err)
	assert.Nil(t, resp)
	ts.mockUsers.AssertNotCalled(t, "SetProfileUpdated")
	ts.mockActivities.AssertNotCalled(t, "Record")
}

func TestProviderService_SaveProfile_FlagFailureDoesNotFailSave(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("FindByUserID", ctx, userID).Return(nil, common.ErrNotFound).Once()
	ts.mockRepo.On("Upsert", ctx, mock.Anything).Return(nil).Once()
	ts.mockUsers.On("SetProfileUpdated", ctx, userID).Return(errors.New("db down")).Once()
	ts.mockActivities.On("Record", ctx, userID, activity.ProfileUpdated, mock.AnythingOfType("string"),
		mock.Anything, mock.Anything).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, validSaveInput(), nil)

	require.NoError(t, err)
	require.NotNil(t, resp)
}

func TestProviderService_GetOwnProfile_NotFound(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("FindByUserID", ctx, userID).Return(nil, common.ErrNotFound).Once()

	resp, err := ts.service.GetOwnProfile(ctx, userID)

	require.Error(t, err)
	assert.Nil(t, resp)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestProviderService_GetByID_IncludesEmail(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()

	row := &ProfileWithEmail{Email: "pro@example.com"}
	row.ID = uuid.New()
	row.FullName = "Abel Tesfaye"
	row.Photo = "providers/abc.jpg"

	ts.mockRepo.On("FindByID", ctx, row.ID).Return(row, nil).Once()

	resp, err := ts.service.GetByID(ctx, row.ID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "pro@example.com", resp.Email)
	assert.Equal(t, "/uploads/providers/abc.jpg", resp.PhotoURL)
}

func TestProviderService_DeleteProfile_Success(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	deleted := &ProviderProfile{UserID: userID}
	deleted.ID = uuid.New()

	ts.mockRepo.On("DeleteByUserID", ctx, userID).Return(deleted, nil).Once()

	err := ts.service.DeleteProfile(ctx, userID)

	require.NoError(t, err)
	ts.mockRepo.AssertExpectations(t)
}

func TestProviderService_DeleteProfile_NotFound(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("DeleteByUserID", ctx, userID).Return(nil, common.ErrNotFound).Once()

	err := ts.service.DeleteProfile(ctx, userID)

	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestProviderService_Search_UsesSQLWhenIndexDisabled(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()

	query := SearchQuery{Services: "plumbing", City: "Addis"}
	match := ProviderProfile{FullName: "Sara Bekele"}
	match.ID = uuid.New()

	ts.mockRepo.On("Search", ctx, query).Return([]ProviderProfile{match}, nil).Once()

	results, err := ts.service.Search(ctx, query)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Sara Bekele", results[0].FullName)
}

func TestProviderService_Stats_CountsServices(t *testing.T) {
	ts := setupProviderServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockCounter.On("CountByProvider", ctx, userID).Return(int64(7), nil).Once()

	stats, err := ts.service.Stats(ctx, userID)

	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(7), stats.ServicesCount)
	assert.Zero(t, stats.BookingsCount)
	assert.Zero(t, stats.ReviewsCount)
}
