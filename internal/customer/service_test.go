package customer

import (
	"context"
	"errors"
	"testing"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/common"
	"localpro_backend/internal/provider"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockCustomerRepository is a mock type for customer.Repository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Upsert(ctx context.Context, profile *CustomerProfile) error {
	args := m.Called(ctx, profile)
	if args.Error(0) == nil && profile.ID == uuid.Nil {
		profile.ID = uuid.New() // Simulate DB generating ID
	}
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*CustomerProfile, error) {
	args := m.Called(ctx, userID)
	var profile *CustomerProfile
	if args.Get(0) != nil {
		profile = args.Get(0).(*CustomerProfile)
	}
	return profile, args.Error(1)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*ProfileWithEmail, error) {
	args := m.Called(ctx, id)
	var row *ProfileWithEmail
	if args.Get(0) != nil {
		row = args.Get(0).(*ProfileWithEmail)
	}
	return row, args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, page, pageSize int) ([]CustomerProfile, *common.Pagination, error) {
	args := m.Called(ctx, page, pageSize)
	var profiles []CustomerProfile
	if args.Get(0) != nil {
		profiles = args.Get(0).([]CustomerProfile)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return profiles, pagination, args.Error(2)
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
type CustomerServiceTestSuite struct {
	service        Service
	mockRepo       *MockCustomerRepository
	mockUsers      *MockUserFlagger
	mockActivities *MockActivityService
}

func setupCustomerServiceTestSuite(t *testing.T) *CustomerServiceTestSuite {
	ts := &CustomerServiceTestSuite{}
	ts.mockRepo = new(MockCustomerRepository)
	ts.mockUsers = new(MockUserFlagger)
	ts.mockActivities = new(MockActivityService)
	ts.service = NewService(ts.mockRepo, ts.mockUsers, ts.mockActivities, zap.NewNop())
	return ts
}

// --- Test Cases ---

func TestCustomerService_SaveProfile_Success(t *testing.T) {
	ts := setupCustomerServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("Upsert", ctx, mock.MatchedBy(func(p *CustomerProfile) bool {
		return p.UserID == userID && p.FullName == "Hanna Girma" && p.City == "Addis Ababa"
	})).Return(nil).Once()
	ts.mockUsers.On("SetProfileUpdated", ctx, userID).Return(nil).Once()
	ts.mockActivities.On("Record", ctx, userID, activity.ProfileUpdated, mock.AnythingOfType("string"),
		mock.Anything, mock.Anything).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, SaveProfileRequest{
		FullName: "Hanna Girma",
		Phone:    "+251911222333",
		RawLocation: map[string]interface{}{
			"city":   "Addis Ababa",
			"region": "Addis Ababa",
			"town":   "Kirkos",
		},
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "Hanna Girma", resp.FullName)
	assert.Equal(t, "Kirkos", resp.Location.Town)
	ts.mockRepo.AssertExpectations(t)
	ts.mockUsers.AssertExpectations(t)
	ts.mockActivities.AssertExpectations(t)
}

func TestCustomerService_SaveProfile_LocationAsJSONString(t *testing.T) {
	ts := setupCustomerServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("Upsert", ctx, mock.MatchedBy(func(p *CustomerProfile) bool {
		return p.City == "Hawassa" && p.Region == "Sidama"
	})).Return(nil).Once()
	ts.mockUsers.On("SetProfileUpdated", ctx, userID).Return(nil).Once()
	ts.mockActivities.On("Record", ctx, userID, activity.ProfileUpdated, mock.AnythingOfType("string"),
		mock.Anything, mock.Anything).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, SaveProfileRequest{
		FullName:    "Hanna Girma",
		Phone:       "+251911222333",
		RawLocation: `{"city":"Hawassa","region":"Sidama"}`,
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "Hawassa", resp.Location.City)
}

func TestCustomerService_SaveProfile_MissingFields(t *testing.T) {
	ts := setupCustomerServiceTestSuite(t)
	ctx := context.Background()

	resp, err := ts.service.SaveProfile(ctx, uuid.New(), SaveProfileRequest{
		FullName: "  ",
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "MISSING_FIELDS", apiErr.Code)

	details, ok := apiErr.Details.(map[string]interface{})
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"fullName", "phone", "location"}, details["fields"])
	ts.mockRepo.AssertNotCalled(t, "Upsert")
}

func TestCustomerService_SaveProfile_MalformedLocationCountsAsMissing(t *testing.T) {
	ts := setupCustomerServiceTestSuite(t)
	ctx := context.Background()

	resp, err := ts.service.SaveProfile(ctx, uuid.New(), SaveProfileRequest{
		FullName:    "Hanna Girma",
		Phone:       "+251911222333",
		RawLocation: "not-json",
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "MISSING_FIELDS", apiErr.Code)

	details := apiErr.Details.(map[string]interface{})
	assert.ElementsMatch(t, []string{"location"}, details["fields"])
}

func TestCustomerService_SaveProfile_UpsertFailure(t *testing.T) {
	ts := setupCustomerServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("Upsert", ctx, mock.Anything).Return(errors.New("db down")).Once()

	resp, err := ts.service.SaveProfile(ctx, userID, SaveProfileRequest{
		FullName:    "Hanna Girma",
		Phone:       "+251911222333",
		RawLocation: map[string]interface{}{"city": "Addis Ababa"},
	})

	require.Error(t, err)
	assert.Nil(t, resp)
	ts.mockUsers.AssertNotCalled(t, "SetProfileUpdated")
}

func TestCustomerService_GetOwnProfile_NotFound(t *testing.T) {
	ts := setupCustomerServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("FindByUserID", ctx, userID).Return(nil, common.ErrNotFound).Once()

	resp, err := ts.service.GetOwnProfile(ctx, userID)

	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestCustomerService_GetByID_IncludesEmail(t *testing.T) {
	ts := setupCustomerServiceTestSuite(t)
	ctx := context.Background()

	row := &ProfileWithEmail{Email: "customer@example.com"}
	row.ID = uuid.New()
	row.FullName = "Hanna Girma"
	row.Town = "Kirkos"

	ts.mockRepo.On("FindByID", ctx, row.ID).Return(row, nil).Once()

	resp, err := ts.service.GetByID(ctx, row.ID)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "customer@example.com", resp.Email)
	assert.Equal(t, provider.Location{Town: "Kirkos"}, resp.Location)
}
