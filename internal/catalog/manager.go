// File: internal/catalog/manager.go
package catalog

import (
	"context"
	"fmt"

	"localpro_backend/internal/activity"
	"localpro_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager defines catalog business logic. The caller's user ID doubles as
// the provider ID on every owned row.
type Manager interface {
	Create(ctx context.Context, providerID uuid.UUID, req CreateServiceRequest) (*ServiceResponse, error)
	GetByID(ctx context.Context, providerID, serviceID uuid.UUID) (*ServiceResponse, error)
	ListOwn(ctx context.Context, providerID uuid.UUID) ([]ServiceResponse, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]ServiceResponse, error)
	Update(ctx context.Context, providerID, serviceID uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error)
	Delete(ctx context.Context, providerID, serviceID uuid.UUID) error
}

type managerImpl struct {
	repo       Repository
	activities activity.Service
	logger     *zap.Logger
}

// NewManager creates a new catalog manager.
func NewManager(repo Repository, activities activity.Service, logger *zap.Logger) Manager {
	return &managerImpl{
		repo:       repo,
		activities: activities,
		logger:     logger.Named("catalog_manager"),
	}
}

func (m *managerImpl) Create(ctx context.Context, providerID uuid.UUID, req CreateServiceRequest) (*ServiceResponse, error) {
	service := &Service{
		ProviderID:  providerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsActive:    true,
	}

	if err := m.repo.Create(ctx, service); err != nil {
		m.logger.Error("Failed to create service", zap.String("providerID", providerID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not create service.")
	}

	m.activities.Record(ctx, providerID, activity.ServiceCreated,
		fmt.Sprintf("Service %q was created", service.Name), &service.ID, serviceEntityType())

	resp := ToServiceResponse(service)
	return &resp, nil
}

// GetByID returns one of the caller's own services. A service owned by
// someone else is reported as forbidden, not hidden.
func (m *managerImpl) GetByID(ctx context.Context, providerID, serviceID uuid.UUID) (*ServiceResponse, error) {
	service, err := m.findOwned(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}
	resp := ToServiceResponse(service)
	return &resp, nil
}

func (m *managerImpl) ListOwn(ctx context.Context, providerID uuid.UUID) ([]ServiceResponse, error) {
	return m.ListByProvider(ctx, providerID)
}

// ListByProvider returns a provider's services for the public view.
func (m *managerImpl) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]ServiceResponse, error) {
	services, err := m.repo.FindByProvider(ctx, providerID)
	if err != nil {
		m.logger.Error("Failed to list services", zap.String("providerID", providerID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not retrieve services.")
	}

	responses := make([]ServiceResponse, 0, len(services))
	for i := range services {
		responses = append(responses, ToServiceResponse(&services[i]))
	}
	return responses, nil
}

// Update applies the present fields of the request to an owned service.
func (m *managerImpl) Update(ctx context.Context, providerID, serviceID uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	service, err := m.findOwned(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := m.repo.Update(ctx, service); err != nil {
		m.logger.Error("Failed to update service", zap.String("serviceID", serviceID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update service.")
	}

	m.activities.Record(ctx, providerID, activity.ServiceUpdated,
		fmt.Sprintf("Service %q was updated", service.Name), &service.ID, serviceEntityType())

	resp := ToServiceResponse(service)
	return &resp, nil
}

// Delete removes an owned service. The name is captured before the row goes
// away so the activity message can carry it.
func (m *managerImpl) Delete(ctx context.Context, providerID, serviceID uuid.UUID) error {
	service, err := m.findOwned(ctx, providerID, serviceID)
	if err != nil {
		return err
	}
	name := service.Name

	if err := m.repo.Delete(ctx, serviceID); err != nil {
		m.logger.Error("Failed to delete service", zap.String("serviceID", serviceID.String()), zap.Error(err))
		return err
	}

	m.activities.Record(ctx, providerID, activity.ServiceDeleted,
		fmt.Sprintf("Service %q was deleted", name), &serviceID, serviceEntityType())
	return nil
}

func (m *managerImpl) findOwned(ctx context.Context, providerID, serviceID uuid.UUID) (*Service, error) {
	service, err := m.repo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if service.ProviderID != providerID {
		return nil, common.ErrForbidden.WithDetails("You do not own this service.")
	}
	return service, nil
}

func serviceEntityType() *string {
	t := "service"
	return &t
}
