// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jwalitptl/his-api/internal/model"
)

func clients(v interface{}) []*model.Client {
	if v == nil {
		return nil
	}
	return v.([]*model.Client)
}

type UserRepository struct{ mock.Mock }

func (m *UserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepository) GetByOAuth(ctx context.Context, provider, oauthID string) (*model.User, error) {
	args := m.Called(ctx, provider, oauthID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepository) LinkOAuth(ctx context.Context, id uuid.UUID, provider, oauthID string) error {
	return m.Called(ctx, id, provider, oauthID).Error(0)
}

func (m *UserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	return m.Called(ctx, id, role).Error(0)
}

type FacilityRepository struct{ mock.Mock }

func (m *FacilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	return m.Called(ctx, facility).Error(0)
}

func (m *FacilityRepository) GetByName(ctx context.Context, name string) (*model.Facility, error) {
	args := m.Called(ctx, name)
	f, _ := args.Get(0).(*model.Facility)
	return f, args.Error(1)
}

type ClientRepository struct{ mock.Mock }

func (m *ClientRepository) Create(ctx context.Context, client *model.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Client)
	return c, args.Error(1)
}

func (m *ClientRepository) Update(ctx context.Context, client *model.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *ClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ClientRepository) List(ctx context.Context, limit, offset int) ([]*model.Client, error) {
	args := m.Called(ctx, limit, offset)
	return clients(args.Get(0)), args.Error(1)
}

func (m *ClientRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *ClientRepository) SearchExactDigits(ctx context.Context, digits string, limit, offset int) ([]*model.Client, error) {
	args := m.Called(ctx, digits, limit, offset)
	return clients(args.Get(0)), args.Error(1)
}

func (m *ClientRepository) SearchNameTokens(ctx context.Context, first, second string, limit, offset int) ([]*model.Client, error) {
	args := m.Called(ctx, first, second, limit, offset)
	return clients(args.Get(0)), args.Error(1)
}

func (m *ClientRepository) SearchSubstring(ctx context.Context, query string, limit, offset int) ([]*model.Client, error) {
	args := m.Called(ctx, query, limit, offset)
	return clients(args.Get(0)), args.Error(1)
}

func (m *ClientRepository) SearchFuzzy(ctx context.Context, query string, limit, offset int) ([]*model.Client, error) {
	args := m.Called(ctx, query, limit, offset)
	return clients(args.Get(0)), args.Error(1)
}

type ProgramRepository struct{ mock.Mock }

func (m *ProgramRepository) Create(ctx context.Context, program *model.HealthProgram) error {
	return m.Called(ctx, program).Error(0)
}

func (m *ProgramRepository) Get(ctx context.Context, id uuid.UUID) (*model.HealthProgram, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.HealthProgram)
	return p, args.Error(1)
}

func (m *ProgramRepository) Update(ctx context.Context, program *model.HealthProgram) error {
	return m.Called(ctx, program).Error(0)
}

func (m *ProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProgramRepository) List(ctx context.Context, activeOnly bool) ([]*model.HealthProgram, error) {
	args := m.Called(ctx, activeOnly)
	p, _ := args.Get(0).([]*model.HealthProgram)
	return p, args.Error(1)
}

type EnrollmentRepository struct{ mock.Mock }

func (m *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return m.Called(ctx, enrollment).Error(0)
}

func (m *EnrollmentRepository) HasActive(ctx context.Context, clientID, programID uuid.UUID) (bool, error) {
	args := m.Called(ctx, clientID, programID)
	return args.Bool(0), args.Error(1)
}

func (m *EnrollmentRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*model.EnrollmentWithProgram, error) {
	args := m.Called(ctx, clientID)
	e, _ := args.Get(0).([]*model.EnrollmentWithProgram)
	return e, args.Error(1)
}

func (m *EnrollmentRepository) ListByProgram(ctx context.Context, programID uuid.UUID, limit, offset int) ([]*model.EnrollmentWithClient, error) {
	args := m.Called(ctx, programID, limit, offset)
	e, _ := args.Get(0).([]*model.EnrollmentWithClient)
	return e, args.Error(1)
}

type ApiKeyRepository struct{ mock.Mock }

func (m *ApiKeyRepository) Create(ctx context.Context, key *model.ApiKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *ApiKeyRepository) GetActive(ctx context.Context, key string) (*model.ApiKey, error) {
	args := m.Called(ctx, key)
	k, _ := args.Get(0).(*model.ApiKey)
	return k, args.Error(1)
}

func (m *ApiKeyRepository) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *ApiKeyRepository) Revoke(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *ApiKeyRepository) ListActive(ctx context.Context) ([]*model.ApiKey, error) {
	args := m.Called(ctx)
	k, _ := args.Get(0).([]*model.ApiKey)
	return k, args.Error(1)
}

type DashboardRepository struct{ mock.Mock }

func (m *DashboardRepository) CountClients(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *DashboardRepository) CountActivePrograms(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *DashboardRepository) CountEnrollmentsSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *DashboardRepository) ClientRegistrationsSince(ctx context.Context, since time.Time) ([]model.MonthCount, error) {
	args := m.Called(ctx, since)
	c, _ := args.Get(0).([]model.MonthCount)
	return c, args.Error(1)
}

func (m *DashboardRepository) ActiveEnrollmentsByProgram(ctx context.Context) ([]*model.ProgramDistribution, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).([]*model.ProgramDistribution)
	return d, args.Error(1)
}

func (m *DashboardRepository) RecentClients(ctx context.Context, limit int) ([]*model.Client, error) {
	args := m.Called(ctx, limit)
	return clients(args.Get(0)), args.Error(1)
}

func (m *DashboardRepository) EnrolledPrograms(ctx context.Context, clientIDs []uuid.UUID) (map[uuid.UUID][]model.ProgramRef, error) {
	args := m.Called(ctx, clientIDs)
	p, _ := args.Get(0).(map[uuid.UUID][]model.ProgramRef)
	return p, args.Error(1)
}
