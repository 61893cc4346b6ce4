package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/his-api/internal/model"
	"github.com/jwalitptl/his-api/internal/repository"
	"github.com/jwalitptl/his-api/internal/repository/mocks"
	"github.com/jwalitptl/his-api/pkg/auth"
	apperrors "github.com/jwalitptl/his-api/pkg/errors"
	"github.com/jwalitptl/his-api/pkg/security"
)

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendWelcome(ctx context.Context, to, name string) error {
	return m.Called(to, name).Error(0)
}

func (m *mockMailer) SendCustom(ctx context.Context, to, subject, content string) error {
	return m.Called(to, subject, content).Error(0)
}

type fixture struct {
	svc        *Service
	users      *mocks.UserRepository
	facilities *mocks.FacilityRepository
	mail       *mockMailer
	hasher     security.PasswordHasher
	tokens     auth.JWTService
}

func newFixture() *fixture {
	f := &fixture{
		users:      &mocks.UserRepository{},
		facilities: &mocks.FacilityRepository{},
		mail:       &mockMailer{},
		hasher:     security.NewBcryptHasher(4),
		tokens:     auth.NewJWTService("test-secret", 0),
	}
	f.svc = NewService(f.users, f.facilities, f.hasher, f.tokens, f.mail)
	return f
}

func registration() *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:            "Dr Jane Doe",
		Email:           "Jane@Example.com",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		Role:            "Doctor",
		FacilityName:    "Central Clinic",
		FacilityPhone:   "+254 (0) 700-000",
		LicenseNumber:   "MD-1234",
	}
}

func TestRegisterCreatesFacility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.users.On("GetByEmail", ctx, "jane@example.com").Return(nil, repository.ErrNotFound)
	f.facilities.On("GetByName", ctx, "Central Clinic").Return(nil, repository.ErrNotFound)
	f.facilities.On("Create", ctx, mock.MatchedBy(func(fac *model.Facility) bool {
		return fac.Phone != nil && *fac.Phone == "2540700000"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Facility).ID = uuid.New()
	}).Return(nil)
	f.users.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)
	f.mail.On("SendWelcome", "jane@example.com", "Dr Jane Doe").Return(errors.New("smtp down"))

	user, err := f.svc.Register(ctx, registration())
	require.NoError(t, err, "mail failures do not fail registration")

	assert.Equal(t, model.RoleDoctor, user.Role)
	assert.Equal(t, "MD-1234", *user.LicenseNumber)
	require.NotNil(t, user.PasswordHash)
	assert.NoError(t, f.hasher.Compare(*user.PasswordHash, "correct-horse"))
	f.mail.AssertExpectations(t)
}

func TestRegisterReusesFacility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	facility := &model.Facility{Base: model.Base{ID: uuid.New()}, Name: "Central Clinic"}

	f.users.On("GetByEmail", ctx, "jane@example.com").Return(nil, repository.ErrNotFound)
	f.facilities.On("GetByName", ctx, "Central Clinic").Return(facility, nil)
	f.users.On("Create", ctx, mock.AnythingOfType("*model.User")).Return(nil)
	f.mail.On("SendWelcome", mock.Anything, mock.Anything).Return(nil)

	user, err := f.svc.Register(ctx, registration())
	require.NoError(t, err)

	assert.Equal(t, facility.ID, *user.FacilityID)
	f.facilities.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.users.On("GetByEmail", ctx, "jane@example.com").Return(&model.User{}, nil)

	_, err := f.svc.Register(ctx, registration())
	require.Error(t, err)

	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "User with this email already exists", apperrors.From(err).Message)
	f.facilities.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	req := registration()
	req.ConfirmPassword = "different"
	req.Role = "Admin"

	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)

	details := apperrors.From(err).Details
	assert.Equal(t, "passwords do not match", details["confirm_password"])
	assert.Contains(t, details, "role")
	f.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	hash, err := f.hasher.Hash("correct-horse")
	require.NoError(t, err)
	user := &model.User{Base: model.Base{ID: uuid.New()}, Name: "Nurse N", Email: "n@example.com", Role: model.RoleNurse, PasswordHash: &hash}

	f.users.On("GetByEmail", ctx, "n@example.com").Return(user, nil)
	f.users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrNotFound)

	res, err := f.svc.Login(ctx, &model.LoginRequest{Email: "n@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	sess, err := f.svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, model.RoleNurse, sess.Role)

	_, wrongPassword := f.svc.Login(ctx, &model.LoginRequest{Email: "n@example.com", Password: "nope"})
	_, unknownUser := f.svc.Login(ctx, &model.LoginRequest{Email: "ghost@example.com", Password: "nope"})
	assert.Equal(t, apperrors.From(wrongPassword).Message, apperrors.From(unknownUser).Message)
	assert.True(t, apperrors.Is(wrongPassword, apperrors.ErrUnauthorized))
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.users.On("GetByEmail", ctx, "g@example.com").Return(&model.User{Email: "g@example.com"}, nil)

	_, err := f.svc.Login(ctx, &model.LoginRequest{Email: "g@example.com", Password: "anything"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestOAuthLoginCreatesDoctor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	profile := &model.OAuthProfile{Provider: ProviderGoogle, ID: "sub-1", Email: "new@example.com", Name: "New Doc"}

	f.users.On("GetByOAuth", ctx, ProviderGoogle, "sub-1").Return(nil, repository.ErrNotFound)
	f.users.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrNotFound)
	f.users.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
		return u.Role == model.RoleDoctor && u.PasswordHash == nil && *u.OAuthID == "sub-1"
	})).Return(nil)

	res, err := f.svc.OAuthLogin(ctx, profile)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	f.users.AssertExpectations(t)
}

func TestOAuthLoginLinksExistingAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	existing := &model.User{Base: model.Base{ID: uuid.New()}, Email: "jane@example.com", Role: model.RoleAdmin}
	profile := &model.OAuthProfile{Provider: ProviderGoogle, ID: "sub-2", Email: "jane@example.com"}

	f.users.On("GetByOAuth", ctx, ProviderGoogle, "sub-2").Return(nil, repository.ErrNotFound)
	f.users.On("GetByEmail", ctx, "jane@example.com").Return(existing, nil)
	f.users.On("LinkOAuth", ctx, existing.ID, ProviderGoogle, "sub-2").Return(nil)

	res, err := f.svc.OAuthLogin(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.User.Role)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Authenticate(context.Background(), "")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = f.svc.Authenticate(context.Background(), "not-a-token")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}
