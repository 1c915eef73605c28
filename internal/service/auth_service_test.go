package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"miniportfolio/api/internal/apperr"
	"miniportfolio/api/internal/config"
	"miniportfolio/api/internal/models"
	"miniportfolio/api/internal/repository"
	"miniportfolio/api/internal/security"
)

// -------- test fakes --------

type fakeStore struct {
	repository.UserStore
	users map[string]models.User

	createErr error
	deactived []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]models.User)}
}

func (f *fakeStore) add(u models.User) {
	f.users[u.ID] = u
}

func (f *fakeStore) Create(ctx context.Context, user models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return nil
}

func (f *fakeStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.LastLogin = &at
	f.users[id] = u
	return nil
}

func (f *fakeStore) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsActive = active
	f.users[id] = u
	f.deactived = append(f.deactived, id)
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: security.DefaultBcryptCost,
		},
	}
}

func newAuthService(store repository.UserStore) *AuthService {
	return NewAuthService(store, testConfig(), zerolog.Nop())
}

// -------- tests --------

func TestRegister_TokenResolvesToCreatedUser(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newAuthService(store)

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Test.com",
		Password: "password1",
	})
	require.NoError(t, err)

	userID, err := security.ParseToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)

	stored := store.users[result.User.ID]
	assert.Equal(t, "alice@test.com", stored.Email)
	assert.Equal(t, models.UserRoleUser, stored.Role)
	assert.True(t, stored.IsActive)
	assert.NotEqual(t, "password1", stored.PasswordHash)
	assert.True(t, security.CheckPassword("password1", stored.PasswordHash))
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.com", Password: "password1"}},
		{"missing email", RegisterInput{Name: "A", Password: "password1"}},
		{"missing password", RegisterInput{Name: "A", Email: "a@b.com"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.com", Password: "12345"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "password1"}},
		{"long name", RegisterInput{Name: strings.Repeat("x", 51), Email: "a@b.com", Password: "password1"}},
	}

	svc := newAuthService(newFakeStore())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.add(models.User{ID: "u1", Email: "taken@test.com"})
	svc := newAuthService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "B",
		Email:    "TAKEN@test.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_ConstraintBackstop(t *testing.T) {
	t.Parallel()

	// The pre-insert lookup missed but the unique index fired: the caller
	// must see the same duplicate error.
	store := newFakeStore()
	store.createErr = repository.ErrEmailTaken
	svc := newAuthService(store)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "B",
		Email:    "raced@test.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_UpdatesLastLogin(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("password1", security.DefaultBcryptCost)
	require.NoError(t, err)

	store := newFakeStore()
	store.add(models.User{ID: "u1", Email: "alice@test.com", PasswordHash: hash, IsActive: true})
	svc := newAuthService(store)

	before := time.Now().UTC()
	result, err := svc.Login(context.Background(), LoginInput{Email: "alice@test.com", Password: "password1"})
	require.NoError(t, err)

	require.NotNil(t, result.User.LastLogin)
	assert.False(t, result.User.LastLogin.Before(before))

	userID, err := security.ParseToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestLogin_InactiveUserStillLogsIn(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("password1", security.DefaultBcryptCost)
	require.NoError(t, err)

	store := newFakeStore()
	store.add(models.User{ID: "u1", Email: "gone@test.com", PasswordHash: hash, IsActive: false})
	svc := newAuthService(store)

	_, err = svc.Login(context.Background(), LoginInput{Email: "gone@test.com", Password: "password1"})
	assert.NoError(t, err)
}

func TestLogin_UniformError(t *testing.T) {
	t.Parallel()

	hash, err := security.HashPassword("password1", security.DefaultBcryptCost)
	require.NoError(t, err)

	store := newFakeStore()
	store.add(models.User{ID: "u1", Email: "alice@test.com", PasswordHash: hash, IsActive: true})
	svc := newAuthService(store)

	_, errUnknown := svc.Login(context.Background(), LoginInput{Email: "nobody@test.com", Password: "password1"})
	_, errWrongPw := svc.Login(context.Background(), LoginInput{Email: "alice@test.com", Password: "wrong-password"})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestCurrentUser_NotFound(t *testing.T) {
	t.Parallel()

	svc := newAuthService(newFakeStore())

	_, err := svc.CurrentUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeactivateUser(t *testing.T) {
	t.Parallel()

	admin := models.User{ID: "admin", Email: "admin@test.com", Role: models.UserRoleAdmin, IsActive: true}
	other := models.User{ID: "other-admin", Email: "boss@test.com", Role: models.UserRoleAdmin, IsActive: true}
	user := models.User{ID: "user", Email: "user@test.com", Role: models.UserRoleUser, IsActive: true}

	tests := []struct {
		name     string
		targetID string
		wantErr  error
	}{
		{"missing target", "nobody", ErrUserNotFound},
		{"self deletion", "admin", ErrSelfDeletion},
		{"admin target", "other-admin", ErrAdminProtected},
		{"regular user", "user", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.add(admin)
			store.add(other)
			store.add(user)
			svc := newAuthService(store)

			err := svc.DeactivateUser(context.Background(), "admin", tc.targetID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, store.users[tc.targetID].IsActive)
		})
	}
}

func TestDeactivateUser_Idempotent(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.add(models.User{ID: "admin", Role: models.UserRoleAdmin, Email: "admin@test.com", IsActive: true})
	store.add(models.User{ID: "user", Role: models.UserRoleUser, Email: "user@test.com", IsActive: true})
	svc := newAuthService(store)

	require.NoError(t, svc.DeactivateUser(context.Background(), "admin", "user"))
	require.NoError(t, svc.DeactivateUser(context.Background(), "admin", "user"))
	assert.False(t, store.users["user"].IsActive)
}
