package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/service/user"
	"github.com/jwalitptl/booking-api/pkg/auth"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

type fakeUserRepo struct {
	byID map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) ListPatients(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	for _, u := range r.byID {
		if u.Role == model.RoleUser {
			users = append(users, u)
		}
	}
	return users, nil
}

const (
	adminEmail    = "admin@klinik.com"
	adminPassword = "admin123"
)

func newService() (*user.Service, *fakeUserRepo, *auth.JWTService) {
	repo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return user.NewService(repo, jwtSvc, adminEmail, adminPassword), repo, jwtSvc
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:     "Jane@Example.com",
		Password:  "s3cret-pass",
		FirstName: "Jane",
		LastName:  "Doe",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a patient and issues a token", func(t *testing.T) {
		svc, repo, jwtSvc := newService()

		resp, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		assert.Equal(t, "jane@example.com", resp.User.Email, "email is normalized")
		assert.Equal(t, model.RoleUser, resp.User.Role)
		assert.NotEqual(t, "s3cret-pass", resp.User.PasswordHash, "password is never stored in the clear")

		caller, err := jwtSvc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, caller.UserID)
		assert.Equal(t, model.RoleUser, caller.Role)

		_, err = repo.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _, _ := newService()

		req := registerRequest()
		req.Password = "   "
		_, err := svc.Register(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidRequest))
	})

	t.Run("rejects duplicate email regardless of case", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		req := registerRequest()
		req.Email = "JANE@example.COM"
		_, err = svc.Register(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidRequest))
	})

	t.Run("rejects the reserved admin address", func(t *testing.T) {
		svc, _, _ := newService()

		req := registerRequest()
		req.Email = "Admin@Klinik.com"
		_, err := svc.Register(ctx, req)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidRequest))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts registered credentials", func(t *testing.T) {
		svc, _, _ := newService()

		registered, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		resp, err := svc.Login(ctx, &model.LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, resp.User.ID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Register(ctx, registerRequest())
		require.NoError(t, err)

		_, err = svc.Login(ctx, &model.LoginRequest{Email: "jane@example.com", Password: "wrong"})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("rejects an unknown email with the same error", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Login(ctx, &model.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("admin credentials short-circuit the user table", func(t *testing.T) {
		svc, _, jwtSvc := newService()

		resp, err := svc.Login(ctx, &model.LoginRequest{Email: "ADMIN@klinik.com", Password: adminPassword})
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, resp.User.Role)

		caller, err := jwtSvc.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.True(t, caller.IsAdmin())
	})

	t.Run("admin email with a wrong password falls through and fails", func(t *testing.T) {
		svc, _, _ := newService()

		_, err := svc.Login(ctx, &model.LoginRequest{Email: adminEmail, Password: "guess"})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})
}

func TestListPatients(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	admin := model.Caller{UserID: uuid.New(), Email: adminEmail, Role: model.RoleAdmin}
	patients, err := svc.ListPatients(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, patients, 1)

	_, err = svc.ListPatients(ctx, model.Caller{UserID: uuid.New(), Role: model.RoleUser})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
}
