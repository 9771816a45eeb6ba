package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ironlog/workout-app/internal/domain"
	"ironlog/workout-app/internal/repository"
	"ironlog/workout-app/internal/service"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	cp := *user
	cp.ID = primitive.NewObjectID()
	r.byEmail[user.Email] = &cp
	return cp.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

const testJWTSecret = "test-secret"

func TestRegister(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewAuthService(repo, testJWTSecret, time.Hour)

	user, err := svc.Register(ctx, "Alex", "alex@example.com", "hunter22")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "Alex", user.Name)
	assert.Empty(t, user.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, "Alex Again", "alex@example.com", "hunter22")
		assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Register(ctx, "", "someone@example.com", "pw")
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewAuthService(repo, testJWTSecret, time.Hour)
	registered, err := svc.Register(ctx, "Alex", "alex@example.com", "hunter22")
	require.NoError(t, err)

	t.Run("valid credentials yield a signed token", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "alex@example.com", "hunter22")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Empty(t, user.PasswordHash)

		claims := jwt.MapClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, registered.ID.Hex(), claims["uid"])
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alex@example.com", "wrong")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "hunter22")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})
}
