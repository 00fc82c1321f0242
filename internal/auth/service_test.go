package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptshield/promptshield/internal/auth"
	"github.com/promptshield/promptshield/internal/shared"
)

type memRepo struct {
	users    []*auth.User
	nextID   int64
	inserted int
}

func (m *memRepo) FindByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	for _, u := range m.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Insert(ctx context.Context, username, email, passwordHash string) (int64, error) {
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return 0, shared.ErrDuplicateUser
		}
	}
	m.nextID++
	m.inserted++
	m.users = append(m.users, &auth.User{ID: m.nextID, Username: username, Email: email, PasswordHash: passwordHash})
	return m.nextID, nil
}

func (m *memRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (m *memRepo) DeleteSession(ctx context.Context, id string) error { return nil }

func (m *memRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// failingRepo simulates a store outage on selected operations.
type failingRepo struct {
	*memRepo
	findErr   error
	existsErr error
}

func (f *failingRepo) FindByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.memRepo.FindByIdentifier(ctx, identifier)
}

func (f *failingRepo) Exists(ctx context.Context, username, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.memRepo.Exists(ctx, username, email)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and hashes password", func(t *testing.T) {
		repo := &memRepo{}
		svc := auth.NewService(repo)

		user, err := svc.Signup(ctx, "alice", "A@Example.com", "longpass1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "a@example.com", user.Email, "email should be lowercased before storage")

		stored := repo.users[0]
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "longpass1", stored.PasswordHash)
	})

	t.Run("rejects invalid fields before touching the store", func(t *testing.T) {
		repo := &memRepo{}
		svc := auth.NewService(repo)

		cases := []struct {
			username, email, password string
			message                   string
		}{
			{"ab", "a@example.com", "longpass1", "Invalid username"},
			{"alice", "not-an-email", "longpass1", "Invalid email"},
			{"alice", "a@example.com", "short", "Password must be at least 8 characters"},
		}
		for _, tc := range cases {
			_, err := svc.Signup(ctx, tc.username, tc.email, tc.password)
			require.Error(t, err)
			ve, ok := shared.AsValidationError(err)
			require.True(t, ok, "expected validation error for %q", tc.message)
			assert.Equal(t, tc.message, ve.Message)
		}
		assert.Zero(t, repo.inserted, "invalid input must not reach the store")
	})

	t.Run("rejects duplicate username and duplicate email", func(t *testing.T) {
		repo := &memRepo{}
		svc := auth.NewService(repo)

		_, err := svc.Signup(ctx, "alice", "a@example.com", "longpass1")
		require.NoError(t, err)

		_, err = svc.Signup(ctx, "alice", "other@example.com", "longpass1")
		assert.ErrorIs(t, err, shared.ErrDuplicateUser)

		_, err = svc.Signup(ctx, "other", "a@example.com", "longpass1")
		assert.ErrorIs(t, err, shared.ErrDuplicateUser)
	})

	t.Run("store failure during the existence check propagates", func(t *testing.T) {
		dialErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		svc := auth.NewService(&failingRepo{memRepo: &memRepo{}, existsErr: dialErr})

		_, err := svc.Signup(ctx, "alice", "a@example.com", "longpass1")
		assert.ErrorIs(t, err, dialErr)
		assert.NotErrorIs(t, err, shared.ErrDuplicateUser)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := &memRepo{}
	svc := auth.NewService(repo)

	_, err := svc.Signup(ctx, "alice", "a@example.com", "longpass1")
	require.NoError(t, err)

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Login(ctx, "alice", "longpass1")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("by email", func(t *testing.T) {
		user, err := svc.Login(ctx, "a@example.com", "longpass1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("wrong password and unknown identifier are indistinguishable", func(t *testing.T) {
		_, wrongPass := svc.Login(ctx, "alice", "wrongpass1")
		_, unknown := svc.Login(ctx, "nobody", "longpass1")
		assert.ErrorIs(t, wrongPass, shared.ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, shared.ErrInvalidCredentials)
		assert.Equal(t, wrongPass.Error(), unknown.Error())
	})

	t.Run("store failure is not masked as invalid credentials", func(t *testing.T) {
		dialErr := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
		svc := auth.NewService(&failingRepo{memRepo: &memRepo{}, findErr: dialErr})

		_, err := svc.Login(ctx, "alice", "longpass1")
		assert.ErrorIs(t, err, dialErr)
		assert.NotErrorIs(t, err, shared.ErrInvalidCredentials,
			"an outage answered as bad credentials would hide the failure from the caller")
	})
}
