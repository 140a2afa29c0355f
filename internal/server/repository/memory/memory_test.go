package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

func TestUsers_CreateAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "a@b.com", "A", "hash")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, u.ID)

	byEmail, err := s.Users().GetByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	require.Equal(t, u, byEmail)

	byID, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u, byID)

	_, err = s.Users().GetByEmail(ctx, "none@b.com")
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestUsers_CreateDuplicate(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Users().Create(ctx, "a@b.com", "", "hash")
	require.NoError(t, err)

	_, err = s.Users().Create(ctx, "a@b.com", "", "hash2")
	require.ErrorIs(t, err, serr.ErrAlreadyExists)
}

// Параллельные регистрации с одним email: успешна ровно одна
func TestUsers_CreateConcurrentSameEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	const n = 20
	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Users().Create(ctx, "race@b.com", "", "hash"); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, ok)
}

func TestUsers_Update(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "a@b.com", "A", "hash")
	require.NoError(t, err)
	_, err = s.Users().Create(ctx, "taken@b.com", "", "hash")
	require.NoError(t, err)

	name := "B"
	got, err := s.Users().Update(ctx, u.ID, models.UserUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "B", got.Name)
	require.Equal(t, "hash", got.PasswordHash)

	taken := "taken@b.com"
	_, err = s.Users().Update(ctx, u.ID, models.UserUpdate{Email: &taken})
	require.ErrorIs(t, err, serr.ErrAlreadyExists)

	newEmail := "new@b.com"
	got, err = s.Users().Update(ctx, u.ID, models.UserUpdate{Email: &newEmail})
	require.NoError(t, err)
	require.Equal(t, newEmail, got.Email)

	// старый email освободился
	_, err = s.Users().GetByEmail(ctx, "a@b.com")
	require.ErrorIs(t, err, serr.ErrNotFound)
	_, err = s.Users().Create(ctx, "a@b.com", "", "hash")
	require.NoError(t, err)

	_, err = s.Users().Update(ctx, uuid.New(), models.UserUpdate{Name: &name})
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestTokens_CreateGetExpire(t *testing.T) {
	s := New()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, "a@b.com", "", "hash")
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	_, err = s.Tokens().Create(ctx, u.ID, []byte("live"), nil)
	require.NoError(t, err)
	_, err = s.Tokens().Create(ctx, u.ID, []byte("dead"), &past)
	require.NoError(t, err)

	_, err = s.Tokens().Create(ctx, u.ID, []byte("live"), nil)
	require.ErrorIs(t, err, serr.ErrAlreadyExists)

	_, err = s.Tokens().Create(ctx, uuid.New(), []byte("orphan"), nil)
	require.ErrorIs(t, err, serr.ErrNotFound)

	tok, err := s.Tokens().GetByHash(ctx, []byte("live"))
	require.NoError(t, err)
	require.Equal(t, u.ID, tok.UserID)

	n, err := s.Tokens().DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.Tokens().GetByHash(ctx, []byte("dead"))
	require.ErrorIs(t, err, serr.ErrNotFound)
}

func TestStore_CanceledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Ping(ctx))
	_, err := s.Users().Create(ctx, "a@b.com", "", "hash")
	require.ErrorIs(t, err, context.Canceled)
}
