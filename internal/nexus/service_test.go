package nexus_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/serroba/nexus/internal/nexus"
	"github.com/serroba/nexus/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeGate is a transparent stand-in for the bcrypt gate.
type fakeGate struct {
	hashErr  error
	checkErr error
}

func (g *fakeGate) Hash(plaintext string) (string, error) {
	if g.hashErr != nil {
		return "", g.hashErr
	}

	return "hashed:" + plaintext, nil
}

func (g *fakeGate) Check(plaintext, hash string) (bool, error) {
	if g.checkErr != nil {
		return false, g.checkErr
	}

	return hash == "hashed:"+plaintext, nil
}

// sequenceGenerate returns the given codes in order, then repeats the last.
func sequenceGenerate(codes ...string) nexus.Generate {
	i := 0

	return func() string {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}

		return c
	}
}

// flakyRepo wraps a repository and lets individual methods be forced to fail.
type flakyRepo struct {
	nexus.Repository

	createErr      error
	setStatusErr   error
	lastVisitedErr error
	createCalls    int
}

func (r *flakyRepo) Create(ctx context.Context, n *nexus.Nexus) error {
	r.createCalls++

	if r.createErr != nil {
		return r.createErr
	}

	return r.Repository.Create(ctx, n)
}

func (r *flakyRepo) SetStatusIf(ctx context.Context, code string, from, to nexus.Status) error {
	if r.setStatusErr != nil {
		return r.setStatusErr
	}

	return r.Repository.SetStatusIf(ctx, code, from, to)
}

func (r *flakyRepo) SetLastVisited(ctx context.Context, code string, at time.Time) error {
	if r.lastVisitedErr != nil {
		return r.lastVisitedErr
	}

	return r.Repository.SetLastVisited(ctx, code, at)
}

func newTestService(repo nexus.Repository) *nexus.Service {
	return nexus.NewService(repo, &fakeGate{}, sequenceGenerate("gen001"), zap.NewNop())
}

func endlessPayload(destination string) *nexus.Payload {
	expiry := nexus.EndlessExpiry()

	return &nexus.Payload{
		Destination: &destination,
		Expiry:      &expiry,
	}
}

func TestServiceCreate(t *testing.T) {
	t.Run("creates with a generated code", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)

		n, err := service.Create(context.Background(), endlessPayload("https://example.com"), nil)

		require.NoError(t, err)
		assert.Equal(t, "gen001", n.Shortened)
		assert.Equal(t, nexus.StatusActive, n.Status)
		assert.Nil(t, n.Owner)
		assert.False(t, n.CreatedAt.IsZero())

		stored, err := memStore.GetByCode(context.Background(), "gen001")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", stored.Destination)
	})

	t.Run("creates with a supplied code and owner", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)

		p := endlessPayload("https://example.com")
		p.Shortened = strPtr("my-link")
		owner := "user-1"

		n, err := service.Create(context.Background(), p, &owner)

		require.NoError(t, err)
		assert.Equal(t, "my-link", n.Shortened)
		assert.True(t, n.OwnedBy("user-1"))
	})

	t.Run("rejects a taken supplied code", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)

		p := endlessPayload("https://example.com")
		p.Shortened = strPtr("my-link")

		_, err := service.Create(context.Background(), p, nil)
		require.NoError(t, err)

		_, err = service.Create(context.Background(), p, nil)
		assert.ErrorIs(t, err, nexus.ErrCodeTaken)
	})

	t.Run("retries past a generated collision", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := nexus.NewService(memStore, &fakeGate{}, sequenceGenerate("taken1", "free01"), zap.NewNop())

		taken := endlessPayload("https://other.example")
		taken.Shortened = strPtr("taken1")
		_, err := service.Create(context.Background(), taken, nil)
		require.NoError(t, err)

		n, err := service.Create(context.Background(), endlessPayload("https://example.com"), nil)

		require.NoError(t, err)
		assert.Equal(t, "free01", n.Shortened)
	})

	t.Run("gives up after bounded collision attempts", func(t *testing.T) {
		repo := &flakyRepo{Repository: store.NewMemoryStore(), createErr: nexus.ErrCodeTaken}
		service := newTestService(repo)

		_, err := service.Create(context.Background(), endlessPayload("https://example.com"), nil)

		assert.ErrorIs(t, err, nexus.ErrCodeExhausted)
		assert.Equal(t, 5, repo.createCalls)
	})

	t.Run("hashes the password before storage", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)

		p := endlessPayload("https://example.com")
		p.Password = strPtr("hunter2")

		n, err := service.Create(context.Background(), p, nil)

		require.NoError(t, err)
		require.NotNil(t, n.Password)
		assert.NotEqual(t, "hunter2", *n.Password)
		assert.True(t, n.Protected())
	})

	t.Run("fails when hashing fails", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		gate := &fakeGate{hashErr: errors.New("hash failure")}
		service := nexus.NewService(memStore, gate, sequenceGenerate("gen001"), zap.NewNop())

		p := endlessPayload("https://example.com")
		p.Password = strPtr("hunter2")

		_, err := service.Create(context.Background(), p, nil)

		assert.Error(t, err)
	})

	t.Run("rejects an invalid payload", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())

		_, err := service.Create(context.Background(), &nexus.Payload{}, nil)

		var verr *nexus.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, nexus.ReasonDestinationMissing, verr.Reason)
	})
}

func TestServiceVisit(t *testing.T) {
	create := func(t *testing.T, service *nexus.Service, p *nexus.Payload) *nexus.Nexus {
		t.Helper()

		n, err := service.Create(context.Background(), p, nil)
		require.NoError(t, err)

		return n
	}

	t.Run("resolves an endless link and stamps the visit", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		service := newTestService(memStore).WithClock(func() time.Time { return now })

		create(t, service, endlessPayload("https://example.com"))

		n, err := service.Visit(context.Background(), "gen001", nil)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com", n.Destination)
		require.NotNil(t, n.LastVisited)
		assert.True(t, n.LastVisited.Equal(now))

		stored, err := memStore.GetByCode(context.Background(), "gen001")
		require.NoError(t, err)
		require.NotNil(t, stored.LastVisited)
		assert.True(t, stored.LastVisited.Equal(now))
	})

	t.Run("unknown code", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())

		_, err := service.Visit(context.Background(), "nope", nil)

		assert.ErrorIs(t, err, nexus.ErrNotFound)
	})

	t.Run("expired visit flips the record inactive", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		now := created

		service := newTestService(memStore).WithClock(func() time.Time { return now })

		p := endlessPayload("https://example.com")
		expiry := nexus.DynamicExpiry(nexus.Timestamp{Seconds: 60})
		p.Expiry = &expiry

		create(t, service, p)

		now = created.Add(2 * time.Minute)

		_, err := service.Visit(context.Background(), "gen001", nil)
		assert.ErrorIs(t, err, nexus.ErrExpired)

		stored, err := memStore.GetByCode(context.Background(), "gen001")
		require.NoError(t, err)
		assert.Equal(t, nexus.StatusInactive, stored.Status)

		// Subsequent visits see the inactive record.
		_, err = service.Visit(context.Background(), "gen001", nil)
		assert.ErrorIs(t, err, nexus.ErrInactive)
	})

	t.Run("failed flip does not mask the expiry rejection", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		now := created

		repo := &flakyRepo{Repository: memStore}
		service := newTestService(repo).WithClock(func() time.Time { return now })

		p := endlessPayload("https://example.com")
		expiry := nexus.DynamicExpiry(nexus.Timestamp{Seconds: 60})
		p.Expiry = &expiry

		create(t, service, p)

		now = created.Add(2 * time.Minute)
		repo.setStatusErr = errors.New("write failed")

		_, err := service.Visit(context.Background(), "gen001", nil)

		assert.ErrorIs(t, err, nexus.ErrExpired)
	})

	t.Run("protected link requires a password", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())

		p := endlessPayload("https://example.com")
		p.Password = strPtr("hunter2")
		create(t, service, p)

		_, err := service.Visit(context.Background(), "gen001", nil)
		assert.ErrorIs(t, err, nexus.ErrPasswordRequired)

		_, err = service.Visit(context.Background(), "gen001", strPtr("wrong"))
		assert.ErrorIs(t, err, nexus.ErrPasswordIncorrect)

		n, err := service.Visit(context.Background(), "gen001", strPtr("hunter2"))
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", n.Destination)
	})

	t.Run("gate failure surfaces as a plain error", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		gate := &fakeGate{}
		service := nexus.NewService(memStore, gate, sequenceGenerate("gen001"), zap.NewNop())

		p := endlessPayload("https://example.com")
		p.Password = strPtr("hunter2")
		create(t, service, p)

		gate.checkErr = errors.New("gate broken")

		_, err := service.Visit(context.Background(), "gen001", strPtr("hunter2"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, nexus.ErrPasswordIncorrect)
	})

	t.Run("failed visit stamp fails the resolution", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		repo := &flakyRepo{Repository: memStore}
		service := newTestService(repo)

		create(t, service, endlessPayload("https://example.com"))

		repo.lastVisitedErr = errors.New("write failed")

		_, err := service.Visit(context.Background(), "gen001", nil)

		assert.Error(t, err)
	})
}

func TestServiceUpdate(t *testing.T) {
	owner := "user-1"

	createOwned := func(t *testing.T, service *nexus.Service) *nexus.Nexus {
		t.Helper()

		n, err := service.Create(context.Background(), endlessPayload("https://example.com"), &owner)
		require.NoError(t, err)

		return n
	}

	t.Run("merges supplied fields", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)
		createOwned(t, service)

		inactive := nexus.StatusInactive
		p := &nexus.Payload{
			Destination: strPtr("https://elsewhere.example"),
			Status:      &inactive,
		}

		n, err := service.Update(context.Background(), "gen001", p, owner)

		require.NoError(t, err)
		assert.Equal(t, "https://elsewhere.example", n.Destination)
		assert.Equal(t, nexus.StatusInactive, n.Status)
		assert.NotNil(t, n.UpdatedAt)

		stored, err := memStore.GetByCode(context.Background(), "gen001")
		require.NoError(t, err)
		assert.Equal(t, "https://elsewhere.example", stored.Destination)
	})

	t.Run("renames the short code", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)
		createOwned(t, service)

		p := &nexus.Payload{Shortened: strPtr("renamed")}

		n, err := service.Update(context.Background(), "gen001", p, owner)

		require.NoError(t, err)
		assert.Equal(t, "renamed", n.Shortened)

		_, err = memStore.GetByCode(context.Background(), "gen001")
		assert.ErrorIs(t, err, nexus.ErrNotFound)

		stored, err := memStore.GetByCode(context.Background(), "renamed")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", stored.Destination)
	})

	t.Run("rename to a taken code fails", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)
		createOwned(t, service)

		other := endlessPayload("https://other.example")
		other.Shortened = strPtr("occupied")
		_, err := service.Create(context.Background(), other, &owner)
		require.NoError(t, err)

		p := &nexus.Payload{Shortened: strPtr("occupied")}

		_, err = service.Update(context.Background(), "gen001", p, owner)

		assert.ErrorIs(t, err, nexus.ErrCodeTaken)
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())
		createOwned(t, service)

		_, err := service.Update(context.Background(), "gen001", &nexus.Payload{}, "someone-else")

		assert.ErrorIs(t, err, nexus.ErrNotOwner)
	})

	t.Run("rejects any caller for an anonymous record", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())

		_, err := service.Create(context.Background(), endlessPayload("https://example.com"), nil)
		require.NoError(t, err)

		_, err = service.Update(context.Background(), "gen001", &nexus.Payload{}, owner)

		assert.ErrorIs(t, err, nexus.ErrNotOwner)
	})

	t.Run("re-hashes a supplied password", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)
		createOwned(t, service)

		p := &nexus.Payload{Password: strPtr("new-secret")}

		n, err := service.Update(context.Background(), "gen001", p, owner)

		require.NoError(t, err)
		require.NotNil(t, n.Password)
		assert.True(t, strings.HasPrefix(*n.Password, "hashed:"))
	})

	t.Run("nil password leaves protection untouched", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)

		p := endlessPayload("https://example.com")
		p.Password = strPtr("hunter2")
		_, err := service.Create(context.Background(), p, &owner)
		require.NoError(t, err)

		n, err := service.Update(context.Background(), "gen001", &nexus.Payload{}, owner)

		require.NoError(t, err)
		assert.True(t, n.Protected())
	})

	t.Run("unknown code", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())

		_, err := service.Update(context.Background(), "nope", &nexus.Payload{}, owner)

		assert.ErrorIs(t, err, nexus.ErrNotFound)
	})
}

func TestServiceDelete(t *testing.T) {
	owner := "user-1"

	t.Run("owner deletes", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore)

		_, err := service.Create(context.Background(), endlessPayload("https://example.com"), &owner)
		require.NoError(t, err)

		require.NoError(t, service.Delete(context.Background(), "gen001", owner))

		_, err = memStore.GetByCode(context.Background(), "gen001")
		assert.ErrorIs(t, err, nexus.ErrNotFound)
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())

		_, err := service.Create(context.Background(), endlessPayload("https://example.com"), &owner)
		require.NoError(t, err)

		assert.ErrorIs(t, service.Delete(context.Background(), "gen001", "someone-else"), nexus.ErrNotOwner)
	})

	t.Run("unknown code", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore())

		assert.ErrorIs(t, service.Delete(context.Background(), "nope", owner), nexus.ErrNotFound)
	})
}
