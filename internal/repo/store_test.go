package repo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardians/internal/domain"
	"guardians/internal/repo"
)

func weapons(names ...string) []domain.Weapon {
	out := make([]domain.Weapon, 0, len(names))
	for i, n := range names {
		out = append(out, domain.Weapon{ID: "w-" + string(rune('1'+i)), Name: n, Type: "e2e"})
	}
	return out
}

func TestStoreListPreservesInsertionOrder(t *testing.T) {
	s := repo.NewStore("Weapon", weapons("Login test", "Checkout test")...)
	require.NoError(t, s.Insert(domain.Weapon{ID: "w-9", Name: "Search test"}))

	ids := []string{}
	for _, w := range s.List() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"w-1", "w-2", "w-9"}, ids)
	assert.Equal(t, 3, s.Len())
}

func TestStoreInsertRejectsDuplicateID(t *testing.T) {
	s := repo.NewStore("Weapon", weapons("Login test")...)

	err := s.Insert(domain.Weapon{ID: "w-1", Name: "Imposter"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repo.ErrDuplicate))

	got, err := s.Get("w-1")
	require.NoError(t, err)
	assert.Equal(t, "Login test", got.Name)
	assert.Equal(t, 1, s.Len())
}

func TestStoreGetMissing(t *testing.T) {
	s := repo.NewStore[domain.Weapon]("Weapon")

	_, err := s.Get("w-404")
	require.Error(t, err)
	assert.True(t, errors.Is(err, repo.ErrNotFound))
	var nf repo.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "Weapon", nf.Resource)
	assert.Equal(t, "w-404", nf.ID)
	assert.Equal(t, "Weapon w-404 not found", err.Error())
}

func TestStoreReplaceKeepsPosition(t *testing.T) {
	s := repo.NewStore("Weapon", weapons("a", "b", "c")...)

	require.NoError(t, s.Replace("w-2", domain.Weapon{ID: "w-2", Name: "B"}))
	list := s.List()
	assert.Equal(t, "B", list[1].Name)

	err := s.Replace("w-404", domain.Weapon{ID: "w-404"})
	assert.True(t, errors.Is(err, repo.ErrNotFound))
	assert.Error(t, s.Replace("w-1", domain.Weapon{ID: "w-7"}))
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	s := repo.NewStore("Weapon", weapons("a", "b")...)

	assert.True(t, s.Delete("w-1"))
	after := s.List()
	assert.False(t, s.Delete("w-1"))
	assert.Equal(t, after, s.List())
	assert.False(t, s.Delete("w-404"))
	assert.Equal(t, 1, s.Len())
}

func TestStoreReadsAreCopies(t *testing.T) {
	s := repo.NewStore("Alliance", domain.Alliance{ID: "al-1", Name: "Northern Pact", GuildIDs: []string{"g-1"}})

	got, err := s.Get("al-1")
	require.NoError(t, err)
	got.AddGuild("g-2")
	got.Name = "changed"

	stored, err := s.Get("al-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"g-1"}, stored.GuildIDs)
	assert.Equal(t, "Northern Pact", stored.Name)
}

func TestStoreUpdateDiscardsFailedMutation(t *testing.T) {
	s := repo.NewStore("Alliance", domain.Alliance{ID: "al-1", Name: "Northern Pact", GuildIDs: []string{"g-1"}})

	_, err := s.Update("al-1", func(a *domain.Alliance) error {
		a.AddGuild("g-2")
		return errors.New("boom")
	})
	require.Error(t, err)
	stored, _ := s.Get("al-1")
	assert.Equal(t, []string{"g-1"}, stored.GuildIDs)

	updated, err := s.Update("al-1", func(a *domain.Alliance) error {
		a.AddGuild("g-2")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"g-1", "g-2"}, updated.GuildIDs)

	_, err = s.Update("al-404", func(*domain.Alliance) error { return nil })
	assert.True(t, errors.Is(err, repo.ErrNotFound))
}

func TestStoreMerge(t *testing.T) {
	s := repo.NewStore("Boss", domain.Boss{ID: "b-1", Title: "Intermittent 500", Severity: "high", Status: "new", CreatedAt: "2024-05-01T12:00:00.000Z"})

	merged, err := s.Merge("b-1", map[string]any{"status": "in-progress", "id": "b-2", "unknown": true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "b-1", merged.ID)
	assert.Equal(t, "in-progress", merged.Status)
	assert.Equal(t, "Intermittent 500", merged.Title)
	assert.Equal(t, "high", merged.Severity)

	_, err = s.Merge("b-1", map[string]any{"title": 42}, nil)
	var fe repo.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "title", fe.Field)

	_, err = s.Merge("b-404", map[string]any{"status": "resolved"}, nil)
	assert.True(t, errors.Is(err, repo.ErrNotFound))
}

func TestStoreMergeCheckGuardsCommit(t *testing.T) {
	s := repo.NewStore("Boss", domain.Boss{ID: "b-1", Title: "t", Severity: "high", Status: "new"})
	check := func(b domain.Boss) (domain.Boss, error) { return b, b.Validate() }

	_, err := s.Merge("b-1", map[string]any{"status": "closed"}, check)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	stored, _ := s.Get("b-1")
	assert.Equal(t, "new", stored.Status)

	// Without a check the merge is committed as-is.
	merged, err := s.Merge("b-1", map[string]any{"status": "closed"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "closed", merged.Status)
}
