package store

import (
	"context"
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	u, err := s.Create(ctx, "Alice", 30, "123 Street")
	require.NoError(t, err)
	assert.Equal(t, User{ID: 1, Name: "Alice", Age: 30, Address: "123 Street"}, u)

	users, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, u, users[0])
}

func TestCreate_FreshIDs(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	seen := map[int64]bool{}
	for _, name := range []string{"a", "b", "c"} {
		u, err := s.Create(ctx, name, 1, "x")
		require.NoError(t, err)
		assert.False(t, seen[u.ID], "id %d reused", u.ID)
		seen[u.ID] = true
	}

	// Deleting the newest row must not hand its id out again.
	_, err := s.Delete(ctx, 3)
	require.NoError(t, err)
	u, err := s.Create(ctx, "d", 1, "x")
	require.NoError(t, err)
	assert.Equal(t, int64(4), u.ID)
}

func TestCreate_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		age     int64
		address string
	}{
		{"plain", "Bob", 25, "456 Lane"},
		{"unicode", "Zoë Ünal", 41, "Straße 7"},
		{"zero age", "Baby", 0, "Crib"},
		{"negative age", "Odd", -1, "Nowhere"},
		{"empty strings", "", 5, ""},
		{"quotes", `O'Brien "Ob"`, 60, `1 "Quoted" Rd; DROP TABLE users`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := setupStore(t)

			created, err := s.Create(ctx, tt.user, tt.age, tt.address)
			require.NoError(t, err)

			users, err := s.All(ctx)
			require.NoError(t, err)
			require.Len(t, users, 1)
			assert.Equal(t, created.ID, users[0].ID)
			assert.Equal(t, tt.user, users[0].Name)
			assert.Equal(t, tt.age, users[0].Age)
			assert.Equal(t, tt.address, users[0].Address)
		})
	}
}

func TestCreate_NoSchema(t *testing.T) {
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Create(context.Background(), "Alice", 30, "123 Street")
	require.Error(t, err)

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "create", storeErr.Op)
}

func TestSchema_RejectsNull(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.db.ExecContext(ctx, `INSERT INTO users (name, age, address) VALUES (NULL, 1, 'x')`)
	var se sqlite3.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, sqlite3.ErrConstraint, se.Code)
}

func TestList_Empty(t *testing.T) {
	s := setupStore(t)

	n := 0
	for _, err := range s.List(context.Background()) {
		require.NoError(t, err)
		n++
	}
	assert.Zero(t, n)

	users, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestList_MultipleRows(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.Create(ctx, "David", 40, "202 Blvd")
	require.NoError(t, err)
	_, err = s.Create(ctx, "Eve", 45, "303 Cir")
	require.NoError(t, err)

	var names []string
	for u, err := range s.List(ctx) {
		require.NoError(t, err)
		names = append(names, u.Name)
	}
	assert.ElementsMatch(t, []string{"David", "Eve"}, names)
	assert.Len(t, names, 2)
}

func TestList_OrderedByID(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, name := range []string{"c", "a", "b"} {
		_, err := s.Create(ctx, name, 1, "x")
		require.NoError(t, err)
	}
	_, err := s.Update(ctx, 1, "z", 2, "y")
	require.NoError(t, err)

	users, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, u := range users {
		assert.Equal(t, int64(i+1), u.ID)
	}
}

func TestList_Restartable(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.Create(ctx, "Alice", 30, "123 Street")
	require.NoError(t, err)

	seq := s.List(ctx)
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 1, count())

	// The same sequence sees rows written after it was created.
	_, err = s.Create(ctx, "Bob", 25, "456 Lane")
	require.NoError(t, err)
	assert.Equal(t, 2, count())
}

func TestList_EarlyBreak(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.Create(ctx, name, 1, "x")
		require.NoError(t, err)
	}

	for u, err := range s.List(ctx) {
		require.NoError(t, err)
		assert.Equal(t, "a", u.Name)
		break
	}

	// The connection was released by the break.
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestList_NestedCallFailsFast(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	for _, name := range []string{"a", "b"} {
		_, err := s.Create(ctx, name, 1, "x")
		require.NoError(t, err)
	}

	var nested []error
	for _, err := range s.List(ctx) {
		require.NoError(t, err)

		_, err = s.Count(ctx)
		nested = append(nested, err)
		_, err = s.Create(ctx, "c", 1, "x")
		nested = append(nested, err)
	}

	require.Len(t, nested, 4)
	for _, err := range nested {
		assert.ErrorIs(t, err, ErrBusy)
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestList_Error(t *testing.T) {
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	var errs []error
	for u, err := range s.List(context.Background()) {
		assert.Zero(t, u)
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)

	var storeErr *StoreError
	require.True(t, errors.As(errs[0], &storeErr))
	assert.Equal(t, "list", storeErr.Op)

	_, err = s.All(context.Background())
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	created, err := s.Create(ctx, "Alice", 30, "123 Street")
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_TargetsOneRow(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	bob, err := s.Create(ctx, "Bob", 25, "456 Lane")
	require.NoError(t, err)
	carol, err := s.Create(ctx, "Carol", 33, "7 Court")
	require.NoError(t, err)

	n, err := s.Update(ctx, bob.ID, "Bobby", 26, "789 Road")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, User{ID: bob.ID, Name: "Bobby", Age: 26, Address: "789 Road"}, got)

	untouched, err := s.Get(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, carol, untouched)
}

func TestDelete_RemovesOneRow(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	charlie, err := s.Create(ctx, "Charlie", 35, "101 Ave")
	require.NoError(t, err)
	_, err = s.Create(ctx, "Dana", 28, "9 Way")
	require.NoError(t, err)

	n, err := s.Delete(ctx, charlie.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = s.Get(ctx, charlie.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUpdateDelete_AbsentIDIsNoop(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	alice, err := s.Create(ctx, "Alice", 30, "123 Street")
	require.NoError(t, err)

	n, err := s.Update(ctx, 42, "Ghost", 1, "Nowhere")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Delete(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, n)

	users, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []User{alice}, users)
}

func TestScenario_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)

	_, err := s.Create(ctx, "Alice", 30, "123 Street")
	require.NoError(t, err)
	users, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []User{{ID: 1, Name: "Alice", Age: 30, Address: "123 Street"}}, users)

	_, err = s.Update(ctx, 1, "Alicia", 31, "124 Street")
	require.NoError(t, err)
	users, err = s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []User{{ID: 1, Name: "Alicia", Age: 31, Address: "124 Street"}}, users)

	_, err = s.Delete(ctx, 1)
	require.NoError(t, err)
	users, err = s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCancelledContext(t *testing.T) {
	s := setupStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, "Alice", 30, "123 Street")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := &StoreError{Op: "update", Err: cause}

	assert.Equal(t, "update user: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	schemaErr := &SchemaError{Err: cause}
	assert.Equal(t, "ensure schema: disk full", schemaErr.Error())
	assert.ErrorIs(t, schemaErr, cause)

	assert.NoError(t, opError("create", nil))
}
