package store

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	sq "github.com/Masterminds/squirrel"
)

const usersTable = "users"

// User is one row of the users table. ID is assigned by the database.
type User struct {
	ID      int64  `db:"id" toml:"id"`
	Name    string `db:"name" toml:"name"`
	Age     int64  `db:"age" toml:"age"`
	Address string `db:"address" toml:"address"`
}

var (
	statements  = sq.StatementBuilder.PlaceholderFormat(sq.Question)
	selectUsers = statements.Select("id", "name", "age", "address").From(usersTable)
)

// Create inserts a user and returns it with the id assigned by the database.
func (s *Store) Create(ctx context.Context, name string, age int64, address string) (User, error) {
	query, args, err := statements.Insert(usersTable).
		Columns("name", "age", "address").
		Values(name, age, address).
		ToSql()
	if err != nil {
		return User{}, opError("create", err)
	}

	var id int64
	err = s.observe(ctx, "create", func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return User{}, opError("create", err)
	}
	return User{ID: id, Name: name, Age: age, Address: address}, nil
}

// List yields every user in ascending id order. Each range over the
// returned sequence runs a fresh query. A failure is yielded once with a
// zero User and ends the sequence.
//
// The loop body must not call back into the Store: such calls return
// ErrBusy. Collect with All first when it needs to.
func (s *Store) List(ctx context.Context) iter.Seq2[User, error] {
	return func(yield func(User, error) bool) {
		query, args, err := selectUsers.OrderBy("id").ToSql()
		if err != nil {
			yield(User{}, opError("list", err))
			return
		}

		err = s.observe(ctx, "list", func(ctx context.Context) error {
			rows, err := s.db.QueryxContext(ctx, query, args...)
			if err != nil {
				return err
			}
			defer rows.Close()

			for rows.Next() {
				var u User
				if err := rows.StructScan(&u); err != nil {
					return err
				}
				if !yield(u, nil) {
					return nil
				}
			}
			return rows.Err()
		})
		if err != nil {
			yield(User{}, opError("list", err))
		}
	}
}

// All collects List into a slice.
func (s *Store) All(ctx context.Context) ([]User, error) {
	var users []User
	for u, err := range s.List(ctx) {
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// Get returns the user with the given id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (User, error) {
	query, args, err := selectUsers.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return User{}, opError("get", err)
	}

	var u User
	err = s.observe(ctx, "get", func(ctx context.Context) error {
		return s.db.GetContext(ctx, &u, query, args...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, opError("get", ErrNotFound)
	}
	if err != nil {
		return User{}, opError("get", err)
	}
	return u, nil
}

// Update overwrites name, age and address of the user with the given id and
// returns the number of rows affected. Zero rows is not an error.
func (s *Store) Update(ctx context.Context, id int64, name string, age int64, address string) (int64, error) {
	query, args, err := statements.Update(usersTable).
		Set("name", name).
		Set("age", age).
		Set("address", address).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, opError("update", err)
	}
	return s.exec(ctx, "update", query, args)
}

// Delete removes the user with the given id and returns the number of rows
// affected. Zero rows is not an error.
func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := statements.Delete(usersTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return 0, opError("delete", err)
	}
	return s.exec(ctx, "delete", query, args)
}

// Count returns the number of rows in the users table.
func (s *Store) Count(ctx context.Context) (int64, error) {
	query, args, err := statements.Select("COUNT(*)").From(usersTable).ToSql()
	if err != nil {
		return 0, opError("count", err)
	}

	var n int64
	err = s.observe(ctx, "count", func(ctx context.Context) error {
		return s.db.GetContext(ctx, &n, query, args...)
	})
	if err != nil {
		return 0, opError("count", err)
	}
	return n, nil
}

func (s *Store) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	var affected int64
	err := s.observe(ctx, op, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, opError(op, err)
	}
	return affected, nil
}
