package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the two account tables if they are missing. The
// partial unique index on admins enforces one registration per
// (email, admin_type) pair; users are unique on email alone.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			driving_license TEXT NOT NULL DEFAULT '',
			national_id TEXT NOT NULL DEFAULT '',
			number_plate TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			latitude TEXT NOT NULL DEFAULT '',
			longitude TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL,
			emergency_contact_number TEXT NOT NULL DEFAULT '',
			emergency_contact_related TEXT NOT NULL DEFAULT '',
			image TEXT,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			email TEXT NOT NULL,
			username TEXT NOT NULL,
			admin_type TEXT NOT NULL,
			country TEXT NOT NULL,
			thana TEXT NOT NULL,
			emergency_response TEXT NOT NULL DEFAULT '',
			service_info TEXT NOT NULL DEFAULT '',
			latitude TEXT NOT NULL DEFAULT '',
			longitude TEXT NOT NULL DEFAULT '',
			image TEXT,
			password_hash TEXT NOT NULL,
			PRIMARY KEY (email, admin_type)
		)`,
	}

	for _, stmt := range stmts {
		_, err := pool.Exec(ctx, stmt)

		if err != nil {
			return err
		}
	}

	return nil
}
