package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rafidmahmud/safepoint/internal/domain/admin"
	"github.com/rafidmahmud/safepoint/internal/observability"
)

const adminColumns = `email, username, admin_type, country, thana, emergency_response,
	service_info, latitude, longitude, image, password_hash`

type AdminsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAdminsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AdminsRepo {
	return &AdminsRepo{pool: pool, prom: prom}
}

func (r *AdminsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

func (r *AdminsRepo) Create(ctx context.Context, a admin.Admin) (admin.Admin, error) {
	err := r.observe("admins.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO admins(`+adminColumns+`)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			a.Email, a.Username, a.AdminType, a.Country, a.Thana, a.EmergencyResponse,
			a.ServiceInfo, a.Latitude, a.Longitude, a.Image, a.PasswordHash,
		)
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return admin.Admin{}, admin.ErrDuplicate
		}
		return admin.Admin{}, err
	}

	return a, nil
}

func (r *AdminsRepo) GetByKey(ctx context.Context, key admin.Key) (admin.Admin, error) {
	var a admin.Admin

	err := r.observe("admins.get_by_key", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT `+adminColumns+` FROM admins WHERE email = $1 AND admin_type = $2`,
			key.Email, key.AdminType,
		).Scan(
			&a.Email, &a.Username, &a.AdminType, &a.Country, &a.Thana, &a.EmergencyResponse,
			&a.ServiceInfo, &a.Latitude, &a.Longitude, &a.Image, &a.PasswordHash,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, err
	}

	return a, nil
}

func (r *AdminsRepo) UpdatePassword(ctx context.Context, key admin.Key, passwordHash string) (admin.Admin, error) {
	var a admin.Admin

	err := r.observe("admins.update_password", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE admins SET password_hash = $3
			WHERE email = $1 AND admin_type = $2
			RETURNING `+adminColumns,
			key.Email, key.AdminType, passwordHash,
		).Scan(
			&a.Email, &a.Username, &a.AdminType, &a.Country, &a.Thana, &a.EmergencyResponse,
			&a.ServiceInfo, &a.Latitude, &a.Longitude, &a.Image, &a.PasswordHash,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, err
	}

	return a, nil
}

func (r *AdminsRepo) UpdateImage(ctx context.Context, key admin.Key, path *string) (admin.Admin, error) {
	var a admin.Admin

	err := r.observe("admins.update_image", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE admins SET image = $3
			WHERE email = $1 AND admin_type = $2
			RETURNING `+adminColumns,
			key.Email, key.AdminType, path,
		).Scan(
			&a.Email, &a.Username, &a.AdminType, &a.Country, &a.Thana, &a.EmergencyResponse,
			&a.ServiceInfo, &a.Latitude, &a.Longitude, &a.Image, &a.PasswordHash,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return admin.Admin{}, admin.ErrNotFound
		}
		return admin.Admin{}, err
	}

	return a, nil
}
