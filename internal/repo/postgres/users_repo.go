package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rafidmahmud/safepoint/internal/domain/user"
	"github.com/rafidmahmud/safepoint/internal/observability"
)

const userColumns = `email, username, first_name, last_name, driving_license, national_id,
	number_plate, address, location, latitude, longitude, country,
	emergency_contact_number, emergency_contact_related, image, password_hash`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	err := r.observe("users.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO users(`+userColumns+`)
			VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			u.Email, u.Username, u.FirstName, u.LastName, u.DrivingLicense, u.NationalID,
			u.NumberPlate, u.Address, u.Location, u.Latitude, u.Longitude, u.Country,
			u.EmergencyContactNumber, u.EmergencyContactRelated, u.Image, u.PasswordHash,
		)
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrDuplicateEmail
		}
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`,
			email,
		).Scan(
			&u.Email, &u.Username, &u.FirstName, &u.LastName, &u.DrivingLicense, &u.NationalID,
			&u.NumberPlate, &u.Address, &u.Location, &u.Latitude, &u.Longitude, &u.Country,
			&u.EmergencyContactNumber, &u.EmergencyContactRelated, &u.Image, &u.PasswordHash,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// UpdatePassword swaps the stored credential for the user with this email.
func (r *UsersRepo) UpdatePassword(ctx context.Context, email, passwordHash string) (user.User, error) {
	var u user.User

	err := r.observe("users.update_password", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE users SET password_hash = $2 WHERE email = $1 RETURNING `+userColumns,
			email, passwordHash,
		).Scan(
			&u.Email, &u.Username, &u.FirstName, &u.LastName, &u.DrivingLicense, &u.NationalID,
			&u.NumberPlate, &u.Address, &u.Location, &u.Latitude, &u.Longitude, &u.Country,
			&u.EmergencyContactNumber, &u.EmergencyContactRelated, &u.Image, &u.PasswordHash,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// UpdateImage sets (or clears, when path is nil) the profile image path.
func (r *UsersRepo) UpdateImage(ctx context.Context, email string, path *string) (user.User, error) {
	var u user.User

	err := r.observe("users.update_image", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE users SET image = $2 WHERE email = $1 RETURNING `+userColumns,
			email, path,
		).Scan(
			&u.Email, &u.Username, &u.FirstName, &u.LastName, &u.DrivingLicense, &u.NationalID,
			&u.NumberPlate, &u.Address, &u.Location, &u.Latitude, &u.Longitude, &u.Country,
			&u.EmergencyContactNumber, &u.EmergencyContactRelated, &u.Image, &u.PasswordHash,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}
