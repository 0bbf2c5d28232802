package user

import "errors"

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is the persisted profile record. Email is the unique key.
type User struct {
	Email                  string `json:"email"`
	Username               string `json:"username"`
	FirstName              string `json:"first_name"`
	LastName               string `json:"last_name"`
	DrivingLicense         string `json:"driving_license,omitempty"`
	NationalID             string `json:"national_id,omitempty"`
	NumberPlate            string `json:"number_plate,omitempty"`
	Address                string `json:"address,omitempty"`
	Location               string `json:"location,omitempty"`
	Latitude               string `json:"latitude,omitempty"`
	Longitude              string `json:"longitude,omitempty"`
	Country                string `json:"country"`
	EmergencyContactNumber string `json:"emergency_contact_number,omitempty"`
	// contact number of a relative or friend, field name kept verbatim from the mobile client contract
	EmergencyContactRelated string  `json:"emergency_contact_number_of_a_related_person,omitempty"`
	Image                   *string `json:"image"`
	PasswordHash            string  `json:"-"` // never expose hash in JSON
}

type RegisterRequest struct {
	Email                   string `json:"email" binding:"required,email"`
	Username                string `json:"username" binding:"required"`
	FirstName               string `json:"first_name" binding:"required"`
	LastName                string `json:"last_name" binding:"required"`
	DrivingLicense          string `json:"driving_license"`
	NationalID              string `json:"national_id"`
	NumberPlate             string `json:"number_plate"`
	Address                 string `json:"address"`
	Location                string `json:"location"`
	Latitude                string `json:"latitude"`
	Longitude               string `json:"longitude"`
	Country                 string `json:"country" binding:"required"`
	EmergencyContactNumber  string `json:"emergency_contact_number"`
	EmergencyContactRelated string `json:"emergency_contact_number_of_a_related_person"`
	Password                string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LookupRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// NewFromRegisterRequest builds the stored record from a validated
// registration request and an already-hashed credential.
func NewFromRegisterRequest(req RegisterRequest, passwordHash string) User {
	return User{
		Email:                   req.Email,
		Username:                req.Username,
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		DrivingLicense:          req.DrivingLicense,
		NationalID:              req.NationalID,
		NumberPlate:             req.NumberPlate,
		Address:                 req.Address,
		Location:                req.Location,
		Latitude:                req.Latitude,
		Longitude:               req.Longitude,
		Country:                 req.Country,
		EmergencyContactNumber:  req.EmergencyContactNumber,
		EmergencyContactRelated: req.EmergencyContactRelated,
		PasswordHash:            passwordHash,
	}
}
