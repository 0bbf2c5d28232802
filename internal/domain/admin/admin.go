package admin

import "errors"

var (
	ErrNotFound  = errors.New("admin not found")
	ErrDuplicate = errors.New("admin already registered for this service type")
)

// Admin is a service-side account (police, hospital, fire service...).
// Identity is the composite pair (email, admin_type): the same email may
// register once per service category, so every lookup carries both parts.
type Admin struct {
	Email             string  `json:"email"`
	Username          string  `json:"username"`
	AdminType         string  `json:"admin_type"`
	Country           string  `json:"country"`
	Thana             string  `json:"thana"`
	EmergencyResponse string  `json:"emergency_response,omitempty"`
	ServiceInfo       string  `json:"service_info,omitempty"`
	Latitude          string  `json:"latitude,omitempty"`
	Longitude         string  `json:"longitude,omitempty"`
	Image             *string `json:"image"`
	PasswordHash      string  `json:"-"` // never expose hash in JSON
}

// Key identifies one admin record.
type Key struct {
	Email     string
	AdminType string
}

type RegisterRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Username          string `json:"username" binding:"required"`
	AdminType         string `json:"admin_type" binding:"required"`
	Country           string `json:"country" binding:"required"`
	Thana             string `json:"thana" binding:"required"`
	EmergencyResponse string `json:"emergency_response"`
	ServiceInfo       string `json:"service_info"`
	Latitude          string `json:"latitude"`
	Longitude         string `json:"longitude"`
	Password          string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	AdminType string `json:"admin_type" binding:"required"`
}

type LookupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	AdminType string `json:"admin_type" binding:"required"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
	AdminType   string `json:"admin_type" binding:"required"`
}

func NewFromRegisterRequest(req RegisterRequest, passwordHash string) Admin {
	return Admin{
		Email:             req.Email,
		Username:          req.Username,
		AdminType:         req.AdminType,
		Country:           req.Country,
		Thana:             req.Thana,
		EmergencyResponse: req.EmergencyResponse,
		ServiceInfo:       req.ServiceInfo,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		PasswordHash:      passwordHash,
	}
}
