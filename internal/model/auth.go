package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is a registered respondent
type User struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"passwordHash"`
	FirstName    string     `json:"firstName,omitempty" bson:"firstName,omitempty"`
	LastName     string     `json:"lastName,omitempty" bson:"lastName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" bson:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty" bson:"lastLogin,omitempty"`
}

// UserClaims are JWT claims for an authenticated respondent
type UserClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account creation
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
}
