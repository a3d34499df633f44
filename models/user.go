// models/user.go
package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleOperador = "operador"
)

type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Active       bool      `bson:"active" json:"active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// LoginRecord is appended on every login attempt, successful or not.
type LoginRecord struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"userId,omitempty" json:"userId,omitempty"`
	Email     string    `bson:"email" json:"email"`
	Success   bool      `bson:"success" json:"success"`
	IP        string    `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string    `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
