package model

import "time"

// Role is the authorization level of a user.
type Role string

const (
    RoleUser  Role = "USER"
    RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User represents a row in the `users` table joined with its one-to-one
// `profiles` row.  PasswordHash never leaves the server.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – USER or ADMIN.
//  Profile      – first/last name and optional bio.
type User struct {
    ID           uint64    `json:"id"`            // users.id
    Email        string    `json:"email"`         // users.email
    PasswordHash string    `json:"-"`             // users.password_hash
    Role         Role      `json:"role"`          // users.role
    Profile      Profile   `json:"profile"`       // profiles.*
    CreatedAt    time.Time `json:"created_at"`    // users.created_at
    UpdatedAt    time.Time `json:"updated_at"`    // users.updated_at
}

// Profile mirrors the `profiles` table.  Bio is nullable.
type Profile struct {
    FirstName string  `json:"first_name"` // profiles.first_name
    LastName  string  `json:"last_name"`  // profiles.last_name
    Bio       *string `json:"bio"`        // profiles.bio (nullable)
}

// UserView is the projection returned by GET /auth/me.
type UserView struct {
    ID        uint64  `json:"id"`
    Email     string  `json:"email"`
    FirstName string  `json:"first_name"`
    LastName  string  `json:"last_name"`
    Bio       *string `json:"bio"`
    Role      Role    `json:"role"`
}

// View flattens the user and its profile.
func (u *User) View() UserView {
    return UserView{
        ID:        u.ID,
        Email:     u.Email,
        FirstName: u.Profile.FirstName,
        LastName:  u.Profile.LastName,
        Bio:       u.Profile.Bio,
        Role:      u.Role,
    }
}
