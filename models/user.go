package models

import (
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RoleAdmin          UserRole = "admin"
	RoleStaff          UserRole = "staff"
	RoleDepartmentHead UserRole = "department_head"
)

// User is a staff member of the city portal. Only the password auth mode
// reads PasswordHash; it never leaves the server.
type User struct {
	ID           string   `bson:"_id" json:"id"`
	Email        string   `bson:"email" json:"email"`
	Name         string   `bson:"name" json:"name"`
	Role         UserRole `bson:"role" json:"role"`
	Department   string   `bson:"department" json:"department"`
	PasswordHash string   `bson:"password,omitempty" json:"-"`
}

func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate))
	return err == nil
}
