package models

import (
	"strings"
	"time"
)

// Person groups the identity fields shared by students and instructors.
type Person struct {
	ID        string    `json:"id" validate:"notblank"`
	FullName  string    `json:"full_name" validate:"notblank"`
	Email     string    `json:"email" validate:"campus_email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Record is implemented by every person-like entity.
type Record interface {
	Describe() string
	IsValid() bool
}

func newPerson(id, fullName, email string) Person {
	return Person{
		ID:        id,
		FullName:  fullName,
		Email:     email,
		CreatedAt: time.Now(),
	}
}

func (p Person) hasIdentity() bool {
	return strings.TrimSpace(p.FullName) != "" && strings.Contains(p.Email, "@")
}
