package models

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
	RoleEngineer UserRole = "engineer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleAdmin, RoleEngineer:
		return true
	}
	return false
}

// EngineerLevel is the seniority tier of an engineer, totally ordered
// Junior < Senior < Executive.
type EngineerLevel string

const (
	LevelJunior    EngineerLevel = "Junior"
	LevelSenior    EngineerLevel = "Senior"
	LevelExecutive EngineerLevel = "Executive"
)

func (l EngineerLevel) Valid() bool {
	switch l {
	case LevelJunior, LevelSenior, LevelExecutive:
		return true
	}
	return false
}

func (l EngineerLevel) Rank() int {
	switch l {
	case LevelJunior:
		return 1
	case LevelSenior:
		return 2
	case LevelExecutive:
		return 3
	}
	return 0
}

// Next returns the tier strictly above l, or false when l is already the top.
func (l EngineerLevel) Next() (EngineerLevel, bool) {
	switch l {
	case LevelJunior:
		return LevelSenior, true
	case LevelSenior:
		return LevelExecutive, true
	}
	return "", false
}

type User struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Role          UserRole       `json:"role"`
	Avatar        string         `json:"avatar,omitempty"`
	EngineerLevel *EngineerLevel `json:"engineer_level,omitempty"`
	PasswordHash  string         `json:"-"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Level returns the engineer tier, or the zero value for non-engineers.
func (u User) Level() EngineerLevel {
	if u.EngineerLevel == nil {
		return ""
	}
	return *u.EngineerLevel
}
