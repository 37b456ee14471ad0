package domain

import (
	"time"
)

// CREATE TABLE public.users (
//     id            BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
//     username      VARCHAR(150) UNIQUE NOT NULL,
//     email         VARCHAR(254) UNIQUE NOT NULL,
//     phone         VARCHAR(15),
//     password      TEXT NOT NULL,
//     role          VARCHAR(10),
//     is_verified   BOOLEAN DEFAULT TRUE,
//     is_active     BOOLEAN DEFAULT TRUE,
//     is_staff      BOOLEAN DEFAULT FALSE,
//     is_superuser  BOOLEAN DEFAULT FALSE,
//     created_at    TIMESTAMPTZ,
//     updated_at    TIMESTAMPTZ
// );

const (
	RoleInvestor = "investor"
	RoleFarmer   = "farmer"
)

var ValidRoles = map[string]bool{
	RoleInvestor: true,
	RoleFarmer:   true,
}

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"column:username;size:150;uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"column:email;size:254;uniqueIndex;not null" json:"email"`
	Phone       *string   `gorm:"column:phone;size:15" json:"phone"`
	Password    string    `gorm:"column:password;not null" json:"-"`
	Role        string    `gorm:"column:role;size:10" json:"role"`
	IsVerified  bool      `gorm:"column:is_verified;default:true" json:"is_verified"`
	IsActive    bool      `gorm:"column:is_active;default:true" json:"is_active"`
	IsStaff     bool      `gorm:"column:is_staff;default:false" json:"is_staff"`
	IsSuperuser bool      `gorm:"column:is_superuser;default:false" json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u User) IsFarmer() bool {
	return u.Role == RoleFarmer
}

// IsAdmin reports whether u may act on records it does not own.
func (u User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// UserFlagsPatch carries the account flags staff may change. Nil means
// "leave unchanged".
type UserFlagsPatch struct {
	IsActive   *bool
	IsVerified *bool
	IsStaff    *bool
}

// Apply merges the patch into u.
func (patch UserFlagsPatch) Apply(u *User) {
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.IsVerified != nil {
		u.IsVerified = *patch.IsVerified
	}
	if patch.IsStaff != nil {
		u.IsStaff = *patch.IsStaff
	}
}

// UserFilter narrows the administrative user listing.
type UserFilter struct {
	Role       string
	IsVerified *bool
	IsStaff    *bool
	Search     string
}
