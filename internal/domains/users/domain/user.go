package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
)

// Role separates storefront customers from back-office staff.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a storefront account. Each user owns exactly one cart and an
// append-only list of order references.
type User struct {
	ID       int64
	Name     string
	Email    string
	Password string
	Phone    string
	Role     Role
	Orders   []int64
}

// NewUser builds a user ensuring required invariants.
func NewUser(id int64, name, email, password string) (*User, error) {
	user := &User{ID: id, Role: RoleCustomer}
	if err := user.SetName(name); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// SetName trims and validates the display name.
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetEmail trims and validates the email address.
func (u *User) SetEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = strings.ToLower(email)
	return nil
}

// SetPassword validates basic password strength.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	u.Password = password
	return nil
}

// UpdateProfile applies optional profile fields.
func (u *User) UpdateProfile(name, phone string) error {
	if name = strings.TrimSpace(name); name != "" {
		u.Name = name
	}
	u.Phone = strings.TrimSpace(phone)
	return nil
}

// CheckPassword compares the stored password with the supplied credentials.
func (u *User) CheckPassword(password string) bool {
	return strings.TrimSpace(password) != "" && u.Password == strings.TrimSpace(password)
}

// AttachOrder appends an order reference. The list is append-only and never
// reordered; duplicates are ignored.
func (u *User) AttachOrder(orderID int64) {
	for _, id := range u.Orders {
		if id == orderID {
			return
		}
	}
	u.Orders = append(u.Orders, orderID)
}

// DetachOrder removes a reference after the order itself is deleted. Reports
// whether the reference existed.
func (u *User) DetachOrder(orderID int64) bool {
	for i, id := range u.Orders {
		if id == orderID {
			u.Orders = append(u.Orders[:i], u.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetName(u.Name); err != nil {
		return err
	}
	if err := u.SetEmail(u.Email); err != nil {
		return err
	}
	if err := u.SetPassword(u.Password); err != nil {
		return err
	}
	if u.Role != RoleAdmin {
		u.Role = RoleCustomer
	}
	return nil
}
