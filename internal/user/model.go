package user

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Username  string    `gorm:"size:50;not null" json:"username"`
	ImageURL  *string   `gorm:"size:512" json:"imagen_url"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessToken backs a bearer JWT: the token is only honoured while the row
// whose TokenID matches its jti exists and has not expired.
type AccessToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	TokenID    string     `gorm:"uniqueIndex;size:36;not null" json:"-"`
	Name       string     `gorm:"size:64;not null" json:"name"`
	ExpiresAt  time.Time  `gorm:"not null;index" json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Summary is the public view of a user embedded in other resources.
type Summary struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	ImageURL *string `json:"imagen_url"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Username,
		ImageURL: u.ImageURL,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=128"`
	Username string `json:"username" form:"username" validate:"required,min=2,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,max=128"`
}
