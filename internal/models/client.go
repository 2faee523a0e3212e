package models

import "time"

// Client is a customer account. Email is the natural key; creating or
// updating a client with an email that already exists is a conflict.
type Client struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:50;not null" json:"first_name"`
	LastName  string    `gorm:"size:50;not null" json:"last_name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone,omitempty"`
	Address   string    `gorm:"size:255" json:"address,omitempty"`
	City      string    `gorm:"size:100" json:"city,omitempty"`
	Country   string    `gorm:"size:50" json:"country,omitempty"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"<-:create" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Orders []Order `gorm:"foreignKey:ClientID" json:"-"`
}

func (c *Client) FullName() string {
	return c.FirstName + " " + c.LastName
}
