package model

import (
	"time"
)

// Customer is a registered diner. Phone uniquely identifies a customer;
// email is optional but unique when present. Profile fields arrived in
// different schema generations and are all nullable.
type Customer struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	FullName       string    `json:"full_name" gorm:"not null"`
	Phone          string    `json:"phone" gorm:"uniqueIndex;not null"`
	Email          *string   `json:"email" gorm:"uniqueIndex"`
	PasswordHash   string    `json:"-" gorm:"not null"`
	Height         *int      `json:"height"`
	Weight         *int      `json:"weight"`
	Address        *string   `json:"address"`
	Wechat         *string   `json:"wechat"`
	AdditionalInfo *string   `json:"additional_info"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PublicView strips everything a customer-facing response should not carry.
func (c *Customer) PublicView() map[string]interface{} {
	return map[string]interface{}{
		"id":        c.ID,
		"full_name": c.FullName,
		"phone":     c.Phone,
		"email":     c.Email,
	}
}
