package models

import "time"

// Sale is a billing record. The billed-event generator reads the last 24 hours
// of sales and matches CustomerName against PPPoE secrets and DHCP clients to
// decide where the resulting notification should link.
type Sale struct {
	SaleID       int        `gorm:"primaryKey;column:sale_id" json:"sale_id"`
	CustomerName string     `gorm:"column:customer_name" json:"customer_name"`
	Amount       float64    `gorm:"column:amount" json:"amount"`
	Channel      string     `gorm:"column:channel" json:"channel"` // cash|transfer|gateway
	CreateAt     time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Sale) TableName() string { return "sales" }
