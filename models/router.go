package models

import "time"

// Router is a managed MikroTik device. Address is the host:port of its REST
// API endpoint; credentials are sent as basic auth on every call.
type Router struct {
	RouterID int        `gorm:"primaryKey;column:router_id" json:"router_id"`
	Name     string     `gorm:"column:name" json:"name"`
	Address  string     `gorm:"column:address" json:"address"`
	Username string     `gorm:"column:username" json:"username"`
	Password string     `gorm:"column:password" json:"-"`
	Enabled  bool       `gorm:"column:enabled" json:"enabled"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

func (Router) TableName() string { return "routers" }
