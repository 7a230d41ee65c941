package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// 用户账号由平台的认证服务管理，本服务只读取身份并更新认证标记
// swagger:model User
type User struct {
	BaseModel
	Username   string    `gorm:"size:100;unique;not null" json:"username"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	Role       UserRole  `gorm:"type:varchar(20);default:'user'" json:"role"`
	Avatar     string    `gorm:"size:255" json:"avatar"`
	IsVerified bool      `gorm:"default:false" json:"isVerified"` // 通过资格考试后置为 true，不会被撤销
	LastSeen   time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
