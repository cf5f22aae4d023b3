package user

import "tiendaonline-web/internal/domain"

// LoginRow 登录查询 dbo.users ⨝ dbo.user_roles ⨝ dbo.roles 的结果行
type LoginRow struct {
	ID           int    `gorm:"column:id"`
	Email        string `gorm:"column:email"`
	RoleName     string `gorm:"column:role_name"`
	PasswordHash string `gorm:"column:password_hash"` // 仅 bcrypt 模式会查出
}

func (r LoginRow) Identity() *domain.Identity {
	return &domain.Identity{ID: r.ID, Email: r.Email, RoleName: r.RoleName}
}
