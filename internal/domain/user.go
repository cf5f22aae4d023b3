package domain

import (
	"context"
	"strings"
)

// 角色名与 dbo.roles.name 一致
const (
	RoleOwner            = "OWNER"
	RoleGestorInventario = "GESTORINVENTARIO"
	RoleVendedor         = "VENDEDOR"
	RoleCliente          = "CLIENTE"
)

// Identity 登录后放进会话的用户身份
type Identity struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
}

// HasRole 不区分大小写
func (i *Identity) HasRole(role string) bool {
	return i != nil && strings.EqualFold(i.RoleName, role)
}

// HasAnyRole OWNER 可通过任何角色校验
func (i *Identity) HasAnyRole(roles ...string) bool {
	if i == nil {
		return false
	}
	if len(roles) == 0 || i.HasRole(RoleOwner) {
		return true
	}
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

// KnownRole 是否为四个已知角色之一
func KnownRole(role string) bool {
	switch strings.ToUpper(role) {
	case RoleOwner, RoleGestorInventario, RoleVendedor, RoleCliente:
		return true
	}
	return false
}

type UserRepository interface {
	// FindByCredentials 查不到返回 (nil, nil)
	FindByCredentials(ctx context.Context, email, password string) (*Identity, error)
	// FindIDByEmail 查不到返回 ErrNotFound
	FindIDByEmail(ctx context.Context, email string) (int, error)
}
