package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"tiendaonline-web/internal/domain"
	"tiendaonline-web/internal/feature/user"
	"tiendaonline-web/pkg/utils"
)

var _ domain.UserRepository = (*UserRepo)(nil)

const (
	sqlLoginPlain = "SELECT TOP(1) u.id, u.email, r.name AS role_name " +
		"FROM dbo.users u " +
		"JOIN dbo.user_roles ur ON ur.user_id = u.id " +
		"JOIN dbo.roles r ON r.id = ur.role_id " +
		"WHERE u.email = ? AND u.password_hash = ? AND u.estado = 1"

	sqlLoginByEmail = "SELECT TOP(1) u.id, u.email, r.name AS role_name, u.password_hash " +
		"FROM dbo.users u " +
		"JOIN dbo.user_roles ur ON ur.user_id = u.id " +
		"JOIN dbo.roles r ON r.id = ur.role_id " +
		"WHERE u.email = ? AND u.estado = 1"

	sqlUserIDByEmail = "SELECT TOP(1) id FROM dbo.users WHERE email = ?"
)

type UserRepo struct {
	db     *gorm.DB
	bcrypt bool
}

// NewUserRepo 默认明文比较 password_hash；WithBcrypt 切换为哈希校验
func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) WithBcrypt(on bool) *UserRepo {
	r.bcrypt = on
	return r
}

func (r *UserRepo) FindByCredentials(ctx context.Context, email, password string) (*domain.Identity, error) {
	if r.bcrypt {
		return r.findByEmailBcrypt(ctx, email, password)
	}
	var row user.LoginRow
	tx := r.db.WithContext(ctx).Raw(sqlLoginPlain, email, password).Scan(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("find user by credentials: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return nil, nil
	}
	return row.Identity(), nil
}

func (r *UserRepo) findByEmailBcrypt(ctx context.Context, email, password string) (*domain.Identity, error) {
	var row user.LoginRow
	tx := r.db.WithContext(ctx).Raw(sqlLoginByEmail, email).Scan(&row)
	if tx.Error != nil {
		return nil, fmt.Errorf("find user by email: %w", tx.Error)
	}
	if tx.RowsAffected == 0 || !utils.CheckPassword(password, row.PasswordHash) {
		return nil, nil
	}
	return row.Identity(), nil
}

func (r *UserRepo) FindIDByEmail(ctx context.Context, email string) (int, error) {
	var ids []int
	if err := r.db.WithContext(ctx).Raw(sqlUserIDByEmail, email).Scan(&ids).Error; err != nil {
		return 0, fmt.Errorf("find user id: %w", err)
	}
	if len(ids) == 0 {
		return 0, domain.ErrNotFound
	}
	return ids[0], nil
}
