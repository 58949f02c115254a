package repository

import (
	"context"
	"errors"
	"unicode/utf8"

	"musicstore/db"
	"musicstore/logger"
	"musicstore/model"

	"gorm.io/gorm"
)

// UserRepository 用户账号数据访问接口
type UserRepository interface {
	// Create 创建账号，phone 与 email 都为空时返回 ErrConstraintViolation
	Create(ctx context.Context, in model.UserInput) (*model.UserAccount, error)

	// List 返回全部账号
	List(ctx context.Context) ([]*model.UserAccount, error)

	// GetByID 根据ID获取账号，不存在时返回 nil
	GetByID(ctx context.Context, id int64) (*model.UserAccount, error)

	// FindByAlternateKey 按手机号或邮箱精确查找，未命中或命中多条时返回 nil
	FindByAlternateKey(ctx context.Context, phone, email *string) (*model.UserAccount, error)

	// Update 部分更新，只覆盖 patch 中给出的字段；账号不存在时返回 false
	Update(ctx context.Context, id int64, patch model.UserPatch) (bool, error)

	// Delete 删除账号；账号不存在时返回 false
	Delete(ctx context.Context, id int64) (bool, error)
}

// gormUserRepository GORM 实现
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository 创建 GORM 用户仓库
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create 创建账号
func (r *gormUserRepository) Create(ctx context.Context, in model.UserInput) (*model.UserAccount, error) {
	if in.Phone == nil && in.Email == nil {
		return nil, ErrConstraintViolation
	}
	if in.Role == "" {
		in.Role = model.DefaultRole
	}
	if err := validateUserFields(in.Phone, in.Email, &in.Role); err != nil {
		return nil, err
	}

	user := &model.UserAccount{
		Phone: in.Phone,
		Email: in.Email,
		Role:  in.Role,
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, classify("create user", err)
	}

	logger.Info("User created", logger.Int64("userId", user.ID), logger.String("role", user.Role))
	return user, nil
}

// List 返回全部账号，按ID排序
func (r *gormUserRepository) List(ctx context.Context) ([]*model.UserAccount, error) {
	users := make([]*model.UserAccount, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, classify("list users", err)
	}
	return users, nil
}

// GetByID 根据ID获取账号
func (r *gormUserRepository) GetByID(ctx context.Context, id int64) (*model.UserAccount, error) {
	var user model.UserAccount
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classify("get user", err)
	}
	return &user, nil
}

// FindByAlternateKey 按手机号或邮箱查找账号
func (r *gormUserRepository) FindByAlternateKey(ctx context.Context, phone, email *string) (*model.UserAccount, error) {
	pred, ok := alternateKeyPredicate(phone, email)
	if !ok {
		return nil, nil
	}
	where, args, err := pred.ToSql()
	if err != nil {
		return nil, classify("build user lookup", err)
	}

	// 取两条即可判断是否唯一
	var users []*model.UserAccount
	if err := r.db.WithContext(ctx).Where(where, args...).Order("id").Limit(2).Find(&users).Error; err != nil {
		return nil, classify("find user", err)
	}

	switch len(users) {
	case 1:
		return users[0], nil
	case 0:
		return nil, nil
	default:
		logger.Warn("Alternate key matches more than one user",
			logger.Int64("firstId", users[0].ID),
			logger.Int64("secondId", users[1].ID),
		)
		return nil, nil
	}
}

// Update 部分更新账号
func (r *gormUserRepository) Update(ctx context.Context, id int64, patch model.UserPatch) (bool, error) {
	if err := validateUserFields(patch.Phone, patch.Email, patch.Role); err != nil {
		return false, err
	}

	found := false
	err := db.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.UserAccount{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true

		cols := patch.Columns()
		if len(cols) == 0 {
			return nil
		}
		return tx.Model(&model.UserAccount{}).Where("id = ?", id).Updates(cols).Error
	})
	if err != nil {
		return false, classify("update user", err)
	}

	if found {
		logger.Info("User updated", logger.Int64("userId", id), logger.Int("fields", len(patch.Columns())))
	}
	return found, nil
}

// Delete 删除账号
func (r *gormUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserAccount{})
	if res.Error != nil {
		return false, classify("delete user", res.Error)
	}
	if res.RowsAffected > 0 {
		logger.Info("User deleted", logger.Int64("userId", id))
	}
	return res.RowsAffected > 0, nil
}

func validateUserFields(phone, email, role *string) error {
	if phone != nil && utf8.RuneCountInString(*phone) > model.PhoneMaxLen {
		return validationError("phone exceeds %d characters", model.PhoneMaxLen)
	}
	if email != nil && utf8.RuneCountInString(*email) > model.EmailMaxLen {
		return validationError("email exceeds %d characters", model.EmailMaxLen)
	}
	if role != nil {
		if *role == "" {
			return validationError("role must not be empty")
		}
		if utf8.RuneCountInString(*role) > model.RoleMaxLen {
			return validationError("role exceeds %d characters", model.RoleMaxLen)
		}
	}
	return nil
}
