package postgres

import (
	"context"
	"errors"

	userDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/user"
	"github.com/frahmantamala/resource-management/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetRoles(ctx context.Context, userID int64) ([]string, error) {
	roles := []string{}
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &roles).Error
	return roles, err
}

// Create stores a user, updating name, hash and status when the email already exists.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "password_hash", "is_active"}),
		}).
		Create(row).Error
	if err != nil {
		return err
	}
	if row.ID == 0 {
		if err := r.db.WithContext(ctx).Where("email = ?", row.Email).First(row).Error; err != nil {
			return err
		}
	}
	u.ID = row.ID
	return nil
}

// AssignRole grants roleName to the user, creating the role on first use.
func (r *UserRepository) AssignRole(ctx context.Context, userID int64, roleName string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := userDatamodel.Role{Name: roleName}
		if err := tx.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&userDatamodel.UserRole{}).
			Where("user_id = ? AND role_id = ?", userID, role.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&userDatamodel.UserRole{UserID: userID, RoleID: role.ID}).Error
	})
}
