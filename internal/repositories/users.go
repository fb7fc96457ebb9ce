package repositories

import (
	"context"
	"strings"
	"time"

	"taskboard/backend/internal/errs"
	"taskboard/backend/internal/models"
	"taskboard/backend/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// publicUserColumns never includes the password hash.
var publicUserColumns = []string{"id", "name", "email", "role", "created_at"}

type UserRepository struct {
	db         *gorm.DB
	bcryptCost int
	clock      clock
}

func NewUserRepository(db *gorm.DB, bcryptCost int) *UserRepository {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserRepository{db: db, bcryptCost: bcryptCost}
}

func (r *UserRepository) WithClock(now func() time.Time) *UserRepository {
	r.clock = now
	return r
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0)
	err := r.db.WithContext(ctx).
		Select(publicUserColumns).
		Order("created_at DESC").
		Order("id DESC").
		Find(&users).Error
	if err != nil {
		return nil, errs.Unexpected(err, "failed to list users")
	}
	return users, nil
}

func (r *UserRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select(publicUserColumns).Where("id = ?", id).Take(&user).Error
	if err != nil {
		return nil, translate(err, "user not found", "failed to load user")
	}
	return &user, nil
}

// FindUserByEmail returns the full row, password hash included. It is meant
// for credential checks only.
func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", utils.NormalizeEmail(email)).Take(&user).Error
	if err != nil {
		return nil, translate(err, "user not found", "failed to load user")
	}
	return &user, nil
}

// CountUsers counts accounts, optionally only those holding role.
func (r *UserRepository) CountUsers(ctx context.Context, role *models.Role) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{})
	if role != nil {
		query = query.Where("role = ?", string(*role))
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errs.Unexpected(err, "failed to count users")
	}
	return count, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, input models.UserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := utils.NormalizeEmail(input.Email)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if input.Password == "" {
		missing = append(missing, "password")
	}
	if input.Role == "" {
		missing = append(missing, "role")
	}
	if len(missing) > 0 {
		return nil, errs.Validationf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if !input.Role.Valid() {
		return nil, errs.Validationf("invalid role %q", input.Role)
	}

	taken, err := r.emailTaken(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.Conflict("user already exists")
	}

	hash, err := utils.HashPassword(input.Password, r.bcryptCost)
	if err != nil {
		return nil, errs.Unexpected(err, "failed to hash password")
	}

	user := models.User{
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      input.Role,
		CreatedAt: r.clock.now(),
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translate(err, "user not found", "failed to create user")
	}

	user.Password = ""
	return &user, nil
}

// UpdateUser writes only the fields present in the patch. A new password is
// hashed before it is stored.
func (r *UserRepository) UpdateUser(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	if _, err := r.GetUser(ctx, id); err != nil {
		return nil, err
	}

	var set assignments

	if patch.Name.Set {
		name := strings.TrimSpace(patch.Name.Value)
		if patch.Name.Null || name == "" {
			return nil, errs.Validation("name must not be empty")
		}
		set.set("name", name)
	}

	if patch.Email.Set {
		email := utils.NormalizeEmail(patch.Email.Value)
		if patch.Email.Null || email == "" {
			return nil, errs.Validation("email must not be empty")
		}
		taken, err := r.emailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errs.Conflict("user already exists")
		}
		set.set("email", email)
	}

	if patch.Password.Set {
		if patch.Password.Null || patch.Password.Value == "" {
			return nil, errs.Validation("password must not be empty")
		}
		hash, err := utils.HashPassword(patch.Password.Value, r.bcryptCost)
		if err != nil {
			return nil, errs.Unexpected(err, "failed to hash password")
		}
		set.set("password", hash)
	}

	if patch.Role.Set {
		if patch.Role.Null || !patch.Role.Value.Valid() {
			return nil, errs.Validationf("invalid role %q", patch.Role.Value)
		}
		set.set("role", string(patch.Role.Value))
	}

	if set.empty() {
		return nil, errNoFields
	}

	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(set.values())
	if result.Error != nil {
		return nil, translate(result.Error, "user not found", "failed to update user")
	}
	if result.RowsAffected == 0 {
		return nil, errs.NotFound("user not found")
	}
	return r.GetUser(ctx, id)
}

// DeleteUser removes the user and every task they own in one transaction.
func (r *UserRepository) DeleteUser(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errs.Unexpected(err, "failed to load user")
		}
		if count == 0 {
			return errs.NotFound("user not found")
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return errs.Unexpected(err, "failed to delete user tasks")
		}

		result := tx.Where("id = ?", id).Delete(&models.User{})
		if result.Error != nil {
			return errs.Unexpected(result.Error, "failed to delete user")
		}
		if result.RowsAffected == 0 {
			return errs.NotFound("user not found")
		}
		return nil
	})
}

func (r *UserRepository) emailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, errs.Unexpected(err, "failed to check email")
	}
	return count > 0, nil
}
