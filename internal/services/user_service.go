package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sabbirahmed/eventhub-backend/internal/apperror"
	"github.com/sabbirahmed/eventhub-backend/internal/models"
	"github.com/sabbirahmed/eventhub-backend/internal/query"
)

var userQueryOptions = query.Options{
	Columns: map[string]string{
		"id":        "id",
		"name":      "name",
		"email":     "email",
		"isActive":  "is_active",
		"photoUrl":  "photo_url",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	},
	DateColumn:  "created_at",
	DefaultSort: "-createdAt",
}

var userSearchFields = []string{"name", "email"}

type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

type UpdateProfileInput struct {
	Name     *string
	PhotoURL *string
}

type UserService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{db: db, bcryptCost: bcryptCost}
}

// Register creates an account. The email is case-normalized and must be
// unique: the pre-check catches the common case with a friendly error, and
// the unique index on users.email closes the remaining race, surfacing a
// concurrent duplicate as the same Conflict instead of masking it.
func (s *UserService) Register(input RegisterUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperror.Conflict("User already exists with this email")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Wrap(apperror.KindInternal, "Error checking existing user.", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to hash the password.", err)
	}

	user := models.User{
		Name:     input.Name,
		Email:    email,
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("User already exists with this email")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Failed to create user.", err)
	}

	return &user, nil
}

func (s *UserService) Profile(userID uuid.UUID) (*models.User, error) {
	return s.findByID(userID)
}

// UpdateProfile applies a partial edit restricted to name and photo.
func (s *UserService) UpdateProfile(userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.findByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.PhotoURL != nil {
		updates["photo_url"] = *input.PhotoURL
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperror.Wrap(apperror.KindInternal, "Failed to update profile.", err)
		}
	}

	return s.findByID(userID)
}

func (s *UserService) List(params query.Params) ([]models.User, query.Meta, error) {
	builder := query.New(s.db.Model(&models.User{}), params, userQueryOptions).
		Search(userSearchFields...).
		Filter().
		Sort().
		Paginate().
		Fields()

	var users []models.User
	if err := builder.Find(&users); err != nil {
		return nil, query.Meta{}, apperror.Wrap(apperror.KindInternal, "Error retrieving users.", err)
	}

	meta, err := builder.CountTotal()
	if err != nil {
		return nil, query.Meta{}, apperror.Wrap(apperror.KindInternal, "Error counting users.", err)
	}

	return users, meta, nil
}

func (s *UserService) findByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Wrap(apperror.KindInternal, "Error retrieving user.", err)
	}
	return &user, nil
}
