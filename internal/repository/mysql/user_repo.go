package mysql

import (
	"github.com/Tengorio/12pavos/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

// NamesByIDs returns id -> display name (falls back to username) for the given users.
func (r *UserRepository) NamesByIDs(ids []uint64) (map[uint64]string, error) {
	var users []model.User
	if len(ids) == 0 {
		return map[uint64]string{}, nil
	}
	if err := r.DB.Select("id", "username", "name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[uint64]string, len(users))
	for _, u := range users {
		if u.Name != "" {
			names[u.ID] = u.Name
		} else {
			names[u.ID] = u.Username
		}
	}
	return names, nil
}

func (r *UserRepository) UpdatePassword(user *model.User, newPassword string) error {
	return r.DB.Model(user).Update("password", newPassword).Error
}
