package repository

import (
	"context"
	"strings"

	"chat-sync-app/entity"

	"gorm.io/gorm"
)

type UserRepository struct {
	Repository[entity.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (repository UserRepository) UpdateProfile(ctx context.Context, db *gorm.DB, id string, update ProfileUpdate) (int64, error) {
	result := db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"user_name": update.UserName,
			"bio":       update.Bio,
			"image_url": update.ImageURL,
		})
	return result.RowsAffected, result.Error
}

// FindByNamePrefix matches user names starting with prefix, leaving out
// excludeID, ordered by name.
func (repository UserRepository) FindByNamePrefix(ctx context.Context, db *gorm.DB, excludeID, prefix string) ([]entity.User, error) {
	var users []entity.User
	query := db.WithContext(ctx).Where("user_name LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Order("user_name ASC").Order("id ASC").Find(&users).Error
	return users, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
