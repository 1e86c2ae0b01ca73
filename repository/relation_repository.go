package repository

import (
	"context"

	"chat-sync-app/entity"
	"chat-sync-app/enum"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RelationRepository struct {
	Repository[entity.Relation]
}

func NewRelationRepository() *RelationRepository {
	return &RelationRepository{}
}

// Upsert writes the relation row, overwriting the copied user fields if the
// row already exists.
func (repository RelationRepository) Upsert(ctx context.Context, db *gorm.DB, relation *entity.Relation) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(relation).Error
}

func (repository RelationRepository) DeleteOne(ctx context.Context, db *gorm.DB, ownerID string, kind enum.RelationKind, userID string) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND kind = ? AND user_id = ?", ownerID, kind, userID).
		Delete(&entity.Relation{}).Error
}

func (repository RelationRepository) Exists(ctx context.Context, db *gorm.DB, ownerID string, kind enum.RelationKind, userID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&entity.Relation{}).
		Where("owner_id = ? AND kind = ? AND user_id = ?", ownerID, kind, userID).
		Count(&count).Error
	return count > 0, err
}

func (repository RelationRepository) FindByOwner(ctx context.Context, db *gorm.DB, ownerID string, kind enum.RelationKind) ([]entity.Relation, error) {
	var relations []entity.Relation
	err := db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, kind).
		Order("user_id ASC").
		Find(&relations).Error
	return relations, err
}
