package postgres

import (
	"context"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/repository"
	"gatehouse/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// metadataRepository implements the repository.MetadataRepository interface using GORM.
type metadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository is the constructor for metadataRepository.
func NewMetadataRepository(db *gorm.DB) repository.MetadataRepository {
	return &metadataRepository{db: db}
}

// GetOrCreate retrieves the (userID, key) row, inserting it with the default
// value when it does not exist yet. Lazy creation keeps the authentication
// flow free of existence checks: the attempt counter, OTP seed and API key
// rows all materialize on first lookup.
func (repo *metadataRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, key string, defaultValue string) (*entity.UserMetadata, error) {
	var metaM model.UserMetadataModel
	err := repo.db.WithContext(ctx).
		Where(&model.UserMetadataModel{UserID: userID, Key: key}).
		Attrs(&model.UserMetadataModel{Value: defaultValue}).
		FirstOrCreate(&metaM).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get or create user metadata")
	}

	return toMetadataDomain(&metaM), nil
}

// Save persists the row via upsert on the composite (user_id, key) primary
// key. UpdatedAt is refreshed by GORM on every save, which is exactly what the
// lockout window measurement needs.
func (repo *metadataRepository) Save(ctx context.Context, meta *entity.UserMetadata) error {
	metaM := fromMetadataDomain(meta)

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(metaM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to save user metadata")
	}

	meta.CreatedAt = metaM.CreatedAt
	meta.UpdatedAt = metaM.UpdatedAt

	return nil
}

// toMetadataDomain converts a GORM UserMetadataModel to a domain UserMetadata entity.
func toMetadataDomain(data *model.UserMetadataModel) *entity.UserMetadata {
	if data == nil {
		return nil
	}

	return &entity.UserMetadata{
		UserID:    data.UserID,
		Key:       data.Key,
		Value:     data.Value,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromMetadataDomain converts a domain UserMetadata entity to a GORM UserMetadataModel.
func fromMetadataDomain(data *entity.UserMetadata) *model.UserMetadataModel {
	if data == nil {
		return nil
	}

	return &model.UserMetadataModel{
		UserID:    data.UserID,
		Key:       data.Key,
		Value:     data.Value,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
