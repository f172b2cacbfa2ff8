package cart

import (
	"context"
	"time"

	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// updatableColumns are replaced by Update; seq and created_at are fixed at insert.
var updatableColumns = []string{"name", "price", "quantity", "image_url", "attributes", "updated_at"}

// Repository exposes persistence operations for the drink table.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a drink repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) DrinkRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Insert writes a new row. A duplicate id surfaces as the driver's unique violation.
func (r *Repository) Insert(ctx context.Context, drink *models.Drink) error {
	return r.db.WithContext(ctx).Create(drink).Error
}

// FindByID returns gorm.ErrRecordNotFound when the id is not in the cart.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Drink, error) {
	var drink models.Drink
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&drink).Error; err != nil {
		return nil, err
	}
	return &drink, nil
}

// Update replaces the mutable columns of the row matching drink.ID and returns the
// number of matched rows.
func (r *Repository) Update(ctx context.Context, drink *models.Drink) (int64, error) {
	drink.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(drink).
		Select(updatableColumns).
		Updates(drink)
	return res.RowsAffected, res.Error
}

// Delete removes the row matching id. Zero affected rows is not an error.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Drink{})
	return res.RowsAffected, res.Error
}

// DeleteAll clears the table.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.Drink{})
	return res.RowsAffected, res.Error
}

// List returns every row in insertion order. The result is never nil.
func (r *Repository) List(ctx context.Context) ([]models.Drink, error) {
	rows := make([]models.Drink, 0)
	if err := r.db.WithContext(ctx).
		Order("seq ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Drink{}
	}
	return rows, nil
}

// NextSeq returns the sequence number for the next inserted row.
func (r *Repository) NextSeq(ctx context.Context) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).
		Model(&models.Drink{}).
		Select("COALESCE(MAX(seq), 0) + 1").
		Scan(&next).Error
	return next, err
}
