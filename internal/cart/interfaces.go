package cart

import (
	"context"

	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Store is the storage-agnostic cart contract consumed by UI-facing code.
type Store interface {
	Insert(ctx context.Context, drink *models.Drink) error
	CheckInCart(ctx context.Context, id int64) ([]models.Drink, error)
	Update(ctx context.Context, drink *models.Drink) error
	Delete(ctx context.Context, drink *models.Drink) error
	DeleteAll(ctx context.Context) error
	ObserveAll(ctx context.Context) (<-chan []models.Drink, error)
}

// DrinkRepository defines the persistence surface required by the cart service.
type DrinkRepository interface {
	WithTx(tx *gorm.DB) DrinkRepository
	Insert(ctx context.Context, drink *models.Drink) error
	FindByID(ctx context.Context, id int64) (*models.Drink, error)
	Update(ctx context.Context, drink *models.Drink) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.Drink, error)
	NextSeq(ctx context.Context) (int64, error)
}

// ChangeNotifier announces committed mutations to other processes.
type ChangeNotifier interface {
	Publish(ctx context.Context, channel string, payload any) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
