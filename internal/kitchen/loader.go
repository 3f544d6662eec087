package kitchen

import (
	"time"

	"github.com/yorkie01/restaurant-order-system/internal/app/model"
	"github.com/yorkie01/restaurant-order-system/internal/app/repository"
)

// repoLoader backs the board with the order and menu repositories. A
// board day starts at local midnight.
type repoLoader struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	now       func() time.Time
}

func NewRepoLoader(orderRepo repository.OrderRepository, menuRepo repository.MenuRepository) Loader {
	return &repoLoader{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		now:       time.Now,
	}
}

func (l *repoLoader) OrderByID(id uint) (*model.Order, error) {
	return l.orderRepo.FindByID(id)
}

func (l *repoLoader) TodayOrders() ([]model.Order, error) {
	now := l.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return l.orderRepo.FindSince(startOfDay)
}

func (l *repoLoader) MenuItems() ([]model.MenuItem, error) {
	return l.menuRepo.FindAllItems()
}
