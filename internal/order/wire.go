package order

import (
	"database/sql"

	"go.uber.org/zap"

	customerrepo "binapp/internal/customer/repository"
	"binapp/internal/order/controller"
	orderrepo "binapp/internal/order/repository"
	"binapp/internal/order/service"
)

func NewModule(db *sql.DB, notifier controller.CreatedNotifier, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	customerRepo := customerrepo.NewMySQLCustomerRepository(db)

	frequencySvc := service.NewFrequencyService(orderRepo, customerRepo, logger)

	return controller.NewOrderController(orderRepo, frequencySvc, notifier, logger)
}
