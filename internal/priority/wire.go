package priority

import (
	"database/sql"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"binapp/internal/config"
	customerrepo "binapp/internal/customer/repository"
	orderrepo "binapp/internal/order/repository"
	priorityrepo "binapp/internal/priority/repository"
	"binapp/internal/priority/service"
)

type Module struct {
	Controller *Controller
	Scheduler  *Scheduler
}

func NewModule(db *sql.DB, rdb *goredis.Client, cfg config.SyncConfig, logger *zap.Logger) *Module {
	customerRepo := customerrepo.NewMySQLCustomerRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	priorityRepo := priorityrepo.NewMySQLPriorityRepository(db)

	syncSvc := service.NewSyncService(customerRepo, orderRepo, priorityRepo, cfg.OrderFanout, cfg.CallTimeout, logger)
	notificationSvc := service.NewNotificationService(
		priorityRepo,
		customerRepo,
		service.NewRedisCountCache(rdb),
		logger,
	)

	return &Module{
		Controller: NewController(notificationSvc, logger),
		Scheduler:  NewScheduler(syncSvc, cfg.Interval, logger),
	}
}
