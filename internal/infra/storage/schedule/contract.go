package schedule

import (
	"github.com/trimtime/booking-service/pkg/dbmetrics"
)

// DBExecutor интерфейс для выполнения запросов к БД
type DBExecutor = dbmetrics.DBExecutor

// TxExecutor интерфейс для выполнения запросов в транзакции
type TxExecutor = dbmetrics.TxExecutor
