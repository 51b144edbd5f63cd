package database

import (
	"errors"
	"time"

	"gradebook_backend/pkg/monitoring"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSerialization 事务因死锁或锁等待超时被数据库中止，重试次数用尽后返回
var ErrSerialization = errors.New("transaction aborted by serialization conflict")

const (
	maxTxAttempts = 3
	retryBackoff  = 50 * time.Millisecond
)

// ForUpdate 给当前查询加行级锁。sqlite（仅用于测试）没有行锁，
// 其单写者模型已经覆盖了同样的竞争场景，直接跳过
func ForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// WithRetry 在一个事务里执行 fn，死锁/锁超时自动重试，重试耗尽返回 ErrSerialization
func WithRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		monitoring.TxRetryCounter.Inc()
		time.Sleep(retryBackoff * time.Duration(attempt))
	}
	return ErrSerialization
}

// MySQL 1213: deadlock, 1205: lock wait timeout
func isRetryable(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}
