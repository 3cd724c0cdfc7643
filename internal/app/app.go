package app

import (
	"os"

	"leavedesk/internal/notification"
	"leavedesk/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and wires every module onto the
// router. The returned cleanup funcs close what was opened, in order.
func BuildApp(router *gin.Engine) ([]func() error, error) {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := []func() error{db.Close, rdb.Close}

	// Without a broker the API still runs; notifications are dropped
	// instead of relayed to the mail consumer.
	mailer := notification.NewNoopMailer()
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		writer, err := connection.ConnectKafkaWithRetry(broker, 5)
		if err != nil {
			return nil, err
		}
		mailer = notification.NewKafkaRelayMailer(writer)
		cleanup = append(cleanup, writer.Close)
		logger.Info("kafka connection established")
	} else {
		logger.Warn("KAFKA_BROKER not set, email relay disabled")
	}

	if err := registerModules(router, db, gormDB, rdb, mailer); err != nil {
		return nil, err
	}

	return cleanup, nil
}
