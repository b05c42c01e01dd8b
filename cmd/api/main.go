package main

import (
	"context"
	"log"
	"strings"

	"github.com/Tengorio/12pavos/internal/config"
	"github.com/Tengorio/12pavos/internal/model"
	"github.com/Tengorio/12pavos/internal/pkg"
	"github.com/Tengorio/12pavos/internal/repository/mysql"
	"github.com/Tengorio/12pavos/internal/repository/redis"
	"github.com/Tengorio/12pavos/internal/router"
	"github.com/Tengorio/12pavos/internal/service"
)

func main() {
	config.LoadDotEnv()
	pkg.InitSecrets(config.Getenv("JWT_ACCESS_SECRET", ""), config.Getenv("JWT_REFRESH_SECRET", ""))

	dsn := config.Getenv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/reunion?charset=utf8mb4&parseTime=True")
	if err := mysql.InitDB(dsn); err != nil {
		panic(err)
	}

	// 连接redis
	if err := redis.Init(
		config.Getenv("REDIS_ADDR", "127.0.0.1:6379"),
		config.Getenv("REDIS_PASSWORD", ""),
		config.GetenvInt("REDIS_DB", 0),
	); err != nil {
		panic(err)
	}

	// 自动建表（开发阶段 OK）
	if err := mysql.DB.AutoMigrate(
		&model.User{},
		&model.Wish{},
		&model.Potluck{},
		&model.Availability{},
		&model.ExchangeOutbox{},
	); err != nil {
		panic(err)
	}

	smtpCfg := pkg.SMTPConfig{
		Host:     config.Getenv("SMTP_HOST", ""),
		Port:     config.GetenvInt("SMTP_PORT", 587),
		Username: config.Getenv("SMTP_USERNAME", ""),
		Password: config.Getenv("SMTP_PASSWORD", ""),
		From:     config.Getenv("SMTP_FROM", ""),
	}

	// outbox relayer：配了 broker 走 kafka，否则日志兜底
	sender := service.Sender(service.LogSender)
	if brokers := config.Getenv("KAFKA_BROKERS", ""); brokers != "" {
		producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   config.Getenv("KAFKA_TOPIC", "exchange-events"),
		})
		if err != nil {
			panic(err)
		}
		defer producer.Close()
		sender = service.KafkaSender(producer)
	} else {
		log.Println("KAFKA_BROKERS not set, outbox events go to log")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go service.NewOutboxRelayer(mysql.DB, sender).Run(ctx)

	// Gin
	r := router.InitRouter(mysql.DB, smtpCfg)
	if err := r.Run(config.Getenv("HTTP_ADDR", ":8080")); err != nil {
		return
	}
}
