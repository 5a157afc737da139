package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"outland-server/internal/config"
	"outland-server/internal/game"
	"outland-server/internal/handler"
	appLogger "outland-server/internal/logger"
	"outland-server/internal/messaging"
	appMiddleware "outland-server/internal/middleware"
	"outland-server/internal/repository"
	"outland-server/internal/service"
)

func main() {
	_ = godotenv.Load()
	log.Println("Запуск Outland Core Service...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// --- Инициализация логгера ---
	logger, err := appLogger.New(appLogger.Config{
		Level: cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("Не удалось инициализировать логгер: %v", err)
	}
	defer logger.Sync()
	logger.Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// Миграции схемы до открытия пула
	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	// Подключение к PostgreSQL
	dbPool, err := setupDatabase(cfg)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer dbPool.Close()
	logger.Info("Успешное подключение к PostgreSQL")

	// Подключение к RabbitMQ
	rabbitConn, err := connectRabbitMQ(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к RabbitMQ", zap.Error(err))
	}
	defer rabbitConn.Close()
	logger.Info("Успешное подключение к RabbitMQ")

	// Подключение к Redis (кеш противников и кулдауны стычек)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("Не удалось подключиться к Redis", zap.Error(err))
		}
	}
	defer redisClient.Close()
	logger.Info("Успешное подключение к Redis")

	// Инициализация зависимостей
	accountRepo := repository.NewPgAccountRepository(logger)
	missionRepo := repository.NewPgMissionRepository(logger)
	itemRepo := repository.NewPgItemRepository(logger)
	facilityRepo := repository.NewPgFacilityRepository(logger)
	logRepo := repository.NewPgResolutionLogRepository(logger)
	txRunner := repository.NewTxRunner(dbPool, logger)

	resolutionPublisher, err := messaging.NewRabbitMQResolutionPublisher(rabbitConn, cfg.ResolutionLogsQueue)
	if err != nil {
		logger.Fatal("Не удалось создать ResolutionPublisher", zap.Error(err))
	}
	opponentCache := messaging.NewRedisOpponentCache(redisClient, logger)

	rng := game.NewRand(uint64(time.Now().UnixNano()), uint64(os.Getpid()))

	coreService := service.NewCoreService(
		accountRepo,
		missionRepo,
		itemRepo,
		facilityRepo,
		logRepo,
		opponentCache,
		resolutionPublisher,
		txRunner,
		rng,
		logger,
	)
	coreHandler := handler.NewCoreHandler(coreService, logger, cfg.JWTSecret)

	// Настройка Echo
	e := echo.New()
	e.Use(appMiddleware.EchoZapLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Регистрация маршрутов
	coreHandler.RegisterRoutes(e)

	log.Printf("Outland Core сервер слушает на порту %s", cfg.Port)

	// Запуск HTTP сервера
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("Ошибка запуска HTTP сервера: ", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Получен сигнал завершения, начинаем graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal("Ошибка при graceful shutdown Echo: ", err)
	}

	log.Println("Outland Core Service успешно остановлен")
}

// runMigrations применяет SQL-миграции из cfg.MigrationsPath.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	m, err := migrate.New(cfg.MigrationsPath, cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("ошибка инициализации мигратора: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Миграции: изменений нет")
			return nil
		}
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}
	logger.Info("Миграции успешно применены")
	return nil
}

// setupDatabase инициализирует и возвращает пул соединений с БД
func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	dbPool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать пул соединений: %w", err)
	}
	if err = dbPool.Ping(ctx); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("не удалось подключиться к БД (ping failed): %w", err)
	}
	return dbPool, nil
}

// connectRabbitMQ пытается подключиться к RabbitMQ с несколькими попытками
func connectRabbitMQ(url string, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	maxRetries := 5
	retryDelay := 5 * time.Second
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		time.Sleep(retryDelay)
	}
	return nil, err
}
