package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Linksy/social-service/internal/config"
	"github.com/Linksy/social-service/internal/handler"
	"github.com/Linksy/social-service/internal/keycloak"
	"github.com/Linksy/social-service/internal/repository"
	"github.com/Linksy/social-service/internal/repository/postgres"
	"github.com/Linksy/social-service/internal/server"
	"github.com/Linksy/social-service/internal/service"
	"github.com/Linksy/social-service/internal/storage"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()

	if err := loadEnv(); err != nil {
		logger.Sugar().Panicf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Panicf("failed to initialize yaml config: %s", err.Error())
	}

	dbConfig := config.DBConfig{
		Username: os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		DBName:   os.Getenv("POSTGRES_DATABASE"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
	db, err := postgres.DB(ctx, dbConfig)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to postgres: %s", err.Error())
	}
	if err := db.Ping(ctx); err != nil {
		logger.Sugar().Panicf("failed to ping postgres: %s", err.Error())
	}
	logger.Info("Successfully connected to PostgreSQL")

	if err := postgres.Migrate(dbConfig); err != nil {
		logger.Sugar().Panicf("failed to run migrations: %s", err.Error())
	}
	logger.Info("Migrations are up to date")

	redisOptions := &redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
	}
	rdb := redis.NewClient(redisOptions)
	pong, err := rdb.Ping(ctx).Result()
	if err != nil {
		logger.Sugar().Panicf("failed to ping redis: %s", err.Error())
	}
	logger.Sugar().Infof("Successfully connected to Redis: %s", pong)

	minioConfig := config.MinioConfig{
		Endpoint:       os.Getenv("MINIO_ENDPOINT"),
		PublicEndpoint: os.Getenv("MINIO_PUBLIC_ENDPOINT"),
		AccessKey:      os.Getenv("MINIO_ACCESS_KEY"),
		SecretKey:      os.Getenv("MINIO_SECRET_KEY"),
		UseSSL:         viper.GetBool("minio.ssl"),
		Bucket:         viper.GetString("minio.bucket"),
	}
	store, err := storage.New(ctx, minioConfig, logger)
	if err != nil {
		logger.Sugar().Panicf("failed to connect to minio: %s", err.Error())
	}
	logger.Info("Successfully connected to MinIO")

	keycloakConfig := config.KeycloakConfig{
		BaseURL:       os.Getenv("KEYCLOAK_BASE_URL"),
		Realm:         viper.GetString("keycloak.realm"),
		ClientID:      viper.GetString("keycloak.client_id"),
		ClientSecret:  os.Getenv("KEYCLOAK_CLIENT_SECRET"),
		AdminUsername: os.Getenv("KEYCLOAK_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("KEYCLOAK_ADMIN_PASSWORD"),
	}
	kc := keycloak.New(keycloakConfig, logger)

	repos := repository.New(db, rdb, logger)
	services := service.New(logger, repos, store, kc)
	handlers := handler.New(services)

	srv := server.New()
	serverConfig := config.ServerConfig{
		Port:           viper.GetString("app.port"),
		Handler:        handlers.InitRoutes(),
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second * 10,
		WriteTimeout:   time.Second * 10,
	}
	go func() {
		if err := srv.Run(serverConfig); err != nil {
			logger.Sugar().Errorf("http server stopped: %s", err.Error())
		}
	}()

	logger.Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("failed to shut down http server: %s", err.Error())
	}
	db.Close()
}

func loadEnv() error {
	return godotenv.Load()
}

func initConfig() error {
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
