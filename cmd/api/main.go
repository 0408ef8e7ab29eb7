package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cafe-sklad-api/internal/cache"
	"cafe-sklad-api/internal/config"
	"cafe-sklad-api/internal/handler"
	"cafe-sklad-api/internal/middleware"
	"cafe-sklad-api/internal/repository"
	"cafe-sklad-api/internal/router"
	"cafe-sklad-api/internal/service"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting sklad API...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// The SQLite file backs whichever repositories are not moved to an
	// external database, so open it lazily and share it.
	var sqliteDB *sql.DB
	openSQLite := func() *sql.DB {
		if sqliteDB != nil {
			return sqliteDB
		}
		if dir := filepath.Dir(cfg.Store.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("Failed to create data directory: %v", err)
			}
		}
		db, err := repository.OpenSQLite(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		log.Printf("SQLite database opened: %s", cfg.Store.Path)
		sqliteDB = db
		return sqliteDB
	}

	// Inventory + history repositories
	var inventoryRepo repository.InventoryRepository
	var historyRepo repository.HistoryRepository
	switch cfg.Store.Type {
	case "postgres", "postgresql":
		pgRepo, err := repository.NewPostgresInventoryRepository(cfg.Store.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		defer pgRepo.Close()
		inventoryRepo = pgRepo
		historyRepo = pgRepo.History()
		log.Println("PostgreSQL inventory repository initialized")
	default: // sqlite
		db := openSQLite()
		inventoryRepo = repository.NewSQLiteInventoryRepository(db)
		historyRepo = repository.NewSQLiteHistoryRepository(db)
		log.Println("SQLite inventory repository initialized")
	}

	// User + profile repository
	var userRepo repository.UserRepository
	if cfg.UsersDB.Type == "mysql" {
		mysqlDB, err := sql.Open("mysql", cfg.UsersDB.MySQLDSN())
		if err == nil {
			mysqlDB.SetMaxOpenConns(10)
			mysqlDB.SetMaxIdleConns(5)
			mysqlDB.SetConnMaxLifetime(5 * time.Minute)
			err = mysqlDB.Ping()
		}
		if err != nil {
			log.Printf("Warning: MySQL connection failed, falling back to SQLite users: %v", err)
		} else {
			repo, err := repository.NewMySQLUserRepository(mysqlDB)
			if err != nil {
				log.Fatalf("Failed to initialize MySQL user repository: %v", err)
			}
			defer mysqlDB.Close()
			userRepo = repo
			log.Println("MySQL user repository initialized")
		}
	}
	if userRepo == nil {
		userRepo = repository.NewSQLiteUserRepository(openSQLite())
		log.Println("SQLite user repository initialized")
	}
	if sqliteDB != nil {
		defer sqliteDB.Close()
	}

	// Session token store
	var sessionStore cache.Store
	if cfg.Session.Store == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.RedisAddress(),
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to in-memory sessions: %v", err)
		} else {
			sessionStore = cache.NewRedisStore(redisClient)
			log.Println("Redis session store initialized")
		}
	}
	if sessionStore == nil {
		memStore := cache.NewMemoryStore()
		defer memStore.Close()
		sessionStore = memStore
		log.Println("In-memory session store initialized")
	}

	// Services
	sessionService := service.NewSessionService(sessionStore, cfg.Session.TTL)
	authService := service.NewAuthService(userRepo, sessionService)
	inventoryService := service.NewInventoryService(inventoryRepo, historyRepo)
	historyService := service.NewHistoryService(historyRepo)

	// Router
	r := router.New(router.Config{
		Handler:          handler.New(cfg.App.Version),
		AuthHandler:      handler.NewAuthHandler(authService),
		InventoryHandler: handler.NewInventoryHandler(inventoryService),
		HistoryHandler:   handler.NewHistoryHandler(historyService),
		ScanHandler:      handler.NewScanHandler(inventoryService),
		AuthMiddleware:   middleware.NewAuth(sessionService),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
