package models

import (
	"filebin/server/bredis"
	"filebin/server/bsql"
	"filebin/server/cmd"
	"filebin/server/env"
	"filebin/server/logger"
	"filebin/server/models/auth"
	"filebin/server/models/file"
	"filebin/server/models/user"
	"filebin/server/psql"
)

// Models holds all application components
type Models struct {
	db              *bsql.DB
	redisClient     *bredis.Client
	userStore       user.Repository
	fileStore       file.Repository
	revocationStore *auth.TokenRevocationStore
	jwtService      *auth.JWTService
	authHandler     *auth.Handler
	fileHandler     *file.Handler
}

// NewModels creates and initializes all application components
func NewModels(cmdMode bool) *Models {
	m := &Models{}

	if env.E.IsDevelopment() {
		logger.InitDevelopment()
	} else {
		logger.InitProduction()
	}

	// Database is required
	logger.Info("Connecting to PostgreSQL...")

	dbConfigPath := cmd.ResolvePath(env.E.DatabaseConfigFilePath)
	dbConfig, err := bsql.LoadDatabaseConfig(dbConfigPath)
	if err != nil {
		logger.Fatalf("Failed to load database config: %v", err)
	}

	logger.Infof("  Host: %s:%s", dbConfig.Host, dbConfig.Port)
	logger.Infof("  Database: %s", dbConfig.Database)

	m.db = bsql.Open(
		dbConfig.Username,
		dbConfig.Password,
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.Database,
		dbConfig.MaxIdleConnection,
		dbConfig.MaxOpenConnection,
	)

	// Run migrations
	logger.Info("Running database migrations...")
	migPath := cmd.ResolvePath("db/migrations")
	if err := psql.MigrateUp(m.db, migPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional: without it the file listing is uncached and rate
	// limiting is disabled
	m.redisClient = bredis.NewFromConfig(cmd.ResolvePath(env.E.RedisConfigFilePath))
	if m.redisClient == nil {
		logger.Warn("Redis unavailable, running without cache and rate limiting")
	} else {
		logger.Info("Connected to Redis")
	}

	m.userStore = user.NewPostgresRepository(m.db)
	logger.Info("Using PostgreSQL for user storage")

	m.fileStore = file.NewPostgresRepository(m.db)
	logger.Info("Using PostgreSQL for file storage")

	m.revocationStore = auth.NewTokenRevocationStore(m.db)

	jwtConfig := &auth.Config{
		SecretKey:     []byte(env.E.JWTSigningKey),
		TokenDuration: env.E.GetJWTDuration(),
	}
	m.jwtService = auth.NewJWTService(jwtConfig, m.revocationStore)

	m.authHandler = auth.NewHandler(m.userStore, m.jwtService, m.redisClient)
	m.fileHandler = file.NewHandler(m.fileStore, m.redisClient)

	if !cmdMode {
		m.SetupRoutes()
	}

	return m
}

// RunCmd runs command mode
func (m *Models) RunCmd(c string) {
	switch c {
	default:
		logger.Warnf("Unknown command: %s", c)
	}
}
