package benchmark

import (
	"context"

	"github.com/portico-go/portico"
)

type Config struct {
	Host string
	Port int
}

type Logger struct {
	Level string
}

type Database struct {
	Config *Config
	Logger *Logger
}

type Cache struct {
	Logger *Logger
}

type Repository struct {
	DB    *Database
	Cache *Cache
}

type Service struct {
	Repo   *Repository
	Logger *Logger
}

var (
	configPort  = portico.NewPort[*Config]("Config")
	loggerPort  = portico.NewPort[*Logger]("Logger")
	dbPort      = portico.NewPort[*Database]("Database")
	cachePort   = portico.NewPort[*Cache]("Cache")
	repoPort    = portico.NewPort[*Repository]("Repository")
	servicePort = portico.NewPort[*Service]("Service")
)

func chainAdapters() []*portico.Adapter {
	return []*portico.Adapter{
		portico.NewValueAdapter(configPort, &Config{Host: "localhost", Port: 8080}),
		portico.NewValueAdapter(loggerPort, &Logger{Level: "info"}),
		portico.NewAdapter(dbPort, func(ctx context.Context, deps portico.Deps) (*Database, error) {
			return &Database{
				Config: portico.From(deps, configPort),
				Logger: portico.From(deps, loggerPort),
			}, nil
		}, portico.Requires(configPort, loggerPort)),
		portico.NewAdapter(cachePort, func(ctx context.Context, deps portico.Deps) (*Cache, error) {
			return &Cache{Logger: portico.From(deps, loggerPort)}, nil
		}, portico.Requires(loggerPort)),
		portico.NewAdapter(repoPort, func(ctx context.Context, deps portico.Deps) (*Repository, error) {
			return &Repository{
				DB:    portico.From(deps, dbPort),
				Cache: portico.From(deps, cachePort),
			}, nil
		}, portico.Requires(dbPort, cachePort)),
		portico.NewAdapter(servicePort, func(ctx context.Context, deps portico.Deps) (*Service, error) {
			return &Service{
				Repo:   portico.From(deps, repoPort),
				Logger: portico.From(deps, loggerPort),
			}, nil
		}, portico.Requires(repoPort, loggerPort)),
	}
}

func mustGraph(adapters ...*portico.Adapter) *portico.Graph {
	g, err := portico.NewBuilder().MustProvide(adapters...).Build()
	if err != nil {
		panic(err)
	}
	return g
}
