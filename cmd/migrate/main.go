package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/infrastructure/migration"
	"github.com/bizsuite/backend/internal/infrastructure/persistence"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("usage")

// dbCommand runs against an open migrator. args excludes the command name.
type dbCommand func(m *migration.Migrator, log *zap.Logger, args []string) error

var dbCommands = map[string]dbCommand{
	"up": func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Up()
	},
	"down": func(m *migration.Migrator, _ *zap.Logger, _ []string) error {
		return m.Down()
	},
	"step": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative: %d", v)
		}
		return m.GoTo(uint(v))
	},
	"version": func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	},
	"force": func(m *migration.Migrator, log *zap.Logger, args []string) error {
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		log.Warn("Forcing migration version", zap.Int("version", v))
		return m.Force(v)
	},
	"drop": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		for _, a := range args {
			if a == "-confirm" || a == "--confirm" {
				return m.Drop()
			}
		}
		return errors.New("drop removes every database object; rerun with -confirm")
	},
}

func main() {
	path := flag.String("path", "", "Path to migrations directory (default: ./migrations)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(log, *path, *logLevel, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		}
		log.Fatal("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
	}
}

func run(log *zap.Logger, path, logLevel string, args []string) error {
	command, rest := args[0], args[1:]
	dir, err := migrationsDir(path)
	if err != nil {
		return err
	}
	log.Info("Migration CLI started", zap.String("command", command), zap.String("migrations_path", dir))

	switch command {
	case "create":
		return create(log, dir, rest)
	case "list":
		return list(log, dir)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if command == "auto" {
		return auto(log, cfg, dir, logLevel)
	}

	cmd, ok := dbCommands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	db, err := sql.Open(sqlDriver(cfg.Database.Driver), cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, cfg.Database.Driver, dir, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return cmd(m, log, rest)
}

// auto creates the model tables through GORM, then applies the versioned
// migrations on the same connection.
func auto(log *zap.Logger, cfg *config.Config, dir, logLevel string) error {
	gdb, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(logLevel)))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = gdb.Close() }()

	if err := migration.SyncSchema(gdb.DB, log); err != nil {
		return fmt.Errorf("sync schema: %w", err)
	}
	sqlDB, err := gdb.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, cfg.Database.Driver, dir, log)
	if err != nil {
		return err
	}
	return m.Up()
}

func create(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: create <name> [description]", errUsage)
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func list(log *zap.Logger, dir string) error {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, n := range names {
		fmt.Println("  -", n)
	}
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}

// migrationsDir resolves the flag value, then ./migrations, then the
// directory two levels above the binary.
func migrationsDir(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}

func sqlDriver(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

func printUsage() {
	fmt.Println(`Business suite database migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  auto                  Create tables from the models, then apply pending migrations
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the current version
  force <version>       Set the version without running migrations
  drop -confirm         Drop every database object
  create <name> [desc]  Create an up/down migration pair
  list                  List migration files

Flags:
  -path string          Migrations directory (default: ./migrations)
  -log-level string     debug, info, warn or error (default: info)

Configuration comes from config.toml and BIZ_DATABASE_* variables
(DRIVER, HOST, PORT, USER, PASSWORD, DBNAME, SSLMODE, PATH).`)
}
