package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/database"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// appliedMigration records a SQL file that has already run.
type appliedMigration struct {
	Name      string `gorm:"primaryKey"`
	AppliedAt time.Time
}

func (appliedMigration) TableName() string { return "schema_migrations" }

type Runner struct {
	dbManager *database.Manager
	logger    *logrus.Logger
}

func NewRunner(dbManager *database.Manager, logger *logrus.Logger) *Runner {
	return &Runner{
		dbManager: dbManager,
		logger:    logger,
	}
}

// RunMigrations auto-migrates the models, then applies the .sql files in
// migrationsPath that have not run yet, in lexical order. Each file and its
// schema_migrations row commit together. An empty path skips the SQL step.
func (r *Runner) RunMigrations(migrationsPath string) error {
	r.logger.Info("Starting database migrations...")

	if err := r.dbManager.Migrate(); err != nil {
		return fmt.Errorf("GORM auto-migration failed: %w", err)
	}

	if migrationsPath != "" {
		if err := r.runSQLMigrations(migrationsPath); err != nil {
			return fmt.Errorf("SQL migrations failed: %w", err)
		}
	}

	r.logger.Info("Database migrations completed successfully")
	return nil
}

func (r *Runner) runSQLMigrations(migrationsPath string) error {
	files, err := sqlFiles(migrationsPath)
	if err != nil {
		return err
	}

	db := r.dbManager.DB
	if err := db.AutoMigrate(&appliedMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var applied []appliedMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("failed to load applied migrations: %w", err)
	}
	done := lo.SliceToMap(applied, func(m appliedMigration) (string, struct{}) {
		return m.Name, struct{}{}
	})

	pending := lo.Reject(files, func(name string, _ int) bool {
		_, ok := done[name]
		return ok
	})
	r.logger.WithFields(logrus.Fields{
		"applied": len(files) - len(pending),
		"pending": len(pending),
	}).Info("Checked SQL migrations")

	for _, name := range pending {
		content, err := os.ReadFile(filepath.Join(migrationsPath, name))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := r.execSQL(tx, name, string(content)); err != nil {
				return err
			}
			return tx.Create(&appliedMigration{Name: name, AppliedAt: time.Now()}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", name, err)
		}
		r.logger.WithField("file", name).Info("Migration applied")
	}

	return nil
}

func sqlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.HasSuffix(e.Name(), ".sql")
	})
	sort.Strings(names)
	return names, nil
}

func (r *Runner) execSQL(tx *gorm.DB, name, content string) error {
	// dollar-quoted bodies contain semicolons, so run the file whole
	if strings.Contains(content, "$$") {
		return tx.Exec(removeComments(content)).Error
	}

	for i, stmt := range splitSQLStatements(content) {
		r.logger.WithFields(logrus.Fields{
			"file":      name,
			"statement": i + 1,
		}).Debug("Executing SQL statement")

		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}

func removeComments(sql string) string {
	lines := lo.Reject(strings.Split(sql, "\n"), func(line string, _ int) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "--")
	})
	return strings.Join(lines, "\n")
}

// splitSQLStatements drops comment lines, joins the rest and splits on ';'.
func splitSQLStatements(sql string) []string {
	lines := lo.FilterMap(strings.Split(sql, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != "" && !strings.HasPrefix(line, "--")
	})

	return lo.FilterMap(strings.Split(strings.Join(lines, " "), ";"), func(stmt string, _ int) (string, bool) {
		stmt = strings.TrimSpace(stmt)
		return stmt, stmt != ""
	})
}
