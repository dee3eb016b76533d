package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"brandscrape/models"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteHandler struct {
	db *sql.DB
}

var sqliteHandler *SQLiteHandler

func InitSQLite(dbPath string) error {
	if dbPath == "" {
		dbPath = "./brandscrape.db"
	}

	log.Printf("Opening SQLite DB at: %s", dbPath)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("can't open db: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Pinging DB to make sure it's alive...")
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping failed: %v", err)
	}
	log.Println("Connected to SQLite DB.")

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	sqliteHandler = &SQLiteHandler{db: db}

	if err := sqliteHandler.createTables(); err != nil {
		return fmt.Errorf("can't create tables: %v", err)
	}
	log.Println("DB tables and indexes checked/created.")

	return nil
}

func GetSQLiteHandler() *SQLiteHandler {
	return sqliteHandler
}

// helper for running stuff in a transaction
func (s *SQLiteHandler) withTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	if err := s.HealthCheck(); err != nil {
		return fmt.Errorf("DB health check failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	var committed bool
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				if !strings.Contains(rbErr.Error(), "already been committed or rolled back") {
					log.Printf("Rollback failed: %v", rbErr)
				}
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}
	committed = true
	return nil
}

func (s *SQLiteHandler) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	createReportsTable := `
	CREATE TABLE IF NOT EXISTS reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		host TEXT NOT NULL,
		stamp TEXT NOT NULL,
		title TEXT,
		h1 TEXT,
		logo_url TEXT,
		report_path TEXT NOT NULL UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	createAssetsTable := `
	CREATE TABLE IF NOT EXISTS report_assets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		requested_url TEXT NOT NULL,
		final_url TEXT,
		path TEXT,
		content_type TEXT,
		bytes INTEGER,
		ok INTEGER NOT NULL,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
	);`

	createIndexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_reports_url ON reports(url);",
		"CREATE INDEX IF NOT EXISTS idx_reports_host ON reports(host);",
		"CREATE INDEX IF NOT EXISTS idx_assets_report_id ON report_assets(report_id);",
		"CREATE INDEX IF NOT EXISTS idx_assets_kind ON report_assets(kind);",
	}

	tables := []string{createReportsTable, createAssetsTable}

	for _, q := range tables {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("can't create table: %v", err)
		}
	}

	for _, q := range createIndexes {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("can't create index: %v", err)
		}
	}

	log.Println("Tables and indexes ready.")
	return nil
}

// batch insert asset rows for one report
func (s *SQLiteHandler) batchInsertAssets(ctx context.Context, tx *sql.Tx, reportID int64, kind string, outcomes []models.DownloadOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO report_assets (report_id, kind, requested_url, final_url, path, content_type, bytes, ok, error) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("can't prepare asset insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range outcomes {
		errText := o.Error
		if errText == "" {
			errText = o.Reason
		}
		if _, err := stmt.ExecContext(ctx, reportID, kind, o.RequestedURL, o.FinalURL, o.Path, o.ContentType, o.Bytes, o.OK, errText); err != nil {
			return fmt.Errorf("can't insert %s asset at %d: %w", kind, i, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

// InsertReport indexes one finished run. The report.json on disk stays
// the source of truth; the rows here just make runs queryable.
func (s *SQLiteHandler) InsertReport(report *models.BrandReport, reportDir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	runID := uuid.NewString()
	var reportID int64

	err := s.withTransaction(ctx, func(tx *sql.Tx) error {
		insertQuery := `
			INSERT INTO reports (run_id, url, host, stamp, title, h1, logo_url, report_path)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id;`

		err := tx.QueryRowContext(ctx, insertQuery,
			runID, report.Meta.URL, report.Meta.Host, report.Meta.ScrapedAt,
			report.Page.Title, report.Page.H1, report.Assets.LogoURL, reportDir,
		).Scan(&reportID)

		if err != nil {
			log.Printf("Can't insert report for %s: %v", report.Meta.URL, err)
			return fmt.Errorf("insert report failed: %w", err)
		}

		if report.Assets.LogoMeta != nil {
			if err := s.batchInsertAssets(ctx, tx, reportID, "logo", []models.DownloadOutcome{*report.Assets.LogoMeta}); err != nil {
				return fmt.Errorf("insert logo asset failed: %w", err)
			}
		}
		if err := s.batchInsertAssets(ctx, tx, reportID, "image", report.Assets.Images); err != nil {
			return fmt.Errorf("insert image assets failed: %w", err)
		}
		if err := s.batchInsertAssets(ctx, tx, reportID, "video", report.Assets.DownloadedVideos); err != nil {
			return fmt.Errorf("insert video assets failed: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("index to SQLite failed: %w", err)
	}

	log.Printf("Indexed report %s (SQLite ID: %d, run: %s)", report.Meta.URL, reportID, runID)
	return nil
}

// ReportSummary is a flat row from the reports table.
type ReportSummary struct {
	RunID      string
	URL        string
	Host       string
	Stamp      string
	Title      string
	LogoURL    string
	ReportPath string
}

// latest runs for one host, newest first
func (s *SQLiteHandler) GetReportsByHost(host string, limit int) ([]ReportSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, url, host, stamp, title, logo_url, report_path
		FROM reports WHERE host = ? ORDER BY id DESC LIMIT ?`, host, limit)
	if err != nil {
		return nil, fmt.Errorf("get reports failed: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.RunID, &r.URL, &r.Host, &r.Stamp, &r.Title, &r.LogoURL, &r.ReportPath); err != nil {
			return nil, fmt.Errorf("scan report failed: %w", err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reports error: %w", err)
	}

	return out, nil
}

func (s *SQLiteHandler) GetReportCount() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("can't get report count: %w", err)
	}
	return count, nil
}

func (s *SQLiteHandler) HealthCheck() error {
	if s == nil || s.db == nil {
		return fmt.Errorf("DB handler or connection is nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var tmp int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&tmp); err != nil {
		return fmt.Errorf("simple query test failed: %w", err)
	}

	return nil
}

func (s *SQLiteHandler) Close() error {
	if s.db != nil {
		log.Println("Closing DB connection...")
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteHandler) GracefulShutdown(timeout time.Duration) error {
	if s.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		log.Println("Shutting down DB...")
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("Error shutting down DB: %v", err)
		} else {
			log.Println("DB closed cleanly")
		}
		return err
	case <-ctx.Done():
		log.Println("DB shutdown timeout, forcing close")
		return fmt.Errorf("DB shutdown timeout")
	}
}
