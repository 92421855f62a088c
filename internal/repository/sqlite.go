package repository

import (
	"context"
	"database/sql"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/prizedraw/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}
	// Let store I/O wait out a concurrent writer instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			employee_id TEXT UNIQUE,
			weight REAL NOT NULL DEFAULT 100,
			win_count INTEGER NOT NULL DEFAULT 0 CHECK (win_count BETWEEN 0 AND 3),
			highest_award_level INTEGER NOT NULL DEFAULT 100,
			has_won BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS awards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			level INTEGER NOT NULL CHECK (level >= 1),
			count INTEGER NOT NULL CHECK (count >= 0),
			remaining_count INTEGER NOT NULL,
			draw_count INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK (remaining_count BETWEEN 0 AND count)
		)`,
		`CREATE TABLE IF NOT EXISTS epochs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'open',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS winners (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			participant_id INTEGER NOT NULL,
			award_id INTEGER NOT NULL,
			epoch INTEGER NOT NULL,
			claim_code TEXT UNIQUE NOT NULL,
			draw_time DATETIME NOT NULL,
			FOREIGN KEY (participant_id) REFERENCES participants(id) ON DELETE CASCADE,
			FOREIGN KEY (award_id) REFERENCES awards(id) ON DELETE CASCADE,
			UNIQUE(participant_id, award_id),
			UNIQUE(participant_id, epoch)
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_winners_award ON winners(award_id)`,
		`CREATE INDEX IF NOT EXISTS idx_winners_epoch ON winners(epoch)`,
		`CREATE INDEX IF NOT EXISTS idx_participants_department ON participants(department)`,
	}

	additionalMigrations := []string{
		`ALTER TABLE participants ADD COLUMN employee_id TEXT`,
		`ALTER TABLE awards ADD COLUMN description TEXT`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	for _, migration := range additionalMigrations {
		r.db.Exec(migration) // Ignore errors - columns may already exist
	}

	// The first epoch exists from the start
	if _, err := r.db.Exec(`INSERT INTO epochs (number, status)
		SELECT 1, 'open' WHERE NOT EXISTS (SELECT 1 FROM epochs)`); err != nil {
		return err
	}

	// Insert default settings if not exists
	// Note: base_url is intentionally not set here - it's set by app.go
	// with the detected LAN IP address on startup
	mw := models.DefaultMultiWinConfig()
	sys := models.DefaultSystemConfig()
	defaultSettings := map[string]string{
		SettingTwoWinPercentage:   strconv.Itoa(mw.TwoWinPercentage),
		SettingThreeWinPercentage: strconv.Itoa(mw.ThreeWinPercentage),
		SettingMinEpochInterval:   strconv.Itoa(mw.MinEpochInterval),
		SettingMultiWinEnabled:    strconv.FormatBool(mw.Enabled),
		SettingCoverageMode:       strconv.FormatBool(mw.CoverageMode),
		SettingWinnerDisplayDelay: strconv.Itoa(sys.WinnerDisplayDelayMS),
	}

	for key, value := range defaultSettings {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// withTx runs fn in a transaction, committing on success and rolling
// back on any error.
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ==================== Participant Methods ====================

const participantColumns = `p.id, p.name, p.department, p.employee_id, p.weight,
	p.win_count, p.highest_award_level, p.has_won`

func scanParticipant(row interface{ Scan(...any) error }, p *models.Participant, extra ...any) error {
	var employeeID sql.NullString
	dest := []any{&p.ID, &p.Name, &p.Department, &employeeID, &p.Weight,
		&p.WinCount, &p.HighestAwardLevel, &p.HasWon}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}
	p.EmployeeID = employeeID.String
	return nil
}

// ListParticipants returns every participant ordered by id
func (r *Repository) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+participantColumns+` FROM participants p ORDER BY p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		if err := scanParticipant(rows, &p); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// GetParticipant retrieves a participant by id
func (r *Repository) GetParticipant(ctx context.Context, id int) (*models.Participant, error) {
	var p models.Participant
	err := scanParticipant(r.db.QueryRowContext(ctx,
		`SELECT `+participantColumns+` FROM participants p WHERE p.id = ?`, id), &p)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateParticipant inserts a participant with no win history
func (r *Repository) CreateParticipant(ctx context.Context, p models.Participant) (int64, error) {
	var employeeID sql.NullString
	if p.EmployeeID != "" {
		employeeID = sql.NullString{String: p.EmployeeID, Valid: true}
	}
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO participants (name, department, employee_id, weight, highest_award_level) VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Department, employeeID, p.Weight, models.NoAwardLevel)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CountParticipants returns the number of participants
func (r *Repository) CountParticipants(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&count)
	return count, err
}

// ==================== Award Methods ====================

const awardColumns = `id, name, description, level, count, remaining_count, draw_count`

func scanAward(row interface{ Scan(...any) error }, a *models.Award) error {
	var description sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &description, &a.Level, &a.Count, &a.RemainingCount, &a.DrawCount); err != nil {
		return err
	}
	a.Description = description.String
	return nil
}

// ListAwards returns awards ordered by level then id
func (r *Repository) ListAwards(ctx context.Context) ([]models.Award, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+awardColumns+` FROM awards ORDER BY level, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []models.Award
	for rows.Next() {
		var a models.Award
		if err := scanAward(rows, &a); err != nil {
			return nil, err
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

// GetAward retrieves an award by id
func (r *Repository) GetAward(ctx context.Context, id int) (*models.Award, error) {
	var a models.Award
	err := scanAward(r.db.QueryRowContext(ctx, `SELECT `+awardColumns+` FROM awards WHERE id = ?`, id), &a)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAward inserts an award with its full inventory remaining
func (r *Repository) CreateAward(ctx context.Context, a models.Award) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO awards (name, description, level, count, remaining_count, draw_count) VALUES (?, ?, ?, ?, ?, ?)`,
		a.Name, a.Description, a.Level, a.Count, a.Count, a.DrawCount)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CountAwards returns the number of awards
func (r *Repository) CountAwards(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM awards`).Scan(&count)
	return count, err
}

// TotalRemaining sums remaining inventory across all awards
func (r *Repository) TotalRemaining(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(remaining_count), 0) FROM awards`).Scan(&total)
	return total, err
}

// ==================== Settings Methods ====================

// Setting keys
const (
	SettingTwoWinPercentage   = "multi_win.two_win_percentage"
	SettingThreeWinPercentage = "multi_win.three_win_percentage"
	SettingMinEpochInterval   = "multi_win.min_epoch_interval"
	SettingMultiWinEnabled    = "multi_win.enabled"
	SettingCoverageMode       = "multi_win.coverage_mode"
	SettingWinnerDisplayDelay = "system.winner_display_delay_ms"
	SettingBaseURL            = "base_url"
)

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// SetSettings updates several settings atomically
func (r *Repository) SetSettings(ctx context.Context, values map[string]string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range values {
			if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}
