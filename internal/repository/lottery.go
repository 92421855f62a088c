package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/prizedraw/internal/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ==================== Epoch Methods ====================

func currentEpoch(ctx context.Context, q queryer) (*models.Epoch, error) {
	var e models.Epoch
	var status string
	err := q.QueryRowContext(ctx,
		`SELECT id, number, status, created_at FROM epochs ORDER BY id DESC LIMIT 1`).
		Scan(&e.ID, &e.Number, &status, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Status = models.EpochStatus(status)
	return &e, nil
}

// CurrentEpoch returns the epoch with the highest id
func (r *Repository) CurrentEpoch(ctx context.Context) (*models.Epoch, error) {
	return currentEpoch(ctx, r.db)
}

// AdvanceEpoch opens epoch number+1. The current epoch must be open.
func (r *Repository) AdvanceEpoch(ctx context.Context) (*models.Epoch, error) {
	var next *models.Epoch
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := currentEpoch(ctx, tx)
		if err != nil {
			return err
		}
		if !cur.IsOpen() {
			return ErrEpochNotOpen
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO epochs (number, status) VALUES (?, ?)`, cur.Number+1, models.EpochOpen); err != nil {
			return err
		}
		next, err = currentEpoch(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// SetEpochStatus opens or closes the current epoch
func (r *Repository) SetEpochStatus(ctx context.Context, status models.EpochStatus) (*models.Epoch, error) {
	var updated *models.Epoch
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := currentEpoch(ctx, tx)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE epochs SET status = ? WHERE id = ?`, status, cur.ID); err != nil {
			return err
		}
		cur.Status = status
		updated = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ==================== Draw Methods ====================

// CandidatePool returns every participant annotated with the stats the
// eligibility rules need for awardID in epoch.
func (r *Repository) CandidatePool(ctx context.Context, awardID, epoch int) ([]models.PoolEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+participantColumns+`,
			COALESCE((SELECT MAX(w.epoch) FROM winners w WHERE w.participant_id = p.id), 0) AS last_win_epoch,
			EXISTS (SELECT 1 FROM winners w WHERE w.participant_id = p.id AND w.epoch = ?) AS won_this_epoch,
			EXISTS (SELECT 1 FROM winners w WHERE w.participant_id = p.id AND w.award_id = ?) AS won_this_award
		FROM participants p
		ORDER BY p.id`, epoch, awardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []models.PoolEntry
	for rows.Next() {
		var e models.PoolEntry
		if err := scanParticipant(rows, &e.Participant, &e.LastWinEpoch, &e.WonThisEpoch, &e.WonThisAward); err != nil {
			return nil, err
		}
		pool = append(pool, e)
	}
	return pool, rows.Err()
}

// CommitDraw records one win per participant for awardID in epoch and
// consumes one unit of inventory for each, all in a single transaction.
// Any failure rolls back every win of the request.
func (r *Repository) CommitDraw(ctx context.Context, awardID, epoch int, participantIDs []int) ([]models.Winner, error) {
	var winnerIDs []int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := currentEpoch(ctx, tx)
		if err != nil {
			return err
		}
		if cur.Number != epoch || !cur.IsOpen() {
			return ErrEpochNotOpen
		}

		var level int
		if err := tx.QueryRowContext(ctx, `SELECT level FROM awards WHERE id = ?`, awardID).Scan(&level); err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound
			}
			return err
		}

		now := time.Now().UTC()
		for _, pid := range participantIDs {
			res, err := tx.ExecContext(ctx,
				`UPDATE awards SET remaining_count = remaining_count - 1 WHERE id = ? AND remaining_count > 0`, awardID)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return ErrInventoryConflict
			}

			res, err = tx.ExecContext(ctx,
				`INSERT INTO winners (participant_id, award_id, epoch, claim_code, draw_time) VALUES (?, ?, ?, ?, ?)`,
				pid, awardID, epoch, uuid.New().String(), now)
			if err != nil {
				if isUniqueViolation(err) {
					return ErrDuplicateWin
				}
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			winnerIDs = append(winnerIDs, id)

			res, err = tx.ExecContext(ctx, `
				UPDATE participants
				SET win_count = win_count + 1,
					highest_award_level = MIN(highest_award_level, ?),
					has_won = 1
				WHERE id = ? AND win_count < 3`, level, pid)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n == 0 {
				return ErrWinCapReached
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	winners := make([]models.Winner, 0, len(winnerIDs))
	for _, id := range winnerIDs {
		w, err := r.GetWinner(ctx, int(id))
		if err != nil {
			return nil, err
		}
		winners = append(winners, *w)
	}
	return winners, nil
}

// RevokeWinner deletes a winner, returns the unit to inventory and
// recomputes the participant's stats from the wins that remain.
func (r *Repository) RevokeWinner(ctx context.Context, winnerID int) (*models.Winner, error) {
	revoked, err := r.GetWinner(ctx, winnerID)
	if err != nil {
		return nil, err
	}

	err = r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM winners WHERE id = ?`, winnerID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE awards SET remaining_count = remaining_count + 1 WHERE id = ? AND remaining_count < count`,
			revoked.AwardID); err != nil {
			return err
		}

		var wins, highest int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*), COALESCE(MIN(a.level), ?)
			FROM winners w JOIN awards a ON a.id = w.award_id
			WHERE w.participant_id = ?`, models.NoAwardLevel, revoked.ParticipantID).Scan(&wins, &highest); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE participants SET win_count = ?, highest_award_level = ?, has_won = ? WHERE id = ?`,
			wins, highest, wins > 0, revoked.ParticipantID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return revoked, nil
}

// ResetLottery deletes every winner, restores all inventory, clears all
// participant win history and returns to epoch 1, open.
func (r *Repository) ResetLottery(ctx context.Context) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		statements := []struct {
			query string
			args  []any
		}{
			{`DELETE FROM winners`, nil},
			{`UPDATE awards SET remaining_count = count`, nil},
			{`UPDATE participants SET win_count = 0, highest_award_level = ?, has_won = 0`, []any{models.NoAwardLevel}},
			{`DELETE FROM epochs`, nil},
			{`INSERT INTO epochs (number, status) VALUES (1, ?)`, []any{models.EpochOpen}},
		}
		for _, s := range statements {
			if _, err := tx.ExecContext(ctx, s.query, s.args...); err != nil {
				return err
			}
		}
		return nil
	})
}

// ==================== Winner Methods ====================

const winnerSelect = `
	SELECT w.id, w.participant_id, w.award_id, w.epoch, w.claim_code, w.draw_time,
		p.name, p.department, a.name, a.level
	FROM winners w
	JOIN participants p ON p.id = w.participant_id
	JOIN awards a ON a.id = w.award_id`

func scanWinner(row interface{ Scan(...any) error }, w *models.Winner) error {
	return row.Scan(&w.ID, &w.ParticipantID, &w.AwardID, &w.Epoch, &w.ClaimCode, &w.DrawTime,
		&w.ParticipantName, &w.Department, &w.AwardName, &w.AwardLevel)
}

// GetWinner retrieves a winner with participant and award details
func (r *Repository) GetWinner(ctx context.Context, id int) (*models.Winner, error) {
	var w models.Winner
	err := scanWinner(r.db.QueryRowContext(ctx, winnerSelect+` WHERE w.id = ?`, id), &w)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWinners returns winners newest first, optionally for one award
func (r *Repository) ListWinners(ctx context.Context, awardID *int) ([]models.Winner, error) {
	query := winnerSelect
	var args []any
	if awardID != nil {
		query += ` WHERE w.award_id = ?`
		args = append(args, *awardID)
	}
	query += ` ORDER BY w.draw_time DESC, w.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var winners []models.Winner
	for rows.Next() {
		var w models.Winner
		if err := scanWinner(rows, &w); err != nil {
			return nil, err
		}
		winners = append(winners, w)
	}
	return winners, rows.Err()
}

// CountWinners returns the number of winner records
func (r *Repository) CountWinners(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM winners`).Scan(&count)
	return count, err
}

// WinDistribution counts participants by number of wins
func (r *Repository) WinDistribution(ctx context.Context) (models.WinDistribution, error) {
	var d models.WinDistribution
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN win_count = 0 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN win_count = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN win_count = 2 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN win_count >= 3 THEN 1 ELSE 0 END), 0)
		FROM participants`).Scan(&d.Total, &d.ZeroWins, &d.OneWin, &d.TwoWins, &d.ThreeWins)
	return d, err
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
