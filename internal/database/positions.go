package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/algoxlabs/bms-portfolio/internal/models"
)

// CreatePosition inserts a new position record
func (db *DB) CreatePosition(p *models.Position) error {
	runningPnl, err := json.Marshal(p.RunningPnl)
	if err != nil {
		return fmt.Errorf("failed to marshal running_pnl: %w", err)
	}

	query := `
		INSERT INTO positions (
			symbol, trade_date, entry_price, qty, entry_time, status,
			exit_price, exit_time, pnl, running_pnl, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	now := time.Now()
	err = db.conn.QueryRow(query,
		p.Symbol, p.TradeDate, p.EntryPrice, p.Qty, p.EntryTime, p.Status,
		nullDecimal(p, p.ExitPrice), p.ExitTime, nullDecimal(p, p.Pnl), runningPnl, now, now,
	).Scan(&p.ID)

	if err != nil {
		return fmt.Errorf("failed to create position: %w", err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// nullDecimal maps CLOSED-only decimal fields to NULL for open positions
func nullDecimal(p *models.Position, d decimal.Decimal) interface{} {
	if !p.IsClosed() {
		return nil
	}
	return d
}

// GetPositionByID retrieves a position by ID
func (db *DB) GetPositionByID(id int) (*models.Position, error) {
	query := `
		SELECT id, symbol, trade_date, entry_price, qty, entry_time, status,
		       exit_price, exit_time, pnl, running_pnl, created_at, updated_at
		FROM positions
		WHERE id = $1
	`
	return db.scanSinglePosition(db.conn.QueryRow(query, id))
}

// GetAllPositions retrieves every position, oldest trade first. This is the
// snapshot the analytics pipeline recomputes from.
func (db *DB) GetAllPositions() ([]*models.Position, error) {
	query := `
		SELECT id, symbol, trade_date, entry_price, qty, entry_time, status,
		       exit_price, exit_time, pnl, running_pnl, created_at, updated_at
		FROM positions
		ORDER BY trade_date ASC, id ASC
	`
	return db.scanPositions(db.conn.Query(query))
}

// GetPositionsByStatus retrieves positions filtered by OPEN/CLOSED status
func (db *DB) GetPositionsByStatus(status string) ([]*models.Position, error) {
	query := `
		SELECT id, symbol, trade_date, entry_price, qty, entry_time, status,
		       exit_price, exit_time, pnl, running_pnl, created_at, updated_at
		FROM positions
		WHERE status = $1
		ORDER BY trade_date ASC, id ASC
	`
	return db.scanPositions(db.conn.Query(query, status))
}

// ReplaceAllPositions atomically replaces the position set with a fresh
// snapshot from the trading engine
func (db *DB) ReplaceAllPositions(positions []*models.Position) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM positions`); err != nil {
		return fmt.Errorf("failed to delete existing positions: %w", err)
	}

	query := `
		INSERT INTO positions (
			symbol, trade_date, entry_price, qty, entry_time, status,
			exit_price, exit_time, pnl, running_pnl, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	now := time.Now()
	for _, p := range positions {
		runningPnl, err := json.Marshal(p.RunningPnl)
		if err != nil {
			return fmt.Errorf("failed to marshal running_pnl for %s: %w", p.Symbol, err)
		}
		err = tx.QueryRow(query,
			p.Symbol, p.TradeDate, p.EntryPrice, p.Qty, p.EntryTime, p.Status,
			nullDecimal(p, p.ExitPrice), p.ExitTime, nullDecimal(p, p.Pnl), runningPnl, now, now,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("failed to insert position %s: %w", p.Symbol, err)
		}
		p.CreatedAt = now
		p.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) scanSinglePosition(row *sql.Row) (*models.Position, error) {
	var p models.Position
	var exitPrice, pnl sql.NullString
	var exitTime sql.NullTime
	var runningPnl []byte

	err := row.Scan(
		&p.ID, &p.Symbol, &p.TradeDate, &p.EntryPrice, &p.Qty, &p.EntryTime, &p.Status,
		&exitPrice, &exitTime, &pnl, &runningPnl, &p.CreatedAt, &p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("position not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}

	if err := fillNullableFields(&p, exitPrice, exitTime, pnl, runningPnl); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) scanPositions(rows *sql.Rows, err error) ([]*models.Position, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []*models.Position
	for rows.Next() {
		var p models.Position
		var exitPrice, pnl sql.NullString
		var exitTime sql.NullTime
		var runningPnl []byte

		err := rows.Scan(
			&p.ID, &p.Symbol, &p.TradeDate, &p.EntryPrice, &p.Qty, &p.EntryTime, &p.Status,
			&exitPrice, &exitTime, &pnl, &runningPnl, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}

		if err := fillNullableFields(&p, exitPrice, exitTime, pnl, runningPnl); err != nil {
			return nil, err
		}
		positions = append(positions, &p)
	}

	return positions, nil
}

func fillNullableFields(p *models.Position, exitPrice sql.NullString, exitTime sql.NullTime, pnl sql.NullString, runningPnl []byte) error {
	if exitPrice.Valid {
		p.ExitPrice, _ = decimal.NewFromString(exitPrice.String)
	}
	if exitTime.Valid {
		p.ExitTime = &exitTime.Time
	}
	if pnl.Valid {
		p.Pnl, _ = decimal.NewFromString(pnl.String)
	}
	if len(runningPnl) > 0 {
		if err := json.Unmarshal(runningPnl, &p.RunningPnl); err != nil {
			return fmt.Errorf("failed to unmarshal running_pnl for %s: %w", p.Symbol, err)
		}
	}
	if p.RunningPnl == nil {
		p.RunningPnl = models.RunningPnl{}
	}
	return nil
}
