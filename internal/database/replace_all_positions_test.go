package database

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoxlabs/bms-portfolio/internal/models"
)

func TestReplaceAllPositions_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	tradeDate := time.Date(2023, 7, 3, 0, 0, 0, 0, time.UTC)
	positions := []*models.Position{
		{
			Symbol:     "RELIANCE",
			TradeDate:  tradeDate,
			EntryPrice: decimal.NewFromInt(2450),
			Qty:        decimal.NewFromInt(10),
			EntryTime:  tradeDate,
			Status:     models.StatusOpen,
			RunningPnl: models.RunningPnl{"2023-07-03": decimal.NewFromInt(120)},
		},
		{
			Symbol:     "TCS",
			TradeDate:  tradeDate,
			EntryPrice: decimal.NewFromInt(3300),
			Qty:        decimal.NewFromInt(5),
			EntryTime:  tradeDate,
			Status:     models.StatusClosed,
			ExitPrice:  decimal.NewFromInt(3350),
			Pnl:        decimal.NewFromInt(250),
			RunningPnl: models.RunningPnl{"2023-07-04": decimal.NewFromInt(250)},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM positions").WillReturnResult(sqlmock.NewResult(0, 1))

	// Two inserts, one for each position.
	mock.ExpectQuery("INSERT INTO positions").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectQuery("INSERT INTO positions").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(102))

	mock.ExpectCommit()
	// ReplaceAllPositions defers tx.Rollback(), but database/sql short-circuits Rollback after Commit,
	// so the underlying driver rollback is not executed (and sqlmock won't observe it).

	err = db.ReplaceAllPositions(positions)
	require.NoError(t, err)

	assert.Equal(t, 101, positions[0].ID)
	assert.Equal(t, 102, positions[1].ID)
	assert.False(t, positions[0].CreatedAt.IsZero())
	assert.False(t, positions[1].CreatedAt.IsZero())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllPositions_ReturnsErrorIfBeginFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin().WillReturnError(errors.New("begin failed"))

	err = db.ReplaceAllPositions([]*models.Position{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllPositions_ReturnsErrorIfDeleteFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM positions").WillReturnError(errors.New("delete failed"))
	mock.ExpectRollback()

	err = db.ReplaceAllPositions([]*models.Position{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete existing positions")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceAllPositions_ReturnsErrorIfInsertFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db := &DB{conn: sqlDB}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM positions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO positions").WillReturnError(errors.New("insert failed"))
	mock.ExpectRollback()

	positions := []*models.Position{
		{
			Symbol:     "RELIANCE",
			TradeDate:  time.Now(),
			EntryPrice: decimal.NewFromInt(100),
			Qty:        decimal.NewFromInt(1),
			EntryTime:  time.Now(),
			Status:     models.StatusOpen,
			RunningPnl: models.RunningPnl{},
		},
	}
	err = db.ReplaceAllPositions(positions)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert position RELIANCE")

	require.NoError(t, mock.ExpectationsWereMet())
}
