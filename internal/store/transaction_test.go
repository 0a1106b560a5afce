package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	errFn := errors.New("check-in rejected")
	errDriver := errors.New("connection lost")

	cases := []struct {
		name      string
		expect    func(sqlmock.Sqlmock)
		fn        TxFn
		wantIs    []error
		wantInMsg string
	}{
		{
			name: "commits on success",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("UPDATE habits").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "UPDATE habits SET current_streak = 0")
				return err
			},
		},
		{
			name: "rolls back when fn fails",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback()
			},
			fn:     func(context.Context, *sql.Tx) error { return errFn },
			wantIs: []error{errFn},
		},
		{
			name: "begin failure skips fn",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin().WillReturnError(errDriver)
			},
			fn: func(context.Context, *sql.Tx) error {
				return errors.New("fn must not run")
			},
			wantIs:    []error{errDriver, ErrTransactionFailed},
			wantInMsg: "failed to begin transaction",
		},
		{
			name: "commit failure",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectCommit().WillReturnError(errDriver)
			},
			fn:     func(context.Context, *sql.Tx) error { return nil },
			wantIs: []error{errDriver, ErrTransactionFailed},
		},
		{
			name: "rollback failure keeps original error",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectRollback().WillReturnError(errDriver)
			},
			fn:        func(context.Context, *sql.Tx) error { return errFn },
			wantIs:    []error{errFn},
			wantInMsg: "rollback failed",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tc.expect(mock)

			err = RunInTransaction(context.Background(), db, tc.fn)
			if len(tc.wantIs) == 0 {
				assert.NoError(t, err)
			}
			for _, target := range tc.wantIs {
				assert.ErrorIs(t, err, target)
			}
			if tc.wantInMsg != "" {
				assert.ErrorContains(t, err, tc.wantInMsg)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_PanicRollsBack(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "streak overflow", func() {
		_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			panic("streak overflow")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeTx struct {
	committed, rolledBack bool
	commitErr             error
}

func (f *fakeTx) Commit() error   { f.committed = true; return f.commitErr }
func (f *fakeTx) Rollback() error { f.rolledBack = true; return nil }

func TestRunInTx_AnyTransactionType(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ok := &fakeTx{}
	err := RunInTx(ctx, func(context.Context) (*fakeTx, error) { return ok, nil },
		func(_ context.Context, tx *fakeTx) error {
			assert.Same(t, ok, tx)
			return nil
		})
	require.NoError(t, err)
	assert.True(t, ok.committed)
	assert.False(t, ok.rolledBack)

	failed := &fakeTx{}
	errFn := errors.New("habit locked")
	err = RunInTx(ctx, func(context.Context) (*fakeTx, error) { return failed, nil },
		func(context.Context, *fakeTx) error { return errFn })
	assert.ErrorIs(t, err, errFn)
	assert.True(t, failed.rolledBack)
	assert.False(t, failed.committed)

	errBegin := errors.New("database is locked")
	err = RunInTx(ctx, func(context.Context) (*fakeTx, error) { return nil, errBegin },
		func(context.Context, *fakeTx) error { return nil })
	assert.ErrorIs(t, err, errBegin)
	assert.ErrorIs(t, err, ErrTransactionFailed)
}
