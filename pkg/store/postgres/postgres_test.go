package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/store"
)

func newMock(t *testing.T) (*Backend, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, "storefront"), mock
}

func TestBackend(t *testing.T) {
	ctx := context.Background()

	t.Run("ensure schema", func(t *testing.T) {
		b, mock := newMock(t)
		mock.ExpectExec(schemaSQL).WillReturnResult(sqlmock.NewResult(0, 0))
		require.NoError(t, b.EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("load", func(t *testing.T) {
		b, mock := newMock(t)
		mock.ExpectQuery(loadSQL).WithArgs("storefront").
			WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"user":[]}`)))
		got, err := b.Load(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"user":[]}`, string(got))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("load missing", func(t *testing.T) {
		b, mock := newMock(t)
		mock.ExpectQuery(loadSQL).WithArgs("storefront").WillReturnError(sql.ErrNoRows)
		_, err := b.Load(ctx)
		assert.ErrorIs(t, err, store.ErrNoDocument)
	})

	t.Run("save", func(t *testing.T) {
		b, mock := newMock(t)
		mock.ExpectExec(saveSQL).WithArgs("storefront", `{"user":[]}`).WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, b.Save(ctx, []byte(`{"user":[]}`)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("save error", func(t *testing.T) {
		b, mock := newMock(t)
		connErr := errors.New("connection reset")
		mock.ExpectExec(saveSQL).WillReturnError(connErr)
		assert.ErrorIs(t, b.Save(ctx, []byte(`{}`)), connErr)
	})
}

func TestBackendWithStore(t *testing.T) {
	ctx := context.Background()
	b, mock := newMock(t)
	s := store.New(b)

	mock.ExpectQuery(loadSQL).WithArgs("storefront").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow([]byte(`{"user":[{"id":"C03","email":"a@example.com"}]}`)))
	require.NoError(t, s.Load(ctx))

	mock.ExpectExec(saveSQL).WithArgs("storefront", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 1))
	err := s.Update(ctx, func(doc *store.Document) error {
		assert.Equal(t, "C04", doc.NextUserID())
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
