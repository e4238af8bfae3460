package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotkit/jot/pkg/core"
)

// The mock-backed tests pin down behavior on the failure paths a real
// database file will not produce on demand.

func TestLoad_QueryErrorServesDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT payload FROM slots WHERE key = \\?").
		WithArgs("notes").
		WillReturnError(fmt.Errorf("database is locked"))

	s := NewWithDB(db, Config{})
	def := core.Notes{{ID: 1, Text: "fallback"}}

	got := s.Load(context.Background(), "notes", def)
	assert.True(t, got.Equal(def), "query failure must serve the default")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_CorruptPayloadServesDefault(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT payload FROM slots WHERE key = \\?").
		WithArgs("notes").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow("{ not a list"))

	s := NewWithDB(db, Config{})
	def := core.Notes{{ID: 1, Text: "fallback"}}

	got := s.Load(context.Background(), "notes", def)
	assert.True(t, got.Equal(def), "corrupt payload must serve the default")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO slots").
		WillReturnError(fmt.Errorf("disk I/O error"))

	s := NewWithDB(db, Config{})
	err = s.Save(context.Background(), "notes", core.Notes{{ID: 1, Text: "doomed"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert slot notes")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_PayloadIsBareArray(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO slots").
		WithArgs("notes", `[{"id":1700000000000,"text":"hello"}]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	s := NewWithDB(db, Config{})
	err = s.Save(context.Background(), "notes", core.Notes{{ID: 1700000000000, Text: "hello"}})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
