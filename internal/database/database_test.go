package database

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pritamgurung97/Adverts-Nepal/internal/config"
)

type note struct {
	ID   uint `gorm:"primaryKey"`
	Body string
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	log := quietLogger()
	db, err := Open(config.DB{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")}, log)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })

	require.NoError(t, Migrate(db, log, &note{}))
	require.NoError(t, db.Create(&note{Body: "hello"}).Error)

	var got note
	require.NoError(t, db.First(&got).Error)
	assert.Equal(t, "hello", got.Body)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.DB{Driver: "oracle"}, quietLogger())
	require.Error(t, err)
}

func TestMigrateWithoutConnection(t *testing.T) {
	require.Error(t, Migrate(nil, quietLogger()))
}
