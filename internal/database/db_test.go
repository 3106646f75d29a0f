package database

import (
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	dsn := DSN("checkin", "s3cret", "db.local", "3306", "event")

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "checkin", cfg.User)
	assert.Equal(t, "s3cret", cfg.Passwd)
	assert.Equal(t, "db.local:3306", cfg.Addr)
	assert.Equal(t, "event", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "UTC", cfg.Loc.String())
}

func TestSchemaDeclaresUniqueCheckInPerUser(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS checkins")
	assert.Contains(t, schema, "UNIQUE KEY uq_checkins_user (user_id)")
	assert.Equal(t, 3, strings.Count(schema, "CREATE TABLE"))
}
