package repository

import (
	"os"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The service tests run on fakes and never touch the DDL, so the column names
// the queries use are asserted against the migration here.
func TestMigrationMatchesParticipantQueries(t *testing.T) {
	ddl, err := os.ReadFile("../../../migrations/001_init.up.sql")
	require.NoError(t, err)

	block := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS event_participants \((.*?)\);`).FindSubmatch(ddl)
	require.NotNil(t, block, "event_participants table missing from migration")

	body := string(block[1])
	assert.Contains(t, body, "event_id")
	assert.Contains(t, body, "user_id")
	assert.Contains(t, body, "PRIMARY KEY (event_id, user_id)")

	// The join table keys participants by user_id everywhere in this package.
	assert.NotContains(t, body, "participant_id")
}
