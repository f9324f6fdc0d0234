package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSQL(t *testing.T) {
	script := `-- users
CREATE TABLE users (
  id SERIAL PRIMARY KEY, -- surrogate
  name TEXT NOT NULL DEFAULT ''
);

INSERT INTO users (name) VALUES ('semi;colon');
INSERT INTO users (name) VALUES ('it''s -- not a comment')`

	statements := splitSQL(script)
	assert.Len(t, statements, 3)
	assert.Contains(t, statements[0], "CREATE TABLE users")
	assert.NotContains(t, statements[0], "surrogate")
	assert.Equal(t, "INSERT INTO users (name) VALUES ('semi;colon');", statements[1])
	assert.Equal(t, "INSERT INTO users (name) VALUES ('it''s -- not a comment')", statements[2])
}

func TestSplitSQL_Empty(t *testing.T) {
	assert.Empty(t, splitSQL("-- nothing here\n\n"))
}
