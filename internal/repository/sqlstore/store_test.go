package sqlstore

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestDialect_Rebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y = ? LIMIT ?"
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2 LIMIT $3", Postgres.rebind(q))
	assert.Equal(t, q, MySQL.rebind(q))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("PostgreSQL")
	assert.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("mysql")
	assert.NoError(t, err)
	assert.Equal(t, MySQL, d)

	_, err = ParseDialect("sqlite")
	assert.Error(t, err)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, isUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
