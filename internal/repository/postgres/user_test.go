package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRepositories(t *testing.T) {
	db := &Connection{}

	assert.Equal(t, db, NewUserRepository(db).db)
	assert.Equal(t, db, NewPostRepository(db).db)
	assert.Equal(t, db, NewCommentRepository(db).db)
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolation(tt.err))
		})
	}
}

func TestConnection_NilPool(t *testing.T) {
	conn := &Connection{}

	assert.Error(t, conn.Ping(context.Background()))
	assert.NoError(t, conn.Close())
}

func TestPoolOptions(t *testing.T) {
	conf, err := pgxpool.ParseConfig("postgres://user:pw@localhost:5432/db")
	require.NoError(t, err)
	defaultConns := conf.MaxConns

	WithMaxConns(0)(conf)
	assert.Equal(t, defaultConns, conf.MaxConns)

	WithMaxConns(25)(conf)
	WithMaxConnIdleTime(time.Minute)(conf)
	assert.Equal(t, int32(25), conf.MaxConns)
	assert.Equal(t, time.Minute, conf.MaxConnIdleTime)
}

func TestNewConnection_InvalidDSN(t *testing.T) {
	_, err := NewConnection(context.Background(), "postgres://%zz")
	assert.ErrorContains(t, err, "failed to parse postgres dsn")
}
