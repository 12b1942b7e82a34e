package dbx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestPingWithTimeout_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	require.NoError(t, PingWithTimeout(context.Background(), db, time.Second))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPingWithTimeout_Error(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	err = PingWithTimeout(context.Background(), db, time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}

type slowPinger struct{}

func (slowPinger) PingContext(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestPingWithTimeout_HonoursDeadline(t *testing.T) {
	start := time.Now()
	err := PingWithTimeout(context.Background(), slowPinger{}, 20*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "no-such-driver", "dsn", time.Second)
	require.Error(t, err)
	require.Contains(t, err.Error(), "open:")
}
