package postgres

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func strPtr(s string) *string { return &s }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const (
	productID = "0b6c5b0e-7a43-4b8e-9a51-1f3d0c9e2a10"
	adminID   = "5f0e7c1a-1c2d-4e3f-8a9b-0c1d2e3f4a5b"
	userID    = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	reviewID  = "3c2b1a09-8f7e-4d6c-9b5a-4f3e2d1c0b9a"
)
