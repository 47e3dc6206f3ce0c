//go:build unit

package pgconv_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"rental-booking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestPgconv(t *testing.T) {
	t.Run("nullable text", func(t *testing.T) {
		assert.False(t, pgconv.NullableText("").Valid)
		assert.Equal(t, pgtype.Text{String: "refunded", Valid: true}, pgconv.NullableText("refunded"))
		assert.Nil(t, pgconv.StringPtrFromPgtype(pgtype.Text{}))
	})

	t.Run("time pointers", func(t *testing.T) {
		now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		assert.False(t, pgconv.TimePtrToPgtype(nil).Valid)
		assert.Equal(t, now, *pgconv.TimePtrFromPgtype(pgconv.TimePtrToPgtype(&now)))
		assert.Nil(t, pgconv.TimePtrFromPgtype(pgtype.Timestamptz{}))
		assert.False(t, pgconv.OptionalTimeToPgtype(time.Time{}).Valid)
	})

	t.Run("date drops location", func(t *testing.T) {
		tokyo := time.FixedZone("JST", 9*3600)
		d := pgtype.Date{Time: time.Date(2024, 6, 1, 0, 0, 0, 0, tokyo), Valid: true}
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), pgconv.DateFromPgtype(d))
	})

	t.Run("error classification", func(t *testing.T) {
		assert.True(t, pgconv.IsNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
		assert.False(t, pgconv.IsNoRows(errors.New("boom")))

		wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgconv.CodeUniqueViolation})
		assert.Equal(t, pgconv.CodeUniqueViolation, pgconv.PgErrorCode(wrapped))
		assert.Equal(t, "", pgconv.PgErrorCode(errors.New("boom")))
	})
}
