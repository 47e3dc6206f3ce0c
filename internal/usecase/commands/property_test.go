//go:build unit

package commands_test

import (
	"context"
	"testing"

	"rental-booking/internal/domain/property"
	"rental-booking/internal/domain/user"
	"rental-booking/internal/usecase/commands"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyCommands_Create(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		actor     shared.Actor
		propName  string
		rate      int64
		expectErr error
	}{
		{name: "host lists a property", actor: shared.Actor{ID: uuid.New(), Role: user.RoleHost}, propName: "Loft", rate: 9900},
		{name: "guests cannot list", actor: shared.Actor{ID: uuid.New(), Role: user.RoleGuest}, propName: "Loft", rate: 9900, expectErr: commands.ErrForbidden},
		{name: "name required", actor: shared.Actor{ID: uuid.New(), Role: user.RoleHost}, propName: "  ", rate: 9900, expectErr: property.ErrEmptyName},
		{name: "negative rate", actor: shared.Actor{ID: uuid.New(), Role: user.RoleHost}, propName: "Loft", rate: -1, expectErr: property.ErrNegativeRate},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			got, err := f.properties.Create(ctx, commands.CreatePropertyRequest{Host: tc.actor, Name: tc.propName, NightlyRateCents: tc.rate})

			if tc.expectErr != nil {
				require.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.actor.ID, got.HostID())

			snap, err := f.store.CommandReads().PropertyByID(ctx, got.ID())
			require.NoError(t, err)
			assert.Equal(t, tc.rate, snap.NightlyRateCents)
		})
	}
}

func TestPropertyCommands_ChangeRate(t *testing.T) {
	ctx := context.Background()

	t.Run("owner changes the rate", func(t *testing.T) {
		f := newFixture(t, nil)
		pid, hostID := f.seedProperty(t, 8000)

		got, err := f.properties.ChangeRate(ctx, commands.ChangeRateRequest{
			PropertyID:       pid,
			Host:             shared.Actor{ID: hostID, Role: user.RoleHost},
			NightlyRateCents: 9500,
		})
		require.NoError(t, err)
		assert.Equal(t, "95.00", got.NightlyRate().String())
	})

	t.Run("another host is refused", func(t *testing.T) {
		f := newFixture(t, nil)
		pid, _ := f.seedProperty(t, 8000)

		_, err := f.properties.ChangeRate(ctx, commands.ChangeRateRequest{
			PropertyID:       pid,
			Host:             shared.Actor{ID: uuid.New(), Role: user.RoleHost},
			NightlyRateCents: 1,
		})
		require.ErrorIs(t, err, commands.ErrForbidden)
	})

	t.Run("unknown property", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.properties.ChangeRate(ctx, commands.ChangeRateRequest{
			PropertyID:       uuid.New(),
			Host:             shared.Actor{ID: uuid.New(), Role: user.RoleHost},
			NightlyRateCents: 1,
		})
		require.ErrorIs(t, err, commands.ErrPropertyNotFound)
	})
}
