package commands

import (
	"context"
	"log/slog"

	"rental-booking/internal/domain/booking"
	"rental-booking/internal/domain/property"
	"rental-booking/internal/domain/user"
	"rental-booking/internal/infra"
	"rental-booking/internal/pkg/clock"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=property.go -destination=../../../tests/mock/commands/mock_property_commands.go -package=commandsmock

type CreatePropertyRequest struct {
	Host             shared.Actor
	Name             string
	NightlyRateCents int64
}

type ChangeRateRequest struct {
	PropertyID       uuid.UUID
	Host             shared.Actor
	NightlyRateCents int64
}

type PropertyCommands interface {
	Create(ctx context.Context, req CreatePropertyRequest) (*property.Property, error)
	ChangeRate(ctx context.Context, req ChangeRateRequest) (*property.Property, error)
}

type propertyCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewPropertyCommands(uow shared.UnitOfWork, clock clock.Clock, logger *slog.Logger) PropertyCommands {
	return &propertyCommandsImpl{
		uow:    uow,
		clock:  clock,
		logger: logger,
	}
}

func (p *propertyCommandsImpl) Create(ctx context.Context, req CreatePropertyRequest) (*property.Property, error) {
	if req.Host.Role != user.RoleHost {
		return nil, ErrForbidden
	}

	prop, err := property.NewProperty(req.Host.ID, req.Name, booking.NewMoney(req.NightlyRateCents), p.clock.Now())
	if err != nil {
		return nil, err
	}

	err = p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Properties().Create(ctx, prop)
	})
	if err != nil {
		return nil, p.classify(err)
	}

	p.logger.Info("property created", "property_id", prop.ID(), "host_id", prop.HostID())
	return prop, nil
}

// ChangeRate only affects bookings reserved afterwards; stored booking prices
// are never recomputed.
func (p *propertyCommandsImpl) ChangeRate(ctx context.Context, req ChangeRateRequest) (*property.Property, error) {
	var updated *property.Property
	err := p.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().PropertyByID(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		if snap.HostID != req.Host.ID {
			return ErrForbidden
		}

		prop := snap.ToDomain()
		if err := prop.ChangeRate(booking.NewMoney(req.NightlyRateCents), p.clock.Now()); err != nil {
			return err
		}
		if err := tx.Properties().UpdateRate(ctx, prop); err != nil {
			return err
		}
		updated = prop
		return nil
	})
	if err != nil {
		return nil, p.classify(err)
	}
	return updated, nil
}

func (p *propertyCommandsImpl) classify(err error) error {
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return ErrPropertyNotFound
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, ErrUserNotFound)
	case infra.IsRepositoryError(err):
		p.logger.Error("property persistence failed", "error", err.Error())
		return errs.Mark(err, ErrPersistence)
	default:
		return err
	}
}
