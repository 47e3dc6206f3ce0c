package repository

import (
	"context"

	"rental-booking/internal/domain/property"
	"rental-booking/internal/infra"
	"rental-booking/internal/infra/pgsql"
	"rental-booking/internal/infra/repository/converter"
	"rental-booking/internal/pkg/pgconv"
)

//go:generate mockgen -source=property.go -destination=../../../tests/mock/repository/mock_property_queries.go -package=repositorymock

type PropertyWriteQueries interface {
	CreateProperty(ctx context.Context, db pgsql.DBTX, arg pgsql.CreatePropertyParams) error
	UpdatePropertyRate(ctx context.Context, db pgsql.DBTX, arg pgsql.UpdatePropertyRateParams) (int64, error)
}

type PropertyRepository struct {
	queries PropertyWriteQueries
	db      pgsql.DBTX
}

func NewPropertyRepository(queries PropertyWriteQueries, db pgsql.DBTX) *PropertyRepository {
	return &PropertyRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	if err := r.queries.CreateProperty(ctx, r.db, converter.PropertyToCreateParams(p)); err != nil {
		return classifyWriteErr("failed to create property", err)
	}
	return nil
}

func (r *PropertyRepository) UpdateRate(ctx context.Context, p *property.Property) error {
	updated, err := r.queries.UpdatePropertyRate(ctx, r.db, pgsql.UpdatePropertyRateParams{
		ID:               p.ID(),
		NightlyRateCents: p.NightlyRate().Cents(),
		UpdatedAt:        pgconv.TimeToPgtype(p.UpdatedAt()),
	})
	if err != nil {
		return classifyWriteErr("failed to update property rate", err)
	}
	if updated == 0 {
		return infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}
	return nil
}
