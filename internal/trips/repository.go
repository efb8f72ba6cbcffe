package trips

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)
	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Trip, error)
	GetRouteByID(ctx context.Context, id uuid.UUID) (*Route, error)
	GetBusByID(ctx context.Context, id uuid.UUID) (*Bus, error)
	GetAll(ctx context.Context, query TripListQuery) ([]Trip, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Trip, error) {
	var trip Trip
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Trip, error) {
	var trip Trip
	err := r.db.WithContext(ctx).
		Preload("Route").
		Preload("Bus").
		Where("id = ?", id).
		First(&trip).Error
	if err != nil {
		return nil, err
	}
	return &trip, nil
}

func (r *repository) GetRouteByID(ctx context.Context, id uuid.UUID) (*Route, error) {
	var route Route
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&route).Error
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *repository) GetBusByID(ctx context.Context, id uuid.UUID) (*Bus, error) {
	var bus Bus
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&bus).Error
	if err != nil {
		return nil, err
	}
	return &bus, nil
}

func (r *repository) GetAll(ctx context.Context, query TripListQuery) ([]Trip, int64, error) {
	var out []Trip
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 20
	}

	baseQuery := r.db.WithContext(ctx).Model(&Trip{})

	if query.RouteID != "" {
		if routeID, err := uuid.Parse(query.RouteID); err == nil {
			baseQuery = baseQuery.Where("route_id = ?", routeID)
		}
	}
	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}
	if query.Date != "" {
		if date, err := time.Parse("2006-01-02", query.Date); err == nil {
			baseQuery = baseQuery.Where("travel_date = ?", date)
		}
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Route").
		Preload("Bus").
		Order("travel_date ASC, departure_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&out).Error

	return out, totalCount, err
}
