package seats

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateSeats(ctx context.Context, layout []Seat) error
	GetSeatsByAircraft(ctx context.Context, aircraftID uuid.UUID) ([]Seat, error)
	GetSeatByNumber(ctx context.Context, aircraftID uuid.UUID, seatNumber string) (*Seat, error)
	SetBlocked(ctx context.Context, aircraftID uuid.UUID, seatNumber string, blocked bool) error
	CountByAircraft(ctx context.Context, aircraftID uuid.UUID) (int64, error)
	DeleteSeatsForAircraft(ctx context.Context, aircraftID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSeats(ctx context.Context, layout []Seat) error {
	if len(layout) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(layout, 200).Error
}

func (r *repository) GetSeatsByAircraft(ctx context.Context, aircraftID uuid.UUID) ([]Seat, error) {
	var layout []Seat
	err := r.db.WithContext(ctx).
		Where("aircraft_id = ?", aircraftID).
		Order("row ASC, letter ASC").
		Find(&layout).Error
	return layout, err
}

func (r *repository) GetSeatByNumber(ctx context.Context, aircraftID uuid.UUID, seatNumber string) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).
		Where("aircraft_id = ? AND seat_number = ?", aircraftID, seatNumber).
		First(&seat).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) SetBlocked(ctx context.Context, aircraftID uuid.UUID, seatNumber string, blocked bool) error {
	result := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("aircraft_id = ? AND seat_number = ?", aircraftID, seatNumber).
		Update("blocked", blocked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountByAircraft(ctx context.Context, aircraftID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("aircraft_id = ?", aircraftID).
		Count(&count).Error
	return count, err
}

func (r *repository) DeleteSeatsForAircraft(ctx context.Context, aircraftID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("aircraft_id = ?", aircraftID).
		Delete(&Seat{}).Error
}
