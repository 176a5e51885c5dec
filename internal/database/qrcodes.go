package database

import (
	"context"

	"github.com/google/uuid"
)

const qrCodeColumns = `id, restaurant_id, table_number, qr_code, is_active, is_occupied, created_at`

func scanQRCode(row interface{ Scan(...any) error }) (QRCode, error) {
	var c QRCode
	err := row.Scan(&c.ID, &c.RestaurantID, &c.TableNumber, &c.QrCode,
		&c.IsActive, &c.IsOccupied, &c.CreatedAt)
	return c, err
}

type GetActiveQRCodeByTableParams struct {
	RestaurantID uuid.UUID
	TableNumber  string
}

const getActiveQRCodeByTable = `
SELECT ` + qrCodeColumns + `
FROM qr_codes
WHERE restaurant_id = $1 AND table_number = $2 AND is_active = true`

func (q *Queries) GetActiveQRCodeByTable(ctx context.Context, arg GetActiveQRCodeByTableParams) (QRCode, error) {
	return scanQRCode(q.db.QueryRow(ctx, getActiveQRCodeByTable, arg.RestaurantID, arg.TableNumber))
}

const getQRCode = `SELECT ` + qrCodeColumns + ` FROM qr_codes WHERE id = $1`

func (q *Queries) GetQRCode(ctx context.Context, id uuid.UUID) (QRCode, error) {
	return scanQRCode(q.db.QueryRow(ctx, getQRCode, id))
}

const qrCodeExists = `SELECT EXISTS(SELECT 1 FROM qr_codes WHERE id = $1)`

func (q *Queries) QRCodeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, qrCodeExists, id).Scan(&exists)
	return exists, err
}

const listQRCodesByRestaurant = `
SELECT ` + qrCodeColumns + `
FROM qr_codes
WHERE restaurant_id = $1
ORDER BY table_number`

func (q *Queries) ListQRCodesByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]QRCode, error) {
	rows, err := q.db.Query(ctx, listQRCodesByRestaurant, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []QRCode
	for rows.Next() {
		c, err := scanQRCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

type CreateQRCodeParams struct {
	RestaurantID uuid.UUID
	TableNumber  string
	QrCode       string
}

const createQRCode = `
INSERT INTO qr_codes (restaurant_id, table_number, qr_code)
VALUES ($1, $2, $3)
RETURNING ` + qrCodeColumns

func (q *Queries) CreateQRCode(ctx context.Context, arg CreateQRCodeParams) (QRCode, error) {
	return scanQRCode(q.db.QueryRow(ctx, createQRCode, arg.RestaurantID, arg.TableNumber, arg.QrCode))
}

type SetQRCodeOccupiedParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	IsOccupied   bool
}

const setQRCodeOccupied = `
UPDATE qr_codes SET is_occupied = $3
WHERE id = $1 AND restaurant_id = $2
RETURNING ` + qrCodeColumns

func (q *Queries) SetQRCodeOccupied(ctx context.Context, arg SetQRCodeOccupiedParams) (QRCode, error) {
	return scanQRCode(q.db.QueryRow(ctx, setQRCodeOccupied, arg.ID, arg.RestaurantID, arg.IsOccupied))
}
