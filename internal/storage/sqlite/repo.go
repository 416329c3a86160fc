package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"plaza_booking/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	tsLayout   = "2006-01-02 15:04:05"
)

// Repo is the SQLite implementation of domain.Store. The pool is pinned to a
// single connection: SQLite has one writer anyway, and serializing the
// conflict-check-plus-insert through it keeps reservations race-free without
// locking reads.
type Repo struct{ db *sql.DB }

func Open(path string) (*Repo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, err
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valDate(p *time.Time) any {
	if p == nil {
		return nil
	}
	return p.Format(dateLayout)
}
func ptrStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}
func ptrF64(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	f := n.Float64
	return &f
}

// SQLite hands timestamps back as text; dates and datetimes both appear.
func parseTime(s string) time.Time {
	for _, layout := range []string{tsLayout, time.RFC3339, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

type rowScanner interface{ Scan(dest ...any) error }

// ---- hotels ----

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	amen, _ := json.Marshal(h.Amenities)
	res, err := r.db.ExecContext(ctx, `
INSERT INTO hotels (name, address, city, state, zip_code, phone, email, website, description, amenities)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.Name, h.Address, h.City, valStr(h.State), valStr(h.ZipCode),
		valStr(h.Phone), valStr(h.Email), valStr(h.Website), valStr(h.Description), string(amen))
	if err != nil {
		return domain.Hotel{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, id)
}

const hotelColumns = `id, name, address, city, state, zip_code, phone, email, website,
description, amenities, created_at, updated_at`

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var state, zip, phone, email, website, desc, amenities sql.NullString
	var created, updated string
	if err := row.Scan(&h.ID, &h.Name, &h.Address, &h.City, &state, &zip,
		&phone, &email, &website, &desc, &amenities, &created, &updated); err != nil {
		if err == sql.ErrNoRows {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	h.State, h.ZipCode, h.Phone = ptrStr(state), ptrStr(zip), ptrStr(phone)
	h.Email, h.Website, h.Description = ptrStr(email), ptrStr(website), ptrStr(desc)
	if amenities.Valid {
		_ = json.Unmarshal([]byte(amenities.String), &h.Amenities)
	}
	h.CreatedAt, h.UpdatedAt = parseTime(created), parseTime(updated)
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return scanHotel(r.db.QueryRowContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE id = ?`, id))
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	if _, err := r.GetHotel(ctx, h.ID); err != nil {
		return domain.Hotel{}, err
	}
	amen, _ := json.Marshal(h.Amenities)
	_, err := r.db.ExecContext(ctx, `
UPDATE hotels SET name = ?, address = ?, city = ?, state = ?, zip_code = ?,
  phone = ?, email = ?, website = ?, description = ?, amenities = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?`,
		h.Name, h.Address, h.City, valStr(h.State), valStr(h.ZipCode),
		valStr(h.Phone), valStr(h.Email), valStr(h.Website), valStr(h.Description),
		string(amen), h.ID)
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, h.ID)
}

func (r *Repo) DeleteHotel(ctx context.Context, id int64) error {
	if _, err := r.GetHotel(ctx, id); err != nil {
		return err
	}
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM room_types WHERE hotel_id = ?) +
		        (SELECT COUNT(*) FROM reservations WHERE hotel_id = ?)`, id, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConstraint
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	return err
}

// ---- room types ----

const roomTypeColumns = `rt.id, rt.hotel_id, rt.name, rt.description, rt.size_sqm,
rt.bed_type, rt.bed_count, rt.max_occupancy, rt.amenities, rt.bathroom_type,
rt.smoking_allowed, rt.price_per_night, rt.created_at, rt.updated_at, h.name`

func scanRoomType(row rowScanner) (domain.RoomType, error) {
	var rt domain.RoomType
	var desc, bedType, bathroom, amenities, hotelName sql.NullString
	var sizeSqm, price sql.NullFloat64
	var created, updated string
	if err := row.Scan(&rt.ID, &rt.HotelID, &rt.Name, &desc, &sizeSqm, &bedType,
		&rt.BedCount, &rt.MaxOccupancy, &amenities, &bathroom, &rt.SmokingAllowed,
		&price, &created, &updated, &hotelName); err != nil {
		if err == sql.ErrNoRows {
			return domain.RoomType{}, domain.ErrNotFound
		}
		return domain.RoomType{}, err
	}
	rt.Description, rt.BedType, rt.BathroomType = ptrStr(desc), ptrStr(bedType), ptrStr(bathroom)
	rt.SizeSqm, rt.PricePerNight, rt.HotelName = ptrF64(sizeSqm), ptrF64(price), ptrStr(hotelName)
	if amenities.Valid {
		_ = json.Unmarshal([]byte(amenities.String), &rt.Amenities)
	}
	rt.CreatedAt, rt.UpdatedAt = parseTime(created), parseTime(updated)
	return rt, nil
}

func (r *Repo) CreateRoomType(ctx context.Context, rt domain.RoomType, images []domain.RoomImage) (domain.RoomType, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.RoomType{}, err
	}
	defer tx.Rollback()

	amen, _ := json.Marshal(rt.Amenities)
	res, err := tx.ExecContext(ctx, `
INSERT INTO room_types (hotel_id, name, description, size_sqm, bed_type, bed_count,
  max_occupancy, amenities, bathroom_type, smoking_allowed, price_per_night)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.HotelID, rt.Name, valStr(rt.Description), valF64(rt.SizeSqm),
		valStr(rt.BedType), rt.BedCount, rt.MaxOccupancy, string(amen),
		valStr(rt.BathroomType), rt.SmokingAllowed, valF64(rt.PricePerNight))
	if err != nil {
		return domain.RoomType{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.RoomType{}, err
	}
	for i, img := range images {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO room_images (room_type_id, image_data, image_type, display_order)
VALUES (?, ?, ?, ?)`, id, img.Data, img.MimeType, i+1); err != nil {
			return domain.RoomType{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.RoomType{}, err
	}
	return r.GetRoomType(ctx, id)
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	rt, err := scanRoomType(r.db.QueryRowContext(ctx, `
SELECT `+roomTypeColumns+`
FROM room_types rt LEFT JOIN hotels h ON h.id = rt.hotel_id
WHERE rt.id = ?`, id))
	if err != nil {
		return domain.RoomType{}, err
	}
	rt.Images, err = r.listImages(ctx, id)
	return rt, err
}

func (r *Repo) listImages(ctx context.Context, roomTypeID int64) ([]domain.RoomImage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, room_type_id, image_data, image_type, display_order, created_at
FROM room_images WHERE room_type_id = ? ORDER BY display_order`, roomTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomImage
	for rows.Next() {
		var img domain.RoomImage
		var created string
		if err := rows.Scan(&img.ID, &img.RoomTypeID, &img.Data, &img.MimeType,
			&img.DisplayOrder, &created); err != nil {
			return nil, err
		}
		img.CreatedAt = parseTime(created)
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repo) ListRoomTypes(ctx context.Context, hotelID *int64) ([]domain.RoomType, error) {
	q := `SELECT ` + roomTypeColumns + `
FROM room_types rt LEFT JOIN hotels h ON h.id = rt.hotel_id`
	var args []any
	if hotelID != nil {
		q += ` WHERE rt.hotel_id = ?`
		args = append(args, *hotelID)
	}
	q += ` ORDER BY rt.created_at DESC, rt.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomType
	for rows.Next() {
		rt, err := scanRoomType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		imgs, err := r.listImages(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Images = imgs
	}
	return out, nil
}

func (r *Repo) UpdateRoomType(ctx context.Context, rt domain.RoomType, removeImageIDs []int64, addImages []domain.RoomImage) (domain.RoomType, error) {
	if _, err := r.GetRoomType(ctx, rt.ID); err != nil {
		return domain.RoomType{}, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.RoomType{}, err
	}
	defer tx.Rollback()

	amen, _ := json.Marshal(rt.Amenities)
	if _, err := tx.ExecContext(ctx, `
UPDATE room_types SET name = ?, description = ?, size_sqm = ?, bed_type = ?,
  bed_count = ?, max_occupancy = ?, amenities = ?, bathroom_type = ?,
  smoking_allowed = ?, price_per_night = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`,
		rt.Name, valStr(rt.Description), valF64(rt.SizeSqm), valStr(rt.BedType),
		rt.BedCount, rt.MaxOccupancy, string(amen), valStr(rt.BathroomType),
		rt.SmokingAllowed, valF64(rt.PricePerNight), rt.ID); err != nil {
		return domain.RoomType{}, err
	}
	for _, imgID := range removeImageIDs {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM room_images WHERE id = ? AND room_type_id = ?`, imgID, rt.ID); err != nil {
			return domain.RoomType{}, err
		}
	}
	if len(removeImageIDs) > 0 {
		if err := compactImageOrder(ctx, tx, rt.ID); err != nil {
			return domain.RoomType{}, err
		}
	}
	if len(addImages) > 0 {
		var next int
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(display_order), 0) FROM room_images WHERE room_type_id = ?`,
			rt.ID).Scan(&next); err != nil {
			return domain.RoomType{}, err
		}
		for _, img := range addImages {
			next++
			if _, err := tx.ExecContext(ctx, `
INSERT INTO room_images (room_type_id, image_data, image_type, display_order)
VALUES (?, ?, ?, ?)`, rt.ID, img.Data, img.MimeType, next); err != nil {
				return domain.RoomType{}, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.RoomType{}, err
	}
	return r.GetRoomType(ctx, rt.ID)
}

func (r *Repo) DeleteRoomType(ctx context.Context, id int64) error {
	if _, err := r.GetRoomType(ctx, id); err != nil {
		return err
	}
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE room_type_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConstraint
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM room_images WHERE room_type_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM room_types WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) DeleteRoomImage(ctx context.Context, roomTypeID, imageID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM room_images WHERE id = ? AND room_type_id = ?`, imageID, roomTypeID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	if err := compactImageOrder(ctx, tx, roomTypeID); err != nil {
		return err
	}
	return tx.Commit()
}

func compactImageOrder(ctx context.Context, tx *sql.Tx, roomTypeID int64) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM room_images WHERE room_type_id = ? ORDER BY display_order, id`, roomTypeID)
	if err != nil {
		return err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE room_images SET display_order = ? WHERE id = ?`, i+1, id); err != nil {
			return err
		}
	}
	return nil
}

// ---- reservations ----

const reservationColumns = `r.id, r.hotel_id, r.room_type_id, r.guest_name,
r.guest_email, r.guest_phone, r.guest_document, r.check_in_date,
r.check_out_date, r.number_of_guests, r.total_amount, r.status,
r.special_requests, r.created_at, r.updated_at, h.name, rt.name`

const reservationJoin = `
FROM reservations r
JOIN hotels h ON h.id = r.hotel_id
JOIN room_types rt ON rt.id = r.room_type_id`

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var rs domain.Reservation
	var phone, doc, special, hotelName, roomName sql.NullString
	var checkIn, checkOut, created, updated, status string
	if err := row.Scan(&rs.ID, &rs.HotelID, &rs.RoomTypeID, &rs.GuestName,
		&rs.GuestEmail, &phone, &doc, &checkIn, &checkOut,
		&rs.NumberOfGuests, &rs.TotalAmount, &status, &special,
		&created, &updated, &hotelName, &roomName); err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}
	rs.GuestPhone, rs.GuestDocument, rs.SpecialRequests = ptrStr(phone), ptrStr(doc), ptrStr(special)
	rs.HotelName, rs.RoomTypeName = ptrStr(hotelName), ptrStr(roomName)
	rs.Status = domain.Status(status)
	rs.CheckIn = domain.DateOnly(parseTime(checkIn))
	rs.CheckOut = domain.DateOnly(parseTime(checkOut))
	rs.CreatedAt, rs.UpdatedAt = parseTime(created), parseTime(updated)
	return rs, nil
}

const countConflictsSQL = `
SELECT COUNT(*) FROM reservations
WHERE hotel_id = ? AND room_type_id = ?
  AND status IN ('pending', 'confirmed')
  AND check_in_date < ? AND check_out_date > ?`

// CreateReservation checks and inserts inside one transaction; the pinned
// single connection means no second writer can interleave between the two.
func (r *Repo) CreateReservation(ctx context.Context, rs domain.Reservation) (domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Reservation{}, err
	}
	defer tx.Rollback()

	var conflicts int
	if err := tx.QueryRowContext(ctx, countConflictsSQL,
		rs.HotelID, rs.RoomTypeID,
		rs.CheckOut.Format(dateLayout), rs.CheckIn.Format(dateLayout)).Scan(&conflicts); err != nil {
		return domain.Reservation{}, err
	}
	if conflicts > 0 {
		return domain.Reservation{}, domain.ErrConflict
	}

	res, err := tx.ExecContext(ctx, `
INSERT INTO reservations (hotel_id, room_type_id, guest_name, guest_email,
  guest_phone, guest_document, check_in_date, check_out_date, number_of_guests,
  total_amount, status, special_requests)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rs.HotelID, rs.RoomTypeID, rs.GuestName, rs.GuestEmail,
		valStr(rs.GuestPhone), valStr(rs.GuestDocument),
		rs.CheckIn.Format(dateLayout), rs.CheckOut.Format(dateLayout),
		rs.NumberOfGuests, rs.TotalAmount, string(rs.Status), valStr(rs.SpecialRequests))
	if err != nil {
		return domain.Reservation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Reservation{}, err
	}
	return r.GetReservation(ctx, id)
}

func (r *Repo) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+reservationJoin+` WHERE r.id = ?`, id))
}

func (r *Repo) ListReservations(ctx context.Context, q domain.ReservationsQuery) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationJoin + ` WHERE 1=1`
	var args []any
	if q.HotelID != nil {
		query += ` AND r.hotel_id = ?`
		args = append(args, *q.HotelID)
	}
	if q.Status != nil {
		query += ` AND r.status = ?`
		args = append(args, string(*q.Status))
	}
	if q.GuestEmail != nil {
		query += ` AND r.guest_email = ?`
		args = append(args, *q.GuestEmail)
	}
	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		rs, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateReservation(ctx context.Context, id int64, p domain.ReservationPatch) (domain.Reservation, error) {
	if _, err := r.GetReservation(ctx, id); err != nil {
		return domain.Reservation{}, err
	}
	var status any
	if p.Status != nil {
		status = string(*p.Status)
	}
	_, err := r.db.ExecContext(ctx, `
UPDATE reservations SET
  guest_name       = COALESCE(?, guest_name),
  guest_email      = COALESCE(?, guest_email),
  guest_phone      = COALESCE(?, guest_phone),
  guest_document   = COALESCE(?, guest_document),
  check_in_date    = COALESCE(?, check_in_date),
  check_out_date   = COALESCE(?, check_out_date),
  number_of_guests = COALESCE(?, number_of_guests),
  total_amount     = COALESCE(?, total_amount),
  status           = COALESCE(?, status),
  special_requests = COALESCE(?, special_requests),
  updated_at       = CURRENT_TIMESTAMP
WHERE id = ?`,
		valStr(p.GuestName), valStr(p.GuestEmail), valStr(p.GuestPhone),
		valStr(p.GuestDocument), valDate(p.CheckIn), valDate(p.CheckOut),
		valInt(p.NumberOfGuests), valF64(p.TotalAmount), status,
		valStr(p.SpecialRequests), id)
	if err != nil {
		return domain.Reservation{}, err
	}
	return r.GetReservation(ctx, id)
}

func (r *Repo) UpdateReservationStatus(ctx context.Context, id int64, s domain.Status) (domain.Reservation, error) {
	if _, err := r.GetReservation(ctx, id); err != nil {
		return domain.Reservation{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(s), id); err != nil {
		return domain.Reservation{}, err
	}
	return r.GetReservation(ctx, id)
}

func (r *Repo) DeleteReservation(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) CountConflicts(ctx context.Context, hotelID, roomTypeID int64, checkIn, checkOut time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countConflictsSQL,
		hotelID, roomTypeID, checkOut.Format(dateLayout), checkIn.Format(dateLayout)).Scan(&n)
	return n, err
}
