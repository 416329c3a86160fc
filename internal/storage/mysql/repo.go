package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"plaza_booking/internal/domain"
)

const dateLayout = "2006-01-02"

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

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Close() error { return r.db.Close() }

// ---- hotels ----

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	amen, _ := json.Marshal(h.Amenities)
	res, err := r.db.ExecContext(ctx, insertHotelSQL,
		h.Name, h.Address, h.City,
		valStr(h.State), valStr(h.ZipCode), valStr(h.Phone), valStr(h.Email),
		valStr(h.Website), valStr(h.Description), string(amen),
	)
	if err != nil {
		return domain.Hotel{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Hotel{}, err
	}
	return r.GetHotel(ctx, id)
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	return scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
}

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(row rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var state, zip, phone, email, website, desc sql.NullString
	var amenities []byte
	if err := row.Scan(&h.ID, &h.Name, &h.Address, &h.City, &state, &zip,
		&phone, &email, &website, &desc, &amenities, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	h.State, h.ZipCode, h.Phone = ptrStr(state), ptrStr(zip), ptrStr(phone)
	h.Email, h.Website, h.Description = ptrStr(email), ptrStr(website), ptrStr(desc)
	_ = json.Unmarshal(amenities, &h.Amenities)
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
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
	_, err := r.db.ExecContext(ctx, updateHotelSQL,
		h.Name, h.Address, h.City,
		valStr(h.State), valStr(h.ZipCode), valStr(h.Phone), valStr(h.Email),
		valStr(h.Website), valStr(h.Description), string(amen), h.ID,
	)
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
	if err := r.db.QueryRowContext(ctx, countRoomTypesByHotelSQL, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConstraint
	}
	if err := r.db.QueryRowContext(ctx, countReservationsByHotelSQL, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConstraint
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM hotels WHERE id = ?`, id)
	return err
}

// ---- room types ----

func (r *Repo) CreateRoomType(ctx context.Context, rt domain.RoomType, images []domain.RoomImage) (domain.RoomType, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.RoomType{}, err
	}
	defer tx.Rollback()

	amen, _ := json.Marshal(rt.Amenities)
	res, err := tx.ExecContext(ctx, insertRoomTypeSQL,
		rt.HotelID, rt.Name, valStr(rt.Description), valF64(rt.SizeSqm),
		valStr(rt.BedType), rt.BedCount, rt.MaxOccupancy, string(amen),
		valStr(rt.BathroomType), rt.SmokingAllowed, valF64(rt.PricePerNight),
	)
	if err != nil {
		return domain.RoomType{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.RoomType{}, err
	}
	for i, img := range images {
		if _, err := tx.ExecContext(ctx, insertRoomImageSQL, id, img.Data, img.MimeType, i+1); err != nil {
			return domain.RoomType{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.RoomType{}, err
	}
	return r.GetRoomType(ctx, id)
}

func (r *Repo) GetRoomType(ctx context.Context, id int64) (domain.RoomType, error) {
	rt, err := scanRoomType(r.db.QueryRowContext(ctx, getRoomTypeSQL, id))
	if err != nil {
		return domain.RoomType{}, err
	}
	rt.Images, err = r.listImages(ctx, id)
	return rt, err
}

func scanRoomType(row rowScanner) (domain.RoomType, error) {
	var rt domain.RoomType
	var desc, bedType, bathroom, hotelName sql.NullString
	var sizeSqm, price sql.NullFloat64
	var amenities []byte
	if err := row.Scan(&rt.ID, &rt.HotelID, &rt.Name, &desc, &sizeSqm, &bedType,
		&rt.BedCount, &rt.MaxOccupancy, &amenities, &bathroom, &rt.SmokingAllowed,
		&price, &rt.CreatedAt, &rt.UpdatedAt, &hotelName); err != nil {
		if err == sql.ErrNoRows {
			return domain.RoomType{}, domain.ErrNotFound
		}
		return domain.RoomType{}, err
	}
	rt.Description, rt.BedType, rt.BathroomType = ptrStr(desc), ptrStr(bedType), ptrStr(bathroom)
	rt.SizeSqm, rt.PricePerNight, rt.HotelName = ptrF64(sizeSqm), ptrF64(price), ptrStr(hotelName)
	_ = json.Unmarshal(amenities, &rt.Amenities)
	return rt, nil
}

func (r *Repo) listImages(ctx context.Context, roomTypeID int64) ([]domain.RoomImage, error) {
	rows, err := r.db.QueryContext(ctx, listRoomImagesSQL, roomTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomImage
	for rows.Next() {
		var img domain.RoomImage
		if err := rows.Scan(&img.ID, &img.RoomTypeID, &img.Data, &img.MimeType,
			&img.DisplayOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func (r *Repo) ListRoomTypes(ctx context.Context, hotelID *int64) ([]domain.RoomType, error) {
	q := strings.Replace(getRoomTypeSQL, "WHERE rt.id = ?", "", 1)
	args := []any{}
	if hotelID != nil {
		q += " WHERE rt.hotel_id = ?"
		args = append(args, *hotelID)
	}
	q += " ORDER BY rt.created_at DESC, rt.id DESC"

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

// UpdateRoomType updates the row, drops removed images, compacts the order
// sequence, and appends new images inside one transaction.
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
	if _, err := tx.ExecContext(ctx, updateRoomTypeSQL,
		rt.Name, valStr(rt.Description), valF64(rt.SizeSqm), valStr(rt.BedType),
		rt.BedCount, rt.MaxOccupancy, string(amen), valStr(rt.BathroomType),
		rt.SmokingAllowed, valF64(rt.PricePerNight), rt.ID,
	); err != nil {
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
		if err := tx.QueryRowContext(ctx, maxImageOrderSQL, rt.ID).Scan(&next); err != nil {
			return domain.RoomType{}, err
		}
		for _, img := range addImages {
			next++
			if _, err := tx.ExecContext(ctx, insertRoomImageSQL, rt.ID, img.Data, img.MimeType, next); err != nil {
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
	if err := r.db.QueryRowContext(ctx, countReservationsByRoomTypeSQL, id).Scan(&n); err != nil {
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

// CreateReservation locks conflicting rows and inserts in one transaction.
// The locking read closes the check-then-insert race: a concurrent overlapping
// request blocks until this transaction commits, then sees the new row.
func (r *Repo) CreateReservation(ctx context.Context, rs domain.Reservation) (domain.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Reservation{}, err
	}
	defer tx.Rollback()

	var conflicts int
	if err := tx.QueryRowContext(ctx, countConflictsForUpdateSQL,
		rs.HotelID, rs.RoomTypeID,
		rs.CheckOut.Format(dateLayout), rs.CheckIn.Format(dateLayout),
	).Scan(&conflicts); err != nil {
		return domain.Reservation{}, err
	}
	if conflicts > 0 {
		return domain.Reservation{}, domain.ErrConflict
	}

	res, err := tx.ExecContext(ctx, insertReservationSQL,
		rs.HotelID, rs.RoomTypeID, rs.GuestName, rs.GuestEmail,
		valStr(rs.GuestPhone), valStr(rs.GuestDocument),
		rs.CheckIn.Format(dateLayout), rs.CheckOut.Format(dateLayout),
		rs.NumberOfGuests, rs.TotalAmount, string(rs.Status),
		valStr(rs.SpecialRequests),
	)
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
	return scanReservation(r.db.QueryRowContext(ctx, getReservationSQL, id))
}

func scanReservation(row rowScanner) (domain.Reservation, error) {
	var rs domain.Reservation
	var phone, doc, special, hotelName, roomName sql.NullString
	var status string
	if err := row.Scan(&rs.ID, &rs.HotelID, &rs.RoomTypeID, &rs.GuestName,
		&rs.GuestEmail, &phone, &doc, &rs.CheckIn, &rs.CheckOut,
		&rs.NumberOfGuests, &rs.TotalAmount, &status, &special,
		&rs.CreatedAt, &rs.UpdatedAt, &hotelName, &roomName); err != nil {
		if err == sql.ErrNoRows {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}
	rs.GuestPhone, rs.GuestDocument, rs.SpecialRequests = ptrStr(phone), ptrStr(doc), ptrStr(special)
	rs.HotelName, rs.RoomTypeName = ptrStr(hotelName), ptrStr(roomName)
	rs.Status = domain.Status(status)
	rs.CheckIn = domain.DateOnly(rs.CheckIn)
	rs.CheckOut = domain.DateOnly(rs.CheckOut)
	return rs, nil
}

func (r *Repo) ListReservations(ctx context.Context, q domain.ReservationsQuery) ([]domain.Reservation, error) {
	query := strings.Replace(getReservationSQL, "WHERE r.id = ?", "WHERE 1=1", 1)
	var args []any
	if q.HotelID != nil {
		query += " AND r.hotel_id = ?"
		args = append(args, *q.HotelID)
	}
	if q.Status != nil {
		query += " AND r.status = ?"
		args = append(args, string(*q.Status))
	}
	if q.GuestEmail != nil {
		query += " AND r.guest_email = ?"
		args = append(args, *q.GuestEmail)
	}
	query += " ORDER BY r.created_at DESC, r.id DESC"

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
	_, err := r.db.ExecContext(ctx, updateReservationSQL,
		valStr(p.GuestName), valStr(p.GuestEmail), valStr(p.GuestPhone),
		valStr(p.GuestDocument), valDate(p.CheckIn), valDate(p.CheckOut),
		valInt(p.NumberOfGuests), valF64(p.TotalAmount), status,
		valStr(p.SpecialRequests), id,
	)
	if err != nil {
		return domain.Reservation{}, err
	}
	return r.GetReservation(ctx, id)
}

func (r *Repo) UpdateReservationStatus(ctx context.Context, id int64, s domain.Status) (domain.Reservation, error) {
	res, err := r.db.ExecContext(ctx, updateReservationStatusSQL, string(s), id)
	if err != nil {
		return domain.Reservation{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Affected may legitimately be 0 on a same-status no-op; confirm the
		// row exists before reporting not found.
		if _, gerr := r.GetReservation(ctx, id); gerr != nil {
			return domain.Reservation{}, gerr
		}
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
