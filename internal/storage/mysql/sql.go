package mysql

const insertHotelSQL = `
INSERT INTO hotels
  (name, address, city, state, zip_code, phone, email, website, description, amenities)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET
  name = ?, address = ?, city = ?, state = ?, zip_code = ?,
  phone = ?, email = ?, website = ?, description = ?, amenities = ?,
  updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

const getHotelSQL = `
SELECT id, name, address, city, state, zip_code, phone, email, website,
       description, amenities, created_at, updated_at
FROM hotels
WHERE id = ?
`

const listHotelsSQL = `
SELECT id, name, address, city, state, zip_code, phone, email, website,
       description, amenities, created_at, updated_at
FROM hotels
ORDER BY created_at DESC, id DESC
`

const insertRoomTypeSQL = `
INSERT INTO room_types
  (hotel_id, name, description, size_sqm, bed_type, bed_count, max_occupancy,
   amenities, bathroom_type, smoking_allowed, price_per_night)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateRoomTypeSQL = `
UPDATE room_types SET
  name = ?, description = ?, size_sqm = ?, bed_type = ?, bed_count = ?,
  max_occupancy = ?, amenities = ?, bathroom_type = ?, smoking_allowed = ?,
  price_per_night = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

// Joined with hotels for the display name, like every room read path.
const getRoomTypeSQL = `
SELECT rt.id, rt.hotel_id, rt.name, rt.description, rt.size_sqm, rt.bed_type,
       rt.bed_count, rt.max_occupancy, rt.amenities, rt.bathroom_type,
       rt.smoking_allowed, rt.price_per_night, rt.created_at, rt.updated_at,
       h.name
FROM room_types rt
LEFT JOIN hotels h ON h.id = rt.hotel_id
WHERE rt.id = ?
`

const insertRoomImageSQL = `
INSERT INTO room_images (room_type_id, image_data, image_type, display_order)
VALUES (?, ?, ?, ?)
`

const listRoomImagesSQL = `
SELECT id, room_type_id, image_data, image_type, display_order, created_at
FROM room_images
WHERE room_type_id = ?
ORDER BY display_order
`

const maxImageOrderSQL = `
SELECT COALESCE(MAX(display_order), 0) FROM room_images WHERE room_type_id = ?
`

const insertReservationSQL = `
INSERT INTO reservations
  (hotel_id, room_type_id, guest_name, guest_email, guest_phone, guest_document,
   check_in_date, check_out_date, number_of_guests, total_amount, status,
   special_requests)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getReservationSQL = `
SELECT r.id, r.hotel_id, r.room_type_id, r.guest_name, r.guest_email,
       r.guest_phone, r.guest_document, r.check_in_date, r.check_out_date,
       r.number_of_guests, r.total_amount, r.status, r.special_requests,
       r.created_at, r.updated_at, h.name, rt.name
FROM reservations r
JOIN hotels h ON h.id = r.hotel_id
JOIN room_types rt ON rt.id = r.room_type_id
WHERE r.id = ?
`

const updateReservationSQL = `
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
WHERE id = ?
`

const updateReservationStatusSQL = `
UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

// Half-open interval intersection: existing.check_in < new.check_out AND
// existing.check_out > new.check_in. Touching boundaries do not collide.
const countConflictsSQL = `
SELECT COUNT(*)
FROM reservations
WHERE hotel_id = ? AND room_type_id = ?
  AND status IN ('pending', 'confirmed')
  AND check_in_date < ? AND check_out_date > ?
`

// Same predicate with a locking read; used inside the create-reservation
// transaction so concurrent overlapping inserts serialize on the rows.
const countConflictsForUpdateSQL = countConflictsSQL + ` FOR UPDATE`

const countRoomTypesByHotelSQL = `SELECT COUNT(*) FROM room_types WHERE hotel_id = ?`
const countReservationsByHotelSQL = `SELECT COUNT(*) FROM reservations WHERE hotel_id = ?`
const countReservationsByRoomTypeSQL = `SELECT COUNT(*) FROM reservations WHERE room_type_id = ?`
