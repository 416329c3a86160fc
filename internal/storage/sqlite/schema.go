package sqlite

// Schema is applied at open; the SQLite backend is self-migrating since it
// usually starts from an empty file (or :memory: in tests).
const schemaSQL = `
CREATE TABLE IF NOT EXISTS hotels (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  name        TEXT NOT NULL,
  address     TEXT NOT NULL,
  city        TEXT NOT NULL,
  state       TEXT,
  zip_code    TEXT,
  phone       TEXT,
  email       TEXT,
  website     TEXT,
  description TEXT,
  amenities   TEXT,
  created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS room_types (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  hotel_id        INTEGER NOT NULL REFERENCES hotels(id),
  name            TEXT NOT NULL,
  description     TEXT,
  size_sqm        REAL,
  bed_type        TEXT,
  bed_count       INTEGER DEFAULT 1,
  max_occupancy   INTEGER DEFAULT 2,
  amenities       TEXT,
  bathroom_type   TEXT,
  smoking_allowed BOOLEAN DEFAULT 0,
  price_per_night REAL,
  created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at      DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS room_images (
  id            INTEGER PRIMARY KEY AUTOINCREMENT,
  room_type_id  INTEGER NOT NULL REFERENCES room_types(id),
  image_data    TEXT NOT NULL,
  image_type    TEXT NOT NULL,
  display_order INTEGER DEFAULT 1,
  created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reservations (
  id               INTEGER PRIMARY KEY AUTOINCREMENT,
  hotel_id         INTEGER NOT NULL REFERENCES hotels(id),
  room_type_id     INTEGER NOT NULL REFERENCES room_types(id),
  guest_name       TEXT NOT NULL,
  guest_email      TEXT NOT NULL,
  guest_phone      TEXT,
  guest_document   TEXT,
  check_in_date    DATE NOT NULL,
  check_out_date   DATE NOT NULL,
  number_of_guests INTEGER NOT NULL DEFAULT 1,
  total_amount     REAL NOT NULL,
  status           TEXT DEFAULT 'pending',
  special_requests TEXT,
  created_at       DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at       DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reservations_room_dates
  ON reservations (hotel_id, room_type_id, check_in_date, check_out_date);
`
