package mysql

const insertUserSQL = `
INSERT INTO users (username, password, role)
VALUES (?, ?, ?)
`

const getUserByUsernameSQL = `
SELECT id, username, password, role, created_at
FROM users
WHERE username = ?
`

const insertHotelSQL = `
INSERT INTO hotels
  (merchant_id, title, address, price, star, description, opening_time, tags, images, status, reject_reason)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertRoomSQL = `
INSERT INTO rooms (hotel_id, title, price, stock)
VALUES (?, ?, ?, ?)
`

const deleteRoomsSQL = `
DELETE FROM rooms WHERE hotel_id = ?
`

// hotelColumns is the shared SELECT list; every scanner below expects exactly
// this order.
const hotelColumns = `
  id, merchant_id, title, address, price, star, description, opening_time,
  tags, images, status, reject_reason, created_at
`

const getHotelSQL = `
SELECT ` + hotelColumns + `
FROM hotels
WHERE id = ?
`

// FOR UPDATE so concurrent transitions on the same row serialize and each one
// sees the previously committed status.
const getHotelForUpdateSQL = getHotelSQL + ` FOR UPDATE`

const getPublishedHotelSQL = `
SELECT ` + hotelColumns + `
FROM hotels
WHERE id = ? AND status = 'PUBLISHED'
`

const listRoomsSQL = `
SELECT id, hotel_id, title, price, stock
FROM rooms
WHERE hotel_id = ?
ORDER BY id
`

const updateHotelSQL = `
UPDATE hotels
SET title = ?, address = ?, price = ?, star = ?, description = ?,
    opening_time = ?, tags = ?, images = ?, status = ?, reject_reason = ?
WHERE id = ?
`

const updateStatusSQL = `
UPDATE hotels
SET status = ?, reject_reason = ?
WHERE id = ?
`

const listByMerchantSQL = `
SELECT ` + hotelColumns + `
FROM hotels
WHERE merchant_id = ?
`

const listAllSQL = `
SELECT h.id, h.merchant_id, h.title, h.address, h.price, h.star, h.description,
       h.opening_time, h.tags, h.images, h.status, h.reject_reason, h.created_at,
       u.username
FROM hotels h
JOIN users u ON u.id = h.merchant_id
`

// searchSelect / searchCount share the WHERE clause built in Search. Ordering
// is star DESC with id ASC as the stable tie-breaker so offset pagination is
// deterministic.
const searchSelect = `
SELECT ` + hotelColumns + `
FROM hotels
`

const searchCount = `
SELECT COUNT(*)
FROM hotels
`

const searchOrderLimit = `
ORDER BY star DESC, id ASC
LIMIT ? OFFSET ?
`
