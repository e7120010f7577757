package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/wlw20016/yisu-hotel/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- JSON string-array columns (tags, images) ----

func encodeStrings(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

// decodeStrings tolerates NULL/empty/garbage columns and always yields a
// non-nil slice.
func decodeStrings(b []byte) []string {
	out := []string{}
	if len(b) == 0 {
		return out
	}
	if err := json.Unmarshal(b, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func valReason(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// ---- scanning ----

type rowScanner interface{ Scan(dest ...any) error }

func scanHotel(r rowScanner) (domain.Hotel, error) {
	var (
		h            domain.Hotel
		desc, reason sql.NullString
		tags, images []byte
		status       string
	)
	if err := r.Scan(
		&h.ID, &h.MerchantID, &h.Title, &h.Address, &h.Price, &h.Star,
		&desc, &h.OpeningTime, &tags, &images, &status, &reason, &h.CreatedAt,
	); err != nil {
		return domain.Hotel{}, err
	}
	h.Description = desc.String
	h.Tags = decodeStrings(tags)
	h.Images = decodeStrings(images)
	h.Status = domain.Status(status)
	if reason.Valid {
		s := reason.String
		h.RejectReason = &s
	}
	return h, nil
}

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.Password, string(u.Role))
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 { // duplicate key
			return 0, domain.Validationf("username %q is already taken", u.Username)
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, getUserByUsernameSQL, username)
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

// ---- hotel writes ----

func (r *Repo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func insertRooms(ctx context.Context, tx *sql.Tx, hotelID int64, rooms []domain.Room) error {
	for _, rm := range rooms {
		if _, err := tx.ExecContext(ctx, insertRoomSQL, hotelID, rm.Title, rm.Price, rm.Stock); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) CreateHotel(ctx context.Context, h domain.Hotel, rooms []domain.Room) (int64, error) {
	var id int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertHotelSQL,
			h.MerchantID, h.Title, h.Address, h.Price, h.Star, h.Description,
			h.OpeningTime, encodeStrings(h.Tags), encodeStrings(h.Images),
			string(h.Status), valReason(h.RejectReason),
		)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertRooms(ctx, tx, id, rooms)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// lockAndApply re-reads the row under FOR UPDATE and lets apply decide against
// the committed state, so a concurrent double-approve loses cleanly instead of
// overwriting.
func lockAndApply(ctx context.Context, tx *sql.Tx, hotelID int64, apply domain.TransitionFunc) (domain.Hotel, error) {
	h, err := scanHotel(tx.QueryRowContext(ctx, getHotelForUpdateSQL, hotelID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	if err := apply(&h); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

// UpdateListing rewrites the hotel row and replaces its whole room set in one
// transaction (delete-all, insert-new).
func (r *Repo) UpdateListing(ctx context.Context, hotelID int64, apply domain.TransitionFunc, rooms []domain.Room) (domain.Hotel, error) {
	var out domain.Hotel
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		h, err := lockAndApply(ctx, tx, hotelID, apply)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, updateHotelSQL,
			h.Title, h.Address, h.Price, h.Star, h.Description, h.OpeningTime,
			encodeStrings(h.Tags), encodeStrings(h.Images),
			string(h.Status), valReason(h.RejectReason), h.ID,
		); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteRoomsSQL, h.ID); err != nil {
			return err
		}
		if err := insertRooms(ctx, tx, h.ID, rooms); err != nil {
			return err
		}
		out = h
		return nil
	})
	return out, err
}

func (r *Repo) Transition(ctx context.Context, hotelID int64, apply domain.TransitionFunc) (domain.Hotel, error) {
	var out domain.Hotel
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		h, err := lockAndApply(ctx, tx, hotelID, apply)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, updateStatusSQL,
			string(h.Status), valReason(h.RejectReason), h.ID,
		); err != nil {
			return err
		}
		out = h
		return nil
	})
	return out, err
}

// ---- hotel reads ----

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) GetPublishedDetail(ctx context.Context, id int64) (domain.HotelDetail, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getPublishedHotelSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// missing and unpublished are the same from outside
			return domain.HotelDetail{}, domain.ErrNotFound
		}
		return domain.HotelDetail{}, err
	}

	rows, err := r.db.QueryContext(ctx, listRoomsSQL, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	defer rows.Close()

	detail := domain.HotelDetail{Hotel: h, Rooms: []domain.Room{}}
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.HotelID, &rm.Title, &rm.Price, &rm.Stock); err != nil {
			return domain.HotelDetail{}, err
		}
		detail.Rooms = append(detail.Rooms, rm)
	}
	return detail, rows.Err()
}

func (r *Repo) ListByMerchant(ctx context.Context, merchantID int64, status *domain.Status) ([]domain.Hotel, error) {
	q := listByMerchantSQL
	args := []any{merchantID}
	if status != nil {
		q += " AND status = ?"
		args = append(args, string(*status))
	}
	q += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *Repo) ListAll(ctx context.Context, status *domain.Status) ([]domain.AdminListing, error) {
	q := listAllSQL
	args := []any{}
	if status != nil {
		q += " WHERE h.status = ?"
		args = append(args, string(*status))
	}
	q += " ORDER BY h.created_at DESC, h.id DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AdminListing{}
	for rows.Next() {
		var (
			l            domain.AdminListing
			desc, reason sql.NullString
			tags, images []byte
			status       string
		)
		if err := rows.Scan(
			&l.ID, &l.MerchantID, &l.Title, &l.Address, &l.Price, &l.Star,
			&desc, &l.OpeningTime, &tags, &images, &status, &reason, &l.CreatedAt,
			&l.MerchantName,
		); err != nil {
			return nil, err
		}
		l.Description = desc.String
		l.Tags = decodeStrings(tags)
		l.Images = decodeStrings(images)
		l.Status = domain.Status(status)
		if reason.Valid {
			s := reason.String
			l.RejectReason = &s
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Search serves the public discovery query: published rows only, all filters
// AND'd, keyword against title or address.
func (r *Repo) Search(ctx context.Context, q domain.SearchQuery) (domain.SearchPage, error) {
	where := []string{"status = 'PUBLISHED'"}
	args := []any{}

	if q.City != "" {
		where = append(where, "address LIKE ?")
		args = append(args, "%"+q.City+"%")
	}
	if q.Keyword != "" {
		where = append(where, "(title LIKE ? OR address LIKE ?)")
		kw := "%" + q.Keyword + "%"
		args = append(args, kw, kw)
	}
	if q.MinStar > 0 {
		where = append(where, "star >= ?")
		args = append(args, q.MinStar)
	}
	if q.MaxPrice > 0 {
		where = append(where, "price <= ?")
		args = append(args, q.MaxPrice)
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, searchCount+cond, args...).Scan(&total); err != nil {
		return domain.SearchPage{}, err
	}

	rows, err := r.db.QueryContext(ctx, searchSelect+cond+searchOrderLimit,
		append(args, q.PageSize, q.Offset())...)
	if err != nil {
		return domain.SearchPage{}, err
	}
	defer rows.Close()

	page := domain.SearchPage{Items: []domain.Hotel{}, Total: total}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return domain.SearchPage{}, err
		}
		page.Items = append(page.Items, h)
	}
	if err := rows.Err(); err != nil {
		return domain.SearchPage{}, err
	}
	page.HasMore = q.Page*q.PageSize < total
	return page, nil
}
