package domain

import "context"

// TransitionFunc decides the next state given the committed row. The
// repository calls it inside the row-locking transaction so the decision is
// always made against current data.
type TransitionFunc func(h *Hotel) error

type HotelRepository interface {
	// Write paths. Each call is one atomic unit: hotel row and room set
	// commit or roll back together.
	CreateHotel(ctx context.Context, h Hotel, rooms []Room) (int64, error)
	UpdateListing(ctx context.Context, hotelID int64, apply TransitionFunc, rooms []Room) (Hotel, error)
	Transition(ctx context.Context, hotelID int64, apply TransitionFunc) (Hotel, error)

	// Read paths
	GetHotel(ctx context.Context, id int64) (Hotel, error)
	GetPublishedDetail(ctx context.Context, id int64) (HotelDetail, error)
	ListByMerchant(ctx context.Context, merchantID int64, status *Status) ([]Hotel, error)
	ListAll(ctx context.Context, status *Status) ([]AdminListing, error)
	Search(ctx context.Context, q SearchQuery) (SearchPage, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// SearchQuery filters published listings. All fields are optional and AND'd;
// the keyword matches title or address.
type SearchQuery struct {
	City     string
	Keyword  string
	MinStar  int
	MaxPrice int64
	Page     int
	PageSize int
}

// Offset returns the first row index for the requested page.
func (q SearchQuery) Offset() int { return (q.Page - 1) * q.PageSize }

type SearchPage struct {
	Items   []Hotel
	Total   int
	HasMore bool
}
