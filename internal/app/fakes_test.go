package app_test

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/wlw20016/yisu-hotel/internal/domain"
)

// fakeStore mimics the MySQL repository in memory, including the search
// ordering and the delete-all room replacement, so service tests exercise the
// real pipeline semantics.
type fakeStore struct {
	nextID    int64
	hotels    map[int64]*domain.Hotel
	rooms     map[int64][]domain.Room
	usernames map[int64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		hotels:    map[int64]*domain.Hotel{},
		rooms:     map[int64][]domain.Room{},
		usernames: map[int64]string{},
	}
}

func (f *fakeStore) CreateHotel(_ context.Context, h domain.Hotel, rooms []domain.Room) (int64, error) {
	f.nextID++
	h.ID = f.nextID
	h.CreatedAt = time.Now()
	f.hotels[h.ID] = &h
	f.setRooms(h.ID, rooms)
	return h.ID, nil
}

func (f *fakeStore) setRooms(hotelID int64, rooms []domain.Room) {
	out := make([]domain.Room, 0, len(rooms))
	for _, r := range rooms {
		f.nextID++
		r.ID = f.nextID
		r.HotelID = hotelID
		out = append(out, r)
	}
	f.rooms[hotelID] = out
}

func (f *fakeStore) UpdateListing(_ context.Context, hotelID int64, apply domain.TransitionFunc, rooms []domain.Room) (domain.Hotel, error) {
	h, ok := f.hotels[hotelID]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	cp := *h
	if err := apply(&cp); err != nil {
		return domain.Hotel{}, err
	}
	*h = cp
	f.setRooms(hotelID, rooms)
	return cp, nil
}

func (f *fakeStore) Transition(_ context.Context, hotelID int64, apply domain.TransitionFunc) (domain.Hotel, error) {
	h, ok := f.hotels[hotelID]
	if !ok {
		return domain.Hotel{}, domain.ErrNotFound
	}
	cp := *h
	if err := apply(&cp); err != nil {
		return domain.Hotel{}, err
	}
	*h = cp
	return cp, nil
}

func (f *fakeStore) GetHotel(_ context.Context, id int64) (domain.Hotel, error) {
	if h, ok := f.hotels[id]; ok {
		return *h, nil
	}
	return domain.Hotel{}, domain.ErrNotFound
}

func (f *fakeStore) GetPublishedDetail(_ context.Context, id int64) (domain.HotelDetail, error) {
	h, ok := f.hotels[id]
	if !ok || h.Status != domain.StatusPublished {
		return domain.HotelDetail{}, domain.ErrNotFound
	}
	return domain.HotelDetail{Hotel: *h, Rooms: append([]domain.Room{}, f.rooms[id]...)}, nil
}

func (f *fakeStore) ListByMerchant(_ context.Context, merchantID int64, status *domain.Status) ([]domain.Hotel, error) {
	out := []domain.Hotel{}
	for _, h := range f.hotels {
		if h.MerchantID != merchantID {
			continue
		}
		if status != nil && h.Status != *status {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) ListAll(_ context.Context, status *domain.Status) ([]domain.AdminListing, error) {
	out := []domain.AdminListing{}
	for _, h := range f.hotels {
		if status != nil && h.Status != *status {
			continue
		}
		out = append(out, domain.AdminListing{Hotel: *h, MerchantName: f.usernames[h.MerchantID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) Search(_ context.Context, q domain.SearchQuery) (domain.SearchPage, error) {
	matched := []domain.Hotel{}
	for _, h := range f.hotels {
		if h.Status != domain.StatusPublished {
			continue
		}
		if q.City != "" && !strings.Contains(h.Address, q.City) {
			continue
		}
		if q.Keyword != "" && !strings.Contains(h.Title, q.Keyword) && !strings.Contains(h.Address, q.Keyword) {
			continue
		}
		if q.MinStar > 0 && h.Star < q.MinStar {
			continue
		}
		if q.MaxPrice > 0 && h.Price > q.MaxPrice {
			continue
		}
		matched = append(matched, *h)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Star != matched[j].Star {
			return matched[i].Star > matched[j].Star
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	lo := q.Offset()
	if lo > total {
		lo = total
	}
	hi := lo + q.PageSize
	if hi > total {
		hi = total
	}
	return domain.SearchPage{
		Items:   matched[lo:hi],
		Total:   total,
		HasMore: q.Page*q.PageSize < total,
	}, nil
}

type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string][]byte{}} }

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}
