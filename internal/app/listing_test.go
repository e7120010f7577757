package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlw20016/yisu-hotel/internal/app"
	"github.com/wlw20016/yisu-hotel/internal/domain"
)

var (
	adminID    = domain.Identity{UserID: 1, Role: domain.RoleAdmin}
	merchant1  = domain.Identity{UserID: 10, Role: domain.RoleMerchant}
	merchant2  = domain.Identity{UserID: 20, Role: domain.RoleMerchant}
	visitor    = domain.Anonymous
	basicDraft = domain.HotelDraft{
		Title:   "上海陆家嘴禧玥酒店",
		Address: "上海浦东新区",
		Price:   90000,
		Star:    5,
		Tags:    []string{"亲子", "地铁周边"},
		Rooms: []domain.RoomDraft{
			{Title: "豪华大床房", Price: 90000, Stock: 5},
			{Title: "行政双床房", Price: 120000, Stock: 3},
		},
	}
)

func newListing(t *testing.T) (*app.ListingService, *fakeStore, *fakeCache) {
	t.Helper()
	store := newFakeStore()
	store.usernames[merchant1.UserID] = "merchant_01"
	store.usernames[merchant2.UserID] = "merchant_02"
	cache := newFakeCache()
	return app.NewListingService(store, cache), store, cache
}

func TestCreateHotel_StartsPending(t *testing.T) {
	svc, store, _ := newListing(t)

	id, err := svc.CreateHotel(context.Background(), merchant1, basicDraft)
	require.NoError(t, err)

	h, err := store.GetHotel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, h.Status)
	assert.Nil(t, h.RejectReason)
	assert.Equal(t, merchant1.UserID, h.MerchantID)
	assert.Len(t, store.rooms[id], 2)
}

func TestCreateHotel_Validation(t *testing.T) {
	svc, _, _ := newListing(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.HotelDraft)
	}{
		{"empty title", func(d *domain.HotelDraft) { d.Title = "" }},
		{"blank address", func(d *domain.HotelDraft) { d.Address = "   " }},
		{"negative price", func(d *domain.HotelDraft) { d.Price = -1 }},
		{"star too low", func(d *domain.HotelDraft) { d.Star = 0 }},
		{"star too high", func(d *domain.HotelDraft) { d.Star = 6 }},
		{"negative room stock", func(d *domain.HotelDraft) { d.Rooms = []domain.RoomDraft{{Title: "A", Price: 100, Stock: -1}} }},
		{"negative room price", func(d *domain.HotelDraft) { d.Rooms = []domain.RoomDraft{{Title: "A", Price: -100, Stock: 1}} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := basicDraft
			tc.mutate(&d)
			_, err := svc.CreateHotel(ctx, merchant1, d)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "want validation error, got %v", err)
		})
	}
}

func TestCreateHotel_Forbidden(t *testing.T) {
	svc, _, _ := newListing(t)
	_, err := svc.CreateHotel(context.Background(), visitor, basicDraft)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.CreateHotel(context.Background(), adminID, basicDraft)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEditHotel_ReplacesRoomsAndResetsStatus(t *testing.T) {
	svc, store, cache := newListing(t)
	ctx := context.Background()

	id, err := svc.CreateHotel(ctx, merchant1, basicDraft)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, adminID, id, domain.EventApprove, "")
	require.NoError(t, err)

	// warm the detail cache, then edit
	require.NoError(t, cache.Set(ctx, "hotel:1", domain.HotelDetail{}, 60))

	edited := basicDraft
	edited.Address = "上海静安区"
	edited.Rooms = []domain.RoomDraft{{Title: "A", Price: 100, Stock: 2}}

	h, err := svc.EditHotel(ctx, merchant1, id, edited)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, h.Status, "edit always re-queues for review")
	assert.Nil(t, h.RejectReason)

	rooms := store.rooms[id]
	require.Len(t, rooms, 1, "previous rooms must not linger")
	assert.Equal(t, "A", rooms[0].Title)
	assert.Contains(t, cache.dels, "hotel:1")
}

func TestEditHotel_TenantIsolation(t *testing.T) {
	svc, _, _ := newListing(t)
	ctx := context.Background()

	id, err := svc.CreateHotel(ctx, merchant1, basicDraft)
	require.NoError(t, err)

	_, err = svc.EditHotel(ctx, merchant2, id, basicDraft)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.EditHotel(ctx, merchant1, 999, basicDraft)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChangeStatus_MerchantForbiddenEvenOnOwnHotel(t *testing.T) {
	svc, store, _ := newListing(t)
	ctx := context.Background()

	id, err := svc.CreateHotel(ctx, merchant1, basicDraft)
	require.NoError(t, err)

	for _, ev := range []domain.Event{
		domain.EventApprove, domain.EventReject, domain.EventForceOffline, domain.EventRestore,
	} {
		_, err := svc.ChangeStatus(ctx, merchant1, id, ev, "reason")
		assert.ErrorIs(t, err, domain.ErrForbidden, "event %s", ev)
	}
	h, _ := store.GetHotel(ctx, id)
	assert.Equal(t, domain.StatusPending, h.Status)
}

func TestChangeStatus_RejectKeepsStateOnEmptyReason(t *testing.T) {
	svc, store, _ := newListing(t)
	ctx := context.Background()

	id, err := svc.CreateHotel(ctx, merchant1, basicDraft)
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, adminID, id, domain.EventReject, "   ")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	h, _ := store.GetHotel(ctx, id)
	assert.Equal(t, domain.StatusPending, h.Status)
	assert.Nil(t, h.RejectReason)
}

func TestChangeStatus_InvalidTransitionCarriesCurrentStatus(t *testing.T) {
	svc, _, _ := newListing(t)
	ctx := context.Background()

	id, err := svc.CreateHotel(ctx, merchant1, basicDraft)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(ctx, adminID, id, domain.EventApprove, "")
	require.NoError(t, err)

	// second approve must fail against the committed PUBLISHED status
	_, err = svc.ChangeStatus(ctx, adminID, id, domain.EventApprove, "")
	require.Error(t, err)
	var te *domain.InvalidTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.StatusPublished, te.Current)
}

func TestChangeStatus_RejectsNonModerationEvent(t *testing.T) {
	svc, _, _ := newListing(t)
	_, err := svc.ChangeStatus(context.Background(), adminID, 1, domain.EventMerchantEdit, "")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestListForMerchant_ScopedToCaller(t *testing.T) {
	svc, _, _ := newListing(t)
	ctx := context.Background()

	_, err := svc.CreateHotel(ctx, merchant1, basicDraft)
	require.NoError(t, err)
	other := basicDraft
	other.Title = "另一家酒店"
	_, err = svc.CreateHotel(ctx, merchant2, other)
	require.NoError(t, err)

	mine, err := svc.ListForMerchant(ctx, merchant1, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, merchant1.UserID, mine[0].MerchantID)

	_, err = svc.ListForMerchant(ctx, visitor, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	bad := domain.Status("NOPE")
	_, err = svc.ListForMerchant(ctx, merchant1, &bad)
	assert.True(t, domain.IsValidation(err))
}

func TestListForAdmin_JoinsMerchantName(t *testing.T) {
	svc, _, _ := newListing(t)
	ctx := context.Background()

	_, err := svc.CreateHotel(ctx, merchant1, basicDraft)
	require.NoError(t, err)

	all, err := svc.ListForAdmin(ctx, adminID, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "merchant_01", all[0].MerchantName)

	_, err = svc.ListForAdmin(ctx, merchant1, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pending := domain.StatusPending
	filtered, err := svc.ListForAdmin(ctx, adminID, &pending)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

// Full moderation walk: pending -> rejected -> edited -> approved -> offline
// -> restored, with public visibility checked at each step.
func TestModerationLifecycleScenario(t *testing.T) {
	store := newFakeStore()
	store.usernames[merchant1.UserID] = "merchant_01"
	cache := newFakeCache()
	svc := app.NewListingService(store, cache)
	queries := app.NewQueryService(store, cache, 0)
	ctx := context.Background()

	draft := basicDraft
	draft.Address = "" // merchant forgot the address on first submit
	draft.Title = "外滩江景酒店"
	id, err := svc.CreateHotel(ctx, merchant1, domain.HotelDraft{
		Title: draft.Title, Address: "待填写", Price: draft.Price, Star: draft.Star, Rooms: draft.Rooms,
	})
	require.NoError(t, err)

	h, err := svc.ChangeStatus(ctx, adminID, id, domain.EventReject, "缺少地址")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, h.Status)
	require.NotNil(t, h.RejectReason)
	assert.Equal(t, "缺少地址", *h.RejectReason)

	fixed := basicDraft
	fixed.Title = draft.Title
	fixed.Address = "上海黄浦区中山东一路"
	h, err = svc.EditHotel(ctx, merchant1, id, fixed)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, h.Status)
	assert.Nil(t, h.RejectReason)

	h, err = svc.ChangeStatus(ctx, adminID, id, domain.EventApprove, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, h.Status)

	search := func() []domain.Hotel {
		page, err := queries.SearchPublic(ctx, domain.SearchQuery{City: "上海", Page: 1, PageSize: 10})
		require.NoError(t, err)
		return page.Items
	}
	require.Len(t, search(), 1)

	_, err = svc.ChangeStatus(ctx, adminID, id, domain.EventForceOffline, "")
	require.NoError(t, err)
	assert.Empty(t, search(), "offline listings are invisible to the public")

	mine, err := svc.ListForMerchant(ctx, merchant1, nil)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, domain.StatusOffline, mine[0].Status, "offline is a suspension, not a delete")

	_, err = svc.ChangeStatus(ctx, adminID, id, domain.EventRestore, "")
	require.NoError(t, err)
	require.Len(t, search(), 1)
}
