package domain

import "time"

// Status is the moderation state of a hotel listing.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPublished Status = "PUBLISHED"
	StatusRejected  Status = "REJECTED"
	StatusOffline   Status = "OFFLINE"
)

// ValidStatus reports whether s is one of the four listing states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected, StatusOffline:
		return true
	}
	return false
}

// Hotel is the listing aggregate. RejectReason is non-nil iff Status is
// REJECTED; every transition away from REJECTED clears it.
type Hotel struct {
	ID           int64
	MerchantID   int64
	Title        string
	Address      string
	Price        int64 // starting price, minor units
	Star         int   // 1..5
	Description  string
	OpeningTime  string
	Tags         []string
	Images       []string
	Status       Status
	RejectReason *string
	CreatedAt    time.Time
}

// Room is a bookable unit owned by exactly one hotel. Rooms have no lifecycle
// of their own: an edit of the parent hotel replaces the whole set, so room IDs
// are not stable across edits.
type Room struct {
	ID      int64
	HotelID int64
	Title   string
	Price   int64
	Stock   int
}

// HotelDraft carries the merchant-editable fields for create and edit.
type HotelDraft struct {
	Title       string      `json:"title" validate:"required"`
	Address     string      `json:"address" validate:"required"`
	Price       int64       `json:"price" validate:"gte=0"`
	Star        int         `json:"star" validate:"gte=1,lte=5"`
	Description string      `json:"description"`
	OpeningTime string      `json:"openingTime"`
	Tags        []string    `json:"tags"`
	Images      []string    `json:"images"`
	Rooms       []RoomDraft `json:"rooms" validate:"dive"`
}

type RoomDraft struct {
	Title string `json:"title" validate:"required"`
	Price int64  `json:"price" validate:"gte=0"`
	Stock int    `json:"stock" validate:"gte=0"`
}

// AdminListing is a hotel row joined with its owner's username for the
// moderation table.
type AdminListing struct {
	Hotel
	MerchantName string
}

// HotelDetail is the public read model: a published hotel with its rooms.
type HotelDetail struct {
	Hotel
	Rooms []Room
}
