package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/wlw20016/yisu-hotel/internal/adapters/observability"
	"github.com/wlw20016/yisu-hotel/internal/domain"
)

// ListingService owns the write pipeline: authorize, validate payload, apply
// the lifecycle transition, persist atomically. It also serves the two
// authenticated list views.
type ListingService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	validate *validator.Validate
}

func NewListingService(r domain.HotelRepository, c domain.Cache) *ListingService {
	return &ListingService{repo: r, cache: c, validate: validator.New()}
}

func detailCacheKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

func (s *ListingService) checkDraft(d domain.HotelDraft) error {
	if err := s.validate.Struct(d); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			f := verrs[0]
			return domain.Validationf("field %s failed %s validation", f.Field(), f.Tag())
		}
		return domain.Validationf("invalid payload")
	}
	// validator's `required` accepts whitespace-only strings
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Address) == "" {
		return domain.Validationf("title and address must not be blank")
	}
	return nil
}

func draftRooms(d domain.HotelDraft) []domain.Room {
	rooms := make([]domain.Room, 0, len(d.Rooms))
	for _, rd := range d.Rooms {
		rooms = append(rooms, domain.Room{Title: rd.Title, Price: rd.Price, Stock: rd.Stock})
	}
	return rooms
}

func applyDraft(h *domain.Hotel, d domain.HotelDraft) {
	h.Title = d.Title
	h.Address = d.Address
	h.Price = d.Price
	h.Star = d.Star
	h.Description = d.Description
	h.OpeningTime = d.OpeningTime
	h.Tags = d.Tags
	h.Images = d.Images
}

// CreateHotel registers a new listing for the calling merchant. It is born
// PENDING and invisible to the public until approved.
func (s *ListingService) CreateHotel(ctx context.Context, caller domain.Identity, draft domain.HotelDraft) (int64, error) {
	if err := domain.Authorize(caller, domain.ActionCreate, nil); err != nil {
		return 0, err
	}
	if err := s.checkDraft(draft); err != nil {
		return 0, err
	}

	h := domain.Hotel{MerchantID: caller.UserID, Status: domain.StatusPending}
	applyDraft(&h, draft)
	if h.Images == nil {
		h.Images = []string{} // no upload pipeline yet
	}

	id, err := s.repo.CreateHotel(ctx, h, draftRooms(draft))
	if err != nil {
		return 0, err
	}
	log.Info().Int64("hotel_id", id).Int64("merchant_id", caller.UserID).Msg("hotel created")
	return id, nil
}

// EditHotel overwrites all editable fields and replaces the room set. The
// ownership check and the re-queue to PENDING are both evaluated against the
// committed row inside the store transaction.
func (s *ListingService) EditHotel(ctx context.Context, caller domain.Identity, hotelID int64, draft domain.HotelDraft) (domain.Hotel, error) {
	if err := s.checkDraft(draft); err != nil {
		return domain.Hotel{}, err
	}

	h, err := s.repo.UpdateListing(ctx, hotelID, func(h *domain.Hotel) error {
		if err := domain.Authorize(caller, domain.ActionMerchantEdit, h); err != nil {
			return err
		}
		next, reason, err := domain.Transition(h.Status, domain.EventMerchantEdit, "")
		if err != nil {
			return err
		}
		applyDraft(h, draft)
		h.Status = next
		h.RejectReason = reason
		return nil
	}, draftRooms(draft))
	if err != nil {
		return domain.Hotel{}, err
	}

	s.evict(ctx, hotelID)
	log.Info().Int64("hotel_id", hotelID).Msg("hotel edited, re-queued for review")
	return h, nil
}

// ChangeStatus applies one of the admin moderation events. reason is only
// meaningful for reject.
func (s *ListingService) ChangeStatus(ctx context.Context, caller domain.Identity, hotelID int64, event domain.Event, reason string) (domain.Hotel, error) {
	if !domain.ModerationEvent(event) {
		return domain.Hotel{}, domain.Validationf("unknown moderation event %q", event)
	}

	h, err := s.repo.Transition(ctx, hotelID, func(h *domain.Hotel) error {
		if err := domain.Authorize(caller, domain.ActionModerate, h); err != nil {
			return err
		}
		next, r, err := domain.Transition(h.Status, event, reason)
		if err != nil {
			return err
		}
		h.Status = next
		h.RejectReason = r
		return nil
	})
	observability.ObserveLifecycle(string(event), observability.LabelErr(err))
	if err != nil {
		return domain.Hotel{}, err
	}

	s.evict(ctx, hotelID)
	log.Info().Int64("hotel_id", hotelID).Str("event", string(event)).Str("status", string(h.Status)).Msg("status changed")
	return h, nil
}

// ListForMerchant returns the caller's own listings, newest first. The tenant
// filter always comes from the verified identity.
func (s *ListingService) ListForMerchant(ctx context.Context, caller domain.Identity, status *domain.Status) ([]domain.Hotel, error) {
	if caller.Role != domain.RoleMerchant || caller.UserID == 0 {
		return nil, domain.ErrForbidden
	}
	if status != nil && !domain.ValidStatus(*status) {
		return nil, domain.Validationf("unknown status %q", *status)
	}
	return s.repo.ListByMerchant(ctx, caller.UserID, status)
}

// ListForAdmin returns every listing with the owning merchant's username.
func (s *ListingService) ListForAdmin(ctx context.Context, caller domain.Identity, status *domain.Status) ([]domain.AdminListing, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if status != nil && !domain.ValidStatus(*status) {
		return nil, domain.Validationf("unknown status %q", *status)
	}
	return s.repo.ListAll(ctx, status)
}

func (s *ListingService) evict(ctx context.Context, hotelID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, detailCacheKey(hotelID)); err != nil {
		log.Warn().Err(err).Int64("hotel_id", hotelID).Msg("cache eviction failed")
	}
}
