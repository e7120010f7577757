package httpserver

import (
	"net/http"

	"github.com/wlw20016/yisu-hotel/internal/domain"
)

// merchantHotelView exposes the full row to its owner, including moderation
// state and the reject reason.
type merchantHotelView struct {
	hotelSummary
	Description  string  `json:"description"`
	OpeningTime  string  `json:"openingTime"`
	Status       string  `json:"status"`
	RejectReason *string `json:"rejectReason"`
}

func merchantView(h domain.Hotel) merchantHotelView {
	return merchantHotelView{
		hotelSummary: summarize(h),
		Description:  h.Description,
		OpeningTime:  h.OpeningTime,
		Status:       string(h.Status),
		RejectReason: h.RejectReason,
	}
}

func statusFilter(r *http.Request) (*domain.Status, error) {
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil, nil
	}
	st := domain.Status(s)
	if !domain.ValidStatus(st) {
		return nil, domain.Validationf("unknown status %q", s)
	}
	return &st, nil
}

func (h *Handlers) merchantList(w http.ResponseWriter, r *http.Request) {
	st, err := statusFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	hotels, err := h.Listings.ListForMerchant(r.Context(), identityFrom(r), st)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]merchantHotelView, 0, len(hotels))
	for _, it := range hotels {
		out = append(out, merchantView(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handlers) merchantCreate(w http.ResponseWriter, r *http.Request) {
	var draft domain.HotelDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.Listings.CreateHotel(r.Context(), identityFrom(r), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (h *Handlers) merchantEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var draft domain.HotelDraft
	if err := decodeBody(r, &draft); err != nil {
		writeError(w, err)
		return
	}
	hotel, err := h.Listings.EditHotel(r.Context(), identityFrom(r), id, draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, merchantView(hotel))
}
