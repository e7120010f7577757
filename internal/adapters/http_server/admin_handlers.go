package httpserver

import (
	"net/http"

	"github.com/wlw20016/yisu-hotel/internal/domain"
)

type adminHotelView struct {
	merchantHotelView
	MerchantName string `json:"merchantName"`
}

func (h *Handlers) adminList(w http.ResponseWriter, r *http.Request) {
	st, err := statusFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	listings, err := h.Listings.ListForAdmin(r.Context(), identityFrom(r), st)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]adminHotelView, 0, len(listings))
	for _, it := range listings {
		out = append(out, adminHotelView{
			merchantHotelView: merchantView(it.Hotel),
			MerchantName:      it.MerchantName,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

type statusChange struct {
	Event  string `json:"event"`
	Reason string `json:"reason,omitempty"`
}

func (h *Handlers) adminChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body statusChange
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	hotel, err := h.Listings.ChangeStatus(r.Context(), identityFrom(r), id, domain.Event(body.Event), body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, merchantView(hotel))
}
