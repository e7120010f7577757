package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/wlw20016/yisu-hotel/internal/adapters/token"
	"github.com/wlw20016/yisu-hotel/internal/app"
	"github.com/wlw20016/yisu-hotel/internal/domain"
)

type Handlers struct {
	Listings *app.ListingService
	Queries  *app.QueryService
	Auth     *app.AuthService
	Tokens   *token.Maker
	// PublicRPS throttles the anonymous discovery surface; 0 uses the default.
	PublicRPS int
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
	})

	s.mux.Route("/v1/public", func(r chi.Router) {
		r.Use(RateLimit(h.PublicRPS))
		r.Get("/hotels", h.searchHotels)
		r.Get("/hotels/{id}", h.hotelDetail)
		r.Post("/hotels/{id}/reserve", h.reserveRoom)
	})

	s.mux.Route("/v1/merchant", func(r chi.Router) {
		r.Use(RequireAuth(h.Tokens))
		r.Get("/hotels", h.merchantList)
		r.Post("/hotels", h.merchantCreate)
		r.Put("/hotels/{id}", h.merchantEdit)
	})

	s.mux.Route("/v1/admin", func(r chi.Router) {
		r.Use(RequireAuth(h.Tokens))
		r.Use(RequireRole(domain.RoleAdmin))
		r.Get("/hotels", h.adminList)
		r.Patch("/hotels/{id}/status", h.adminChangeStatus)
	})
}

// ---- shared helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain taxonomy onto HTTP statuses. Store failures stay
// opaque to the caller.
func writeError(w http.ResponseWriter, err error) {
	var te *domain.InvalidTransitionError
	switch {
	case domain.IsValidation(err):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, domain.ErrAuth):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "operation not permitted")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
	case errors.As(err, &te):
		writeProblem(w, http.StatusConflict, "Invalid Transition", te.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.Validationf("malformed JSON body")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("id must be a positive number")
	}
	return id, nil
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- auth ----

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.Auth.Register(r.Context(), c.Username, c.Password, domain.Role(c.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "username": c.Username})
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeBody(r, &c); err != nil {
		writeError(w, err)
		return
	}
	ident, err := h.Auth.Authenticate(r.Context(), c.Username, c.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	tok, err := h.Tokens.Issue(ident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token": tok,
		"user":  map[string]any{"id": ident.UserID, "role": ident.Role},
	})
}

// ---- public ----

type hotelSummary struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Address string   `json:"address"`
	Price   int64    `json:"price"`
	Star    int      `json:"star"`
	Tags    []string `json:"tags"`
	Images  []string `json:"images"`
}

func summarize(h domain.Hotel) hotelSummary {
	return hotelSummary{
		ID: h.ID, Title: h.Title, Address: h.Address,
		Price: h.Price, Star: h.Star, Tags: h.Tags, Images: h.Images,
	}
}

func queryInt(r *http.Request, key string, def int) int {
	if s := r.URL.Query().Get(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	q := domain.SearchQuery{
		City:     r.URL.Query().Get("city"),
		Keyword:  r.URL.Query().Get("keyword"),
		MinStar:  queryInt(r, "star", 0),
		MaxPrice: int64(queryInt(r, "maxPrice", 0)),
		Page:     queryInt(r, "page", 1),
		PageSize: queryInt(r, "pageSize", 10),
	}
	if q.PageSize > 50 {
		q.PageSize = 50
	}

	page, err := h.Queries.SearchPublic(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	items := make([]hotelSummary, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, summarize(it))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "hasMore": page.HasMore})
}

type roomView struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

type hotelDetailView struct {
	hotelSummary
	Description string     `json:"description"`
	OpeningTime string     `json:"openingTime"`
	Rooms       []roomView `json:"rooms"`
}

func (h *Handlers) hotelDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	d, err := h.Queries.GetPublicDetail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	view := hotelDetailView{
		hotelSummary: summarize(d.Hotel),
		Description:  d.Description,
		OpeningTime:  d.OpeningTime,
		Rooms:        make([]roomView, 0, len(d.Rooms)),
	}
	for _, rm := range d.Rooms {
		view.Rooms = append(view.Rooms, roomView{ID: rm.ID, Title: rm.Title, Price: rm.Price, Stock: rm.Stock})
	}

	etag, body := calcETagAndBody(view)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write hotel detail body")
	}
}

// reserveRoom is a placeholder: booking is handled by a separate system, the
// endpoint only confirms the listing is bookable.
func (h *Handlers) reserveRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := h.Queries.GetPublicDetail(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"message": "预订请求已接收"})
}
