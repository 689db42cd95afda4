package history

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"experience-bottler/internal/repository"
)

// Path is the route the handler expects to be mounted at. The id parameter is the player's UUID.
const Path = "/players/{id}/bottles"

const defaultPageSize = 20

type pageQuery struct {
	Page int64 `validate:"min=0"`
	Size int64 `validate:"min=1,max=100"`
}

type BottleResponse struct {
	ID        string    `json:"id"`
	Amount    int32     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler lists the bottles a player has taken, newest first, a page at a time.
type Handler struct {
	logger   *zap.SugaredLogger
	repo     repository.BottleRecorder
	validate *validator.Validate
}

func NewHandler(logger *zap.SugaredLogger, repo repository.BottleRecorder) *Handler {
	return &Handler{
		logger:   logger,
		repo:     repo,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	playerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid player id"})
		return
	}

	q, err := parsePageQuery(r)
	if err == nil {
		err = h.validate.Struct(q)
	}
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid page or size"})
		return
	}

	records, err := h.repo.GetBottleRecords(r.Context(), playerID, q.Page, q.Size)
	if err != nil {
		h.logger.Errorw("failed to get bottle records", "playerId", playerID, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to get bottles"})
		return
	}

	res := make([]BottleResponse, 0, len(records))
	for _, rec := range records {
		res = append(res, BottleResponse{
			ID:        rec.ID.Hex(),
			Amount:    rec.Amount,
			CreatedAt: rec.CreatedAt().UTC(),
		})
	}

	respondJSON(w, http.StatusOK, res)
}

func parsePageQuery(r *http.Request) (pageQuery, error) {
	q := pageQuery{Size: defaultPageSize}

	if v := r.URL.Query().Get("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, err
		}
		q.Page = page
	}

	if v := r.URL.Query().Get("size"); v != "" {
		size, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return q, err
		}
		q.Size = size
	}

	return q, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
