package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/AnshRaj112/wordstreak-backend/internal/ledger"
	"github.com/AnshRaj112/wordstreak-backend/internal/logging"
	"github.com/AnshRaj112/wordstreak-backend/internal/models"
	"github.com/AnshRaj112/wordstreak-backend/internal/services"
	"github.com/AnshRaj112/wordstreak-backend/internal/streak"
	"github.com/AnshRaj112/wordstreak-backend/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 64 << 10
)

// WordService is what the HTTP layer needs from the vocabulary service.
type WordService interface {
	AddWord(ctx context.Context, userID uuid.UUID, in services.AddWordInput) (services.AddWordResult, error)
	DeleteWord(ctx context.Context, userID uuid.UUID, wordID int64) (bool, error)
	ListWords(ctx context.Context, userID uuid.UUID) ([]models.WordEntry, error)
	ActiveDates(ctx context.Context, userID uuid.UUID) ([]models.Date, error)
	TodayCount(ctx context.Context, userID uuid.UUID) (int, error)
	Summary(ctx context.Context, userID uuid.UUID) (models.StreakSummary, error)
}

// WordHandler serves the vocabulary and streak endpoints for one user.
type WordHandler struct {
	svc    WordService
	userID uuid.UUID
	logger *logrus.Entry
}

func NewWordHandler(svc WordService, userID uuid.UUID, logger *logrus.Entry) *WordHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &WordHandler{svc: svc, userID: userID, logger: logger}
}

type AddWordRequest struct {
	GermanWord string `json:"german_word"`
	Meaning    string `json:"meaning"`
	Example    string `json:"example"`
}

type AddWordResponse struct {
	Word   models.WordEntry   `json:"word"`
	Streak models.StreakState `json:"streak"`
	// Outcome is what this word did to the streak, e.g. "extended".
	Outcome    string `json:"outcome"`
	TodayCount int    `json:"today_count"`
	Threshold  int    `json:"threshold"`
}

// decodeAddWord accepts JSON bodies as well as url-encoded and multipart
// form posts.
func decodeAddWord(r *http.Request) (AddWordRequest, error) {
	var req AddWordRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "multipart/form-data":
		// ParseForm leaves PostForm empty for multipart bodies.
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return req, err
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return req, err
		}
	default:
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}
	req.GermanWord = r.PostForm.Get("german_word")
	req.Meaning = r.PostForm.Get("meaning")
	req.Example = r.PostForm.Get("example")
	return req, nil
}

// AddWord records a word for today and updates the streak.
func (h *WordHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	req, err := decodeAddWord(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	res, err := h.svc.AddWord(ctx, h.userID, services.AddWordInput{
		GermanWord: req.GermanWord,
		Meaning:    req.Meaning,
		Example:    req.Example,
	})
	var dup *ledger.DuplicateWordError
	switch {
	case errors.As(err, &dup):
		writeError(w, http.StatusConflict, dup.Error())
		return
	case errors.Is(err, services.ErrInvalidInput):
		msg := "German word and meaning are required"
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			msg = ve.Message
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to save word")
		writeError(w, http.StatusInternalServerError, "Failed to save word")
		return
	}

	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Word saved successfully",
		Data: AddWordResponse{
			Word:       res.Word,
			Streak:     res.Streak.After,
			Outcome:    res.Streak.Outcome.String(),
			TodayCount: res.Streak.TodayCount,
			Threshold:  streak.ActivityThreshold,
		},
	})
}

// DeleteWord removes a word by id; unknown ids, including zero and
// negative ones, succeed as well.
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid word id")
		return
	}
	if id <= 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if _, err := h.svc.DeleteWord(ctx, h.userID, id); err != nil {
		h.logger.WithError(err).Error("Failed to delete word")
		writeError(w, http.StatusInternalServerError, "Failed to delete word")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWords returns all words, newest first, as a bare JSON array.
func (h *WordHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	words, err := h.svc.ListWords(ctx, h.userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load words")
		writeError(w, http.StatusInternalServerError, "Failed to load words")
		return
	}
	writeJSON(w, http.StatusOK, words)
}

// GetStreakDates returns the active dates as a bare JSON array of YYYY-MM-DD strings.
func (h *WordHandler) GetStreakDates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dates, err := h.svc.ActiveDates(ctx, h.userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load streak dates")
		writeError(w, http.StatusInternalServerError, "Failed to load streak dates")
		return
	}
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.String())
	}
	writeJSON(w, http.StatusOK, out)
}

// GetStreak returns the streak summary for the dashboard.
func (h *WordHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, err := h.svc.Summary(ctx, h.userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load streak")
		writeError(w, http.StatusInternalServerError, "Failed to load streak")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: summary})
}

type TodayResponse struct {
	Count     int `json:"count"`
	Threshold int `json:"threshold"`
}

// GetToday returns how many words were added today, e.g. for "4/5 words today".
func (h *WordHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	n, err := h.svc.TodayCount(ctx, h.userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load today's count")
		writeError(w, http.StatusInternalServerError, "Failed to load today's count")
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: TodayResponse{Count: n, Threshold: streak.ActivityThreshold}})
}

// Health is the liveness probe.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
