package handler

import (
	"log/slog"
	"net/http"

	"newsfeed/internal/domain/models"
	"newsfeed/internal/domain/services"
	"newsfeed/internal/httputil"
)

// NewsHandler serves proxied and personalised news
type NewsHandler struct {
	service services.NewsService
	logger  *slog.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(service services.NewsService, logger *slog.Logger) *NewsHandler {
	return &NewsHandler{service: service, logger: logger}
}

func queryFromRequest(r *http.Request) models.NewsQuery {
	v := r.URL.Query()
	return models.NewsQuery{
		Query:      v.Get("q"),
		Language:   v.Get("language"),
		Country:    v.Get("country"),
		Category:   v.Get("category"),
		TimeWindow: v.Get("timeWindow"),
	}
}

// Raw proxies the news API with configured defaults
// GET /api/news/raw
func (h *NewsHandler) Raw(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Raw(r.Context(), queryFromRequest(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	writeProxyResult(w, result)
}

// Search proxies a keyword search
// GET /api/news/search
func (h *NewsHandler) Search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), queryFromRequest(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	writeProxyResult(w, result)
}

// ForMe returns the personalised feed
// GET /api/news/for-me
func (h *NewsHandler) ForMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q := queryFromRequest(r)
	feed, err := h.service.ForUser(r.Context(), userID, models.NewsQuery{
		Language:   q.Language,
		Category:   q.Category,
		TimeWindow: q.TimeWindow,
	})
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, feed)
}

// writeProxyResult relays the upstream status and body unchanged.
func writeProxyResult(w http.ResponseWriter, result *models.ProxyResult) {
	httputil.RespondRaw(w, result.StatusCode, result.ContentType, result.Body)
}
