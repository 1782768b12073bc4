package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"staybook/internal/search/service"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

// maxSearchOffset bounds how far into the filtered stream a page may start.
// Availability is filtered in memory, so a deep offset costs a catalog scan.
const maxSearchOffset = 10_000

type SearchHandler struct {
	service service.SearchService
	log     *logger.Logger
}

func NewSearchHandler(service service.SearchService, log *logger.Logger) *SearchHandler {
	return &SearchHandler{
		service: service,
		log:     log,
	}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q, err := parseQuery(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if offset > maxSearchOffset {
		h.writeError(w, apperrors.InvalidInput(fmt.Sprintf("offset must not exceed %d, narrow the search instead", maxSearchOffset)))
		return
	}

	page := make([]model.ListingSummary, 0, limit)
	hasMore := false
	var skipped int64

	for listing, err := range h.service.Search(r.Context(), q) {
		if err != nil {
			h.writeError(w, h.streamError(r.Context(), q, err))
			return
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(page) == limit {
			hasMore = true
			break
		}
		page = append(page, listing.Summary())
	}

	if err := httputil.WriteWindow(w, page, limit, offset, hasMore); err != nil {
		h.log.Error("failed to write window response", "handler", "Search", "operation", "WriteWindow", "error", err)
	}
}

func (h *SearchHandler) streamError(ctx context.Context, q service.Query, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperrors.Timeout("Search timed out")
	}
	h.log.Error("Listing search failed",
		"city", q.City,
		"error", err,
	)
	return apperrors.Internal("Search failed, please try again later", err)
}

func (h *SearchHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
	}
}

// parseQuery accepts check_in and check_out only as a pair. An omitted or
// empty city means every city; one made only of whitespace is rejected.
func parseQuery(r *http.Request) (service.Query, error) {
	values := r.URL.Query()
	q := service.Query{City: values.Get("city")}
	if q.City != "" && sanitizer.CityKey(q.City) == "" {
		return q, apperrors.InvalidInput("city must not be blank")
	}

	checkIn, checkOut := values.Get("check_in"), values.Get("check_out")
	if checkIn == "" && checkOut == "" {
		return q, nil
	}
	if checkIn == "" || checkOut == "" {
		return q, apperrors.InvalidInput("check_in and check_out must be provided together")
	}

	stay, err := model.ParseDateRange(checkIn, checkOut)
	if err != nil {
		return q, apperrors.InvalidInput(err.Error())
	}
	if !stay.Valid() {
		return q, apperrors.Validation("Invalid date range", map[string]any{
			"check_out": "must be after check_in",
		})
	}

	q.Range = &stay
	return q, nil
}

func (h *SearchHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/listings/search", h.Search)
}
