package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"testing"

	"staybook/internal/search/service"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockSearchService struct {
	listings []*model.Listing
	err      error
	gotQuery service.Query
}

func (m *mockSearchService) Search(ctx context.Context, q service.Query) iter.Seq2[*model.Listing, error] {
	m.gotQuery = q
	return func(yield func(*model.Listing, error) bool) {
		for _, l := range m.listings {
			if !yield(l, nil) {
				return
			}
		}
		if m.err != nil {
			yield(nil, m.err)
		}
	}
}

func listings(n int) []*model.Listing {
	out := make([]*model.Listing, n)
	for i := range out {
		out[i] = &model.Listing{
			ID:            fmt.Sprintf("l%02d", i),
			Title:         "Listing",
			City:          "Lisbon",
			PricePerNight: 100,
			PhotoURLs:     []string{"https://cdn.example.com/p.jpg", "https://cdn.example.com/q.jpg"},
		}
	}
	return out
}

func doSearch(t *testing.T, svc *mockSearchService, query string) *httptest.ResponseRecorder {
	t.Helper()
	router := httprouter.New()
	NewSearchHandler(svc, logger.Discard()).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/listings/search"+query, nil))
	return w
}

type windowBody struct {
	Data    []map[string]any `json:"data"`
	Limit   int              `json:"limit"`
	Offset  int64            `json:"offset"`
	HasMore bool             `json:"has_more"`
}

func TestSearch_PaginatesSummaries(t *testing.T) {
	svc := &mockSearchService{listings: listings(7)}

	w := doSearch(t, svc, "?city=Lisbon&limit=3&offset=3")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body windowBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Data) != 3 || body.Data[0]["id"] != "l03" || !body.HasMore {
		t.Errorf("unexpected page: %+v", body)
	}
	if body.Data[0]["primary_photo_url"] != "https://cdn.example.com/p.jpg" {
		t.Errorf("summary should carry the first photo: %v", body.Data[0])
	}
	if _, ok := body.Data[0]["description"]; ok {
		t.Error("search results must be summaries")
	}
	if svc.gotQuery.City != "Lisbon" || svc.gotQuery.Range != nil {
		t.Errorf("unexpected query: %+v", svc.gotQuery)
	}

	w = doSearch(t, svc, "?limit=3&offset=6")
	body = windowBody{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Data) != 1 || body.HasMore {
		t.Errorf("last page wrong: %+v", body)
	}
}

func TestSearch_DateParameters(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantRange  bool
	}{
		{name: "valid range", query: "?check_in=2025-03-10&check_out=2025-03-13", wantStatus: http.StatusOK, wantRange: true},
		{name: "only check_in", query: "?check_in=2025-03-10", wantStatus: http.StatusBadRequest},
		{name: "malformed date", query: "?check_in=2025-13-10&check_out=2025-03-13", wantStatus: http.StatusBadRequest},
		{name: "zero nights", query: "?check_in=2025-03-10&check_out=2025-03-10", wantStatus: http.StatusUnprocessableEntity},
		{name: "bad limit", query: "?limit=ten", wantStatus: http.StatusBadRequest},
		{name: "blank city", query: "?city=%20%20%09", wantStatus: http.StatusBadRequest},
		{name: "empty city", query: "?city=", wantStatus: http.StatusOK},
		{name: "offset at cap", query: "?offset=10000", wantStatus: http.StatusOK},
		{name: "offset past cap", query: "?offset=10001", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockSearchService{}
			w := doSearch(t, svc, tt.query)
			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantRange && (svc.gotQuery.Range == nil || svc.gotQuery.Range.Nights() != 3) {
				t.Errorf("range not passed to service: %+v", svc.gotQuery.Range)
			}
		})
	}
}

func TestSearch_DeepOffsetDoesNotReadStream(t *testing.T) {
	svc := &mockSearchService{listings: listings(3)}

	w := doSearch(t, svc, fmt.Sprintf("?offset=%d", maxSearchOffset+1))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if svc.gotQuery != (service.Query{}) {
		t.Errorf("search should not start for a rejected offset: %+v", svc.gotQuery)
	}
}

func TestSearch_StreamErrorIsInternal(t *testing.T) {
	svc := &mockSearchService{listings: listings(1), err: errors.New("cursor killed")}

	w := doSearch(t, svc, "")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
