package client

import (
	"fmt"
	"net/url"
)

// BookingClient talks to the bookings endpoints on behalf of one guest.
type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *BookingClient) Create(guestID string, body any) (*Response, error) {
	return c.httpClient.POSTWithHeaders("/api/v1/bookings", body, map[string]string{UserIDHeader: guestID})
}

func (c *BookingClient) CreateIdempotent(guestID, idempotencyKey string, body any) (*Response, error) {
	return c.httpClient.POSTWithHeaders("/api/v1/bookings", body, map[string]string{
		UserIDHeader:      guestID,
		"Idempotency-Key": idempotencyKey,
	})
}

func (c *BookingClient) ListMine(guestID string, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/bookings?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GETWithHeaders(path, map[string]string{UserIDHeader: guestID})
}

func (c *BookingClient) GetByID(guestID, id string) (*Response, error) {
	path := "/api/v1/bookings/id/" + url.PathEscape(id)
	return c.httpClient.GETWithHeaders(path, map[string]string{UserIDHeader: guestID})
}
