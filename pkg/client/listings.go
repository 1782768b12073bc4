package client

import (
	"fmt"
	"net/url"
)

const UserIDHeader = "X-User-ID"

// ListingClient talks to the listings endpoints of a running reservations service.
type ListingClient struct {
	httpClient *HttpClient
}

func NewListingClient(baseURL string) *ListingClient {
	return &ListingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *ListingClient) Create(hostID string, body any) (*Response, error) {
	return c.httpClient.POSTWithHeaders("/api/v1/listings", body, map[string]string{UserIDHeader: hostID})
}

func (c *ListingClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/listings/id/" + url.PathEscape(id))
}

func (c *ListingClient) Search(city, checkIn, checkOut string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if city != "" {
		q.Set("city", city)
	}
	if checkIn != "" {
		q.Set("check_in", checkIn)
	}
	if checkOut != "" {
		q.Set("check_out", checkOut)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET("/api/v1/listings/search?" + q.Encode())
}
