package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/boighor/bookshop/internal/domain/models"
)

// Client fetches the book catalog from the orders API. Browsing is a
// plain request/response concern, so unlike the verification gateway
// it reports failures as ordinary errors.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Books(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := c.get(ctx, "/books", &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) Book(ctx context.Context, bid string) (models.Book, error) {
	var book models.Book
	if err := c.get(ctx, "/books/"+bid, &book); err != nil {
		return models.Book{}, err
	}
	return book, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog request %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
