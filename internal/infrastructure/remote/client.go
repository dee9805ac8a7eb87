// Package remote implements the HTTP client for the storefront backend.
// It is the only place that knows the remote paths and wire formats; every
// failure is mapped onto the domain error taxonomy before it leaves this
// package.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
	"github.com/marudhara-crafts/catalog-sync/internal/core/ports"
	"github.com/marudhara-crafts/catalog-sync/internal/metrics"
)

const defaultTimeout = 15 * time.Second

// Client talks to the storefront backend. The session cookie set by login
// lives in the client's cookie jar and is sent on every subsequent call;
// the client never constructs or inspects the credential itself.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the given base URL (trailing slashes are
// ignored).
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: defaultTimeout,
		},
	}, nil
}

// ListProducts fetches the full product list, in remote display order.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	defer track("list")()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("%w: decoding product list: %v", domain.ErrServer, err)
	}
	return products, nil
}

// Login posts the admin password. On success the backend sets the session
// cookie in the jar. Any non-success response is an authorization failure.
func (c *Client) Login(ctx context.Context, password string) error {
	defer track("login")()

	payload, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/admin/login", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: login status %d", domain.ErrUnauthorized, resp.StatusCode)
	}
	return nil
}

// Logout asks the backend to clear the session. Callers treat the outcome
// as best-effort.
func (c *Client) Logout(ctx context.Context) error {
	defer track("logout")()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/admin/logout", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	return nil
}

// CreateProduct posts a multipart form with the new product's fields. The
// image part is always present: create requires one.
func (c *Client) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	defer track("create")()

	body, contentType, err := mutationForm(input.Name, input.Price, input.Description, input.Image)
	if err != nil {
		return nil, err
	}
	return c.sendMutation(ctx, http.MethodPost, c.baseURL+"/api/admin/products", body, contentType)
}

// UpdateProduct puts a multipart form for an existing product. The image
// part is omitted when input.Image is nil, which tells the backend to keep
// the current image.
func (c *Client) UpdateProduct(ctx context.Context, id int64, input ports.UpdateProductInput) (*domain.Product, error) {
	defer track("update")()

	body, contentType, err := mutationForm(input.Name, input.Price, input.Description, input.Image)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/api/admin/products/%d", c.baseURL, id)
	return c.sendMutation(ctx, http.MethodPut, url, body, contentType)
}

// DeleteProduct removes a product by id.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	defer track("delete")()

	url := fmt.Sprintf("%s/api/admin/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	return nil
}

func (c *Client) sendMutation(ctx context.Context, method, url string, body *bytes.Buffer, contentType string) (*domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("%w: decoding product record: %v", domain.ErrServer, err)
	}
	return &product, nil
}

// mutationForm builds the multipart body shared by create and update.
func mutationForm(name string, price *float64, description *string, image *ports.ImageUpload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", name); err != nil {
		return nil, "", err
	}
	if price != nil {
		if err := w.WriteField("price", strconv.FormatFloat(*price, 'f', -1, 64)); err != nil {
			return nil, "", err
		}
	}
	if description != nil {
		if err := w.WriteField("description", *description); err != nil {
			return nil, "", err
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(image.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// statusError maps a non-success response onto the error taxonomy: 401 is
// an authorization failure, everything else a server failure.
func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status 401", domain.ErrUnauthorized)
	}
	return fmt.Errorf("%w: status %d: %s", domain.ErrServer, resp.StatusCode, drain(resp.Body))
}

// drain reads a short error body for diagnostics.
func drain(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func track(call string) func() {
	start := time.Now()
	return func() {
		metrics.RemoteRequestDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
	}
}
