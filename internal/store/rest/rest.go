// Package rest implements store.Client against the Billed HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/billed-app/billed/internal/models"
	"github.com/billed-app/billed/internal/store"
)

// Ensure Client implements store.Client
var _ store.Client = (*Client)(nil)

// Client talks to the backend over JSON/HTTP. It is scoped to one session:
// the bearer token it was built with decides whose bills it sees.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a store client for the API at baseURL, authenticated with the
// given bearer token. httpClient may be nil, in which case a client with a
// 10 second timeout is used.
func New(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
	}
}

// loginResponse is the body of a successful POST /auth/login.
type loginResponse struct {
	Token string         `json:"token"`
	User  models.Session `json:"user"`
}

// Login authenticates against the API and returns a session-scoped Client.
func Login(ctx context.Context, baseURL, email, password string, httpClient *http.Client) (*Client, models.Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, models.Session{}, err
	}

	bootstrap := New(baseURL, "", httpClient)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bootstrap.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, models.Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp loginResponse
	if err := bootstrap.do(req, "login", http.StatusOK, &resp); err != nil {
		return nil, models.Session{}, err
	}

	return New(baseURL, resp.Token, httpClient), resp.User, nil
}

// ListBills returns every bill owned by the session.
func (c *Client) ListBills(ctx context.Context) ([]models.Bill, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/bills", nil)
	if err != nil {
		return nil, &store.TransportError{Op: "list bills", Err: err}
	}

	var bills []models.Bill
	if err := c.do(req, "list bills", http.StatusOK, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// CreateBill persists a new bill and returns it with store-assigned fields.
func (c *Client) CreateBill(ctx context.Context, bill models.Bill) (*models.Bill, error) {
	body, err := json.Marshal(bill)
	if err != nil {
		return nil, &store.TransportError{Op: "create bill", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bills", bytes.NewReader(body))
	if err != nil {
		return nil, &store.TransportError{Op: "create bill", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	created := &models.Bill{}
	if err := c.do(req, "create bill", http.StatusCreated, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UploadFile sends the attachment as multipart form data and returns the
// persisted reference the store assigned to it.
func (c *Client) UploadFile(ctx context.Context, file store.File) (*store.Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	header.Set("Content-Type", file.ContentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, &store.TransportError{Op: "upload file", Err: err}
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, &store.TransportError{Op: "upload file", Err: err}
	}
	if err := mw.Close(); err != nil {
		return nil, &store.TransportError{Op: "upload file", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return nil, &store.TransportError{Op: "upload file", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	upload := &store.Upload{}
	if err := c.do(req, "upload file", http.StatusCreated, upload); err != nil {
		return nil, err
	}
	return upload, nil
}

// do sends the request and decodes the response body into out. Any network
// failure or unexpected status becomes a *store.TransportError; server
// errors keep the "Erreur <code>" message the UI renders verbatim.
func (c *Client) do(req *http.Request, op string, wantStatus int, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &store.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		msg := readErrorMessage(resp.Body)
		if msg == "" {
			msg = fmt.Sprintf("Erreur %d", resp.StatusCode)
		}
		return &store.TransportError{Op: op, Err: fmt.Errorf("%s", msg)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &store.TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}
	return nil
}

// readErrorMessage extracts the "error" field of a JSON error body, if any.
func readErrorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil {
		return ""
	}
	return body.Error
}
