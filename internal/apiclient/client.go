package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// RecentScanLimit is how many tickets RecentTickets scans.
const RecentScanLimit = 200

// Client talks to the remote ticket REST API.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *observability.Metrics
	logger  *zap.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// New constructs a client for the API rooted at opts.BaseURL.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// ListTickets fetches one page of tickets with filters merged into the query.
func (c *Client) ListTickets(ctx context.Context, filters domain.Filters, page domain.Page) (domain.TicketPage, error) {
	var resp dto.TicketListResponse
	if err := c.do(ctx, http.MethodGet, "/tickets", "/tickets"+ListQuery(filters, page), nil, &resp); err != nil {
		return domain.TicketPage{}, err
	}
	return resp.ToDomain(), nil
}

// GetTicket fetches a ticket by id.
func (c *Client) GetTicket(ctx context.Context, id int64) (domain.Ticket, error) {
	var resp dto.TicketResponse
	if err := c.do(ctx, http.MethodGet, "/tickets/{id}", ticketPath(id), nil, &resp); err != nil {
		return domain.Ticket{}, err
	}
	return resp.ToDomain(), nil
}

// CreateTicket creates a ticket and returns it as stored, including its new id.
func (c *Client) CreateTicket(ctx context.Context, t domain.Ticket) (domain.Ticket, error) {
	var resp *dto.TicketResponse
	if err := c.do(ctx, http.MethodPost, "/tickets", "/tickets", dto.NewTicketPayload(t), &resp); err != nil {
		return domain.Ticket{}, err
	}
	if resp == nil {
		return t, nil
	}
	return resp.ToDomain(), nil
}

// UpdateTicket replaces the editable fields of ticket id.
func (c *Client) UpdateTicket(ctx context.Context, id int64, t domain.Ticket) (domain.Ticket, error) {
	var resp *dto.TicketResponse
	if err := c.do(ctx, http.MethodPut, "/tickets/{id}", ticketPath(id), dto.NewTicketPayload(t), &resp); err != nil {
		return domain.Ticket{}, err
	}
	if resp == nil || resp.ID == 0 {
		t.ID = id
		return t, nil
	}
	return resp.ToDomain(), nil
}

// ArchiveTicket soft-deletes ticket id.
func (c *Client) ArchiveTicket(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/tickets/{id}", ticketPath(id), nil, nil)
}

// Stats fetches the aggregate for one dimension.
func (c *Client) Stats(ctx context.Context, dim domain.StatDimension) ([]domain.StatRow, error) {
	path := statsPath(dim)
	var resp []dto.StatRowResponse
	if err := c.do(ctx, http.MethodGet, path, path, nil, &resp); err != nil {
		return nil, err
	}
	rows := make([]domain.StatRow, 0, len(resp))
	for _, r := range resp {
		row, err := r.ToDomain(dim)
		if err != nil {
			return nil, apperrors.NewUpstreamUnavailable(err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// StatsByStatus fetches counts per status.
func (c *Client) StatsByStatus(ctx context.Context) ([]domain.StatRow, error) {
	return c.Stats(ctx, domain.DimensionStatus)
}

// StatsByPriority fetches counts per priority.
func (c *Client) StatsByPriority(ctx context.Context) ([]domain.StatRow, error) {
	return c.Stats(ctx, domain.DimensionPriority)
}

// StatsByCategory fetches counts per CI category.
func (c *Client) StatsByCategory(ctx context.Context) ([]domain.StatRow, error) {
	return c.Stats(ctx, domain.DimensionCategory)
}

// RecentTickets returns tickets opened within the last days before now. The
// API has no date filter, so the first RecentScanLimit tickets are scanned.
func (c *Client) RecentTickets(ctx context.Context, days int, now time.Time) ([]domain.Ticket, error) {
	page, err := c.ListTickets(ctx, nil, domain.Page{Limit: RecentScanLimit, Offset: 0})
	if err != nil {
		return nil, err
	}
	since := now.AddDate(0, 0, -days)
	out := make([]domain.Ticket, 0, len(page.Tickets))
	for _, t := range page.Tickets {
		if t.OpenTime != nil && !t.OpenTime.Before(since) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Ping checks that the API answers a minimal list call.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListTickets(ctx, nil, domain.Page{Limit: 1})
	return err
}

// ListQuery serializes filters and pagination into a query string, including
// the leading '?' when non-empty.
func ListQuery(filters domain.Filters, page domain.Page) string {
	q := url.Values{}
	if page.Limit > 0 {
		q.Set("limit", strconv.Itoa(page.Limit))
		q.Set("offset", strconv.Itoa(page.Offset))
	}
	for _, k := range filters.Keys() {
		q.Set(string(k), filters[k])
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func ticketPath(id int64) string {
	return "/tickets/" + strconv.FormatInt(id, 10)
}

func statsPath(dim domain.StatDimension) string {
	switch dim {
	case domain.DimensionStatus:
		return "/tickets/stats/by-status"
	case domain.DimensionPriority:
		return "/tickets/stats/by-priority"
	default:
		return "/tickets/stats/by-ciCat"
	}
}

// do issues one request. endpoint is the path template used for metrics; out
// may be nil when the body is ignored.
func (c *Client) do(ctx context.Context, method, endpoint, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstream(endpoint, method, 0, time.Since(start))
		c.logger.Warn("ticket api unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperrors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstream(endpoint, method, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		var errBody dto.ErrorResponse
		if raw, readErr := io.ReadAll(resp.Body); readErr == nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, &errBody)
		}
		c.logger.Info("ticket api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", errBody.Message))
		return apperrors.NewUpstreamError(resp.StatusCode, errBody.Message)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewUpstreamUnavailable(err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewUpstreamUnavailable(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}
