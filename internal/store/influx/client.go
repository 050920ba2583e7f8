// Package influx implements the point store against an InfluxDB 1.x
// server over its HTTP API: /query for the cursor lookup and /write
// with line protocol for points.
package influx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/jera/internal/apperr"
	"github.com/starford/jera/internal/models"
	"github.com/starford/jera/internal/store"
)

// Options configures a Client. Zero values get sensible defaults.
type Options struct {
	BaseURL     string // e.g. http://localhost:8086
	Database    string
	Measurement string
	HTTPClient  *http.Client
}

// Client talks to one InfluxDB database. Safe for concurrent use.
type Client struct {
	baseURL     string
	database    string
	measurement string
	httpClient  *http.Client
}

// Verify Client satisfies the store capabilities at compile time.
var _ store.Store = (*Client)(nil)

// NewClient builds a Client from options.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:8086"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	measurement := strings.TrimSpace(opts.Measurement)
	if measurement == "" {
		measurement = "notes"
	}
	return &Client{
		baseURL:     baseURL,
		database:    opts.Database,
		measurement: measurement,
		httpClient:  httpClient,
	}
}

// queryResponse is the subset of the /query JSON payload we read.
type queryResponse struct {
	Results []struct {
		Series []struct {
			Columns []string `json:"columns"`
			Values  [][]any  `json:"values"`
		} `json:"series"`
		Err string `json:"error"`
	} `json:"results"`
	Err string `json:"error"`
}

// LatestTimestamp fetches the newest point in this client's
// measurement. The query is scoped by measurement name so other series
// in the database are never consulted.
func (c *Client) LatestTimestamp(ctx context.Context) (time.Time, bool, error) {
	q := fmt.Sprintf("SELECT * FROM %q ORDER BY time DESC LIMIT 1", c.measurement)
	u := fmt.Sprintf("%s/query?db=%s&epoch=s&q=%s",
		c.baseURL, url.QueryEscape(c.database), url.QueryEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("influx: build query request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("influx: query %s: %v: %w", c.baseURL, err, apperr.ErrStoreUnreachable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("influx: read query response: %w", apperr.ErrStoreUnreachable)
	}
	if resp.StatusCode != http.StatusOK {
		return time.Time{}, false, fmt.Errorf("influx: query status %d: %w", resp.StatusCode, apperr.ErrQueryRejected)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return time.Time{}, false, fmt.Errorf("influx: decode query response: %w", apperr.ErrQueryRejected)
	}
	if qr.Err != "" {
		return time.Time{}, false, fmt.Errorf("influx: %s: %w", qr.Err, apperr.ErrQueryRejected)
	}
	if len(qr.Results) == 0 {
		return time.Time{}, false, nil
	}
	if qr.Results[0].Err != "" {
		return time.Time{}, false, fmt.Errorf("influx: %s: %w", qr.Results[0].Err, apperr.ErrQueryRejected)
	}

	// An empty measurement yields a result with no series: a valid
	// first-run answer, not an error.
	for _, series := range qr.Results[0].Series {
		timeCol := -1
		for i, col := range series.Columns {
			if col == "time" {
				timeCol = i
				break
			}
		}
		if timeCol < 0 {
			continue
		}
		for _, row := range series.Values {
			if timeCol >= len(row) {
				continue
			}
			sec, ok := row[timeCol].(float64)
			if !ok {
				return time.Time{}, false, fmt.Errorf("influx: non-numeric time value: %w", apperr.ErrQueryRejected)
			}
			return time.Unix(int64(sec), 0).UTC(), true, nil
		}
	}
	return time.Time{}, false, nil
}

// WriteBatch pushes records one write per record so the store can
// accept or reject each date independently. A rejected record is
// reported in its status and the batch continues; a transport failure
// stops the batch with the statuses settled so far.
func (c *Client) WriteBatch(ctx context.Context, records []models.IngestionRecord) ([]store.WriteStatus, error) {
	statuses := make([]store.WriteStatus, 0, len(records))
	for _, rec := range records {
		err := c.writeRecord(ctx, rec)
		if err != nil && errors.Is(err, apperr.ErrStoreUnreachable) {
			return statuses, err
		}
		statuses = append(statuses, store.WriteStatus{Record: rec, Err: err})
	}
	return statuses, nil
}

func (c *Client) writeRecord(ctx context.Context, rec models.IngestionRecord) error {
	lines := encodeLines(c.measurement, rec)
	u := fmt.Sprintf("%s/write?db=%s&precision=s", c.baseURL, url.QueryEscape(c.database))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u,
		strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		return fmt.Errorf("influx: build write request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("influx: write %s: %v: %w", c.baseURL, err, apperr.ErrStoreUnreachable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("influx: write status %d: %s: %w",
		resp.StatusCode, strings.TrimSpace(string(body)), apperr.ErrWriteRejected)
}

// encodeLines renders one record as line protocol. Tagged days get one
// value=1 point per tag, offset a second apart so points on the same
// day never collide. A tagless day still gets a single value=0 point:
// the date must advance the cursor even when nothing was tagged.
func encodeLines(measurement string, rec models.IngestionRecord) []string {
	base := escapeMeasurement(measurement) + ",weekday=" + rec.Date.Format("Mon")
	ts := rec.Date.Unix()

	if len(rec.Tags) == 0 {
		return []string{fmt.Sprintf("%s value=0i %d", base, ts)}
	}

	lines := make([]string, 0, len(rec.Tags))
	for i, tag := range rec.Tags {
		lines = append(lines, fmt.Sprintf("%s,frontmatter_tag=%s value=1i %d",
			base, escapeTag(tag), ts+int64(i)))
	}
	return lines
}

var (
	measurementEscaper = strings.NewReplacer(",", `\,`, " ", `\ `)
	tagEscaper         = strings.NewReplacer(",", `\,`, " ", `\ `, "=", `\=`)
)

func escapeMeasurement(s string) string { return measurementEscaper.Replace(s) }

func escapeTag(s string) string { return tagEscaper.Replace(s) }
