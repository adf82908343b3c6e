package report

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/yeseniachungo-gv/prototrack-mobile-sub000/internal/state"
)

// Kind selects the report template the service renders.
type Kind string

const (
	KindDaily        Kind = "daily"
	KindWeekly       Kind = "weekly"
	KindMonthly      Kind = "monthly"
	KindConsolidated Kind = "consolidated"
)

// SectionNames returns the analysis sections the service renders for a
// report kind, in display order.
func SectionNames(kind Kind) []string {
	switch kind {
	case KindDaily:
		return []string{"Production summary", "Hourly breakdown", "Stoppages"}
	case KindWeekly:
		return []string{"Week overview", "Daily comparison", "Top performers", "Stoppages"}
	case KindMonthly:
		return []string{"Month overview", "Weekly trend", "Top performers", "Stoppages", "Recommendations"}
	case KindConsolidated:
		return []string{"Overall summary", "Per-line comparison", "Long-term trend", "Recommendations"}
	default:
		return nil
	}
}

// FunctionSnapshot is the per-function slice of production data the service
// analyses. It mirrors the grid: pieces and observations keyed worker → hour.
type FunctionSnapshot struct {
	Name         string                                  `json:"name"`
	Workers      []string                                `json:"workers"`
	Hours        []string                                `json:"hours"`
	Pieces       map[string]map[string]int               `json:"pieces"`
	Observations map[string]map[string]state.Observation `json:"observations"`
	TotalPieces  int                                     `json:"totalPieces"`
}

// Request is the payload sent to the report service.
type Request struct {
	Kind      Kind               `json:"kind"`
	Profile   string             `json:"profile"`
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Functions []FunctionSnapshot `json:"functions"`
}

// Section is one named markdown-formatted analysis block.
type Section struct {
	Name     string `json:"name"`
	Markdown string `json:"markdown"`
}

// Report is the structured text the service returns. The content is
// non-deterministic; nothing in the tracker state depends on it.
type Report struct {
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
}

type generateResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Report Report `json:"report"`
}

// Client talks to the generative-report service.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds a client for the service at baseURL. apiKey may be empty
// when the service does not require one.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &Client{httpClient: client, logger: logger}
}

// Ping is the cheap reachability probe run before generating. It keeps an
// obviously-offline session from waiting out the full request timeout.
func (c *Client) Ping(ctx context.Context) error {
	probe, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := c.httpClient.R().SetContext(probe).Get("/healthz")
	if err != nil {
		return fmt.Errorf("report service unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("report service unhealthy: %s", resp.Status())
	}
	return nil
}

// Generate asks the service to render a report for the given snapshot. It
// fails open: any error leaves the caller's state untouched.
func (c *Client) Generate(ctx context.Context, req Request) (*Report, error) {
	if err := c.Ping(ctx); err != nil {
		return nil, err
	}

	c.logger.Info("generating report",
		zap.String("kind", string(req.Kind)),
		zap.String("profile", req.Profile),
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int("functions", len(req.Functions)),
	)

	var response generateResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&response).
		Post("/v1/reports/generate")
	if err != nil {
		c.logger.Error("report request failed", zap.Error(err))
		return nil, fmt.Errorf("calling report service: %w", err)
	}
	if resp.IsError() {
		c.logger.Error("report service rejected request",
			zap.Int("status_code", resp.StatusCode()))
		return nil, fmt.Errorf("report service error: %s", resp.Status())
	}
	if response.Status != 0 {
		return nil, fmt.Errorf("report service error: %s (status %d)", response.Msg, response.Status)
	}

	c.logger.Info("report generated",
		zap.String("title", response.Report.Title),
		zap.Int("sections", len(response.Report.Sections)),
	)
	return &response.Report, nil
}

// Snapshot builds the request payload for a span of days from one profile.
// Days outside [startDate, endDate] (ISO dates, inclusive) are skipped.
func Snapshot(p *state.Profile, kind Kind, startDate, endDate string) Request {
	req := Request{
		Kind:      kind,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if p == nil {
		return req
	}
	req.Profile = p.Name
	for i := range p.Days {
		d := &p.Days[i]
		if d.ID < startDate || d.ID > endDate {
			continue
		}
		for j := range d.Functions {
			f := &d.Functions[j]
			req.Functions = append(req.Functions, FunctionSnapshot{
				Name:         f.Name,
				Workers:      f.Workers,
				Hours:        f.Hours,
				Pieces:       f.Pieces,
				Observations: f.Observations,
				TotalPieces:  f.TotalPieces(),
			})
		}
	}
	return req
}
