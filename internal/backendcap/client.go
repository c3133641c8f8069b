// Package backendcap delegates animation capture to an external rendering
// service. The service never sends executable instructions: it returns a
// declarative capture plan (which columns to show per step, how long to hold
// each) that a fixed local interpreter walks, submitting rendered frames back
// for assembly into a video file.
package backendcap

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aeronauty/DataVisualiser/internal/logger"
	"github.com/aeronauty/DataVisualiser/internal/models"
)

// captureTimeout bounds the whole remote capture exchange. Remote capture of
// a long animation is legitimately slow, so the limit is generous; beyond it
// the service is considered wedged.
const captureTimeout = 60 * time.Second

const planVersion = 1

// ErrCaptureTimeout distinguishes a capture that exceeded the service budget
// from ordinary network failure.
var ErrCaptureTimeout = errors.New("capture service did not finish within 60s")

// PlanStep is one frame of a capture plan: the columns to render and how long
// the assembled video holds that frame.
type PlanStep struct {
	XColumn string `json:"x_column"`
	YColumn string `json:"y_column"`
	DelayMS int    `json:"delay_ms"`
}

// CapturePlan is the declarative recording recipe returned by the capture
// service. Plans with an unknown version are rejected, never interpreted.
type CapturePlan struct {
	Version int        `json:"version"`
	Steps   []PlanStep `json:"steps"`
}

// Result describes the assembled artifact held by the capture service
type Result struct {
	Filename   string `json:"filename"`
	FrameCount int    `json:"frame_count"`
}

// FrameRenderer produces a PNG frame for one step's column selection
type FrameRenderer func(xColumn, yColumn string) ([]byte, error)

// Client talks to the capture service
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient creates a capture service client
func NewClient(baseURL string) *Client {
	client := resty.New().
		SetTimeout(captureTimeout).
		SetHeader("Accept", "application/json")
	return &Client{http: client, baseURL: baseURL}
}

// FetchPlan asks the service for a capture plan matching the configuration
func (c *Client) FetchPlan(ctx context.Context, cfg models.ChartConfig) (*CapturePlan, error) {
	var plan CapturePlan
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(cfg).
		SetResult(&plan).
		Post(c.baseURL + "/plan")
	if err != nil {
		return nil, c.wrapErr("fetch capture plan", err)
	}
	if resp.StatusCode() != 200 {
		logger.Warnf("Capture service returned status %d for plan request", resp.StatusCode())
		return nil, fmt.Errorf("capture service returned status %d for plan request", resp.StatusCode())
	}
	if plan.Version != planVersion {
		return nil, fmt.Errorf("unsupported capture plan version %d", plan.Version)
	}
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("capture service returned an empty plan")
	}
	return &plan, nil
}

type frameSubmission struct {
	Steps []submittedFrame `json:"steps"`
}

type submittedFrame struct {
	PNG     string `json:"png"` // base64
	DelayMS int    `json:"delay_ms"`
}

// Capture runs the full remote capture exchange: fetch the plan, render each
// step locally, submit the frames for assembly, and download the artifact.
func (c *Client) Capture(ctx context.Context, cfg models.ChartConfig, render FrameRenderer) (*Result, []byte, error) {
	plan, err := c.FetchPlan(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	submission := frameSubmission{Steps: make([]submittedFrame, 0, len(plan.Steps))}
	for i, step := range plan.Steps {
		png, err := render(step.XColumn, step.YColumn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to render plan step %d (%s/%s): %w", i, step.XColumn, step.YColumn, err)
		}
		submission.Steps = append(submission.Steps, submittedFrame{
			PNG:     base64.StdEncoding.EncodeToString(png),
			DelayMS: step.DelayMS,
		})
	}

	var result Result
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(submission).
		SetResult(&result).
		Post(c.baseURL + "/capture")
	if err != nil {
		return nil, nil, c.wrapErr("submit frames", err)
	}
	if resp.StatusCode() != 200 {
		logger.Warnf("Capture service returned status %d for frame submission", resp.StatusCode())
		return nil, nil, fmt.Errorf("capture service returned status %d for frame submission", resp.StatusCode())
	}
	if result.Filename == "" {
		return nil, nil, fmt.Errorf("capture service returned no artifact filename")
	}
	logger.Debug("Capture service assembled artifact", map[string]interface{}{
		"frames":   result.FrameCount,
		"filename": result.Filename,
	})

	data, err := c.Download(ctx, result.Filename)
	if err != nil {
		return nil, nil, err
	}
	return &result, data, nil
}

// Download fetches an assembled artifact by filename
func (c *Client) Download(ctx context.Context, filename string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(c.baseURL + "/download/" + url.PathEscape(filename))
	if err != nil {
		return nil, c.wrapErr("download artifact", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("capture service returned status %d downloading %q", resp.StatusCode(), filename)
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("capture service returned an empty artifact for %q", filename)
	}
	return resp.Body(), nil
}

// wrapErr classifies transport failures, surfacing timeouts distinctly
func (c *Client) wrapErr(op string, err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return fmt.Errorf("%s: %w", op, ErrCaptureTimeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrCaptureTimeout)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
