package modelserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veriscan/veriscan-detection-service/internal/domain/entity"
)

// Client scores tensors against a TensorFlow Serving REST endpoint.
// One client is bound to one served model.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, model string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) Name() string {
	return c.model
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error,omitempty"`
}

func (c *Client) Score(ctx context.Context, tensor entity.Tensor) (float64, error) {
	body, err := json.Marshal(predictRequest{Instances: instancesFrom(tensor)})
	if err != nil {
		return 0, fmt.Errorf("encode predict request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call model %s: %w", c.model, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read predict response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model %s returned status %d: %s", c.model, resp.StatusCode, truncate(raw, 256))
	}

	var out predictResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("decode predict response: %w", err)
	}
	if out.Error != "" {
		return 0, fmt.Errorf("model %s error: %s", c.model, out.Error)
	}
	if len(out.Predictions) == 0 || len(out.Predictions[0]) == 0 {
		return 0, fmt.Errorf("model %s returned no predictions", c.model)
	}

	score := out.Predictions[0][0]
	c.logger.Debug("model prediction",
		zap.String("model", c.model),
		zap.Float64("score", score))
	return score, nil
}

// Ready probes the model metadata endpoint. TensorFlow Serving answers
// 200 only once the model version is loaded and servable.
func (c *Client) Ready(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build readiness request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("model %s unreachable: %w", c.model, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model %s not ready: status %d", c.model, resp.StatusCode)
	}
	return nil
}

func instancesFrom(t entity.Tensor) [][][][]float32 {
	instances := make([][][][]float32, t.Batch)
	for b := 0; b < t.Batch; b++ {
		rows := make([][][]float32, t.Height)
		for y := 0; y < t.Height; y++ {
			cols := make([][]float32, t.Width)
			for x := 0; x < t.Width; x++ {
				px := make([]float32, t.Channels)
				for ch := 0; ch < t.Channels; ch++ {
					px[ch] = t.At(b, y, x, ch)
				}
				cols[x] = px
			}
			rows[y] = cols
		}
		instances[b] = rows
	}
	return instances
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
