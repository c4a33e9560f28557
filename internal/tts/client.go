// Package tts reads questions and results aloud through a speech server.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"sync"

	"github.com/goccy/go-json"
	"github.com/harrison/neuroscreen/internal/config"
)

// speechRequest is the JSON body for synthesis requests.
type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed"`
}

// Client speaks text with lazy health checking. Only the most recent
// utterance plays: a new Speak interrupts the previous one.
type Client struct {
	config     config.TTSConfig
	httpClient *http.Client
	play       func(ctx context.Context, audio []byte) error
	available  bool
	once       sync.Once

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClient creates a client for cfg. The HTTP timeout comes from the config.
func NewClient(cfg config.TTSConfig) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		play: playAudio,
	}
}

// CheckHealth reports whether the server answers 200 OK on its root.
func (c *Client) CheckHealth() bool {
	resp, err := c.httpClient.Get(c.config.BaseURL + "/")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// IsAvailable reports whether speech is enabled and the server is healthy.
// The health check runs once and is cached.
func (c *Client) IsAvailable() bool {
	if !c.config.Enabled {
		return false
	}
	c.once.Do(func() {
		c.available = c.CheckHealth()
	})
	return c.available
}

// Config returns the client's configuration.
func (c *Client) Config() config.TTSConfig {
	return c.config
}

// Speak synthesizes and plays text in the background, interrupting anything
// still being spoken. It never blocks and ignores all errors.
func (c *Client) Speak(text string) {
	if !c.IsAvailable() {
		return
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		audio, err := c.synthesize(ctx, text)
		if err != nil {
			return
		}
		c.play(ctx, audio)
	}()
}

func (c *Client) synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(speechRequest{
		Model:          c.config.Model,
		Input:          text,
		Voice:          c.config.Voice,
		ResponseFormat: "wav",
		Speed:          1.0,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech server returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Wait blocks until everything already spoken has finished playing.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Close interrupts playback and waits for it to stop.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
	return nil
}

// playAudio writes audio to a temp file and plays it with the system player
// (afplay on macOS, aplay on Linux). Cancelling ctx stops playback.
func playAudio(ctx context.Context, audio []byte) error {
	var player []string
	switch runtime.GOOS {
	case "darwin":
		player = []string{"afplay"}
	case "linux":
		player = []string{"aplay", "-q"}
	default:
		return fmt.Errorf("no audio player for %s", runtime.GOOS)
	}

	tmpFile, err := os.CreateTemp("", "neuroscreen-tts-*.wav")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	_, err = tmpFile.Write(audio)
	tmpFile.Close()
	if err != nil {
		return err
	}

	args := append(player[1:], tmpPath)
	return exec.CommandContext(ctx, player[0], args...).Run()
}
