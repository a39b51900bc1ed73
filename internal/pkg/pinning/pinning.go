package pinning

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/segmentio/encoding/json"

	"nftwallet/internal/pkg/metrics"
)

const (
	DefaultAPIURL     = "https://api.pinata.cloud"
	DefaultGatewayURL = "https://gateway.pinata.cloud/ipfs/"
)

var (
	ErrConfig  = errors.New("pinning: api credentials are not configured")
	ErrStorage = errors.New("pinning: content storage rejected upload")
)

// Uploader pins content and returns a stable retrieval URL.
type Uploader interface {
	UploadFile(ctx context.Context, name string, data []byte) (string, error)
	UploadJSON(ctx context.Context, name string, v any) (string, error)
}

type Config struct {
	APIKey       string
	APISecretKey string
	APIURL       string
	GatewayURL   string
	Timeout      time.Duration
}

type Pinata struct {
	cfg    Config
	client *httpclient.Client
}

func NewPinata(cfg Config) *Pinata {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = DefaultGatewayURL
	}
	if !strings.HasSuffix(cfg.GatewayURL, "/") {
		cfg.GatewayURL += "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	client := httpclient.NewClient(
		httpclient.WithHTTPTimeout(cfg.Timeout),
		httpclient.WithRetryCount(0),
	)
	return &Pinata{cfg: cfg, client: client}
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

type pinataMetadata struct {
	Name string `json:"name"`
}

type pinJSONRequest struct {
	PinataContent  any            `json:"pinataContent"`
	PinataMetadata pinataMetadata `json:"pinataMetadata"`
}

func (p *Pinata) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	if err := p.checkCredentials(); err != nil {
		return "", err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	meta, err := json.Marshal(pinataMetadata{Name: name})
	if err != nil {
		return "", err
	}
	if err := writer.WriteField("pinataMetadata", string(meta)); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url, err := p.pin(ctx, "/pinning/pinFileToIPFS", writer.FormDataContentType(), body)
	metrics.PinningUploads.WithLabelValues("file", metrics.Outcome(err)).Inc()
	return url, err
}

func (p *Pinata) UploadJSON(ctx context.Context, name string, v any) (string, error) {
	if err := p.checkCredentials(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(pinJSONRequest{
		PinataContent:  v,
		PinataMetadata: pinataMetadata{Name: name},
	})
	if err != nil {
		return "", err
	}

	url, err := p.pin(ctx, "/pinning/pinJSONToIPFS", "application/json", bytes.NewReader(payload))
	metrics.PinningUploads.WithLabelValues("json", metrics.Outcome(err)).Inc()
	return url, err
}

func (p *Pinata) checkCredentials() error {
	if p.cfg.APIKey == "" || p.cfg.APISecretKey == "" {
		return ErrConfig
	}
	return nil
}

func (p *Pinata) pin(ctx context.Context, path string, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(p.cfg.APIURL, "/")+path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("pinata_api_key", p.cfg.APIKey)
	req.Header.Set("pinata_secret_api_key", p.cfg.APISecretKey)

	resp, err := p.client.Do(req)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("%w: status %d", ErrStorage, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("pinning: %s returned %d", path, resp.StatusCode)
		return "", fmt.Errorf("%w: status %d: %s", ErrStorage, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if out.IpfsHash == "" {
		return "", fmt.Errorf("%w: empty content hash", ErrStorage)
	}
	return p.cfg.GatewayURL + out.IpfsHash, nil
}
