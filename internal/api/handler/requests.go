package handler

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"

	"nftwallet/internal/services"
)

const maxImageSize = 10 << 20

type MintPayload struct {
	Name          string
	Description   string
	Properties    map[string]any
	Image         []byte
	ImageFilename string
}

func (p *MintPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", services.ErrInvalidRequest)
	}
	if len(p.Image) == 0 {
		return fmt.Errorf("%w: image is required", services.ErrInvalidRequest)
	}
	return nil
}

type TransferPayload struct {
	ToAddress string `json:"to_address"`
}

func (p *TransferPayload) Validate() error {
	if strings.TrimSpace(p.ToAddress) == "" {
		return fmt.Errorf("%w: to_address is required", services.ErrInvalidRequest)
	}
	return nil
}

type PricePayload struct {
	Price uint64 `json:"price"`
}

func (p *PricePayload) Validate() error {
	if p.Price == 0 {
		return fmt.Errorf("%w: price must be positive", services.ErrInvalidRequest)
	}
	return nil
}

// bindMintPayload reads the multipart form: name, description, properties
// (a JSON object) and the image file.
func bindMintPayload(c echo.Context) (*MintPayload, error) {
	payload := &MintPayload{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	if raw := c.FormValue("properties"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &payload.Properties); err != nil {
			return nil, fmt.Errorf("%w: properties must be a JSON object", services.ErrInvalidRequest)
		}
	}

	header, err := c.FormFile("image")
	if err == nil {
		if header.Size > maxImageSize {
			return nil, fmt.Errorf("%w: image exceeds %d bytes", services.ErrInvalidRequest, maxImageSize)
		}
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()

		payload.Image, err = io.ReadAll(io.LimitReader(file, maxImageSize))
		if err != nil {
			return nil, err
		}
		payload.ImageFilename = header.Filename
	}

	return payload, payload.Validate()
}

func parseAssetID(c echo.Context) (uint64, error) {
	assetID, err := strconv.ParseUint(c.Param("asset_id"), 10, 64)
	if err != nil || assetID == 0 {
		return 0, fmt.Errorf("%w: invalid asset id", services.ErrInvalidRequest)
	}
	return assetID, nil
}
