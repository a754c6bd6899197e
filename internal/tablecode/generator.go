// Package tablecode generates the scannable access artifact handed out for a
// dining table. It is invoked as an explicit post-creation hook by the table
// registry and is deliberately outside the order lifecycle core.
package tablecode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Generator produces the access artifact for a table and returns the encoded
// URL customers will reach when scanning it.
type Generator interface {
	Generate(tableNumber string) (string, error)
}

// QRGenerator renders a QR PNG encoding {base}/{table_number} into OutputDir.
type QRGenerator struct {
	BaseURL   string
	OutputDir string
	Size      int // image edge in pixels
}

// NewQRGenerator creates a QRGenerator with a sensible default image size.
func NewQRGenerator(baseURL, outputDir string) *QRGenerator {
	return &QRGenerator{
		BaseURL:   baseURL,
		OutputDir: outputDir,
		Size:      256,
	}
}

func (g *QRGenerator) Generate(tableNumber string) (string, error) {
	url := strings.TrimRight(g.BaseURL, "/") + "/" + tableNumber

	if err := os.MkdirAll(g.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create table code directory: %w", err)
	}

	path := filepath.Join(g.OutputDir, fmt.Sprintf("table-%s.png", tableNumber))
	if err := qrcode.WriteFile(url, qrcode.Medium, g.Size, path); err != nil {
		return "", fmt.Errorf("failed to write table code for '%s': %w", tableNumber, err)
	}
	return url, nil
}
