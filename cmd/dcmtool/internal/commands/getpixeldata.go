package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/config"
	"github.com/codeninja55/dcmstream/dicom"
	"github.com/codeninja55/dcmstream/dicom/pixel"
)

// GetPixelDataCmd decompresses and extracts the raw pixel bytes of every
// frame in a DICOM file's Pixel Data element.
type GetPixelDataCmd struct {
	Path string `arg:"" help:"DICOM file to extract pixel data from"`
}

func (c *GetPixelDataCmd) Run(cfg *config.GlobalConfig) error {
	ds, err := dicom.ParseFile(c.Path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", c.Path, err)
	}

	pd, err := pixel.Extract(ds)
	if err != nil {
		return fmt.Errorf("extracting pixel data: %w", err)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir %s: %w", cfg.OutputDir, err)
	}

	base := filepath.Base(c.Path)
	ext := filepath.Ext(base)
	stem := base[:len(base)-len(ext)]

	outPath := filepath.Join(cfg.OutputDir, stem+".raw")
	raw := pd.RawBytes()
	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	logger().Info("extracted pixel data", "file", c.Path, "output", outPath,
		"bytes", len(raw), "frames", pd.NumberOfFrames)
	return nil
}
