package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/config"
	"github.com/codeninja55/dcmstream/dicom"
	"github.com/codeninja55/dcmstream/dicom/dicomjson"
)

// DcmToJSONCmd converts a DICOM file to its PS3.18 Annex F JSON
// representation.
type DcmToJSONCmd struct {
	Path                       string `arg:"" help:"DICOM file, glob, or - for stdin"`
	Output                     string `name:"output" short:"o" help:"Write JSON here instead of stdout"`
	StoreEncapsulatedPixelData bool   `name:"store-encapsulated-pixel-data" help:"Allow encapsulated Pixel Data as InlineBinary (non-standard extension)"`
}

func (c *DcmToJSONCmd) Run(cfg *config.GlobalConfig) error {
	sets, err := openDataSets(c.Path)
	if err != nil {
		return err
	}
	if len(sets) != 1 {
		return fmt.Errorf("dcm-to-json: expected exactly one input file, got %d", len(sets))
	}

	out, err := dicomjson.Marshal(sets[0].DataSet, dicomjson.Config{
		StoreEncapsulatedPixelData: c.StoreEncapsulatedPixelData,
		PrettyPrint:                true,
	})
	if err != nil {
		return fmt.Errorf("dcm-to-json: %w", err)
	}

	w, err := openOutput(c.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer w.Close()

	if _, err := w.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	logger().Info("converted to JSON", "file", sets[0].Name, "bytes", len(out))
	return nil
}

// JSONToDcmCmd converts a DICOM JSON document back into a DICOM P10 file.
type JSONToDcmCmd struct {
	Path                       string `arg:"" help:"JSON file, or - for stdin"`
	Output                     string `name:"output" short:"o" required:"" help:"Path to write the DICOM file"`
	StoreEncapsulatedPixelData bool   `name:"store-encapsulated-pixel-data" help:"Interpret Pixel Data InlineBinary as Item-framed encapsulated fragments"`
}

func (c *JSONToDcmCmd) Run(cfg *config.GlobalConfig) error {
	var r io.Reader = os.Stdin
	if c.Path != "-" {
		f, err := os.Open(c.Path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", c.Path, err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.Path, err)
	}

	ds, err := dicomjson.Unmarshal(data, dicomjson.Config{
		StoreEncapsulatedPixelData: c.StoreEncapsulatedPixelData,
	})
	if err != nil {
		return fmt.Errorf("json-to-dcm: %w", err)
	}

	if err := dicom.WriteFile(c.Output, ds); err != nil {
		return fmt.Errorf("writing %s: %w", c.Output, err)
	}

	logger().Info("converted from JSON", "input", c.Path, "output", c.Output, "elements", ds.Len())
	return nil
}
