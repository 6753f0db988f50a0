package commands

import (
	"fmt"
	"os"

	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/config"
	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/output"
)

// PrintCmd dumps every element of one or more DICOM files.
type PrintCmd struct {
	Path string `arg:"" help:"File, glob, or - for stdin"`
}

func (c *PrintCmd) Run(cfg *config.GlobalConfig) error {
	sets, err := openDataSets(c.Path)
	if err != nil {
		return err
	}

	var rows []output.ElementRow
	for _, ds := range sets {
		rows = append(rows, datasetRows(ds.Name, ds.DataSet, len(sets) > 1)...)
	}

	logger().Info("printed data set", "files", len(sets), "elements", len(rows))
	if err := output.Render(rows, cfg.Format, os.Stdout); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	return nil
}
