package commands

import (
	"fmt"
	"os"

	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/config"
	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/output"
	"github.com/codeninja55/dcmstream/dicom/tag"
)

// ListCmd summarizes one or more DICOM files, one row per file, showing
// the identifying attributes most commonly used to triage a study.
type ListCmd struct {
	Path string `arg:"" help:"File, glob, or - for stdin"`
}

var listTags = []tag.Tag{
	tag.PatientName,
	tag.PatientID,
	tag.StudyInstanceUID,
	tag.SeriesInstanceUID,
	tag.SOPInstanceUID,
}

func (c *ListCmd) Run(cfg *config.GlobalConfig) error {
	sets, err := openDataSets(c.Path)
	if err != nil {
		return err
	}

	var rows []output.ElementRow
	for _, ds := range sets {
		for _, t := range listTags {
			el, err := ds.DataSet.Get(t)
			if err != nil {
				continue
			}
			rows = append(rows, output.ElementRow{
				File:  ds.Name,
				Tag:   el.Tag().String(),
				VR:    el.VR().String(),
				Name:  el.Name(),
				Value: el.Value().String(),
			})
		}
	}

	logger().Info("listed data sets", "files", len(sets))
	if err := output.Render(rows, cfg.Format, os.Stdout); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	return nil
}
