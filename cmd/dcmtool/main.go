// Command dcmtool is a thin CLI shell over the dcmstream DICOM core,
// exposing the print/modify/get-pixel-data/list/dcm-to-json/json-to-dcm/
// archive/create-nrrd commands named in spec.md §6.
package main

import (
	"os"

	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cli.Run(version, commit, date); err != nil {
		os.Exit(1)
	}
}
