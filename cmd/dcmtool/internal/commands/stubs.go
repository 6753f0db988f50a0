package commands

import "github.com/codeninja55/dcmstream/cmd/dcmtool/internal/config"

// ArchiveCmd is named by spec.md §6 but depends on ZIP packaging, an
// out-of-scope external codec this module does not vendor.
type ArchiveCmd struct {
	Paths []string `arg:"" optional:"" help:"Files to archive (unused; not implemented)"`
}

func (c *ArchiveCmd) Run(cfg *config.GlobalConfig) error {
	return stubCommand("archive")
}

// CreateNRRDCmd is named by spec.md §6 but depends on an NRRD image
// writer, an out-of-scope external codec this module does not vendor.
type CreateNRRDCmd struct {
	Path string `arg:"" optional:"" help:"File to convert (unused; not implemented)"`
}

func (c *CreateNRRDCmd) Run(cfg *config.GlobalConfig) error {
	return stubCommand("create-nrrd")
}
