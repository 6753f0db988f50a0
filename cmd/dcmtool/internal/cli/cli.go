// Package cli assembles dcmtool's kong command tree and wires up logging,
// following the same root-command/GlobalConfig pattern as the teacher
// CLI's cmd/radx/internal/cli.
package cli

import (
	"github.com/alecthomas/kong"

	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/commands"
	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/config"
	"github.com/codeninja55/dcmstream/cmd/dcmtool/internal/logging"
)

const (
	appName        = "dcmtool"
	appDescription = "DICOM Part 10 inspection, modification, and conversion CLI"
)

// CLI is the root command structure: one GlobalConfig embedded, plus one
// field per subcommand named in spec.md §6.
type CLI struct {
	config.GlobalConfig

	Print         commands.PrintCmd         `cmd:"" name:"print" help:"Print every element of a DICOM file"`
	Modify        commands.ModifyCmd        `cmd:"" name:"modify" help:"Set or remove elements in a DICOM file"`
	GetPixelData  commands.GetPixelDataCmd  `cmd:"" name:"get-pixel-data" help:"Extract decompressed Pixel Data to a file"`
	List          commands.ListCmd          `cmd:"" name:"list" help:"Summarize one or more DICOM files"`
	DcmToJSON     commands.DcmToJSONCmd     `cmd:"" name:"dcm-to-json" help:"Convert a DICOM file to DICOM JSON (PS3.18 Annex F)"`
	JSONToDcm     commands.JSONToDcmCmd     `cmd:"" name:"json-to-dcm" help:"Convert DICOM JSON back into a DICOM P10 file"`
	Archive       commands.ArchiveCmd       `cmd:"" name:"archive" help:"Package DICOM files into an archive (not implemented)"`
	CreateNRRD    commands.CreateNRRDCmd    `cmd:"" name:"create-nrrd" help:"Convert pixel data to an NRRD image (not implemented)"`
}

// Run parses os.Args (via kong.Parse) and dispatches to the selected
// subcommand.
func Run(version, commit, date string) error {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name(appName),
		kong.Description(appDescription),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version": version,
			"commit":  commit,
			"date":    date,
		},
	)

	logger := logging.Setup(&cli.GlobalConfig)
	logger.Debug("dcmtool starting", "version", version, "commit", commit, "build_date", date)

	if err := ctx.Run(&cli.GlobalConfig); err != nil {
		logger.Error("command failed", "error", err)
		return err
	}
	return nil
}
