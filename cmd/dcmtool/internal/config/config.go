// Package config defines the global flags shared by every dcmtool
// subcommand.
package config

// OutputFormat selects how a command renders its result to stdout.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// GlobalConfig holds the flags kong attaches to every subcommand's Run
// method, mirroring the pattern of a single shared config struct embedded
// in the root CLI.
type GlobalConfig struct {
	LogLevel  string       `name:"log-level" enum:"trace,debug,info,warn,error,fatal" default:"info" help:"Minimum log level"`
	LogFile   string       `name:"log-file" help:"Rotate logs to this file instead of stderr"`
	Pretty    bool         `name:"pretty" default:"true" negatable:"" help:"Human-readable log output instead of JSON"`
	Format    OutputFormat `name:"format" enum:"table,json" default:"table" help:"Output rendering for print/list"`
	Debug     bool         `name:"debug" help:"Report caller file:line in logs"`
	OutputDir string       `name:"output-dir" default:"." type:"path" help:"Directory for extracted/derived output files"`
}
