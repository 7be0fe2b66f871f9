// Package cli implements the fieldproj command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"field-projection/internal/config"
	"field-projection/internal/logging"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Version is the fieldproj release.
const Version = "0.1.0"

const modulePath = "field-projection"

// rootOptions holds global flag values accessible to all subcommands.
type rootOptions struct {
	configFile string
	dir        string

	v   *viper.Viper
	cfg *config.Config
}

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// NewRootCmd creates the top-level "fieldproj" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{v: config.New()}

	root := &cobra.Command{
		Use:   "fieldproj",
		Short: "Generate typed field projection descriptors",
		Long: "fieldproj reads struct types marked with //fieldproj:generate (or listed in a schema file)\n" +
			"and generates descriptor sets that project pointers, pinned handles and\n" +
			"uninitialized storage onto individual fields.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "config file (default: .fieldproj.yaml in --dir)")
	pf.StringVarP(&opts.dir, "dir", "C", ".", "directory to resolve package patterns and the schema in")
	pf.String("schema", "", "schema file requesting projection support")
	pf.String("output", "", "write generated files to this directory instead of each package")
	pf.String("filename", "", "name of the generated file")
	pf.String("runtime-import", "", "import path of the projection runtime")
	pf.Bool("comments", true, "emit relocatability and capability comments")
	pf.Bool("strict", false, "report warnings as errors")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.Bool("log-dev", false, "use the development logger")

	for key, flag := range map[string]string{
		config.KeySchema:        "schema",
		config.KeyOutput:        "output",
		config.KeyFilename:      "filename",
		config.KeyRuntimeImport: "runtime-import",
		config.KeyComments:      "comments",
		config.KeyStrict:        "strict",
		config.KeyLogLevel:      "log-level",
		config.KeyLogDev:        "log-dev",
	} {
		// Flags only override config and env values when set explicitly.
		_ = opts.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(newGenCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newInspectCmd(opts))
	root.AddCommand(newHashCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// load resolves the configuration and installs the logger.
func (o *rootOptions) load() error {
	cfg, err := config.Load(o.v, o.configFile, o.dir)
	if err != nil {
		return userError(err)
	}

	l, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return userError(err)
	}

	logging.SetLogger(l)

	o.cfg = cfg

	return nil
}

// Run executes the root command with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}

	fmt.Fprintln(stderr, "fieldproj:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	// Flag and argument parsing errors.
	return exitUserError
}
