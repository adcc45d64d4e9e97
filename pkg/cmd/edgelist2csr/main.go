// Command edgelist2csr converts text edge lists into binary CSR graph files
// and inspects existing ones.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/gilchrisn/edgelist-csr/pkg/edgelist"
	"github.com/spf13/cobra"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "ERROR: %v\n", err)
	code := exitCode(err)
	if code == exitUsage {
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, root.UsageString())
	}
	return code
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "edgelist2csr",
		Short:         "Convert text edge lists to binary CSR graphs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "YAML/TOML/JSON config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(a.convertCmd(), a.inspectCmd(), a.exportCmd())
	return root
}

// loadConfig layers defaults, the config file, EDGELIST2CSR_* environment
// variables and command line flags, in increasing priority.
func (a *app) loadConfig() (*edgelist.Config, error) {
	config := edgelist.NewConfig()
	config.SetLogOutput(a.stderr)

	v := config.Viper()
	v.SetEnvPrefix("EDGELIST2CSR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if a.configFile != "" {
		if err := config.LoadFromFile(a.configFile); err != nil {
			return nil, usageError(fmt.Errorf("load config %s: %w", a.configFile, err))
		}
	}
	if a.logLevel != "" {
		config.Set("logging.level", a.logLevel)
	}
	return config, nil
}

// exactArgs wraps cobra.ExactArgs so argument count errors map to exitUsage.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
