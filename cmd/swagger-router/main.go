// Command swagger-router serves a Swagger 2.0 document behind the router and
// answers every routed request with the resolved decoration as JSON. It is
// meant for trying out a document before wiring real handlers.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/vitalvas/swaggerrouter/router"
	"github.com/vitalvas/swaggerrouter/swagger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := defaultConfig()

	root := &cobra.Command{
		Use:           "swagger-router",
		Short:         "Route HTTP requests by a Swagger 2.0 document",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "Path to a YAML config file")
	pf.StringP("spec", "s", defaults.Spec, "Path to the Swagger document (JSON or YAML)")
	pf.String("log-level", defaults.Log.Level, "Log level: trace, debug, info, warn, error")
	pf.String("log-format", defaults.Log.Format, "Log format: console, json")

	root.AddCommand(newServeCmd(defaults))
	root.AddCommand(newRoutesCmd())

	return root
}

// commandConfig loads the configuration for cmd from its --config file and
// flags.
func commandConfig(cmd *cobra.Command) (*Config, error) {
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(path, flags)
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes of the Swagger document in matching order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := commandConfig(cmd)
			if err != nil {
				return err
			}

			doc, err := swagger.Load(cfg.Spec)
			if err != nil {
				return err
			}

			rt, err := router.New(doc)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TEMPLATE\tMETHODS")
			for _, info := range rt.Routes() {
				fmt.Fprintf(tw, "%s\t%s\n", info.Template, strings.Join(info.Methods, ", "))
			}

			return tw.Flush()
		},
	}
}

func bindServeFlags(fs *pflag.FlagSet, defaults Config) {
	fs.StringP("listen", "l", defaults.Listen, "Address to listen on")
	fs.String("docs-path", defaults.DocsPath, "Path serving the document as JSON, empty to disable")
	fs.String("docs-yaml-path", defaults.DocsYAMLPath, "Path serving the document as YAML, empty to disable")
	fs.Int64("max-memory", defaults.MaxMemory, "Bytes of multipart form data kept in memory")
	fs.Int64("max-body", defaults.MaxBody, "Maximum request body size in bytes, 0 for no limit")
	fs.Duration("read-timeout", defaults.ReadTimeout, "HTTP server read timeout")
	fs.Duration("write-timeout", defaults.WriteTimeout, "HTTP server write timeout")
	fs.Bool("trust-request-id", defaults.TrustRequestID, "Reuse the incoming X-Request-ID header")
	fs.Bool("access-log", defaults.AccessLog, "Log one line per request")
}
