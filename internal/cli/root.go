package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/docclient/version"
)

// DefaultAccept prefers markup the transformer can parse.
const DefaultAccept = "text/html, application/xhtml+xml, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.8"

type fetchOptions struct {
	configFile string
	timeout    time.Duration
	accept     string
	headers    []string
	selector   string
	xpath      string
	attr       string
	logLevel   string
	verbose    bool
}

// NewRootCmd builds the docfetch command tree.
func NewRootCmd() *cobra.Command {
	o := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "docfetch URL",
		Short: "Fetch a URL and print its parsed HTML or XML document",
		Long: `docfetch fetches a URL, parses the response into an HTML or XML document
according to its Content-Type, and prints what it found. Use --selector to
query HTML with CSS selectors or --xpath to query XML with element paths.`,
		Version:       version.GetShortVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configFile, "config", "c", "", "Config file (default: searched under ./cmd/docfetch, ./config and .)")
	f.DurationVarP(&o.timeout, "timeout", "t", 0, "Request timeout (overrides http.timeout)")
	f.StringVar(&o.accept, "accept", DefaultAccept, "Accept header sent with the request")
	f.StringArrayVarP(&o.headers, "header", "H", nil, "Extra request header as 'Name: value' (repeatable)")
	f.StringVarP(&o.selector, "selector", "s", "", "CSS selector applied to HTML documents")
	f.StringVarP(&o.xpath, "xpath", "x", "", "Element path applied to XML documents")
	f.StringVarP(&o.attr, "attr", "a", "", "Print this attribute of matched nodes instead of their text")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Describe the configured components on stderr")
	cmd.MarkFlagsMutuallyExclusive("selector", "xpath")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the docfetch command.
func Execute() error {
	return NewRootCmd().Execute()
}
