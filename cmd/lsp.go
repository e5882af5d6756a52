package cmd

import (
	"context"
	"os"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/echolysis/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the clone-navigation language server over stdio",
	Long: `Serve the Language Server Protocol over stdin/stdout, indexing
workspace files as they're opened or changed and publishing "duplicated
code" diagnostics with goto-definition to clone siblings.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		server := lsp.NewServer()
		stream := jsonrpc2.NewBufferedStream(stdioReadWriteCloser{}, jsonrpc2.VSCodeObjectCodec{})
		server.Serve(context.Background(), stream)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lspCmd)
}

// stdioReadWriteCloser adapts os.Stdin/os.Stdout to io.ReadWriteCloser for
// jsonrpc2's buffered stream transport.
type stdioReadWriteCloser struct{}

func (stdioReadWriteCloser) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdioReadWriteCloser) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdioReadWriteCloser) Close() error {
	_ = os.Stdin.Close()
	return os.Stdout.Close()
}
