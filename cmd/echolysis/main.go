// Command echolysis is the CLI entry point: structural duplicate-code
// detection as a one-shot report (detect) or a live LSP server (lsp).
package main

import "github.com/ingo-eichhorst/echolysis/cmd"

func main() {
	cmd.Execute()
}
