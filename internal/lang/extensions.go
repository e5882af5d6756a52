package lang

import (
	"path/filepath"
	"strings"
)

// extensionToLanguageID maps lowercased file extensions (without the dot)
// to canonical language identifiers, grounded on the full extension table
// used by the original tooling. Only "rust" and "python" have a registered
// Profile today (see registry.go); the rest of the table is kept so the
// workspace scanner and router report a stable, recognizable language id
// for files they otherwise skip, and so adding a profile later is a
// one-line registry change rather than a table change too.
var extensionToLanguageID = map[string]string{
	"agda": "agda",

	"bash": "bash",
	"sh":   "bash",
	"zsh":  "bash",

	"c":   "c",
	"h":   "c",
	"clj": "clojure", "cljs": "clojure", "cljc": "clojure",
	"cmake": "cmake",
	"cpp":   "cpp", "hpp": "cpp", "cc": "cpp", "cxx": "cpp",
	"cs":  "c_sharp",
	"css": "css",

	"d":    "d",
	"dart": "dart",

	"el": "elisp", "elc": "elisp",
	"ex": "elixir", "exs": "elixir",
	"elm":  "elm",
	"erl":  "erlang",
	"hrl":  "erlang",

	"fs": "fsharp", "fsx": "fsharp",
	"fish": "fish",
	"f90":  "fortran", "f95": "fortran", "f03": "fortran", "f08": "fortran",

	"glsl": "glsl", "vert": "glsl", "frag": "glsl",
	"go":      "go",
	"graphql": "graphql", "gql": "graphql",

	"hack": "hack", "hh": "hack",
	"hs": "haskell", "lhs": "haskell",
	"hcl": "hcl", "tf": "hcl",
	"html": "html",

	"java": "java",
	"jl":   "julia",
	"js":   "javascript", "jsx": "javascript",
	"json": "json",

	"kt": "kotlin", "kts": "kotlin",

	"lua": "lua",

	"m":   "matlab",
	"mat": "matlab",
	"md":  "markdown", "markdown": "markdown",

	"nix": "nix",

	"ml": "ocaml", "mli": "ocaml",

	"pas": "pascal", "pp": "pascal",
	"perl": "perl", "pl": "perl", "pm": "perl",
	"php":   "php",
	"proto": "protobuf",
	"ps1":   "powershell", "psm1": "powershell", "psd1": "powershell",
	"py": "python",

	"r":  "r",
	"rb": "ruby",
	"rkt": "racket",
	"rs":  "rust",

	"scala": "scala",
	"scss":  "scss",
	"scm":   "scheme",
	"sql":   "sql",
	"svelte": "svelte",
	"swift": "swift",

	"toml": "toml",
	"ts":   "typescript", "tsx": "typescript",

	"vue": "vue",

	"yaml": "yaml", "yml": "yaml",

	"zig": "zig",
}

// IDForExtension returns the canonical language id for a lowercased, dotless
// extension, or "" if the extension is not in the table.
func IDForExtension(ext string) string {
	return extensionToLanguageID[strings.ToLower(ext)]
}

// IDForPath returns the canonical language id for a file path based on its
// extension (lowercased, leading dot stripped). Dockerfile is matched by
// base name since it has no extension. Returns "" when the extension is
// absent from the table.
func IDForPath(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(base, "dockerfile") {
		return "dockerfile"
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return ""
	}
	return IDForExtension(ext)
}
