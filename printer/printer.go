package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/thisisjab/plzero/token"
)

// Printer is an interface that defines the contract for token list renderers.
type Printer interface {
	Print(w io.Writer, tokens []token.Token) error
}

// DebugPrinter prints one `<index>: <debug form>` line per token under a `Tokens:` header.
type DebugPrinter struct{}

func NewDebugPrinter() *DebugPrinter {
	return &DebugPrinter{}
}

func (DebugPrinter) Print(w io.Writer, tokens []token.Token) error {
	if _, err := fmt.Fprintln(w, "Tokens:"); err != nil {
		return err
	}
	for idx, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%d: %v\n", idx, tok); err != nil {
			return err
		}
	}
	return nil
}

// JsonPrinter prints the token list as a single JSON array.
type JsonPrinter struct {
	indent bool
}

type JsonPrinterConfig struct {
	Indent bool `yaml:"indent"`
}

func NewJsonPrinter(cfg JsonPrinterConfig) *JsonPrinter {
	return &JsonPrinter{indent: cfg.Indent}
}

func (p *JsonPrinter) Print(w io.Writer, tokens []token.Token) error {
	enc := json.NewEncoder(w)
	if p.indent {
		enc.SetIndent("", "  ")
	}
	if tokens == nil {
		tokens = []token.Token{}
	}
	return enc.Encode(tokens)
}
