package printer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/thisisjab/plzero/token"
)

type StyledPrinterConfig struct {
	KeywordColor  string `yaml:"keyword_color"`
	OperatorColor string `yaml:"operator_color"`
	IdentColor    string `yaml:"ident_color"`
	NumberColor   string `yaml:"number_color"`
	IndexColor    string `yaml:"index_color"`
}

func DefaultStyledPrinterConfig() StyledPrinterConfig {
	return StyledPrinterConfig{
		KeywordColor:  "#3B82F6",
		OperatorColor: "#F59E0B",
		IdentColor:    "#10B981",
		NumberColor:   "#EF4444",
		IndexColor:    "#6B7280",
	}
}

// StyledPrinter prints the same lines as DebugPrinter, colored by token class.
// Colors are dropped automatically when the output is not a terminal.
type StyledPrinter struct {
	header   lipgloss.Style
	index    lipgloss.Style
	keyword  lipgloss.Style
	operator lipgloss.Style
	ident    lipgloss.Style
	number   lipgloss.Style
}

func NewStyledPrinter(cfg StyledPrinterConfig) *StyledPrinter {
	def := DefaultStyledPrinterConfig()
	pick := func(c, fallback string) lipgloss.Color {
		if c == "" {
			return lipgloss.Color(fallback)
		}
		return lipgloss.Color(c)
	}

	return &StyledPrinter{
		header:   lipgloss.NewStyle().Bold(true),
		index:    lipgloss.NewStyle().Foreground(pick(cfg.IndexColor, def.IndexColor)),
		keyword:  lipgloss.NewStyle().Bold(true).Foreground(pick(cfg.KeywordColor, def.KeywordColor)),
		operator: lipgloss.NewStyle().Foreground(pick(cfg.OperatorColor, def.OperatorColor)),
		ident:    lipgloss.NewStyle().Foreground(pick(cfg.IdentColor, def.IdentColor)),
		number:   lipgloss.NewStyle().Foreground(pick(cfg.NumberColor, def.NumberColor)),
	}
}

func (p *StyledPrinter) styleFor(t token.TokenType) lipgloss.Style {
	switch {
	case t.IsKeyword():
		return p.keyword
	case t.IsOperator():
		return p.operator
	case t == token.NUMBER:
		return p.number
	default:
		return p.ident
	}
}

func (p *StyledPrinter) Print(w io.Writer, tokens []token.Token) error {
	if _, err := fmt.Fprintln(w, p.header.Render("Tokens:")); err != nil {
		return err
	}
	for idx, tok := range tokens {
		line := p.index.Render(fmt.Sprintf("%d:", idx)) + " " + p.styleFor(tok.Type).Render(tok.String())
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
