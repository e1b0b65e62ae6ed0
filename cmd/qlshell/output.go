package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	contactql "github.com/nlstn/go-contactql"
)

// ANSI styles used when stdout is a terminal.
const (
	styleReset   = "\x1b[0m"
	styleBold    = "\x1b[1m"
	styleGreen   = "\x1b[32m"
	styleYellow  = "\x1b[33m"
	styleCyan    = "\x1b[36m"
	styleMagenta = "\x1b[35m"
)

// printer writes optionally colorized output.
type printer struct {
	out     io.Writer
	colored bool
}

// newPrinter colorizes output when stdout is a terminal.
func newPrinter() *printer {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return &printer{out: colorable.NewColorableStdout(), colored: true}
	}
	return &printer{out: os.Stdout}
}

func (p *printer) styled(style, text string) string {
	if !p.colored {
		return text
	}
	return style + text + styleReset
}

// printParsed prints the canonical text, referenced properties and tree of a
// parsed query.
func (p *printer) printParsed(parsed *contactql.ParsedQuery) {
	fmt.Fprintf(p.out, "%s %s\n", p.styled(styleBold, "canonical:"), p.styled(styleGreen, parsed.String()))
	fmt.Fprintf(p.out, "%s %s\n", p.styled(styleBold, "properties:"), strings.Join(parsed.Properties(), ", "))
	fmt.Fprintf(p.out, "%s\n", p.styled(styleBold, "tree:"))
	p.printNode(parsed.Root, 1)
}

// printNode prints one tree node, indented by depth.
func (p *printer) printNode(node contactql.QueryNode, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case *contactql.BoolCombination:
		fmt.Fprintf(p.out, "%s%s\n", indent, p.styled(styleMagenta, strings.ToUpper(string(n.Op))))
		p.printNode(n.Left, depth+1)
		p.printNode(n.Right, depth+1)
	case *contactql.SinglePropCombination:
		fmt.Fprintf(p.out, "%s%s %s\n", indent,
			p.styled(styleMagenta, strings.ToUpper(string(n.Op))), p.styled(styleCyan, "["+n.PropKey+"]"))
		for _, cond := range n.Conditions {
			p.printNode(cond, depth+1)
		}
	case *contactql.Condition:
		fmt.Fprintf(p.out, "%s%s %s %q\n", indent,
			p.styled(styleCyan, n.PropKey), p.styled(styleYellow, string(n.Comparator)), n.Value)
	case *contactql.IsSetCondition:
		fmt.Fprintf(p.out, "%s%s %s \"\"\n", indent,
			p.styled(styleCyan, n.PropKey), p.styled(styleYellow, string(n.Comparator)))
	}
}
