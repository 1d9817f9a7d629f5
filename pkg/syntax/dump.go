package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/macroscope/pkg/parser"
)

// DebugDump renders n and its descendants one element per line:
//
//	SOURCE_FILE@[0; 12)
//	  FN@[0; 12)
//	    FN_KW@[0; 2) "fn"
//
// Children are indented by two spaces and token texts are quoted.
func (n *Node) DebugDump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, level int) {
	sb.WriteString(strings.Repeat("  ", level))
	sb.WriteString(n.kind.String())
	sb.WriteByte('@')
	sb.WriteString(n.Range().String())
	if n.isToken {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(n.text))
	}
	sb.WriteByte('\n')
	for _, c := range n.children {
		c.dump(sb, level+1)
	}
}

func dumpWithErrors(root *Node, errs []*parser.ParseError) string {
	var sb strings.Builder
	root.dump(&sb, 0)
	for _, err := range errs {
		fmt.Fprintf(&sb, "err: @%d %s\n", err.Offset, err.Message)
	}
	return sb.String()
}
