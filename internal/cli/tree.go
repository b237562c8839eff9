package cli

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/spf13/cobra"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// newTreeCmd creates the tree command, a debugging aid that exports the
// slot parent/child tree as a DOT or SVG diagram.
func newTreeCmd() *cobra.Command {
	var (
		storeID  string
		pageType string
		format   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Export the slot tree as a DOT or SVG diagram",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			doc, err := st.Get(ctx, storeID, pageType)
			if err != nil {
				return err
			}

			dot := treeToDOT(doc.Slots)

			var out []byte
			switch format {
			case "dot":
				out = []byte(dot)
			case "svg":
				out, err = renderDOTSVG(cmd, dot)
				if err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want dot or svg)", format)
			}

			if output == "" {
				fmt.Print(string(out))
				return nil
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return err
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "default", "store identifier")
	cmd.Flags().StringVar(&pageType, "page", "product", "page type")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// treeToDOT converts the slot tree to Graphviz DOT format. Containers are
// drawn as rounded boxes, leaves as plain boxes, with position and span in
// the label.
func treeToDOT(c slot.Collection) string {
	var buf bytes.Buffer
	buf.WriteString("digraph slots {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		s := c[id]
		label := fmt.Sprintf("%s\n%s r%d c%d w%d",
			shortID(id), s.Type, s.Position.Row, s.Position.Col, s.ColSpan.Resolve(span.ViewportDesktop))
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if s.Type.IsContainer() {
			attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=lightblue")
		}
		if !s.IsCustom {
			attrs = append(attrs, "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range ids {
		if parent := c[id].ParentID; parent != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", parent, id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// shortID truncates UUID-length ids for readable node labels.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// renderDOTSVG renders a DOT graph to SVG using Graphviz.
func renderDOTSVG(cmd *cobra.Command, dot string) ([]byte, error) {
	ctx := cmd.Context()

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
