package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/render"
	"github.com/slotboard/slotboard/pkg/slot/span"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	storeID  string // store identifier
	pageType string // page type
	viewport string // mobile, tablet, or desktop
	viewCtx  string // view context filter
	format   string // "html" or "term"
	output   string // output file path, "" for stdout
	edit     bool   // render the edit surface (overlays) instead of display
}

// newRenderCmd creates the render command, which loads a stored layout and
// prints it to HTML or the terminal.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a stored layout to HTML or terminal output",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.storeID, "store", "default", "store identifier")
	cmd.Flags().StringVar(&opts.pageType, "page", "product", "page type")
	cmd.Flags().StringVar(&opts.viewport, "viewport", "desktop", "viewport: mobile, tablet, desktop")
	cmd.Flags().StringVar(&opts.viewCtx, "view-context", "", "view context filter")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "term", "output format: html, term")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.edit, "edit", false, "render the edit surface with overlays")
	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	vp := span.Viewport(opts.viewport)
	if !vp.Valid() {
		return errors.New(errors.ErrCodeInvalidViewport, "unknown viewport %q", opts.viewport)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	doc, err := st.Get(ctx, opts.storeID, opts.pageType)
	if err != nil {
		return err
	}

	mode := render.ModeDisplay
	if opts.edit {
		mode = render.ModeEdit
	}

	prog := newProgress(logger)
	r := render.New(
		render.WithMode(mode),
		render.WithViewport(vp),
		render.WithViewContext(opts.viewCtx),
		render.WithLogger(logger),
	)
	tree := r.Render(doc.Slots)

	var out string
	switch opts.format {
	case "html":
		out = render.HTML{}.Print(tree)
	case "term":
		out = render.Terminal{ShowOverlays: opts.edit}.Print(tree)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want html or term)", opts.format)
	}
	prog.done(fmt.Sprintf("Rendered %d slots", len(doc.Slots)))

	if opts.output == "" {
		fmt.Println(out)
		return nil
	}
	if err := os.WriteFile(opts.output, []byte(out), 0644); err != nil {
		return err
	}
	printFile(opts.output)
	return nil
}
