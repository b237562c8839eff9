package cli

import (
	"github.com/spf13/cobra"

	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
	"github.com/slotboard/slotboard/pkg/store"
)

// seedDocument builds the default page layout: header, content, and footer
// containers with a few leaves, the starting point for a fresh document.
func seedDocument(storeID, pageType string) store.Document {
	slots := slot.Collection{}

	add := func(s slot.Slot) string {
		slots[s.ID] = s
		return s.ID
	}

	header := slot.New(slot.TypeContainer, "")
	header.Position = slot.Position{Row: 1, Col: 1}
	add(header)

	logo := slot.New(slot.TypeImage, header.ID)
	logo.Position = slot.Position{Row: 1, Col: 1}
	logo.ColSpan = span.PerViewport(map[span.Viewport]int{
		span.ViewportDesktop: 3,
		span.ViewportTablet:  4,
		span.ViewportMobile:  12,
	})
	logo.Content = "{header.logo}"
	add(logo)

	title := slot.New(slot.TypeText, header.ID)
	title.Position = slot.Position{Row: 1, Col: 4}
	title.ColSpan = span.Of(9)
	title.Content = "{header.title}"
	add(title)

	content := slot.New(slot.TypeContainer, "")
	content.Position = slot.Position{Row: 2, Col: 1}
	add(content)

	body := slot.New(slot.TypeText, content.ID)
	body.Position = slot.Position{Row: 1, Col: 1}
	body.ColSpan = span.Of(8)
	body.Content = "{product.description}"
	add(body)

	buy := slot.New(slot.TypeButton, content.ID)
	buy.Position = slot.Position{Row: 1, Col: 9}
	buy.ColSpan = span.Of(4)
	buy.Content = "Add to cart ({cart.count})"
	add(buy)

	footer := slot.New(slot.TypeContainer, "")
	footer.Position = slot.Position{Row: 3, Col: 1}
	add(footer)

	note := slot.New(slot.TypeText, footer.ID)
	note.Position = slot.Position{Row: 1, Col: 1}
	note.Content = "{vars.footer_note}"
	note.Metadata = map[string]any{slot.MetaNonEditable: true}
	note.IsCustom = false
	add(note)

	return store.Document{
		Store:    storeID,
		PageType: pageType,
		Slots:    slots,
		Meta:     map[string]any{"seeded": true},
	}
}

// newSeedCmd creates the seed command, which writes the default layout to
// the configured backend.
func newSeedCmd() *cobra.Command {
	var (
		storeID  string
		pageType string
		force    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a default page layout to the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			if !force {
				if _, err := st.Get(ctx, storeID, pageType); err == nil {
					printWarning("document %s/%s already exists, use --force to overwrite", storeID, pageType)
					return nil
				}
			}

			doc := seedDocument(storeID, pageType)
			if err := st.Put(ctx, doc); err != nil {
				return err
			}
			logger.Debug("seeded document", "key", doc.Key(), "slots", len(doc.Slots))

			printSuccess("seeded %s with %d slots", doc.Key(), len(doc.Slots))
			printNextStep("edit it", "slotboard edit --store "+storeID+" --page "+pageType)
			return nil
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "default", "store identifier")
	cmd.Flags().StringVar(&pageType, "page", "product", "page type")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing document")
	return cmd
}
