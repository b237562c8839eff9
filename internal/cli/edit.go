package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/slotboard/slotboard/pkg/config"
	"github.com/slotboard/slotboard/pkg/editor"
	"github.com/slotboard/slotboard/pkg/geometry"
	"github.com/slotboard/slotboard/pkg/mutate"
	"github.com/slotboard/slotboard/pkg/observability"
	"github.com/slotboard/slotboard/pkg/render"
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
	"github.com/slotboard/slotboard/pkg/store"
)

// newEditCmd creates the edit command, which opens the interactive layout
// editor for one document.
func newEditCmd() *cobra.Command {
	var (
		storeID  string
		pageType string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive layout editor for a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, storeID, pageType)
		},
	}

	cmd.Flags().StringVar(&storeID, "store", "default", "store identifier")
	cmd.Flags().StringVar(&pageType, "page", "product", "page type")
	return cmd
}

func runEdit(cmd *cobra.Command, storeID, pageType string) error {
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

	doc, err := st.Get(ctx, storeID, pageType)
	if err == store.ErrNotFound {
		logger.Debug("document missing, starting from seed layout", "store", storeID, "page", pageType)
		doc = seedDocument(storeID, pageType)
		err = nil
	}
	if err != nil {
		return err
	}

	inv, err := openInvalidator(ctx, cfg)
	if err != nil {
		return err
	}
	defer inv.Close()

	// The status callback runs on the syncer's flush goroutine; it feeds
	// the model through the program's message queue.
	var program *tea.Program
	syncer := store.NewSyncer(st,
		store.WithDebounce(cfg.Debounce()),
		store.WithInvalidator(inv),
		store.WithStatusFunc(func(s store.Status) {
			if program != nil {
				program.Send(saveMsg(s))
			}
		}))

	m := newEditModel(cfg, doc, syncer)
	program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	_, runErr := program.Run()

	// Whatever is pending gets written before the terminal is handed back.
	syncer.Close(ctx)
	return runErr
}

// saveMsg carries syncer status changes into the bubbletea loop.
type saveMsg store.Status

// editRowHeight is the cell height of one grid row on the edit surface.
const editRowHeight = 3

// headerRows is the vertical offset of the layout surface below the title
// and status lines.
const headerRows = 3

// editModel is the bubbletea model for the layout editor.
type editModel struct {
	cfg    *config.Config
	doc    store.Document
	syncer *store.Syncer

	session    *editor.Session
	classifier editor.Classifier

	viewport span.Viewport
	width    int
	height   int

	// placed is the current surface layout in cell coordinates.
	placed []geometry.Placed

	selected      string
	dropTarget    string
	dropZone      editor.Zone
	preview       *editor.ResizeValue
	confirmDelete string

	undo     []slot.Collection
	saveLine string
	errLine  string
}

func newEditModel(cfg *config.Config, doc store.Document, syncer *store.Syncer) editModel {
	m := editModel{
		cfg:        cfg,
		doc:        doc,
		syncer:     syncer,
		session:    editor.NewSession(nil),
		classifier: editor.Classifier{DirectionRatio: cfg.Editor.DirectionRatio},
		viewport:   span.ViewportDesktop,
		width:      96,
		height:     32,
		saveLine:   "idle",
	}
	m.relayout()
	return m
}

func (m editModel) Init() tea.Cmd {
	return nil
}

// relayout recomputes slot rectangles for the current size and viewport.
func (m *editModel) relayout() {
	frame := geometry.Rect{X: 0, Y: headerRows, W: float64(m.width), H: float64(m.height - headerRows)}
	r := geometry.Resolver{Viewport: m.viewport}
	m.placed = r.Layout(m.doc.Slots, "", frame, editRowHeight)
}

// cellsPerUnit is the surface width of one grid unit, the resize
// sensitivity on a cell-based surface.
func (m *editModel) cellsPerUnit() float64 {
	u := float64(m.width) / float64(span.Columns)
	if u < 1 {
		u = 1
	}
	return u
}

func (m editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.relayout()

	case saveMsg:
		switch store.Status(msg).State {
		case store.SaveScheduled:
			m.saveLine = "saving…"
		case store.SaveFlushed:
			m.saveLine = "saved"
		case store.SaveFailed:
			m.saveLine = "save failed"
			m.errLine = store.Status(msg).Err.Error()
		}

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m editModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.session.Cancel()
		m.dropZone = editor.ZoneNone
		m.dropTarget = ""
		m.preview = nil
		m.confirmDelete = ""

	case "v":
		m.viewport = nextViewport(m.viewport)
		m.relayout()

	case "a":
		m.addSlot()

	case "d":
		m.requestDelete()

	case "y":
		if m.confirmDelete != "" {
			m.deleteSlot(m.confirmDelete)
			m.confirmDelete = ""
		}

	case "u":
		if n := len(m.undo); n > 0 {
			m.doc.Slots = m.undo[n-1]
			m.undo = m.undo[:n-1]
			m.scheduleSave()
			m.relayout()
		}
	}
	return m, nil
}

func (m editModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := float64(msg.X), float64(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.beginGesture(x, y)

	case tea.MouseActionMotion:
		switch m.session.State() {
		case editor.StateDragging:
			_ = m.session.UpdateDrag(x, y)
			m.updateDropPreview(x, y)
		case editor.StateResizing:
			v := m.session.Resize().Update(x, y)
			m.preview = &v
		}

	case tea.MouseActionRelease:
		switch m.session.State() {
		case editor.StateDragging:
			m.finishDrag(x, y)
		case editor.StateResizing:
			m.finishResize(x, y)
		}
	}
	return m, nil
}

// beginGesture starts a drag or resize depending on where inside the slot
// rect the press landed: the right edge column starts a horizontal resize,
// the bottom edge row a vertical one, anywhere else a drag.
func (m *editModel) beginGesture(x, y float64) {
	hit := geometry.HitTest(m.placed, x, y)
	if hit == nil {
		m.selected = ""
		return
	}
	m.selected = hit.ID
	m.confirmDelete = ""

	s, ok := m.doc.Slots[hit.ID]
	if !ok || !s.Editable() {
		return
	}

	onRightEdge := x >= hit.Rect.X+hit.Rect.W-1
	onBottomEdge := y >= hit.Rect.Y+hit.Rect.H-1

	if (onRightEdge || onBottomEdge) && s.Resizable() {
		axis := editor.AxisHorizontal
		if onBottomEdge && !onRightEdge {
			axis = editor.AxisVertical
		}
		g := editor.NewResizeGesture(
			editor.ResizeConfig{PixelsPerUnit: m.cellsPerUnit(), MinHeight: m.cfg.Editor.MinHeight},
			s.ID, axis, x, y,
			s.ColSpan.Resolve(m.viewport),
			styleHeight(s, m.cfg.Editor.MinHeight),
			nil)
		if err := m.session.BeginResize(g); err == nil {
			observability.Editor().GestureStarted("resize", s.ID)
		}
		return
	}

	if err := m.session.BeginDrag(s.ID, x, y); err == nil {
		observability.Editor().GestureStarted("drag", s.ID)
	}
}

// updateDropPreview classifies the zone under the pointer mid-drag so the
// view can show where the slot would land.
func (m *editModel) updateDropPreview(x, y float64) {
	d := m.session.Drag()
	if d == nil {
		return
	}
	target := m.targetAt(d.DraggedID, x, y)
	if target == nil {
		m.dropTarget, m.dropZone = "", editor.ZoneNone
		return
	}
	m.dropTarget = target.ID
	m.dropZone = m.classifier.Classify(m.doc.Slots, *d, *target)
}

// targetAt finds the drop target under the pointer, skipping the dragged
// slot itself so the slot under it can receive the drop.
func (m *editModel) targetAt(draggedID string, x, y float64) *editor.Target {
	var hit *geometry.Placed
	for i := len(m.placed) - 1; i >= 0; i-- {
		p := m.placed[i]
		if p.ID != draggedID && p.Rect.Contains(x, y) {
			hit = &p
			break
		}
	}
	if hit == nil {
		return nil
	}

	dragged, ok := m.doc.Slots[draggedID]
	target, ok2 := m.doc.Slots[hit.ID]
	if !ok || !ok2 {
		return nil
	}

	return &editor.Target{
		ID:          hit.ID,
		Rect:        hit.Rect,
		IsContainer: target.Type.IsContainer(),
		SameParent:  dragged.ParentID == target.ParentID,
		SameRow:     dragged.ParentID == target.ParentID && dragged.Position.Row == target.Position.Row,
	}
}

func (m *editModel) finishDrag(x, y float64) {
	d, err := m.session.Drop()
	if err != nil {
		return
	}
	defer func() {
		m.dropTarget, m.dropZone = "", editor.ZoneNone
	}()

	d.X, d.Y = x, y
	target := m.targetAt(d.DraggedID, x, y)
	if target == nil {
		observability.Editor().GestureEnded("drag", d.DraggedID, false)
		return
	}

	zone := m.classifier.Classify(m.doc.Slots, d, *target)
	observability.Editor().DropClassified(d.DraggedID, target.ID, zone.String())
	if zone == editor.ZoneNone {
		observability.Editor().GestureEnded("drag", d.DraggedID, false)
		return
	}

	out, err := mutate.Move(m.doc.Slots, d.DraggedID, target.ID, zone, m.viewport)
	observability.Editor().MutationApplied("move", d.DraggedID, err)
	if err != nil {
		m.errLine = err.Error()
		observability.Editor().GestureEnded("drag", d.DraggedID, false)
		return
	}
	m.commit(out)
	observability.Editor().GestureEnded("drag", d.DraggedID, true)
}

func (m *editModel) finishResize(x, y float64) {
	g := m.session.Resize()
	slotID, axis := g.SlotID(), g.Axis()

	v, err := m.session.Commit(x, y)
	m.preview = nil
	if err != nil {
		return
	}

	value := float64(v.Span)
	if axis == editor.AxisVertical {
		value = v.Height
	}

	out, err := mutate.Resize(m.doc.Slots, slotID, axis, value, m.viewport,
		mutate.Limits{MinHeight: m.cfg.Editor.MinHeight})
	observability.Editor().MutationApplied("resize", slotID, err)
	if err != nil {
		m.errLine = err.Error()
		observability.Editor().GestureEnded("resize", slotID, false)
		return
	}
	m.commit(out)
	observability.Editor().GestureEnded("resize", slotID, true)
}

// addSlot appends a text slot under the selected container, or at the
// root when nothing suitable is selected.
func (m *editModel) addSlot() {
	parentID := ""
	if s, ok := m.doc.Slots[m.selected]; ok && s.Type.IsContainer() {
		parentID = s.ID
	}

	out, added, err := mutate.Add(m.doc.Slots, slot.TypeText, parentID, m.viewport)
	observability.Editor().MutationApplied("add", added.ID, err)
	if err != nil {
		m.errLine = err.Error()
		return
	}
	m.commit(out)
	m.selected = added.ID
}

// requestDelete deletes the selected slot, asking for confirmation first
// when the deletion would cascade into descendants.
func (m *editModel) requestDelete() {
	s, ok := m.doc.Slots[m.selected]
	if !ok {
		return
	}
	if len(m.doc.Slots.Descendants(s.ID)) > 0 {
		m.confirmDelete = s.ID
		return
	}
	m.deleteSlot(s.ID)
}

func (m *editModel) deleteSlot(id string) {
	out, err := mutate.Delete(m.doc.Slots, id)
	observability.Editor().MutationApplied("delete", id, err)
	if err != nil {
		m.errLine = err.Error()
		return
	}
	if m.selected == id {
		m.selected = ""
	}
	m.commit(out)
}

// commit installs a mutated collection: undo history, debounced save, and
// fresh layout.
func (m *editModel) commit(out slot.Collection) {
	m.undo = append(m.undo, m.doc.Slots)
	if len(m.undo) > 50 {
		m.undo = m.undo[1:]
	}
	m.doc.Slots = out
	m.errLine = ""
	m.scheduleSave()
	m.relayout()
}

func (m *editModel) scheduleSave() {
	m.syncer.Schedule(m.doc)
}

func (m editModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("slotboard · %s", m.doc.Key())))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("viewport: %s · save: %s", m.viewport, m.saveLine)))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	r := render.New(
		render.WithMode(render.ModeEdit),
		render.WithViewport(m.viewport),
	)
	surface := render.Terminal{Width: m.width, ShowOverlays: true}.Print(r.Render(m.doc.Slots))
	b.WriteString(surface)
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag to move · edges resize · a add · d delete · u undo · v viewport · q quit"))
	return b.String()
}

func (m editModel) statusLine() string {
	switch {
	case m.confirmDelete != "":
		return StyleWarning.Render(fmt.Sprintf("delete %s and its children? press y to confirm, esc to cancel", shortID(m.confirmDelete)))
	case m.errLine != "":
		return StyleWarning.Render(m.errLine)
	case m.session.State() == editor.StateDragging && m.dropTarget != "":
		return StyleSelection.Render(fmt.Sprintf("drop %s of %s", m.dropZone, shortID(m.dropTarget)))
	case m.session.State() == editor.StateResizing && m.preview != nil:
		if m.preview.Axis == editor.AxisVertical {
			return StyleSelection.Render(fmt.Sprintf("height %.0fpx", m.preview.Height))
		}
		return StyleSelection.Render(fmt.Sprintf("span %d/%d", m.preview.Span, span.Columns))
	case m.selected != "":
		s := m.doc.Slots[m.selected]
		return StyleHighlight.Render(fmt.Sprintf("selected %s (%s, span %d)", shortID(s.ID), s.Type, s.ColSpan.Resolve(m.viewport)))
	default:
		return StyleDim.Render("click a slot to select it")
	}
}

// nextViewport cycles desktop → tablet → mobile → desktop.
func nextViewport(vp span.Viewport) span.Viewport {
	switch vp {
	case span.ViewportDesktop:
		return span.ViewportTablet
	case span.ViewportTablet:
		return span.ViewportMobile
	default:
		return span.ViewportDesktop
	}
}

// styleHeight reads a slot's explicit pixel height, falling back to min.
func styleHeight(s slot.Slot, min float64) float64 {
	h := strings.TrimSuffix(s.Styles["height"], "px")
	if v, err := strconv.ParseFloat(h, 64); err == nil && v > 0 {
		return v
	}
	return min
}
