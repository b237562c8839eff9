package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	charmlog "github.com/charmbracelet/log"

	"github.com/slotboard/slotboard/pkg/errors"
	"github.com/slotboard/slotboard/pkg/slot"
	"github.com/slotboard/slotboard/pkg/slot/span"
	"github.com/slotboard/slotboard/pkg/store"
)

// newServeCmd creates the serve command, which runs the layout document
// HTTP API.
func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout document HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			inv, err := openInvalidator(ctx, cfg)
			if err != nil {
				return err
			}
			defer inv.Close()

			api := &layoutAPI{store: st, invalidator: inv, logger: logger}

			srv := &http.Server{
				Addr:              addr,
				Handler:           api.router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving layout API", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

// layoutAPI serves layout documents over HTTP.
type layoutAPI struct {
	store       store.Store
	invalidator store.Invalidator
	logger      *charmlog.Logger
}

func (a *layoutAPI) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/layouts/{store}/{page}", func(r chi.Router) {
		r.Get("/", a.getDocument)
		r.Put("/", a.putDocument)
		r.Patch("/slots/{slotID}/styles", a.patchStyles)
	})
	return r
}

func (a *layoutAPI) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := a.store.Get(r.Context(), chi.URLParam(r, "store"), chi.URLParam(r, "page"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (a *layoutAPI) putDocument(w http.ResponseWriter, r *http.Request) {
	var doc store.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		a.writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document body"))
		return
	}

	// The URL is authoritative for the document key.
	doc.Store = chi.URLParam(r, "store")
	doc.PageType = chi.URLParam(r, "page")

	for _, vp := range span.Viewports {
		if err := slot.Validate(doc.Slots, vp); err != nil {
			a.writeError(w, err)
			return
		}
	}

	if err := a.store.Put(r.Context(), doc); err != nil {
		a.writeError(w, err)
		return
	}
	a.broadcast(r, doc.Key())
	writeJSON(w, http.StatusOK, map[string]string{"key": doc.Key()})
}

func (a *layoutAPI) patchStyles(w http.ResponseWriter, r *http.Request) {
	var styles map[string]string
	if err := json.NewDecoder(r.Body).Decode(&styles); err != nil {
		a.writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode styles body"))
		return
	}

	storeID, page := chi.URLParam(r, "store"), chi.URLParam(r, "page")
	slotID := chi.URLParam(r, "slotID")

	if err := a.store.PatchStyles(r.Context(), storeID, page, slotID, styles); err != nil {
		a.writeError(w, err)
		return
	}
	a.broadcast(r, store.Key(storeID, page))
	writeJSON(w, http.StatusOK, map[string]string{"slot": slotID})
}

// broadcast fires an invalidation for the key; failures are logged, never
// surfaced to the API client.
func (a *layoutAPI) broadcast(r *http.Request, key string) {
	if err := a.invalidator.Broadcast(r.Context(), key); err != nil {
		a.logger.Warn("invalidation broadcast failed", "key", key, "err", err)
	}
}

func (a *layoutAPI) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeDocumentNotFound, errors.ErrCodeSlotNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidSlot, errors.ErrCodeInvalidSpan,
		errors.ErrCodeInvalidParent, errors.ErrCodeCycle, errors.ErrCodeNotContainer:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err), "code": string(code)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
