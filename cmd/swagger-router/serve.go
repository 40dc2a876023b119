package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/vitalvas/swaggerrouter/router"
	"github.com/vitalvas/swaggerrouter/routerhandlers"
	"github.com/vitalvas/swaggerrouter/swagger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(defaults Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Swagger document behind the router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := commandConfig(cmd)
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log, os.Stderr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	bindServeFlags(cmd.Flags(), defaults)

	return cmd
}

func serve(ctx context.Context, cfg *Config, logger zerolog.Logger) error {
	doc, err := swagger.Load(cfg.Spec)
	if err != nil {
		return err
	}

	handler, err := newHandler(cfg, doc, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("listen", cfg.Listen).Str("spec", cfg.Spec).Msg("serving")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// newHandler assembles the middleware pipeline around the decoration echo
// handler.
func newHandler(cfg *Config, doc *swagger.Document, logger zerolog.Logger) (http.Handler, error) {
	rt, err := router.New(doc,
		router.WithDocsPath(cfg.DocsPath),
		router.WithDocsYAMLPath(cfg.DocsYAMLPath),
		router.WithMaxMemory(cfg.MaxMemory),
		router.WithMaxBodySize(cfg.MaxBody),
		router.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return routerhandlers.Chain(http.HandlerFunc(echoDecoration),
		routerhandlers.RequestIDMiddleware(routerhandlers.RequestIDConfig{
			TrustIncoming: cfg.TrustRequestID,
		}),
		routerhandlers.LoggerMiddleware(routerhandlers.LoggerConfig{
			Logger:    logger,
			AccessLog: cfg.AccessLog,
		}),
		routerhandlers.RecoveryMiddleware(routerhandlers.RecoveryConfig{}),
		rt.Middleware,
		routerhandlers.ConsumesMiddleware(routerhandlers.ConsumesConfig{}),
	), nil
}

type echoParam struct {
	Name      string `json:"name"`
	In        string `json:"in"`
	Value     any    `json:"value"`
	Present   bool   `json:"present"`
	Defaulted bool   `json:"defaulted,omitempty"`
}

type echoResponse struct {
	APIPath     string                    `json:"api_path"`
	OperationID string                    `json:"operation_id,omitempty"`
	Params      []echoParam               `json:"params"`
	Security    map[string]map[string]any `json:"security"`
	Schemes     []string                  `json:"schemes"`
	Produces    []string                  `json:"produces"`
	Consumes    []string                  `json:"consumes"`
}

func echoDecoration(w http.ResponseWriter, r *http.Request) {
	dec := router.FromRequest(r)

	resp := echoResponse{
		APIPath:     dec.APIPath(),
		OperationID: dec.OperationID(),
		Params:      make([]echoParam, 0, len(dec.ParamList())),
		Security:    dec.Security(),
		Schemes:     dec.Schemes(),
		Produces:    dec.Produces(),
		Consumes:    dec.Consumes(),
	}

	for _, p := range dec.ParamList() {
		resp.Params = append(resp.Params, echoParam{
			Name:      p.Parameter.Name,
			In:        string(p.Parameter.In),
			Value:     p.Value,
			Present:   p.Present,
			Defaulted: p.Defaulted,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("cannot encode decoration")
	}
}
