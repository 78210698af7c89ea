package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/service"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/flexprice/invoicer/internal/validator"
	jsoniter "github.com/json-iterator/go"
	"github.com/sourcegraph/conc/pool"
	"github.com/urfave/cli/v2"
)

// renderRequest is the validated form of the render command flags
type renderRequest struct {
	InvoiceIDs  []string `flag:"invoice" validate:"required,min=1,dive,required"`
	Overrides   string   `flag:"overrides"`
	OutDir      string   `flag:"out" validate:"required"`
	Concurrency int      `flag:"concurrency" validate:"gte=1,lte=32"`
}

func main() {
	app := &cli.App{
		Name:  "invoicepdf",
		Usage: "render Stripe invoices to PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Stripe secret key, overrides stripe.secret_key",
				EnvVars: []string{"STRIPE_API_KEY"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "render",
				Usage: "render one or more invoices into a directory",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "invoice", Aliases: []string{"i"}, Usage: "Stripe invoice id, repeatable", Required: true},
					&cli.StringFlag{Name: "overrides", Aliases: []string{"o"}, Usage: "JSON file of invoice field overrides"},
					&cli.StringFlag{Name: "out", Value: ".", Usage: "output directory"},
					&cli.IntFlag{Name: "concurrency", Value: 4, Usage: "invoices rendered at once"},
				},
				Action: render,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "invoicepdf: %s\n", ierr.Message(err))
		os.Exit(1)
	}
}

func render(c *cli.Context) error {
	req := renderRequest{
		InvoiceIDs:  c.StringSlice("invoice"),
		Overrides:   c.String("overrides"),
		OutDir:      c.String("out"),
		Concurrency: c.Int("concurrency"),
	}
	validate := validator.New()
	if err := validator.ValidateRequest(validate, req); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if key := c.String("api-key"); key != "" {
		cfg.Stripe.SecretKey = key
	}
	if err := cfg.Validate(validate); err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	overrides, err := readOverrides(req.Overrides)
	if err != nil {
		return err
	}

	invoicer, err := service.NewInvoiceService(service.NewServiceParams(log, cfg, cache.NewInMemoryCache(cfg)))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return ierr.WithError(err).WithHintf("cannot create output directory %s", req.OutDir).Mark(ierr.ErrSystem)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(req.Concurrency)
	for _, id := range req.InvoiceIDs {
		p.Go(func(ctx context.Context) error {
			path, err := renderOne(ctx, invoicer, id, overrides.Clone(), req.OutDir)
			if err != nil {
				log.Errorw("failed to render invoice", "invoice_id", id, "error", err)
				return err
			}
			fmt.Fprintln(c.App.Writer, path)
			return nil
		})
	}
	return p.Wait()
}

func renderOne(ctx context.Context, invoicer service.InvoiceService, id string, overrides types.Fields, outDir string) (string, error) {
	name, doc, err := invoicer.Generate(ctx, id, overrides)
	if err != nil {
		return "", err
	}
	defer doc.Close()

	path := filepath.Join(outDir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", ierr.WithError(err).WithHintf("cannot write %s", path).Mark(ierr.ErrSystem)
	}
	defer f.Close()

	if _, err := io.Copy(f, doc); err != nil {
		return "", ierr.WithError(err).WithHintf("cannot write %s", path).Mark(ierr.ErrSystem)
	}
	return path, nil
}

func readOverrides(path string) (types.Fields, error) {
	overrides := types.Fields{}
	if path == "" {
		return overrides, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ierr.WithError(err).WithHintf("cannot read overrides file %s", path).Mark(ierr.ErrValidation)
	}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(raw, &overrides); err != nil {
		return nil, ierr.WithError(err).WithHintf("overrides file %s is not a JSON object", path).Mark(ierr.ErrValidation)
	}
	return overrides, nil
}
