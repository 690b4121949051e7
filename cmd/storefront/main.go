package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/Syed-Nabeel02/ecommerce-4413/internal/apiclient"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/format"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/notify"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/persist"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/platform/config"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/platform/observability"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/querysync"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/routes"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/state"
	"github.com/Syed-Nabeel02/ecommerce-4413/internal/storefront"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			fmt.Fprintf(os.Stderr, "invalid configuration: %s\n", strings.Join(invalid.Fields(), ", "))
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("storefront")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params, err := locationParams(os.Args[1:])
	if err != nil {
		logger.Fatal("invalid query argument", zap.Error(err))
	}
	ctx = observability.WithLogger(ctx, logger.With(zap.String("location", params.Encode())))

	if err := run(ctx, cfg, logger, params, os.Stdout); err != nil {
		logger.Fatal("storefront run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, params url.Values, out io.Writer) error {
	persisted, err := persist.NewFileStore(persist.FileConfig{
		Dir:      cfg.State.Dir,
		HashKey:  []byte(cfg.State.SigningKey),
		BlockKey: []byte(cfg.State.EncryptionKey),
	})
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}

	store := state.NewStore(state.Bootstrap(persisted, logger.Named("bootstrap")))
	unsubscribe := store.Subscribe(func(st state.State) {
		if msg := st.Status.ErrorMessage; msg != "" {
			logger.Debug("request status", zap.String("scope", string(st.Status.LastScope)), zap.String("error", msg))
		}
	})
	defer unsubscribe()

	client, err := apiclient.New(cfg.API.BaseURL,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		apiclient.WithCredentials(apiclient.CredentialFunc(func() string {
			if session := store.GetState().Auth.Session; session.Valid() {
				return session.Credential
			}
			return ""
		})),
		apiclient.WithLogger(logger.Named("api")),
	)
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	svc, err := storefront.New(storefront.Deps{
		Store:            store,
		API:              client,
		Persist:          persisted,
		Notifier:         notify.NewConsole(out, notify.WithLogger(logger.Named("toast"))),
		Navigator:        navigator(logger, store),
		Logger:           logger,
		LogoutSyncBudget: cfg.Checkout.LogoutSyncBudget,
		OrdersPageSize:   cfg.Pagination.OrdersPageSize,
	})
	if err != nil {
		return fmt.Errorf("create storefront: %w", err)
	}

	runner := state.NewRunner(logger.Named("effects"))
	catalog := querysync.New("catalog",
		querysync.WithPageSize(querysync.CatalogQuery, cfg.Pagination.ProductsPageSize),
		svc.LoadCatalogItems,
		runner,
	)
	query, _ := catalog.Sync(ctx, params)
	runner.Wait()
	logger.Info("catalog synced", zap.String("query", query))

	printCatalog(out, svc.State())
	return nil
}

func navigator(logger *zap.Logger, store *state.Store) storefront.Navigator {
	return storefront.NavigatorFunc(func(route string) {
		if redirect, ok := routes.Guard(store.GetState().Auth.Session, routes.AccessFor(route)); !ok {
			logger.Info("navigation redirected", zap.String("route", route), zap.String("redirect", redirect))
			return
		}
		logger.Info("navigate", zap.String("route", route))
	})
}

// locationParams accepts the location query as "page=2&keyword=mug", with or without "?".
func locationParams(args []string) (url.Values, error) {
	if len(args) == 0 {
		return url.Values{}, nil
	}
	return url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(args[0]), "?"))
}

func printCatalog(out io.Writer, st state.State) {
	catalog := st.Catalog
	if catalog.ErrorMessage != "" {
		fmt.Fprintf(out, "catalog unavailable: %s\n", catalog.ErrorMessage)
	}
	if catalog.Loaded {
		page := catalog.Pagination
		fmt.Fprintf(out, "page %d of %d (%d products)\n", page.PageNumber+1, page.TotalPages, page.TotalElements)
		for _, item := range catalog.Products {
			fmt.Fprintf(out, "  #%d %-32s %12s  %s\n", item.ProductID, item.ProductName, format.Price(item.Price), format.Stock(item.Quantity))
		}
	}

	if lines := st.Cart.Lines; len(lines) > 0 {
		totals := format.OrderTotals(lines)
		fmt.Fprintf(out, "cart: %d lines, subtotal %s, tax %s, shipping %s, total %s\n",
			len(lines),
			format.Price(totals.Subtotal),
			format.Price(totals.Tax),
			format.Price(totals.Shipping),
			format.Price(totals.Total),
		)
	}
	if session := st.Auth.Session; session.Valid() {
		fmt.Fprintf(out, "signed in as %s\n", session.User.Username)
	}
}
