package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	blogApp "github.com/davicafu/makethechange/internal/blog/application"
	investmentApp "github.com/davicafu/makethechange/internal/investment/application"
	"github.com/davicafu/makethechange/internal/listing"
	productApp "github.com/davicafu/makethechange/internal/product/application"
	projectApp "github.com/davicafu/makethechange/internal/project/application"
	"github.com/davicafu/makethechange/internal/shared/infra/outbound/transport"
	sharedQuery "github.com/davicafu/makethechange/internal/shared/infra/platform/query"
)

type browseOptions struct {
	filters map[listing.Field]string
	search  string
	page    int
	cursor  string
	next    int
	view    string
}

type adjustOptions struct {
	id     string
	toggle string
	step   string
	by     int
}

// catalogCommand es lo que browse y adjust necesitan de cada catálogo.
type catalogCommand interface {
	browse(ctx context.Context, baseURL string, opts browseOptions, out io.Writer) error
	adjust(ctx context.Context, baseURL string, opts adjustOptions, out io.Writer) error
}

// catalogScreen monta una pantalla de listado de un catálogo sobre la API HTTP.
type catalogScreen[T any, F listing.Criteria[F], P listing.Patch] struct {
	path  string
	build func(listing.Fetcher[T, F], listing.Mutator[T, P], time.Duration) listing.ScreenConfig[T, F, P]
}

func newCatalogScreen[T any, F listing.Criteria[F], P listing.Patch](
	path string,
	build func(listing.Fetcher[T, F], listing.Mutator[T, P], time.Duration) listing.ScreenConfig[T, F, P],
) catalogCommand {
	return catalogScreen[T, F, P]{path: path, build: build}
}

// catalogCommands por nombre de catálogo en la línea de comandos.
var catalogCommands = map[string]catalogCommand{
	"products":    newCatalogScreen("products", productApp.NewScreenConfig),
	"projects":    newCatalogScreen("projects", projectApp.NewScreenConfig),
	"investments": newCatalogScreen("investments", investmentApp.NewScreenConfig),
	"blog":        newCatalogScreen("blog", blogApp.NewScreenConfig),
}

func catalogNames() []string {
	names := make([]string, 0, len(catalogCommands))
	for name := range catalogCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupCatalog(name string) (catalogCommand, error) {
	c, ok := catalogCommands[name]
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q (must be one of %s)", name, strings.Join(catalogNames(), ", "))
	}
	return c, nil
}

func (s catalogScreen[T, F, P]) open(ctx context.Context, fetcher listing.Fetcher[T, F], mutator listing.Mutator[T, P], onError func(*listing.MutationError)) *listing.Screen[T, F, P] {
	cfg := s.build(fetcher, mutator, 0)
	// En la línea de comandos el texto llega completo: sin debounce.
	cfg.ControllerOptions = append(cfg.ControllerOptions, listing.WithSearchDelay(0), listing.WithLogger(log))
	cfg.BindingOptions = append(cfg.BindingOptions, listing.WithBindingLogger(log))
	cfg.MutationOptions = append(cfg.MutationOptions, listing.WithMutationLogger(log))
	if onError != nil {
		cfg.MutationOptions = append(cfg.MutationOptions, listing.OnMutationError(onError))
	}
	return listing.NewScreen(ctx, cfg)
}

// ---------------- Browse ----------------

func (s catalogScreen[T, F, P]) browse(ctx context.Context, baseURL string, opts browseOptions, out io.Writer) error {
	client := transport.NewCatalogClient[T, F, P](baseURL, s.path, nil)
	screen := s.open(ctx, client, client, nil)
	defer screen.Close()

	// Antes de Mount el controlador solo acumula el descriptor.
	ctrl := screen.Controller
	fields := make([]string, 0, len(opts.filters))
	for field := range opts.filters {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)
	for _, field := range fields {
		if err := ctrl.SetFilter(listing.Field(field), opts.filters[listing.Field(field)]); err != nil {
			return fmt.Errorf("filter %s: %w", field, err)
		}
	}
	if opts.search != "" {
		ctrl.SetSearch(opts.search)
	}
	if opts.page > 1 {
		if err := ctrl.GoToPage(opts.page); err != nil {
			return fmt.Errorf("--page: %w", err)
		}
	}
	if opts.cursor != "" {
		if err := ctrl.NextPage(opts.cursor); err != nil {
			return fmt.Errorf("--cursor: %w", err)
		}
	}
	if opts.view != "" {
		if err := ctrl.SetViewMode(listing.ViewMode(opts.view)); err != nil {
			return fmt.Errorf("--view %s: %w", opts.view, err)
		}
	}

	screen.Mount()
	screen.List.Wait()
	for i := 0; i < opts.next; i++ {
		state := screen.List.State()
		if state.IsError || state.NextCursor == "" {
			break
		}
		if err := ctrl.NextPage(state.NextCursor); err != nil {
			return fmt.Errorf("--next: %w", err)
		}
		screen.List.Wait()
	}

	state := screen.List.State()
	if state.IsError {
		return state.Err
	}
	return printListing(out, listingView{
		View:        ctrl.ViewMode(),
		Query:       ctrl.Descriptor().Key(),
		Filtered:    ctrl.IsFilterActive(),
		Total:       state.Total,
		TotalPages:  state.TotalPages,
		CurrentPage: state.CurrentPage,
		NextCursor:  state.NextCursor,
		Cards:       screen.Cards(),
	})
}

// ---------------- Adjust ----------------

func (s catalogScreen[T, F, P]) adjust(ctx context.Context, baseURL string, opts adjustOptions, out io.Writer) error {
	client := transport.NewCatalogClient[T, F, P](baseURL, s.path, nil)

	// Pantalla de detalle: la lista es el propio elemento.
	detail := listing.FetcherFunc[T, F](func(ctx context.Context, _ listing.Descriptor[F]) (sharedQuery.Page[T], error) {
		item, err := client.Get(ctx, opts.id)
		if err != nil {
			return sharedQuery.Page[T]{}, err
		}
		return sharedQuery.Page[T]{Items: []T{item}, Total: 1}, nil
	})

	var (
		mu        sync.Mutex
		mutateErr error
	)
	screen := s.open(ctx, detail, client, func(e *listing.MutationError) {
		mu.Lock()
		defer mu.Unlock()
		mutateErr = e
	})
	defer screen.Close()

	screen.Mount()
	screen.List.Wait()
	state := screen.List.State()
	if state.IsError {
		return state.Err
	}
	cards := screen.Cards()
	if len(cards) == 0 {
		return listing.ErrItemNotFound
	}
	card := cards[0]

	var err error
	switch {
	case opts.toggle != "":
		err = screen.Adapter.Toggle(ctx, card, opts.toggle)
	case opts.step != "":
		err = screen.Adapter.Step(ctx, card, opts.step, opts.by)
	default:
		err = fmt.Errorf("nothing to adjust: use --toggle or --step")
	}
	if err != nil {
		return err
	}

	screen.Edits.Flush(ctx)
	mu.Lock()
	defer mu.Unlock()
	if mutateErr != nil {
		return mutateErr
	}
	if st := screen.Edits.State(card.ID); st != listing.MutationConfirmed {
		return fmt.Errorf("edit not confirmed: %s", st)
	}
	return printCard(out, screen.Cards()[0])
}
