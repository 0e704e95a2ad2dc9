package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/frahmantamala/resource-management/internal/department"
	"github.com/frahmantamala/resource-management/internal/resource"
	"golang.org/x/sync/errgroup"
)

type ViewMode string

const (
	ViewGrid  ViewMode = "grid"
	ViewList  ViewMode = "list"
	ViewTable ViewMode = "table"
)

func ParseViewMode(value string) (ViewMode, error) {
	switch mode := ViewMode(strings.ToLower(strings.TrimSpace(value))); mode {
	case ViewGrid, ViewList, ViewTable:
		return mode, nil
	case "":
		return ViewGrid, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", value)
	}
}

type BrowserAPI interface {
	Resources(ctx context.Context) ([]resource.Resource, error)
	Departments(ctx context.Context) ([]department.DepartmentResponse, error)
	Allocations(ctx context.Context) ([]resource.Allocation, error)
}

// ResourceBrowser is the resource page. Each list is its own snapshot; a list
// that has not loaded yet reads as empty.
type ResourceBrowser struct {
	api         BrowserAPI
	notifier    Notifier
	logger      *slog.Logger
	narrowWidth int

	resourcesGuard   Guard
	departmentsGuard Guard
	allocationsGuard Guard

	mu          sync.RWMutex
	resources   []resource.Resource
	departments []department.DepartmentResponse
	allocations []resource.Allocation
	filter      resource.Filter
	view        ViewMode
}

func NewResourceBrowser(api BrowserAPI, notifier Notifier, logger *slog.Logger, narrowWidth int) *ResourceBrowser {
	return &ResourceBrowser{
		api:         api,
		notifier:    notifier,
		logger:      logger,
		narrowWidth: narrowWidth,
		view:        ViewGrid,
	}
}

// Load fetches resources, departments and allocations concurrently. Lists that
// load successfully are kept even when another one fails.
func (b *ResourceBrowser) Load(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		return loadSlot(ctx, &b.resourcesGuard, "resources", b.api.Resources, func(items []resource.Resource) {
			b.mu.Lock()
			b.resources = items
			b.mu.Unlock()
		})
	})
	g.Go(func() error {
		return loadSlot(ctx, &b.departmentsGuard, "departments", b.api.Departments, func(items []department.DepartmentResponse) {
			b.mu.Lock()
			b.departments = items
			b.mu.Unlock()
		})
	})
	g.Go(func() error {
		return loadSlot(ctx, &b.allocationsGuard, "allocations", b.api.Allocations, func(items []resource.Allocation) {
			b.mu.Lock()
			b.allocations = items
			b.mu.Unlock()
		})
	})

	err := g.Wait()
	if err != nil && !errors.Is(err, ErrStaleResponse) {
		b.logger.Error("failed to load resource browser data", "error", err)
		b.notifier.Notify(errorNotice("Error", "Failed to load resources. Please try again."))
	}
	return err
}

func loadSlot[T any](ctx context.Context, guard *Guard, name string, fetch func(context.Context) ([]T, error), store func([]T)) error {
	reqCtx, token := guard.Begin(ctx)
	items, err := fetch(reqCtx)
	if err != nil {
		if !guard.IsCurrent(token) {
			return ErrStaleResponse
		}
		guard.Done(token)
		return fmt.Errorf("load %s: %w", name, err)
	}
	if items == nil {
		items = []T{}
	}
	return guard.Commit(token, func() { store(items) })
}

func (b *ResourceBrowser) Resources() []resource.Resource {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.resources
}

func (b *ResourceBrowser) Allocations() []resource.Allocation {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.allocations
}

func (b *ResourceBrowser) RoleOptions() []string {
	return resource.RoleOptions(b.Resources())
}

func (b *ResourceBrowser) SkillOptions() []string {
	return resource.SkillOptions(b.Resources())
}

// DepartmentOptions prefers the department list and falls back to the
// departments seen on resources.
func (b *ResourceBrowser) DepartmentOptions() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.departments) == 0 {
		return resource.DepartmentOptions(b.resources)
	}
	out := make([]string, 0, len(b.departments))
	for _, d := range b.departments {
		out = append(out, d.Name)
	}
	return out
}

func (b *ResourceBrowser) SetFilter(f resource.Filter) error {
	if err := f.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	b.filter = f
	b.mu.Unlock()
	return nil
}

func (b *ResourceBrowser) Filter() resource.Filter {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

// Visible applies the current filter to the current snapshot.
func (b *ResourceBrowser) Visible() []resource.Resource {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return resource.Apply(b.resources, b.allocations, b.filter)
}

func (b *ResourceBrowser) SetView(mode ViewMode) {
	b.mu.Lock()
	b.view = mode
	b.mu.Unlock()
}

// EffectiveView is the selected view, except that table drops to list on
// terminals narrower than the configured width.
func (b *ResourceBrowser) EffectiveView(width int) ViewMode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.view == ViewTable && width > 0 && width < b.narrowWidth {
		return ViewList
	}
	return b.view
}

func (b *ResourceBrowser) Render(width int) string {
	return RenderResources(b.EffectiveView(width), b.Visible(), b.Allocations())
}
