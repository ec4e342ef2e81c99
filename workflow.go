// Package workflow assembles the content approval workflow core: a status
// graph, a transition resolver, a permission gate, a feedback collector, and
// a transition executor, plus the resource store that backs the workflow
// API contract.
package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/contentforge/go-workflow/internal/domain"
	"github.com/contentforge/go-workflow/internal/logging"
	"github.com/contentforge/go-workflow/internal/logging/gologger"
	"github.com/contentforge/go-workflow/internal/resources"
	flow "github.com/contentforge/go-workflow/internal/workflow"
	"github.com/contentforge/go-workflow/pkg/interfaces"
)

// Re-exported workflow vocabulary for consumers of the module facade.
type (
	Status          = domain.Status
	Action          = domain.Action
	ResourceType    = domain.ResourceType
	Requester       = domain.Requester
	FeedbackPayload = domain.FeedbackPayload

	Controller    = flow.Controller
	Disposition   = flow.Disposition
	ExecuteResult = flow.ExecuteResult
	Graph         = flow.Graph

	Resource              = resources.Resource
	ResourceService       = resources.Service
	CreateResourceRequest = resources.CreateResourceRequest
)

const (
	DispositionExecuted         = flow.DispositionExecuted
	DispositionAwaitingFeedback = flow.DispositionAwaitingFeedback
	DispositionBusy             = flow.DispositionBusy
)

// DefaultGraph returns the content workflow status graph.
func DefaultGraph() *Graph {
	return flow.DefaultGraph()
}

// Module is the top level runtime facade.
type Module struct {
	config     Config
	provider   interfaces.LoggerProvider
	resources  resources.Service
	controller *flow.Controller
	db         *bun.DB
}

// Option overrides module wiring.
type Option func(*moduleConfig)

type moduleConfig struct {
	db         *bun.DB
	repository resources.Repository
	roles      interfaces.RoleProvider
	notifier   interfaces.Notifier
	refresh    flow.RefreshFunc
	onComplete flow.CompletionFunc
	provider   interfaces.LoggerProvider
	clock      func() time.Time
}

// WithDB supplies an existing bun database handle for the resource store.
func WithDB(db *bun.DB) Option {
	return func(c *moduleConfig) {
		c.db = db
	}
}

// WithRepository overrides the resource repository entirely.
func WithRepository(repo resources.Repository) Option {
	return func(c *moduleConfig) {
		c.repository = repo
	}
}

// WithRoleProvider wires the host's permission collaborator.
func WithRoleProvider(roles interfaces.RoleProvider) Option {
	return func(c *moduleConfig) {
		c.roles = roles
	}
}

// WithNotifier wires the notification sink for transition outcomes.
func WithNotifier(notifier interfaces.Notifier) Option {
	return func(c *moduleConfig) {
		c.notifier = notifier
	}
}

// WithRefresh wires the post-transition refresh callback.
func WithRefresh(refresh flow.RefreshFunc) Option {
	return func(c *moduleConfig) {
		c.refresh = refresh
	}
}

// WithCompletion registers the callback fired after successful transitions.
func WithCompletion(fn flow.CompletionFunc) Option {
	return func(c *moduleConfig) {
		c.onComplete = fn
	}
}

// WithLoggerProvider overrides the logging provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *moduleConfig) {
		c.provider = provider
	}
}

// WithModuleClock overrides the clock used by the resource store.
func WithModuleClock(clock func() time.Time) Option {
	return func(c *moduleConfig) {
		c.clock = clock
	}
}

// New constructs the workflow module from configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mc := &moduleConfig{}
	for _, opt := range opts {
		opt(mc)
	}

	provider := mc.provider
	if provider == nil && cfg.Logging.Enabled {
		built, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		provider = built
	}

	module := &Module{config: cfg, provider: provider}

	repo := mc.repository
	if repo == nil {
		switch cfg.Storage.Driver {
		case "", "memory":
			repo = resources.NewMemoryRepository()
		case "sqlite":
			db := mc.db
			if db == nil {
				sqldb, err := sql.Open("sqlite3", cfg.Storage.DSN)
				if err != nil {
					return nil, fmt.Errorf("workflow: open sqlite storage: %w", err)
				}
				db = bun.NewDB(sqldb, sqlitedialect.New())
			}
			module.db = db
			repo = resources.NewBunRepository(db)
		default:
			return nil, ErrStorageDriverUnknown
		}
	}

	limits := feedbackLimits(cfg.Workflow)

	serviceOpts := []resources.ServiceOption{
		resources.WithLogger(logging.ResourcesLogger(provider)),
		resources.WithFeedbackLimits(limits),
	}
	if mc.roles != nil {
		serviceOpts = append(serviceOpts, resources.WithRoleProvider(mc.roles))
	}
	if mc.clock != nil {
		serviceOpts = append(serviceOpts, resources.WithClock(mc.clock))
	}
	service, err := resources.NewService(repo, serviceOpts...)
	if err != nil {
		return nil, err
	}
	module.resources = service

	controllerOpts := []flow.ControllerOption{
		flow.WithLogger(logging.ModuleLogger(provider, "")),
		flow.WithFeedbackLimits(limits),
		flow.WithGate(gateFromConfig(cfg.Workflow, mc.roles)),
	}
	if cfg.Workflow.RefreshDelay > 0 {
		controllerOpts = append(controllerOpts, flow.WithControllerRefreshDelay(cfg.Workflow.RefreshDelay))
	}
	if mc.roles != nil {
		controllerOpts = append(controllerOpts, flow.WithRoleProvider(mc.roles))
	}
	if mc.notifier != nil {
		controllerOpts = append(controllerOpts, flow.WithControllerNotifier(mc.notifier))
	}
	if mc.refresh != nil {
		controllerOpts = append(controllerOpts, flow.WithRefresh(mc.refresh))
	} else {
		controllerOpts = append(controllerOpts, flow.WithRefresh(snapshotRefresh(service, logging.ExecutorLogger(provider))))
	}
	if mc.onComplete != nil {
		controllerOpts = append(controllerOpts, flow.WithCompletion(mc.onComplete))
	}

	controller, err := flow.NewController(service, controllerOpts...)
	if err != nil {
		return nil, err
	}
	module.controller = controller

	return module, nil
}

// Controller returns the workflow surface consumed by UI collaborators.
func (m *Module) Controller() *Controller {
	return m.controller
}

// Resources returns the resource service backing the workflow API.
func (m *Module) Resources() ResourceService {
	return m.resources
}

// Logger returns a module-scoped logger from the configured provider.
func (m *Module) Logger(name string) interfaces.Logger {
	return logging.ModuleLogger(m.provider, name)
}

// Close disposes the controller and the owned database handle, if any.
func (m *Module) Close() error {
	if m.controller != nil {
		m.controller.Close()
	}
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func feedbackLimits(cfg WorkflowConfig) flow.FeedbackLimits {
	limits := flow.DefaultFeedbackLimits()
	if cfg.FeedbackMinLength > 0 {
		limits.FeedbackMin = cfg.FeedbackMinLength
	}
	if cfg.FeedbackMaxLength > 0 {
		limits.FeedbackMax = cfg.FeedbackMaxLength
	}
	if cfg.SummaryMinLength > 0 {
		limits.SummaryMin = cfg.SummaryMinLength
	}
	if cfg.SummaryMaxLength > 0 {
		limits.SummaryMax = cfg.SummaryMaxLength
	}
	return limits
}

func gateFromConfig(cfg WorkflowConfig, roles interfaces.RoleProvider) *flow.Gate {
	gateOpts := []flow.GateOption{}
	if roles != nil {
		gateOpts = append(gateOpts, flow.WithElevationCheck(roles.IsElevatedRole))
	} else if len(cfg.ElevatedRoles) > 0 {
		elevated := make([]interfaces.Role, 0, len(cfg.ElevatedRoles))
		for _, role := range cfg.ElevatedRoles {
			elevated = append(elevated, interfaces.Role(role))
		}
		gateOpts = append(gateOpts, flow.WithElevatedRoles(elevated...))
	}
	if len(cfg.RestrictedActions) > 0 {
		restricted := make([]domain.Action, 0, len(cfg.RestrictedActions))
		for _, action := range cfg.RestrictedActions {
			restricted = append(restricted, domain.NormalizeAction(action))
		}
		gateOpts = append(gateOpts, flow.WithDefaultRestrictedActions(restricted...))
	}
	for resourceType, actions := range cfg.RestrictedActionsPerType {
		override := make([]domain.Action, 0, len(actions))
		for _, action := range actions {
			override = append(override, domain.NormalizeAction(action))
		}
		gateOpts = append(gateOpts, flow.WithRestrictedActions(domain.NormalizeResourceType(resourceType), override...))
	}
	return flow.NewGate(gateOpts...)
}

func snapshotRefresh(fetcher interfaces.ResourceFetcher, logger interfaces.Logger) flow.RefreshFunc {
	return func(ctx context.Context, resourceType domain.ResourceType, resourceID uuid.UUID) {
		if _, err := fetcher.FetchResource(ctx, string(resourceType), resourceID); err != nil {
			logger.Warn("workflow.refresh.failed",
				"resource_type", string(resourceType),
				"resource_id", resourceID.String(),
				"error", err,
			)
		}
	}
}
