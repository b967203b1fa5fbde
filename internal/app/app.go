package app

import (
	"context"
	"sync"

	"github.com/dshills/blockedit/internal/clipboard"
	"github.com/dshills/blockedit/internal/config"
	"github.com/dshills/blockedit/internal/dispatcher"
	"github.com/dshills/blockedit/internal/dragdrop"
	"github.com/dshills/blockedit/internal/engine/block"
	"github.com/dshills/blockedit/internal/engine/caret"
	"github.com/dshills/blockedit/internal/engine/sequence"
	"github.com/dshills/blockedit/internal/event"
	"github.com/dshills/blockedit/internal/importer"
	luaplugin "github.com/dshills/blockedit/internal/plugin/lua"
	"github.com/dshills/blockedit/internal/schedule"
	"github.com/dshills/blockedit/internal/selection"
	"github.com/dshills/blockedit/internal/toolbar"
)

// App owns every subsystem of the interaction engine and the wiring
// between them.
type App struct {
	cfg *config.Config
	log *Logger

	bus       *event.Bus
	registry  *block.Registry
	store     *sequence.Store
	caret     *caret.Service
	policy    *block.MergePolicy
	toolbar   *toolbar.Toolbar
	selection *selection.Coordinator
	scheduler *schedule.Scheduler
	disp      *dispatcher.Dispatcher
	pipeline  *importer.Pipeline
	bridge    *dragdrop.Bridge
	clip      *clipboard.Service
	plugins   *luaplugin.Host

	lifetime context.Context
	cancel   context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// Option configures an App.
type Option func(*options)

type options struct {
	logger *Logger
	clock  schedule.Clock
	writer clipboard.Writer
}

// WithLogger sets the application logger.
func WithLogger(log *Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithClock sets the scheduler clock, letting tests drive virtual
// time.
func WithClock(clock schedule.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithClipboardWriter sets the platform clipboard writer. The default
// keeps the last payload in memory, which is enough for an in-process
// paste.
func WithClipboardWriter(w clipboard.Writer) Option {
	return func(o *options) { o.writer = w }
}

// MemoryClipboard is the default clipboard writer: it retains the last
// payload written.
type MemoryClipboard struct {
	mu      sync.Mutex
	payload importer.Payload
}

// Write implements clipboard.Writer.
func (m *MemoryClipboard) Write(_ context.Context, payload importer.Payload) error {
	m.mu.Lock()
	m.payload = payload
	m.mu.Unlock()
	return nil
}

// Payload returns the last payload written, or nil.
func (m *MemoryClipboard) Payload() importer.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.payload
}

// New assembles the engine from a validated configuration. Plugin
// scripts that fail to load are logged and skipped; the engine runs
// with the default merge policy for them.
func New(cfg *config.Config, opts ...Option) *App {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		lc := DefaultLoggerConfig()
		lc.Level = ParseLogLevel(cfg.Logging.Level)
		o.logger = NewLogger(lc)
	}
	if o.clock == nil {
		o.clock = schedule.NewRealClock()
	}
	if o.writer == nil {
		o.writer = &MemoryClipboard{}
	}

	lifetime, cancel := context.WithCancel(context.Background())

	a := &App{
		cfg:      cfg,
		log:      o.logger,
		bus:      event.NewBus(),
		registry: block.NewRegistry(),
		lifetime: lifetime,
		cancel:   cancel,
	}

	a.store = sequence.NewStore(a.registry, a.bus,
		sequence.WithDefaultType(block.ContentType(cfg.Editor.DefaultBlockType)))
	a.caret = caret.NewService(a.store)
	a.policy = block.NewMergePolicy(a.registry)
	a.toolbar = toolbar.New()
	a.selection = selection.NewCoordinator(a.store)
	a.scheduler = schedule.NewScheduler(o.clock)

	a.plugins = luaplugin.NewHost()
	for _, path := range cfg.Plugins.Paths {
		if err := a.plugins.LoadFile(path); err != nil {
			a.log.Warn("skipping plugin: %v", err)
			continue
		}
		a.log.Info("loaded plugin %s", path)
	}
	a.policy.SetHook(a.plugins.MergeHook())

	a.disp = dispatcher.New(dispatcher.Config{
		TouchPlatform:    cfg.Editor.TouchPlatform,
		RTL:              cfg.Editor.LayoutRTL,
		ResyncDelay:      cfg.Editor.ResyncDelay(),
		RecoverFromPanic: true,
	}, dispatcher.Deps{
		Store:     a.store,
		Caret:     a.caret,
		Policy:    a.policy,
		Toolbar:   a.toolbar,
		Selection: a.selection,
		Scheduler: a.scheduler,
		Bus:       a.bus,
		Bindings:  a.plugins,
		Lifetime:  lifetime,
	})

	a.pipeline = importer.NewPipeline(a.store, a.caret, a.bus)
	a.bridge = dragdrop.NewBridge(a.store, a.caret, a.toolbar.InlineToolbar(), a.pipeline, lifetime)
	a.clip = clipboard.NewService(a.store, a.caret, a.selection, o.writer)

	return a
}

// ApplyConfig applies a live-reloaded configuration: log level takes
// effect immediately and the dispatcher is rebuilt with the new
// platform flags. The document and caret are untouched.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.cfg = cfg
	a.log.SetLevel(ParseLogLevel(cfg.Logging.Level))
	a.disp = dispatcher.New(dispatcher.Config{
		TouchPlatform:    cfg.Editor.TouchPlatform,
		RTL:              cfg.Editor.LayoutRTL,
		ResyncDelay:      cfg.Editor.ResyncDelay(),
		RecoverFromPanic: true,
	}, dispatcher.Deps{
		Store:     a.store,
		Caret:     a.caret,
		Policy:    a.policy,
		Toolbar:   a.toolbar,
		Selection: a.selection,
		Scheduler: a.scheduler,
		Bus:       a.bus,
		Bindings:  a.plugins,
		Lifetime:  a.lifetime,
	})
	a.log.Info("configuration reloaded")
}

// Dispatcher returns the keyboard dispatcher.
func (a *App) Dispatcher() *dispatcher.Dispatcher {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disp
}

// Store returns the block sequence store.
func (a *App) Store() *sequence.Store { return a.store }

// Caret returns the caret service.
func (a *App) Caret() *caret.Service { return a.caret }

// Toolbar returns the toolbar coordinator.
func (a *App) Toolbar() *toolbar.Toolbar { return a.toolbar }

// Selection returns the cross-block selection coordinator.
func (a *App) Selection() *selection.Coordinator { return a.selection }

// Importer returns the content import pipeline.
func (a *App) Importer() *importer.Pipeline { return a.pipeline }

// DragDrop returns the drag/drop bridge.
func (a *App) DragDrop() *dragdrop.Bridge { return a.bridge }

// Clipboard returns the clipboard service.
func (a *App) Clipboard() *clipboard.Service { return a.clip }

// Bus returns the event bus.
func (a *App) Bus() *event.Bus { return a.bus }

// Plugins returns the script host.
func (a *App) Plugins() *luaplugin.Host { return a.plugins }

// Logger returns the application logger.
func (a *App) Logger() *Logger { return a.log }

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Close shuts the engine down: pending deferred work is cancelled and
// the plugin host is released. Close is idempotent.
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	a.scheduler.Close()
	a.plugins.Close()
	a.log.Info("engine closed")
}
