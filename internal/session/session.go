package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/registry"
)

type phase int

const (
	phaseNew phase = iota
	phaseLoaded
	phaseResolved
)

// Option configures a Session.
type Option func(*Session)

// WithNameCache sets the cache consulted for assets without an explicit
// name.
func WithNameCache(c asset.NameCache) Option {
	return func(s *Session) { s.names = c }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers bounds the goroutines used per phase. Zero or less means
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(s *Session) { s.workers = n }
}

// WithIDGenerator sets the generator for the session ID.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		if g != nil {
			s.ids = g
		}
	}
}

// Session owns the assets of one container.
//
// Thread-safety: all methods are safe for concurrent use. Load must
// complete before Resolve, and Resolve before Preview or Export.
type Session struct {
	id       string
	registry *registry.Registry
	names    asset.NameCache
	logger   *slog.Logger
	workers  int
	ids      IDGenerator

	mu       sync.RWMutex
	phase    phase
	assets   []*asset.Asset
	byGUID   map[asset.GUID]*asset.Asset
	failures []*Error
	skipped  int

	exportLocks keyedMutex
}

// New creates a session dispatching through reg.
func New(reg *registry.Registry, opts ...Option) *Session {
	s := &Session{
		registry: reg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:      UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.id = s.ids.Generate()
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) limit() int {
	if s.workers > 0 {
		return s.workers
	}
	return runtime.GOMAXPROCS(0)
}

type loadResult struct {
	asset   *asset.Asset
	failure *Error
	skipped bool
}

// Load runs the load phase over every record of src. It returns only once
// every record has been processed. Per-record failures do not fail the
// call; see Failures. An error is returned when the session was already
// loaded or ctx is cancelled.
func (s *Session) Load(ctx context.Context, src asset.RecordSource) error {
	s.mu.Lock()
	if s.phase != phaseNew {
		s.mu.Unlock()
		return &Error{Code: ErrCodeInvalidPhase, Message: "session already loaded"}
	}
	// Hold the phase so a concurrent Load fails fast.
	s.phase = phaseLoaded
	s.mu.Unlock()

	records := src.Records()
	results := make([]loadResult, len(records))

	seen := make(map[asset.GUID]struct{}, len(records))
	for i, rec := range records {
		if rec == nil {
			results[i].skipped = true
			continue
		}
		if _, ok := s.registry.Lookup(rec.Type); !ok {
			s.logger.Debug("skipping unregistered type", "guid", rec.GUID, "type", rec.Type.String())
			results[i].skipped = true
			continue
		}
		if _, dup := seen[rec.GUID]; dup {
			results[i].failure = &Error{
				Code:    ErrCodeDuplicateGUID,
				GUID:    rec.GUID,
				Type:    rec.Type,
				Message: "GUID already used by an earlier record",
			}
			continue
		}
		seen[rec.GUID] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for i, rec := range records {
		if results[i].skipped || results[i].failure != nil {
			continue
		}
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.loadRecord(rec)
			return nil
		})
	}
	// Barrier: no asset becomes visible through the directory before
	// every Load has returned.
	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.phase = phaseNew
		s.mu.Unlock()
		return fmt.Errorf("load: %w", err)
	}

	byGUID := make(map[asset.GUID]*asset.Asset, len(records))
	var loaded []*asset.Asset
	var failures []*Error
	skipped := 0
	for _, r := range results {
		switch {
		case r.skipped:
			skipped++
		case r.failure != nil:
			failures = append(failures, r.failure)
			s.logger.Warn("asset failed to load",
				"guid", r.failure.GUID,
				"type", r.failure.Type.String(),
				"code", string(r.failure.Code),
				"error", r.failure.Error(),
			)
		default:
			loaded = append(loaded, r.asset)
			byGUID[r.asset.GUID()] = r.asset
		}
	}

	s.mu.Lock()
	s.assets = loaded
	s.byGUID = byGUID
	s.failures = failures
	s.skipped = skipped
	s.mu.Unlock()

	s.logger.Info("load phase complete",
		"loaded", len(loaded),
		"failed", len(failures),
		"skipped", skipped,
	)
	return nil
}

func (s *Session) loadRecord(rec *asset.RawRecord) loadResult {
	binding, _ := s.registry.Lookup(rec.Type)
	if rec.GUID.IsZero() {
		return loadResult{failure: &Error{
			Code: ErrCodeInvalidRecord, Type: rec.Type, Message: "zero GUID",
		}}
	}
	if rec.HeaderSize%uint32(binding.HeaderAlignment) != 0 {
		return loadResult{failure: &Error{
			Code:    ErrCodeInvalidRecord,
			GUID:    rec.GUID,
			Type:    rec.Type,
			Message: fmt.Sprintf("header size 0x%X is not %d-byte aligned", rec.HeaderSize, binding.HeaderAlignment),
		}}
	}

	a := asset.New(rec)
	if err := binding.Load(a); err != nil {
		return loadResult{failure: &Error{
			Code: ErrCodeLoadFailed, GUID: rec.GUID, Type: rec.Type, Err: err,
		}}
	}
	return loadResult{asset: a}
}

// Resolve runs the post-load phase for every loaded asset. It may be
// called more than once.
func (s *Session) Resolve(ctx context.Context) error {
	s.mu.RLock()
	ready, assets := s.byGUID != nil, s.assets
	s.mu.RUnlock()
	if !ready {
		return &Error{Code: ErrCodeInvalidPhase, Message: "resolve before load"}
	}

	env := s.env()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for _, a := range assets {
		binding, ok := s.registry.Lookup(a.Type())
		if !ok || binding.PostLoad == nil {
			continue
		}
		binding, a := binding, a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			binding.PostLoad(env, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("resolve: %w", err)
	}

	s.mu.Lock()
	s.phase = phaseResolved
	s.mu.Unlock()
	s.logger.Info("post-load phase complete", "assets", len(assets))
	return nil
}

// Open runs Load followed by Resolve.
func (s *Session) Open(ctx context.Context, src asset.RecordSource) error {
	if err := s.Load(ctx, src); err != nil {
		return err
	}
	return s.Resolve(ctx)
}

func (s *Session) env() registry.Env {
	return registry.Env{
		Directory: s,
		Names:     s.names,
		Payloads:  s.registry,
		Logger:    s.logger,
	}
}

// LookupGUID implements asset.Directory. It finds nothing until the load
// phase has completed.
func (s *Session) LookupGUID(guid asset.GUID) (*asset.Asset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byGUID[guid]
	return a, ok
}

// Assets returns the loaded assets in record order.
func (s *Session) Assets() []*asset.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*asset.Asset(nil), s.assets...)
}

// Failures returns the records that failed to load, in record order.
func (s *Session) Failures() []*Error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Error(nil), s.failures...)
}

// Skipped returns the number of records with no registered type.
func (s *Session) Skipped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skipped
}

func (s *Session) resolved(guid asset.GUID) (*asset.Asset, *registry.Binding, error) {
	s.mu.RLock()
	ph := s.phase
	a, ok := s.byGUID[guid]
	s.mu.RUnlock()

	if ph != phaseResolved {
		return nil, nil, &Error{Code: ErrCodeInvalidPhase, GUID: guid, Message: "session not resolved"}
	}
	if !ok {
		return nil, nil, &Error{Code: ErrCodeNotFound, GUID: guid, Message: "asset not loaded"}
	}
	binding, ok := s.registry.Lookup(a.Type())
	if !ok {
		return nil, nil, &Error{Code: ErrCodeUnsupported, GUID: guid, Type: a.Type(), Message: "type not registered"}
	}
	return a, binding, nil
}

// Preview returns the preview of the asset with the given GUID.
func (s *Session) Preview(guid asset.GUID) (registry.Preview, error) {
	a, binding, err := s.resolved(guid)
	if err != nil {
		return nil, err
	}
	if binding.Preview == nil {
		return nil, &Error{Code: ErrCodeUnsupported, GUID: guid, Type: a.Type(), Message: "type has no preview"}
	}
	return binding.Preview(a), nil
}

// ExportModes returns the export modes offered for the asset's type.
func (s *Session) ExportModes(guid asset.GUID) ([]string, error) {
	_, binding, err := s.resolved(guid)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), binding.ExportModes...), nil
}

// Export writes the asset's artifacts under root using the named mode.
// Exports of the same asset to the same root are serialized.
func (s *Session) Export(guid asset.GUID, mode, root string) error {
	a, binding, err := s.resolved(guid)
	if err != nil {
		return err
	}
	if binding.Export == nil || len(binding.ExportModes) == 0 {
		return &Error{Code: ErrCodeUnsupported, GUID: guid, Type: a.Type(), Message: "type has no export"}
	}
	idx, ok := binding.ModeIndex(mode)
	if !ok {
		return &Error{
			Code:    ErrCodeUnknownMode,
			GUID:    guid,
			Type:    a.Type(),
			Message: fmt.Sprintf("unknown export mode %q (have %q)", mode, binding.ExportModes),
		}
	}

	key := filepath.Join(root, binding.ExportDir, guid.String())
	unlock := s.exportLocks.Lock(key)
	defer unlock()

	if err := binding.Export(s.env(), a, idx, root); err != nil {
		return &Error{Code: ErrCodeExportFailed, GUID: guid, Type: a.Type(), Err: err}
	}
	s.logger.Debug("exported asset",
		"guid", guid,
		"type", a.Type().String(),
		"mode", mode,
		"path", key,
	)
	return nil
}

// ExportAll exports every loaded asset whose type offers mode, in
// parallel. It returns the number of assets exported and the joined
// export errors.
func (s *Session) ExportAll(ctx context.Context, mode, root string) (int, error) {
	s.mu.RLock()
	ph, assets := s.phase, s.assets
	s.mu.RUnlock()
	if ph != phaseResolved {
		return 0, &Error{Code: ErrCodeInvalidPhase, Message: "session not resolved"}
	}

	var (
		mu       sync.Mutex
		exported int
		errs     []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit())
	for _, a := range assets {
		binding, ok := s.registry.Lookup(a.Type())
		if !ok {
			continue
		}
		if _, ok := binding.ModeIndex(mode); !ok || binding.Export == nil {
			continue
		}
		a := a
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := s.Export(a.GUID(), mode, root)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			} else {
				exported++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return exported, fmt.Errorf("export all: %w", err)
	}
	return exported, errors.Join(errs...)
}
