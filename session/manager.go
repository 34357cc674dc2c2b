package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/convodesk/convodesk/core"
	"github.com/convodesk/convodesk/internal/util"
	"github.com/convodesk/convodesk/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout is the default inactivity window before a session expires.
const DefaultTimeout = 5 * time.Minute

// Archiver is the cross-component hook invoked when a session ends so the
// history side can mark its turns archived. Implemented by history.Service.
type Archiver interface {
	Archive(ctx context.Context, sessionID string) (int, error)
}

// Options configure a Manager.
type Options struct {
	// Timeout is the inactivity window before expiry.
	Timeout time.Duration
	// Archiver is notified when sessions end; nil disables archiving.
	Archiver Archiver
	// Logger; nil disables logging.
	Logger logging.Logger
	// Now injects the clock for tests. Defaults to time.Now.
	Now func() time.Time
}

// Manager owns session lifecycle against a core.SessionStore.
//
// The one-active-session-per-identity invariant is upheld by funneling
// GetOrCreate through a per-identity singleflight group: concurrent calls
// for the same identity collapse into a single find-or-create execution and
// share its result.
type Manager struct {
	store    core.SessionStore
	timeout  time.Duration
	archiver Archiver
	logger   logging.Logger
	now      func() time.Time
	group    singleflight.Group
}

// NewManager constructs a Manager over the given store.
func NewManager(store core.SessionStore, optFns ...func(o *Options)) *Manager {
	opts := Options{
		Timeout: DefaultTimeout,
		Now:     time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{
		store:    store,
		timeout:  opts.Timeout,
		archiver: opts.Archiver,
		logger:   logging.OrNoOp(opts.Logger),
		now:      opts.Now,
	}
}

// Timeout returns the configured inactivity window.
func (m *Manager) Timeout() time.Duration { return m.timeout }

// GetOrCreate returns the identity's current active session, or deactivates
// the stale one (if any) and creates a fresh session expiring after the
// configured timeout.
func (m *Manager) GetOrCreate(ctx context.Context, identity string) (*core.Session, error) {
	v, err, _ := m.group.Do(identity, func() (any, error) {
		return m.getOrCreate(ctx, identity)
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.Session), nil
}

func (m *Manager) getOrCreate(ctx context.Context, identity string) (*core.Session, error) {
	now := m.now()

	existing, err := m.store.FindActive(ctx, identity)
	switch {
	case err == nil:
		if existing.ActiveAt(now) {
			return existing, nil
		}
		// Stale: flagged active but past expiry. Deactivate before creating
		// the replacement so the invariant holds at every instant.
		if err := m.deactivate(ctx, existing); err != nil {
			return nil, err
		}
		m.logger.Debug("deactivated stale session %s for identity %s", existing.ID, util.MaskIdentity(identity))
	case errors.Is(err, core.ErrSessionNotFound):
		// No current session; fall through to create.
	default:
		return nil, infraErr("find active session", err)
	}

	sess := core.NewSession(util.NewID(), identity, now, m.timeout)
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, infraErr("create session", err)
	}
	m.logger.Info("created session %s for identity %s", sess.ID, util.MaskIdentity(identity))
	return sess.Clone(), nil
}

// Touch records activity on an active session, extending its expiry. It
// returns false when the session is missing or no longer active; the caller
// must then create a new session rather than retry the touch.
func (m *Manager) Touch(ctx context.Context, sessionID string) (bool, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if errors.Is(err, core.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, infraErr("get session", err)
	}

	now := m.now()
	if !sess.ActiveAt(now) {
		return false, nil
	}
	sess.Touch(now, m.timeout)
	if err := m.store.Update(ctx, sess); err != nil {
		return false, infraErr("update session", err)
	}
	return true, nil
}

// End explicitly deactivates a session and archives its turns. Idempotent:
// ending a missing or already inactive session is not an error.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	sess, err := m.store.Get(ctx, sessionID)
	if errors.Is(err, core.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return infraErr("get session", err)
	}
	if !sess.Active {
		return nil
	}
	return m.deactivate(ctx, sess)
}

// Reap deactivates every active session whose expiry has passed and returns
// how many were reaped. Best-effort maintenance: correctness never depends
// on its cadence, because GetOrCreate applies its own expiry check.
func (m *Manager) Reap(ctx context.Context) (int, error) {
	expired, err := m.store.ExpiredBefore(ctx, m.now())
	if err != nil {
		return 0, infraErr("list expired sessions", err)
	}

	count := 0
	for _, sess := range expired {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if err := m.deactivate(ctx, sess); err != nil {
			m.logger.Error("reap: failed to deactivate session %s: %v", sess.ID, err)
			continue
		}
		count++
	}
	if count > 0 {
		m.logger.Info("reaped %d expired sessions", count)
	}
	return count, nil
}

// deactivate ends a session and signals the archiver. Archive failures are
// logged, not fatal: turn archiving is a cleanup concern.
func (m *Manager) deactivate(ctx context.Context, sess *core.Session) error {
	sess.End()
	if err := m.store.Update(ctx, sess); err != nil {
		return infraErr("update session", err)
	}
	if m.archiver != nil {
		if n, err := m.archiver.Archive(ctx, sess.ID); err != nil {
			m.logger.Error("failed to archive turns for session %s: %v", sess.ID, err)
		} else if n > 0 {
			m.logger.Debug("archived %d turns for session %s", n, sess.ID)
		}
	}
	return nil
}

func infraErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", core.ErrInfrastructure, op, err)
}
