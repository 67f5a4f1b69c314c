package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/PraneethJain/simplipy-backend/internal/config"
	"github.com/PraneethJain/simplipy-backend/internal/platform/db"
	"github.com/PraneethJain/simplipy-backend/internal/platform/jwt"
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/interp"
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/simplify"
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

// Store archives programs and lifecycle events.
type Store interface {
	SaveProgram(ctx context.Context, params SaveProgramParams) (Program, error)
	RecordEvent(ctx context.Context, sessionID, kind string) error
	ListPrograms(ctx context.Context, sessionID string) ([]Program, error)
}

// CreatedSession is what a client needs to start debugging: the session
// id, the bearer token guarding it and the initial machine state.
type CreatedSession struct {
	SessionID  string
	Token      string
	Simplified string
	State      *interp.Snapshot
	Finished   bool
}

// View is a point-in-time look at a session's machine state.
type View struct {
	State    *interp.Snapshot
	Finished bool
}

type Service interface {
	Create(ctx context.Context, code, filename string) (*CreatedSession, error)
	Step(ctx context.Context, id string) (*View, error)
	Current(ctx context.Context, id string) (*View, error)
	Reset(ctx context.Context, id, code, filename string) (*View, error)
	Delete(ctx context.Context, id string) error
	Simplify(ctx context.Context, code string) (string, error)
	Programs(ctx context.Context, id string) ([]Program, error)
}

type service struct {
	registry *Registry
	store    Store
	signer   jwt.Signer
	txMgr    db.TxManager
	jwtCfg   *config.JWTOptions
}

var _ Service = (*service)(nil)

func NewService(registry *Registry, store Store, signer jwt.Signer, txMgr db.TxManager, jwtCfg *config.JWTOptions) *service {
	return &service{
		registry: registry,
		store:    store,
		signer:   signer,
		txMgr:    txMgr,
		jwtCfg:   jwtCfg,
	}
}

// build runs a submission through the full pipeline: simplify, re-parse
// the printed source so positions refer to its real lines, compile and
// seed a fresh machine state.
// build parses and compiles the submitted source under the strict core
// rules. Submissions are not repaired; callers lower surface programs
// through Simplify first. The returned text is the canonical print of
// the accepted program.
func build(code string) (string, *interp.State, error) {
	mod, err := syntax.Parse(code)
	if err != nil {
		return "", nil, err
	}

	prog, err := interp.Compile(mod)
	if err != nil {
		return "", nil, err
	}

	state, err := interp.NewState(prog)
	if err != nil {
		return "", nil, err
	}
	return syntax.Print(mod), state, nil
}

// defaultFilename labels submissions that arrive without a name.
const defaultFilename = "program.py"

func (s *service) Create(ctx context.Context, code, filename string) (*CreatedSession, error) {
	if filename == "" {
		filename = defaultFilename
	}
	simplified, state, err := build(code)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sess := New(id, code, simplified, state)
	if err := s.registry.Put(sess); err != nil {
		return nil, err
	}

	token, err := s.signer.Sign(id, nil, s.jwtCfg.TTL.Duration)
	if err != nil {
		_ = s.registry.Delete(id)
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		params := SaveProgramParams{SessionID: id, Filename: filename, Source: code, Simplified: simplified}
		if _, err := s.store.SaveProgram(txCtx, params); err != nil {
			return err
		}
		return s.store.RecordEvent(txCtx, id, "created")
	})
	if err != nil {
		_ = s.registry.Delete(id)
		return nil, err
	}

	snap, finished := sess.Snapshot()
	return &CreatedSession{
		SessionID:  id,
		Token:      token,
		Simplified: simplified,
		State:      snap,
		Finished:   finished,
	}, nil
}

func (s *service) Step(_ context.Context, id string) (*View, error) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	snap, finished, err := sess.Step()
	if err != nil {
		return nil, err
	}
	return &View{State: snap, Finished: finished}, nil
}

func (s *service) Current(_ context.Context, id string) (*View, error) {
	sess, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	snap, finished := sess.Snapshot()
	return &View{State: snap, Finished: finished}, nil
}

// Reset rewinds the session. With code it swaps in a new program; with
// an empty string it restarts the one already loaded.
func (s *service) Reset(ctx context.Context, id, code, filename string) (*View, error) {
	if filename == "" {
		filename = defaultFilename
	}
	sess, err := s.registry.Get(id)
	if err != nil {
		return nil, err
	}

	if code == "" {
		snap, finished, err := sess.Restart()
		if err != nil {
			return nil, err
		}
		if err := s.store.RecordEvent(ctx, id, "reset"); err != nil {
			return nil, err
		}
		return &View{State: snap, Finished: finished}, nil
	}

	simplified, state, err := build(code)
	if err != nil {
		return nil, err
	}

	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		params := SaveProgramParams{SessionID: id, Filename: filename, Source: code, Simplified: simplified}
		if _, err := s.store.SaveProgram(txCtx, params); err != nil {
			return err
		}
		return s.store.RecordEvent(txCtx, id, "reset")
	})
	if err != nil {
		return nil, err
	}

	snap, finished := sess.Replace(code, simplified, state)
	return &View{State: snap, Finished: finished}, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.registry.Delete(id); err != nil {
		return err
	}
	return s.store.RecordEvent(ctx, id, "deleted")
}

func (s *service) Simplify(_ context.Context, code string) (string, error) {
	return simplify.Source(code)
}

func (s *service) Programs(ctx context.Context, id string) ([]Program, error) {
	if _, err := s.registry.Get(id); err != nil {
		return nil, err
	}
	return s.store.ListPrograms(ctx, id)
}
