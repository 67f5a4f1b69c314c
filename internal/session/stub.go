package session

import (
	"context"
	"errors"
)

type StubService struct {
	CreateFunc   func(ctx context.Context, code, filename string) (*CreatedSession, error)
	StepFunc     func(ctx context.Context, id string) (*View, error)
	CurrentFunc  func(ctx context.Context, id string) (*View, error)
	ResetFunc    func(ctx context.Context, id, code, filename string) (*View, error)
	DeleteFunc   func(ctx context.Context, id string) error
	SimplifyFunc func(ctx context.Context, code string) (string, error)
	ProgramsFunc func(ctx context.Context, id string) ([]Program, error)
}

var _ Service = (*StubService)(nil)

func (s *StubService) Create(ctx context.Context, code, filename string) (*CreatedSession, error) {
	if s.CreateFunc == nil {
		return nil, errors.New("Create() not implemented by stub")
	}
	return s.CreateFunc(ctx, code, filename)
}

func (s *StubService) Step(ctx context.Context, id string) (*View, error) {
	if s.StepFunc == nil {
		return nil, errors.New("Step() not implemented by stub")
	}
	return s.StepFunc(ctx, id)
}

func (s *StubService) Current(ctx context.Context, id string) (*View, error) {
	if s.CurrentFunc == nil {
		return nil, errors.New("Current() not implemented by stub")
	}
	return s.CurrentFunc(ctx, id)
}

func (s *StubService) Reset(ctx context.Context, id, code, filename string) (*View, error) {
	if s.ResetFunc == nil {
		return nil, errors.New("Reset() not implemented by stub")
	}
	return s.ResetFunc(ctx, id, code, filename)
}

func (s *StubService) Delete(ctx context.Context, id string) error {
	if s.DeleteFunc == nil {
		return errors.New("Delete() not implemented by stub")
	}
	return s.DeleteFunc(ctx, id)
}

func (s *StubService) Simplify(ctx context.Context, code string) (string, error) {
	if s.SimplifyFunc == nil {
		return "", errors.New("Simplify() not implemented by stub")
	}
	return s.SimplifyFunc(ctx, code)
}

func (s *StubService) Programs(ctx context.Context, id string) ([]Program, error) {
	if s.ProgramsFunc == nil {
		return nil, errors.New("Programs() not implemented by stub")
	}
	return s.ProgramsFunc(ctx, id)
}

type StubStore struct {
	SaveProgramFunc  func(ctx context.Context, params SaveProgramParams) (Program, error)
	RecordEventFunc  func(ctx context.Context, sessionID, kind string) error
	ListProgramsFunc func(ctx context.Context, sessionID string) ([]Program, error)
}

var _ Store = (*StubStore)(nil)

func (s *StubStore) SaveProgram(ctx context.Context, params SaveProgramParams) (Program, error) {
	if s.SaveProgramFunc == nil {
		return Program{}, errors.New("SaveProgram() not implemented by stub")
	}
	return s.SaveProgramFunc(ctx, params)
}

func (s *StubStore) RecordEvent(ctx context.Context, sessionID, kind string) error {
	if s.RecordEventFunc == nil {
		return errors.New("RecordEvent() not implemented by stub")
	}
	return s.RecordEventFunc(ctx, sessionID, kind)
}

func (s *StubStore) ListPrograms(ctx context.Context, sessionID string) ([]Program, error) {
	if s.ListProgramsFunc == nil {
		return nil, errors.New("ListPrograms() not implemented by stub")
	}
	return s.ListProgramsFunc(ctx, sessionID)
}
