package authz

import (
	"context"
	"log/slog"
)

// ViewState resolves the state handed to server-rendered templates. A
// resolution fault fails closed for rendering purposes: the page gets
// the empty non-admin triple, and the fault is logged rather than
// swallowed.
func (s *Service) ViewState(ctx context.Context, userID string, logger *slog.Logger) State {
	res, err := s.Resolve(ctx, userID)
	if err != nil {
		if logger != nil {
			logger.Error("resolve view permissions", slog.Any("error", err))
		}
		return State{Resolution: EmptyResolution()}
	}
	return State{Resolution: res}
}
