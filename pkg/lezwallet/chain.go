package lezwallet

import (
	"context"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/ownership"
)

// SyncToBlock advances the wallet's view of the chain to blockID. The engine
// call blocks until synchronisation finishes.
func (s *Session) SyncToBlock(ctx context.Context, blockID uint64) error {
	const op = "sync_to_block"
	if err := s.requireOpen(ctx, op); err != nil {
		return err
	}
	if err := s.check(ctx, op, s.engine.SyncToBlock(s.handle, blockID)); err != nil {
		return err
	}
	s.log.Info(ctx, "wallet synced", "block_id", blockID)
	return nil
}

// LastSyncedBlock returns the last block the wallet has processed.
func (s *Session) LastSyncedBlock(ctx context.Context) (uint64, error) {
	return s.blockQuery(ctx, "get_last_synced_block", s.engine.GetLastSyncedBlock)
}

// CurrentBlockHeight returns the chain height reported by the sequencer.
func (s *Session) CurrentBlockHeight(ctx context.Context) (uint64, error) {
	return s.blockQuery(ctx, "get_current_block_height", s.engine.GetCurrentBlockHeight)
}

func (s *Session) blockQuery(ctx context.Context, op string, query func(Handle) (uint64, Code)) (uint64, error) {
	if err := s.requireOpen(ctx, op); err != nil {
		return 0, err
	}
	n, code := query(s.handle)
	if err := s.check(ctx, op, code); err != nil {
		return 0, err
	}
	return n, nil
}

// SequencerAddr returns the sequencer address from the wallet configuration.
func (s *Session) SequencerAddr(ctx context.Context) (string, error) {
	const op = "get_sequencer_addr"
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}

	var scope ownership.Scope
	defer scope.Close()
	text := s.engine.SequencerAddr(s.handle)
	s.adopt(&scope, "sequencer_addr", text.Mem)
	if text.Null {
		return "", s.check(ctx, op, InternalError)
	}
	s.metrics.EngineCall(op, Success.String())
	return string(text.Bytes), nil
}
