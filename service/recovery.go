package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	otelad "github.com/Strob0t/RouteForge/adapter/otel"
	"github.com/Strob0t/RouteForge/config"
	"github.com/Strob0t/RouteForge/domain/policy"
	"github.com/Strob0t/RouteForge/port/approval"
)

// RecoveryManager persists and restores orchestration checkpoints. It owns
// the checkpoint file's lifecycle exclusively: at most one live checkpoint,
// writes are atomic (temp file + rename) so a racing reader never observes a
// partial file, and operations classified destructive by the gate require
// approval before proceeding. Denied approval is a normal outcome: the
// operation no-ops and the prior file stays byte-for-byte unchanged.
type RecoveryManager struct {
	mu       sync.Mutex
	path     string
	gate     *policy.Gate      // optional
	approver approval.Approver // optional
	metrics  *otelad.Metrics   // optional
}

// NewRecoveryManager creates a manager for the configured checkpoint path.
// gate, approver and metrics may each be nil; without a gate or approver all
// operations proceed ungated.
func NewRecoveryManager(cfg config.Recovery, gate *policy.Gate, approver approval.Approver, metrics *otelad.Metrics) *RecoveryManager {
	return &RecoveryManager{
		path:     cfg.CheckpointPath,
		gate:     gate,
		approver: approver,
		metrics:  metrics,
	}
}

// SaveState serializes state and writes it to the checkpoint path. The write
// is destructive only when it would overwrite a differing prior checkpoint;
// in that case, with a gate and approver configured, approval is requested
// synchronously and a denial leaves the prior file untouched.
func (m *RecoveryManager) SaveState(ctx context.Context, state any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	prior, priorExists, err := m.readPrior()
	if err != nil {
		return err
	}

	if priorExists && !bytes.Equal(prior, data) && m.destructive(policy.OpFileWrite) {
		desc := fmt.Sprintf("overwrite checkpoint %s (%d bytes -> %d bytes)", m.path, len(prior), len(data))
		if !m.approver.Approve(desc) {
			m.denied(ctx, "save")
			return nil
		}
	}

	if err := m.writeAtomic(data); err != nil {
		return err
	}
	slog.Info("checkpoint saved", "path", m.path, "bytes", len(data))
	return nil
}

// LoadState reads the checkpoint into out. A missing file is a normal
// first-run state, reported as found=false with no error. Corrupt content is
// treated as absent so a damaged checkpoint never crashes a resuming
// process; the anomaly is logged and metered, not thrown.
func (m *RecoveryManager) LoadState(ctx context.Context, out any) (found bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read checkpoint %s: %w", m.path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		if m.metrics != nil {
			m.metrics.CheckpointCorrupt.Add(ctx, 1)
		}
		slog.Warn("corrupt checkpoint treated as absent", "path", m.path, "error", err)
		return false, nil
	}
	return true, nil
}

// ClearState deletes the checkpoint file, subject to the same approval gate
// as SaveState. An unauthorized clear is a silent no-op, not an error; a
// missing file makes the clear trivially done.
func (m *RecoveryManager) ClearState(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if m.destructive(policy.OpFileDelete) {
		desc := fmt.Sprintf("delete checkpoint %s", m.path)
		if !m.approver.Approve(desc) {
			m.denied(ctx, "clear")
			return nil
		}
	}

	if err := os.Remove(m.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove checkpoint %s: %w", m.path, err)
	}
	slog.Info("checkpoint cleared", "path", m.path)
	return nil
}

// destructive reports whether the gate classifies kind as destructive and an
// approver is available to ask. Without both, operations proceed ungated.
func (m *RecoveryManager) destructive(kind policy.OperationKind) bool {
	return m.gate != nil && m.approver != nil && m.gate.IsDestructive(kind)
}

func (m *RecoveryManager) denied(ctx context.Context, op string) {
	if m.metrics != nil {
		m.metrics.ApprovalsDenied.Add(ctx, 1)
	}
	slog.Info("checkpoint operation denied by approver", "op", op, "path", m.path)
}

func (m *RecoveryManager) readPrior() ([]byte, bool, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read prior checkpoint %s: %w", m.path, err)
	}
	return data, true, nil
}

// writeAtomic writes data to a temp file in the checkpoint directory and
// renames it into place. Rename is atomic on POSIX filesystems, so a reader
// racing the writer sees either the old complete file or the new one.
func (m *RecoveryManager) writeAtomic(data []byte) error {
	dir := filepath.Dir(m.path)
	tmp, err := os.CreateTemp(dir, ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp checkpoint: %w", err)
	}

	if err := os.Rename(tmpName, m.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace checkpoint %s: %w", m.path, err)
	}
	return nil
}
