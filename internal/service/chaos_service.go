package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"inventory-ledger/internal/interfaces"
	"inventory-ledger/internal/models"
)

// Fault-injection flag names. Each fault is toggled and parameterized
// independently through the flag source.
const (
	flagServiceFailure  = "inventoryServiceFailure"
	flagServiceLatency  = "inventoryServiceLatency"
	flagDatabaseFailure = "inventoryDatabaseFailure"
	flagSlowQuery       = "inventorySlowQuery"
	flagMemoryLeak      = "inventoryMemoryLeak"
	flagHighCPU         = "inventoryHighCpu"
)

// memoryChunkSize is the block retained per memory-pressure injection (1 MiB)
const memoryChunkSize = 1 << 20

// CPU burn duration bounds
const (
	cpuBurnMinMs = 1000
	cpuBurnMaxMs = 3000
)

// ChaosService simulates failure modes against a running instance without
// redeploying. Flags are re-read on every call, so toggling a flag takes
// effect on the next operation. The memory accumulator is the only
// cross-call mutable state and is guarded by a mutex.
type ChaosService struct {
	flags interfaces.FlagSource

	mu           sync.Mutex
	memoryChunks [][]byte
}

// NewChaosService creates a new chaos service
func NewChaosService(flags interfaces.FlagSource) *ChaosService {
	return &ChaosService{flags: flags}
}

// InjectFailure raises a synthetic operation failure when enabled
func (s *ChaosService) InjectFailure(ctx context.Context, operation string) error {
	if !s.flags.GetBool(ctx, flagServiceFailure, false) {
		return nil
	}

	log.Warn().Str("operation", operation).Msg("Failure injection enabled")
	return fmt.Errorf("operation %s: %w", operation, models.ErrInjectedFailure)
}

// InjectLatency blocks the calling path for the configured duration. Only
// the caller is delayed; no shared lock is held while sleeping.
func (s *ChaosService) InjectLatency(ctx context.Context, operation string) error {
	latencyMs := s.flags.GetInt(ctx, flagServiceLatency, 0)
	if latencyMs <= 0 {
		return nil
	}

	log.Warn().Str("operation", operation).Int("latency_ms", latencyMs).Msg("Latency injection enabled")

	timer := time.NewTimer(time.Duration(latencyMs) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// InjectDatabaseFailure raises a synthetic store outage when enabled
func (s *ChaosService) InjectDatabaseFailure(ctx context.Context, operation string) error {
	if !s.flags.GetBool(ctx, flagDatabaseFailure, false) {
		return nil
	}

	log.Error().Str("operation", operation).Msg("Database failure injection enabled")
	return fmt.Errorf("operation %s: %w", operation, models.ErrStoreUnavailable)
}

// ShouldExecuteSlowQuery reports whether the expensive-read fault is
// active. The heavy analysis queries run in the service layer, next to the
// normal read they degrade.
func (s *ChaosService) ShouldExecuteSlowQuery(ctx context.Context) bool {
	return s.flags.GetBool(ctx, flagSlowQuery, false)
}

// InjectMemoryLeak allocates and retains one block per call, accumulating
// until Cleanup is called
func (s *ChaosService) InjectMemoryLeak(ctx context.Context, operation string) {
	if !s.flags.GetBool(ctx, flagMemoryLeak, false) {
		return
	}

	s.mu.Lock()
	s.memoryChunks = append(s.memoryChunks, make([]byte, memoryChunkSize))
	size := len(s.memoryChunks)
	s.mu.Unlock()

	log.Warn().Str("operation", operation).Int("leaked_mb", size).Msg("Memory leak injection enabled")
}

// InjectHighCPU spins a tight numeric loop for a random 1-3s window. The
// accumulated value is logged so the loop cannot be optimized away.
func (s *ChaosService) InjectHighCPU(ctx context.Context, operation string) {
	if !s.flags.GetBool(ctx, flagHighCPU, false) {
		return
	}

	log.Warn().Str("operation", operation).Msg("High CPU injection enabled")

	burnMs := cpuBurnMinMs + rand.Intn(cpuBurnMaxMs-cpuBurnMinMs)
	deadline := time.Now().Add(time.Duration(burnMs) * time.Millisecond)

	var result float64
	for time.Now().Before(deadline) {
		result += math.Sqrt(rand.Float64())
	}

	log.Warn().
		Str("operation", operation).
		Int("burn_ms", burnMs).
		Float64("cpu_calculation_result", result).
		Msg("High CPU injection finished")
}

// InjectChaos runs the full injection sequence for one operation:
// latency, slow-query notice, memory pressure, CPU burn, store failure,
// forced failure. The first fault that raises an error short-circuits the
// remaining ones.
func (s *ChaosService) InjectChaos(ctx context.Context, operation string) error {
	if err := s.InjectLatency(ctx, operation); err != nil {
		return err
	}

	if s.ShouldExecuteSlowQuery(ctx) {
		// Heavy queries are issued by the ledger operation itself
		log.Warn().Str("operation", operation).Msg("Slow query injection enabled")
	}

	s.InjectMemoryLeak(ctx, operation)
	s.InjectHighCPU(ctx, operation)

	if err := s.InjectDatabaseFailure(ctx, operation); err != nil {
		return err
	}
	return s.InjectFailure(ctx, operation)
}

// Status returns the current resolved value of every flag plus the
// cumulative memory-pressure allocation. Pure read, no side effects.
func (s *ChaosService) Status(ctx context.Context) *models.ChaosStatus {
	return &models.ChaosStatus{
		ServiceFailureEnabled:  s.flags.GetBool(ctx, flagServiceFailure, false),
		LatencyInjectionMs:     s.flags.GetInt(ctx, flagServiceLatency, 0),
		DatabaseFailureEnabled: s.flags.GetBool(ctx, flagDatabaseFailure, false),
		SlowQueryEnabled:       s.flags.GetBool(ctx, flagSlowQuery, false),
		MemoryLeakEnabled:      s.flags.GetBool(ctx, flagMemoryLeak, false),
		HighCPUEnabled:         s.flags.GetBool(ctx, flagHighCPU, false),
		MemoryLeakSizeMB:       s.MemoryLeakSizeMB(),
	}
}

// MemoryLeakSizeMB returns the retained memory-pressure allocation in MiB
func (s *ChaosService) MemoryLeakSizeMB() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.memoryChunks)
}

// Cleanup releases all retained memory-pressure allocations and returns
// the number of MiB freed. Idempotent.
func (s *ChaosService) Cleanup() int {
	s.mu.Lock()
	released := len(s.memoryChunks)
	s.memoryChunks = nil
	s.mu.Unlock()

	log.Info().Int("released_mb", released).Msg("Memory leak cleanup completed")
	return released
}
