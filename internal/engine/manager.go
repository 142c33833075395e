// Package engine wraps the focal-plane model and the batch operations
// behind a managed lifecycle, so a planning run initialises once and
// then issues per-tile feasibility queries.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zerodha/logf"

	"github.com/bxrne/focalplan/internal/config"
	"github.com/bxrne/focalplan/pkg/collision"
	"github.com/bxrne/focalplan/pkg/focalplane"
	"github.com/bxrne/focalplan/pkg/geom"
	"github.com/bxrne/focalplan/pkg/projection"
)

// ManagerStatus represents the status of the engine manager.
type ManagerStatus string

const (
	StatusIdle         ManagerStatus = "idle"
	StatusInitializing ManagerStatus = "initializing"
	StatusReady        ManagerStatus = "ready"
	StatusFailed       ManagerStatus = "failed"
	StatusClosed       ManagerStatus = "closed"
)

// ErrNotReady indicates a query arrived before a focal plane was loaded.
var ErrNotReady = errors.New("engine: focal plane not initialized")

// Manager handles the engine lifecycle for one planning run.
type Manager struct {
	cfg    *config.Config
	log    logf.Logger
	mu     sync.Mutex
	status ManagerStatus
	fp     *focalplane.FocalPlane
}

// NewManager creates a new engine manager.
func NewManager(cfg *config.Config, log logf.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		log:    log,
		status: StatusIdle,
	}
}

// Initialize builds the focal-plane model from a mechanical snapshot
// record supplied by the external loader.
func (m *Manager) Initialize(rec focalplane.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = StatusInitializing

	fp, err := focalplane.New(rec)
	if err != nil {
		m.status = StatusFailed
		return fmt.Errorf("failed to build focal plane: %w", err)
	}
	m.fp = fp
	m.status = StatusReady

	m.log.Info("Focal plane initialized",
		"timestamp", fp.Timestamp(),
		"locations", len(fp.Locs()),
	)
	return nil
}

// FocalPlane returns the loaded model, or nil before Initialize.
func (m *Manager) FocalPlane() *focalplane.FocalPlane {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fp
}

// Status returns the current manager status.
func (m *Manager) Status() ManagerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// ProjectTile maps target RA/Dec arrays onto the focal plane of a tile.
func (m *Manager) ProjectTile(tile projection.Tile, ra, dec []float64) ([]geom.Point, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	xys, err := projection.RadecToXYBatch(tile, ra, dec, m.cfg.Engine.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to project targets: %w", err)
	}
	m.log.Debug("Projected targets", "tile_ra", tile.RA, "tile_dec", tile.Dec, "count", len(xys))
	return xys, nil
}

// CheckXY runs the batch pairwise collision test over focal-plane
// targets.
func (m *Manager) CheckXY(locs []int32, xys []geom.Point) ([]bool, error) {
	if err := m.ensureReady(); err != nil {
		return nil, err
	}
	return collision.CheckXY(m.fp, locs, xys, m.cfg.Engine.Workers)
}

// CheckTile projects a tile's targets and runs the batch pairwise
// collision test on the result: one feasibility pass of the higher-level
// planner's loop.
func (m *Manager) CheckTile(tile projection.Tile, locs []int32, ra, dec []float64) ([]bool, error) {
	xys, err := m.ProjectTile(tile, ra, dec)
	if err != nil {
		return nil, err
	}
	result, err := m.CheckXY(locs, xys)
	if err != nil {
		return nil, err
	}

	conflicts := 0
	for _, r := range result {
		if r {
			conflicts++
		}
	}
	m.log.Info("Tile checked",
		"tile_ra", tile.RA,
		"tile_dec", tile.Dec,
		"targets", len(locs),
		"conflicts", conflicts,
	)
	return result, nil
}

// Close releases the focal plane. Further queries fail with ErrNotReady.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fp = nil
	m.status = StatusClosed
}

func (m *Manager) ensureReady() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fp == nil {
		return ErrNotReady
	}
	return nil
}
