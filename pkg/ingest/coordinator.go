package ingest

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rptrscope/rptrscope/internal/utils"
	"github.com/rptrscope/rptrscope/pkg/repeater"
	"github.com/rptrscope/rptrscope/pkg/storage"
)

// ErrRunInProgress is returned when an ingestion run is already in flight,
// in this process or in another one sharing the export file.
var ErrRunInProgress = errors.New("ingestion run already in progress")

// RunResult describes the terminal state of one run.
type RunResult struct {
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Count      int       `json:"count"`
	Stats      Stats     `json:"stats"`
	Error      string    `json:"error,omitempty"`
}

// Status is a snapshot of the coordinator state.
type Status struct {
	InProgress bool       `json:"in_progress"`
	Last       *RunResult `json:"last,omitempty"`
}

// Coordinator runs ingestion passes one at a time and owns the export file.
type Coordinator struct {
	source     Source
	exportPath string
	lock       *utils.RunLock
	log        Logger

	running atomic.Bool
	wg      sync.WaitGroup

	mu   sync.Mutex
	last *RunResult
}

// NewCoordinator returns a coordinator writing source's records to exportPath.
func NewCoordinator(source Source, exportPath string, log Logger) (*Coordinator, error) {
	if log == nil {
		log = nopLogger{}
	}
	exportPath, err := utils.GetAbsExportPath(exportPath)
	if err != nil {
		return nil, err
	}
	lock, err := utils.NewRunLock(exportPath)
	if err != nil {
		return nil, err
	}
	return &Coordinator{
		source:     source,
		exportPath: exportPath,
		lock:       lock,
		log:        log,
	}, nil
}

// RunIngestion performs one full run and returns the number of exported
// records. A run with zero records succeeds and leaves the export untouched.
func (c *Coordinator) RunIngestion(ctx context.Context) (int, error) {
	if err := c.acquire(); err != nil {
		return 0, err
	}
	defer c.release()
	return c.run(ctx)
}

// StartIngestion begins a run in the background. It fails immediately with
// ErrRunInProgress if a run is already in flight.
func (c *Coordinator) StartIngestion(ctx context.Context) error {
	if err := c.acquire(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.release()
		if _, err := c.run(ctx); err != nil {
			c.log.Errorf("Background ingestion failed: %v", err)
		}
	}()
	return nil
}

// Wait blocks until background runs started by StartIngestion have finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) acquire() error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	if err := c.lock.TryLock(); err != nil {
		c.running.Store(false)
		if errors.Is(err, utils.ErrLocked) {
			c.log.Warnf("Run lock %s is held by another process", c.lock.Path())
			return ErrRunInProgress
		}
		return err
	}
	return nil
}

func (c *Coordinator) release() {
	if err := c.lock.Unlock(); err != nil {
		c.log.Warnf("Failed to release run lock: %v", err)
	}
	c.running.Store(false)
}

func (c *Coordinator) run(ctx context.Context) (int, error) {
	result := &RunResult{Source: c.source.Name(), StartedAt: time.Now().UTC()}
	defer func() {
		result.FinishedAt = time.Now().UTC()
		c.mu.Lock()
		c.last = result
		c.mu.Unlock()
	}()

	records, stats, err := c.source.Fetch(ctx)
	result.Stats = stats
	if err != nil {
		result.Error = err.Error()
		c.log.Errorf("Ingestion from %s failed: %v", result.Source, err)
		return 0, err
	}

	if err := storage.Export(records, c.exportPath, c.log); err != nil {
		result.Error = err.Error()
		return 0, err
	}
	result.Count = len(records)
	c.log.Infof("Final dataset: %d repeaters", result.Count)
	return result.Count, nil
}

// Status reports whether a run is in flight and the outcome of the last one.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Status{InProgress: c.running.Load()}
	if c.last != nil {
		last := *c.last
		s.Last = &last
	}
	return s
}

// LoadExport reads the current export file.
func (c *Coordinator) LoadExport() ([]repeater.Record, storage.SchemaVersion, time.Time, error) {
	exp, err := storage.Read(c.exportPath)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return exp.Records, exp.SchemaVersion, exp.LastModified, nil
}

// ExportFilePath returns the export path if the file exists.
func (c *Coordinator) ExportFilePath() (string, bool) {
	info, err := os.Stat(c.exportPath)
	if err != nil || info.IsDir() {
		return "", false
	}
	return c.exportPath, true
}

