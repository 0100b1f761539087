package reconcile

import (
	"time"

	"inventory-sync/core/feed"
)

// State is a phase of a sync run.
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateParsing    State = "parsing"
	StateProcessing State = "processing"
	StatePruning    State = "pruning"
	StateLogged     State = "logged"
	StateFailed     State = "failed"
)

// Run statuses written to the sync log.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Outcome tells which branch an upsert took.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Record is the canonical, format independent form of one feed row.
type Record struct {
	// Identity is the stable deduplication key (VIN or STOCK-<stock number>).
	Identity string `json:"identity"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// Attributes maps canonical attribute names (price, year, vin, ...) to feed values.
	Attributes map[string]string `json:"attributes"`

	// Classifications maps taxonomy keys (make, model, body_type, ...) to feed labels.
	Classifications map[string]string `json:"classifications"`

	// ImageRefs lists image URLs in feed order. The first one is the cover.
	ImageRefs []string `json:"image_refs"`
}

// StoredRecord is an active inventory record as seen by the pruner.
type StoredRecord struct {
	ID         uint
	Attributes map[string]string
}

// Spec configures one sync run.
type Spec struct {
	// FeedURL is handed to the Source as is.
	FeedURL string
	// Format is the declared feed format.
	Format feed.Format
	// DownloadImages enables the image import step.
	DownloadImages bool
	// CheckpointEvery is the created+updated cadence of store checkpoints. Zero means 50.
	CheckpointEvery int
	// PruneBatchSize is the page size of the active inventory scan. Zero means 200.
	PruneBatchSize int
}

const (
	defaultCheckpointEvery = 50
	defaultPruneBatchSize  = 200
	maxRecordErrors        = 100
)

func (s Spec) checkpointEvery() int {
	if s.CheckpointEvery <= 0 {
		return defaultCheckpointEvery
	}
	return s.CheckpointEvery
}

func (s Spec) pruneBatchSize() int {
	if s.PruneBatchSize <= 0 {
		return defaultPruneBatchSize
	}
	return s.PruneBatchSize
}

// Summary is the result of one sync run.
type Summary struct {
	RunID  string `json:"run_id"`
	Feed   string `json:"feed"`
	State  State  `json:"state"`
	Status string `json:"status"`

	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
	Pruned   int `json:"pruned"`

	ImagesAttached int `json:"images_attached"`
	ImageErrors    int `json:"image_errors"`

	// RecordErrors keeps the first per-record error messages.
	RecordErrors []string `json:"record_errors,omitempty"`

	// Transitions lists every state the run entered, in order.
	Transitions []State `json:"transitions"`

	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration"`
	Message    string        `json:"message"`
}

// LogEntry is one row of the sync history.
type LogEntry struct {
	Feed      string        `json:"feed" yaml:"feed"`
	Timestamp time.Time     `json:"timestamp" yaml:"timestamp"`
	Status    string        `json:"status" yaml:"status"`
	Imported  int           `json:"imported" yaml:"imported"`
	Updated   int           `json:"updated" yaml:"updated"`
	Errors    int           `json:"errors" yaml:"errors"`
	Skipped   int           `json:"skipped" yaml:"skipped"`
	Pruned    int           `json:"pruned" yaml:"pruned"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Message   string        `json:"message" yaml:"message"`
}

// ActiveSet holds the identities seen in the current feed.
type ActiveSet map[string]struct{}

func (s ActiveSet) Add(identity string) {
	s[identity] = struct{}{}
}

func (s ActiveSet) Has(identity string) bool {
	_, ok := s[identity]
	return ok
}
