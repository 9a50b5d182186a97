// Package memory provides in-memory repository implementations backed by a
// shared Store. They honor the same sentinel errors and id-assignment
// contract as the postgres implementations and are used by service tests and
// local development.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/plantaohub/oncall-api/internal/model"
)

// Store is the shared backing state for all memory repositories. A single
// mutex guards every table; contention is irrelevant at test scale.
type Store struct {
	mu sync.Mutex

	counters map[string]int64

	hospitals        map[int64]*model.Hospital
	users            map[int64]*model.User
	clinicians       map[int64]*model.Clinician
	shifts           map[int64]*model.Shift
	acceptances      map[int64]*model.Acceptance
	managerHistory   map[int64]*model.ManagerHistory
	clinicianHistory map[int64]*model.ClinicianHistory
	auditEvents      map[uuid.UUID]*model.AuditEvent
	outboxEvents     map[uuid.UUID]*model.OutboxEvent
}

func NewStore() *Store {
	return &Store{
		counters:         make(map[string]int64),
		hospitals:        make(map[int64]*model.Hospital),
		users:            make(map[int64]*model.User),
		clinicians:       make(map[int64]*model.Clinician),
		shifts:           make(map[int64]*model.Shift),
		acceptances:      make(map[int64]*model.Acceptance),
		managerHistory:   make(map[int64]*model.ManagerHistory),
		clinicianHistory: make(map[int64]*model.ClinicianHistory),
		auditEvents:      make(map[uuid.UUID]*model.AuditEvent),
		outboxEvents:     make(map[uuid.UUID]*model.OutboxEvent),
	}
}

// nextID increments the named counter under the store lock. Counters only
// move forward, so ids are never reused even after deletes.
func (s *Store) nextID(entity string) int64 {
	s.counters[entity]++
	return s.counters[entity]
}
