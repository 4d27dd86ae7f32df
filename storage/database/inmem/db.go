package inmemdb

import (
	"sync"

	"github.com/rominswe/pg-progress-sub002/core/milestone"
)

type (
	// DB is a process-local stand-in for the postgres schema, used by tests and the "inmem" engine.
	DB struct {
		template *templateTable
		override *overrideTable
		document *documentTable
		people   *peopleTable
	}

	templateTable struct {
		sync.RWMutex
		table map[string]*milestone.Template
	}

	overrideTable struct {
		sync.RWMutex
		table map[overrideKey]*milestone.Override
	}

	overrideKey struct {
		studentID  string
		templateID string
	}

	documentTable struct {
		sync.RWMutex
		table []milestone.DocumentRecord
	}

	peopleTable struct {
		sync.RWMutex
		names map[string]string
	}
)

func Open() *DB {
	return &DB{
		template: &templateTable{table: make(map[string]*milestone.Template)},
		override: &overrideTable{table: make(map[overrideKey]*milestone.Override)},
		document: &documentTable{},
		people:   &peopleTable{names: make(map[string]string)},
	}
}

// AddDocuments appends records to the document ledger.
func (db *DB) AddDocuments(docs ...milestone.DocumentRecord) {
	db.document.Lock()
	defer db.document.Unlock()
	db.document.table = append(db.document.table, docs...)
}

// AddPerson registers a display name for a student or staff identifier.
func (db *DB) AddPerson(id, name string) {
	db.people.Lock()
	defer db.people.Unlock()
	db.people.names[id] = name
}

func (db *DB) personName(id string) string {
	db.people.RLock()
	defer db.people.RUnlock()
	return db.people.names[id]
}
