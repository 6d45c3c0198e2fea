// Package store provides the persistence backends for the record
// collections: appointments, leads, callbacks, and calls. Three
// implementations share the same typed accessors so the rest of the
// system only ever sees the domain Repository interfaces: a JSON file
// store for single-node deployments, an in-memory store for tests and
// the local console, and a Postgres store for shared deployments.
package store

import (
	"github.com/fleetline/driver-desk/internal/appointments"
	"github.com/fleetline/driver-desk/internal/callbacks"
	"github.com/fleetline/driver-desk/internal/calls"
	"github.com/fleetline/driver-desk/internal/leads"
)

// Store is what the application wires against: one accessor per record
// collection.
type Store interface {
	Appointments() appointments.Repository
	Leads() leads.Repository
	Callbacks() callbacks.Repository
	Calls() calls.Repository
}
