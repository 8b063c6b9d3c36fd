//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Transport is an externally owned channel to one marketplace chat room.
// The core only checks readiness and pushes payloads through it; opening and
// closing the underlying connection belongs to the routing surface.
type Transport interface {
	Ready() bool
	Send(payload []byte) error
}

// Signal is a lifecycle event of the hosting surface.
type Signal int

const (
	SignalVisible Signal = iota
	SignalHidden
	SignalTeardown
)

type IPresenceRegistry interface {
	MarkActive(roomID string)
	MarkInactive(roomID string)
	IsActive(roomID string) bool
}
