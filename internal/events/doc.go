// Package events carries task lifecycle notifications from the service layer to
// interested components without coupling them to each other.
//
// The task service emits a TaskEvent after each committed create, update or
// delete. Handlers such as the analytics cache invalidator register with an
// EventEmitter and react to those events.
package events
