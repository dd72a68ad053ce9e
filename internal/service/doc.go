// Package service contains the application use cases. It orchestrates domain
// objects and the store interfaces (internal/store) to fulfil the task
// lifecycle, analytics and account features.
//
// Key components:
//
//   - TaskService runs every task operation inside one store.UnitOfWork: it
//     loads, authorizes, validates, persists, audits and enriches, then emits a
//     task event once the work has committed.
//   - AnalyticsService builds the admin dashboard snapshot from a read-only unit
//     of work and caches it until the next task event.
//   - UserService registers, authenticates and provisions users.
//
// Errors returned from this package belong to the domain taxonomy
// (domain.ErrValidation, ErrNotFound, ErrForbidden, ErrUnauthenticated,
// ErrConflict) so the API layer can map them without inspecting store errors.
// Unexpected failures are wrapped in *ServiceError.
package service
