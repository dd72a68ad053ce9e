// Package mocks provides in-memory and function-field test doubles shared by
// the service and API tests.
//
// MemoryDB backs the store interfaces with maps and supports snapshot and
// restore, so UnitOfWork can reproduce commit and rollback behaviour without a
// database:
//
//	db := mocks.NewMemoryDB()
//	admin := db.SeedUser(domain.User{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin})
//	uow := mocks.NewUnitOfWork(db)
//	svc := service.NewTaskService(uow, nil, nil)
package mocks
