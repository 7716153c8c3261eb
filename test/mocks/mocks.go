// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/item_repository.go -destination=item_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/borrow_repository.go -destination=borrow_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/item_service.go -destination=item_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/borrow_service.go -destination=borrow_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/feed.go -destination=feed_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/storage.go -destination=storage_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/tip_service.go -destination=tip_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/identity.go -destination=identity_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_repository_mock.go -package=mocks
