package interfaces

import "github.com/goliatone/go-makesite/pkg/storage"

// StorageProvider keeps the sink contract reachable from the interfaces
// package. Implementations should satisfy pkg/storage.Provider directly.
type StorageProvider = storage.Provider
