package repositories

// RepositoryProvider holds what the service container needs from a storage backend.
type RepositoryProvider struct {
	TxManager TransactionManager
}
