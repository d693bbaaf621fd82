package db

import "fmt"

// ProviderType selects a DatabaseProvider implementation
type ProviderType string

const (
	// MemoryProviderType keeps state in process memory
	MemoryProviderType ProviderType = "memory"

	// BoltProviderType uses a single bbolt file
	BoltProviderType ProviderType = "bolt"

	// LevelDBProviderType uses a LevelDB directory
	LevelDBProviderType ProviderType = "leveldb"

	// RedisProviderType uses a Redis server
	RedisProviderType ProviderType = "redis"

	// PostgresProviderType uses a PostgreSQL key/value table
	PostgresProviderType ProviderType = "postgres"
)

// NewProvider creates a database provider of the given type. target is the
// file path (bolt), directory (leveldb), server address (redis) or DSN
// (postgres); it is ignored for memory.
func NewProvider(providerType ProviderType, target string) (DatabaseProvider, error) {
	switch providerType {
	case MemoryProviderType:
		return NewMemoryProvider(), nil
	case BoltProviderType:
		return NewBoltProvider(target)
	case LevelDBProviderType:
		return NewLevelDBProvider(target)
	case RedisProviderType:
		return NewRedisProvider(target, 0)
	case PostgresProviderType:
		return NewPostgresProvider(target)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
