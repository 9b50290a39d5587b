// Package database holds the optional MongoDB connection used when the
// warning ledger runs on the mongo backend.
package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PancyStudios/ModBotGo/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ErrNotConnected is returned by operations that need a live client
var ErrNotConnected = errors.New("not connected to database")

const connectTimeout = 5 * time.Second

// Database manages the MongoDB connection
type Database struct {
	client      *mongo.Client
	db          *mongo.Database
	collections map[string]*mongo.Collection
	mu          sync.RWMutex
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init connects the global database instance
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance, nil when Init was never called
func Get() *Database {
	return database
}

// NewDatabase creates an unconnected Database
func NewDatabase() *Database {
	return &Database{collections: make(map[string]*mongo.Collection)}
}

// Connect dials MongoDB and verifies the connection with a ping. Writes use
// majority write concern with journaling so an acknowledged append is durable.
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		return nil
	}
	if mongoURL == "" {
		return errors.New("MONGODB_URL is empty")
	}

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	journal := true
	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(connectTimeout).
		SetWriteConcern(&writeconcern.WriteConcern{W: "majority", Journal: &journal})

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical("Fallo al conectar con la base de datos.", "DB")
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical("Fallo al verificar conexión con la base de datos.", "DB")
		_ = client.Disconnect(context.Background())
		return err
	}

	d.client = client
	d.db = client.Database(dbName)

	logger.Success("Conectado exitosamente a la base de datos.", "DB")
	return nil
}

// Disconnect closes the connection
func (d *Database) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.client = nil
	d.db = nil
	d.collections = make(map[string]*mongo.Collection)
	logger.Warn("La base de datos ha sido desconectada", "DB")
	return nil
}

// IsConnected reports whether Connect succeeded and Disconnect was not called
func (d *Database) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.client != nil
}

// Ping measures the database response time
func (d *Database) Ping(ctx context.Context) (time.Duration, error) {
	d.mu.RLock()
	client := d.client
	d.mu.RUnlock()

	if client == nil {
		return 0, ErrNotConnected
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	err := client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns a human readable connection status
func (d *Database) GetStatus() (string, bool) {
	if _, err := d.Ping(context.Background()); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// GetCollection returns a collection handle, nil when not connected
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}
