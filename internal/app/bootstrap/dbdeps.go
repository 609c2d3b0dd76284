// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/store/submissions"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/events"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler and Shutdown. Optional backends are nil when not configured.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// FileStorage for image uploads
	FileStorage storage.Store

	// Mailer for staff notifications
	Mailer *mailer.Mailer

	// Publisher receives domain events; NoopPublisher when NATS is off.
	Publisher events.Publisher
	NATS      *events.NATSPublisher

	// Submissions tracks the last contact submission per client. Redis is
	// set only when the redis backend is selected.
	Submissions submissions.Tracker
	Redis       *submissions.RedisTracker
}
