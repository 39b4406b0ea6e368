package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ornik8/incident-sync/internal/core/ports"
)

const (
	collectionIncidents = "accidents"
	collectionAccounts  = "profiles"
)

type incidentDoc struct {
	ID                  string    `bson:"_id"`
	SequenceNumber      string    `bson:"ornik_number"`
	Status              string    `bson:"status"`
	State               string    `bson:"state"`
	Locality            string    `bson:"locality"`
	LocationDescription string    `bson:"location_description"`
	Latitude            float64   `bson:"latitude"`
	Longitude           float64   `bson:"longitude"`
	Data                bson.M    `bson:"data_json"`
	UpdatedAt           time.Time `bson:"updated_at"`
}

type accountDoc struct {
	ID        string    `bson:"_id"`
	FullName  string    `bson:"full_name"`
	Username  string    `bson:"username"`
	Role      string    `bson:"role"`
	State     string    `bson:"state"`
	Locality  string    `bson:"locality"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mirror is the MongoDB implementation of ports.RemoteStore.
type Mirror struct {
	client    *mongo.Client
	incidents *mongo.Collection
	accounts  *mongo.Collection
}

func NewMirror(client *mongo.Client, db *mongo.Database) *Mirror {
	return &Mirror{
		client:    client,
		incidents: db.Collection(collectionIncidents),
		accounts:  db.Collection(collectionAccounts),
	}
}

// UpsertIncident replaces the document with the same id unless the stored
// copy is newer. A stale write matches no document, the upsert then collides
// on _id and is ignored.
func (m *Mirror) UpsertIncident(ctx context.Context, row ports.IncidentRow) error {
	var data bson.M
	if len(row.Data) > 0 {
		if err := bson.UnmarshalExtJSON(row.Data, false, &data); err != nil {
			return fmt.Errorf("decode incident payload: %w", err)
		}
	}
	doc := incidentDoc{
		ID:                  row.ID,
		SequenceNumber:      row.SequenceNumber,
		Status:              row.Status,
		State:               row.State,
		Locality:            row.Locality,
		LocationDescription: row.LocationDescription,
		Latitude:            row.Latitude,
		Longitude:           row.Longitude,
		Data:                data,
		UpdatedAt:           row.UpdatedAt.UTC(),
	}
	return m.replaceNewer(ctx, m.incidents, row.ID, doc.UpdatedAt, doc)
}

func (m *Mirror) UpsertAccount(ctx context.Context, row ports.AccountRow) error {
	doc := accountDoc{
		ID:        row.ID,
		FullName:  row.FullName,
		Username:  row.Username,
		Role:      row.Role,
		State:     row.State,
		Locality:  row.Locality,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	return m.replaceNewer(ctx, m.accounts, row.ID, doc.UpdatedAt, doc)
}

func (m *Mirror) DeleteAccount(ctx context.Context, id string) error {
	if _, err := m.accounts.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

// Probe checks that the incident collection answers a bounded count.
func (m *Mirror) Probe(ctx context.Context) error {
	_, err := m.incidents.CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("probe %s: %w", collectionIncidents, err)
	}
	return nil
}

func (m *Mirror) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mirror) replaceNewer(ctx context.Context, col *mongo.Collection, id string, updatedAt time.Time, doc any) error {
	filter := bson.M{"_id": id, "updated_at": bson.M{"$lte": updatedAt}}
	_, err := col.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("upsert %s %s: %w", col.Name(), id, err)
	}
	return nil
}
