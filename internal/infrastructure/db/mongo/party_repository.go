package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wilsy/service-tracker/internal/core/domain"
)

const (
	clientsCollection  = "clients"
	deputiesCollection = "deputies"
)

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(clientsCollection)}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c.ID = newID()
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		c.ID = ""
		if isDuplicateOn(err, "email") {
			return domain.ErrEmailTaken
		}
		return errors.Wrap(err, "insert client")
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var c domain.Client
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, errors.Wrap(err, "find client")
	}
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find clients")
	}
	out := []*domain.Client{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode clients")
	}
	return out, nil
}

func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return errors.Wrap(err, "client indexes")
}

// DeputyRepository stores deputies. It also implements ports.AssignmentIndex;
// assigned_cases is written nowhere else.
type DeputyRepository struct {
	col *mongo.Collection
}

func NewDeputyRepository(db *mongo.Database) *DeputyRepository {
	return &DeputyRepository{col: db.Collection(deputiesCollection)}
}

func (r *DeputyRepository) Create(ctx context.Context, d *domain.Deputy) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	d.ID = newID()
	if d.AssignedCases == nil {
		d.AssignedCases = []string{}
	}
	if _, err := r.col.InsertOne(ctx, d); err != nil {
		d.ID = ""
		if isDuplicateOn(err, "email") {
			return domain.ErrEmailTaken
		}
		return errors.Wrap(err, "insert deputy")
	}
	return nil
}

func (r *DeputyRepository) FindByID(ctx context.Context, id string) (*domain.Deputy, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var d domain.Deputy
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDeputyNotFound
		}
		return nil, errors.Wrap(err, "find deputy")
	}
	return &d, nil
}

func (r *DeputyRepository) List(ctx context.Context) ([]*domain.Deputy, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "office", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find deputies")
	}
	out := []*domain.Deputy{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode deputies")
	}
	return out, nil
}

// RemoveCase pulls documentID from the deputy's assigned_cases. A missing
// deputy is not an error.
func (r *DeputyRepository) RemoveCase(ctx context.Context, deputyID, documentID string) error {
	return r.updateCases(ctx, deputyID, bson.M{"$pull": bson.M{"assigned_cases": documentID}})
}

// AddCase adds documentID to the deputy's assigned_cases at most once.
func (r *DeputyRepository) AddCase(ctx context.Context, deputyID, documentID string) error {
	return r.updateCases(ctx, deputyID, bson.M{"$addToSet": bson.M{"assigned_cases": documentID}})
}

func (r *DeputyRepository) ReplaceCases(ctx context.Context, deputyID string, documentIDs []string) error {
	if documentIDs == nil {
		documentIDs = []string{}
	}
	return r.updateCases(ctx, deputyID, bson.M{"$set": bson.M{"assigned_cases": documentIDs}})
}

func (r *DeputyRepository) updateCases(ctx context.Context, deputyID string, update bson.M) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.col.UpdateOne(ctx, bson.M{"_id": deputyID}, update)
	return errors.Wrap(err, "update assigned cases")
}

func (r *DeputyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	return errors.Wrap(err, "deputy indexes")
}
