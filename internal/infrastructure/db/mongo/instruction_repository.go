package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

const instructionsCollection = "instructions"

type InstructionRepository struct {
	col *mongo.Collection
}

func NewInstructionRepository(db *mongo.Database) *InstructionRepository {
	return &InstructionRepository{col: db.Collection(instructionsCollection)}
}

func (r *InstructionRepository) Create(ctx context.Context, in *domain.Instruction) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	in.ID = newID()
	if _, err := r.col.InsertOne(ctx, in); err != nil {
		in.ID = ""
		return errors.Wrap(err, "insert instruction")
	}
	return nil
}

func (r *InstructionRepository) FindByID(ctx context.Context, id string) (*domain.Instruction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var in domain.Instruction
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&in); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInstructionNotFound
		}
		return nil, errors.Wrap(err, "find instruction")
	}
	return &in, nil
}

// List applies the ownership filter in the query itself.
func (r *InstructionRepository) List(ctx context.Context, f ports.InstructionFilter) ([]*domain.Instruction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, instructionFilter(f), options.Find().SetSort(bson.D{{Key: "due_date", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find instructions")
	}
	out := []*domain.Instruction{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode instructions")
	}
	return out, nil
}

func (r *InstructionRepository) Update(ctx context.Context, id string, p ports.InstructionPatch, updatedAt time.Time) (*domain.Instruction, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var in domain.Instruction
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, instructionUpdate(p, updatedAt),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&in)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInstructionNotFound
		}
		return nil, errors.Wrap(err, "update instruction")
	}
	return &in, nil
}

func (r *InstructionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete instruction")
	}
	if res.DeletedCount == 0 {
		return domain.ErrInstructionNotFound
	}
	return nil
}

func (r *InstructionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "attorney", Value: 1}}},
		{Keys: bson.D{{Key: "sheriff", Value: 1}}},
		{Keys: bson.D{{Key: "document", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return errors.Wrap(err, "instruction indexes")
}

func instructionFilter(f ports.InstructionFilter) bson.M {
	filter := bson.M{}
	if f.Attorney != "" {
		filter["attorney"] = f.Attorney
	}
	if f.Sheriff != "" {
		filter["sheriff"] = f.Sheriff
	}
	return filter
}

func instructionUpdate(p ports.InstructionPatch, updatedAt time.Time) bson.M {
	set := bson.M{"updated_at": updatedAt.UTC()}
	update := bson.M{"$set": set}

	if p.Sheriff != nil {
		if *p.Sheriff == "" {
			update["$unset"] = bson.M{"sheriff": ""}
		} else {
			set["sheriff"] = *p.Sheriff
		}
	}
	if p.Document != nil {
		set["document"] = *p.Document
	}
	if p.Instructions != nil {
		set["instructions"] = *p.Instructions
	}
	if p.DueDate != nil {
		set["due_date"] = p.DueDate.UTC()
	}
	if p.Priority != nil {
		set["priority"] = string(*p.Priority)
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}
	if p.AdditionalFiles != nil {
		set["additional_files"] = *p.AdditionalFiles
	}
	return update
}
