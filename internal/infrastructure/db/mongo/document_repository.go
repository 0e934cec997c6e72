package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wilsy/service-tracker/internal/core/domain"
	"github.com/wilsy/service-tracker/internal/core/ports"
)

const documentsCollection = "documents"

// DocumentRepository implements ports.DocumentRepository using MongoDB.
type DocumentRepository struct {
	col *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{col: db.Collection(documentsCollection)}
}

// Create inserts a new document. The unique document_id index decides races
// between concurrent creates.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc.ID = newID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		doc.ID = ""
		if isDuplicateOn(err, "document_id") {
			return domain.ErrDuplicateDocumentID
		}
		return errors.Wrap(err, "insert document")
	}
	return nil
}

func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*domain.Document, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var d domain.Document
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, errors.Wrap(err, "find document")
	}
	return &d, nil
}

func (r *DocumentRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	out := make(map[string]*domain.Document, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	docs, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID] = d
	}
	return out, nil
}

// List returns every document, newest registration first.
func (r *DocumentRepository) List(ctx context.Context) ([]*domain.Document, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "date_registered", Value: -1}}))
}

func (r *DocumentRepository) ListAssignedTo(ctx context.Context, deputyID string) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"assigned_deputy": deputyID}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "find assigned documents")
	}
	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode assigned documents")
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *DocumentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Document, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find documents")
	}
	docs := []*domain.Document{}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode documents")
	}
	return docs, nil
}

// Update applies patch in a single atomic write: scalar fields through $set and
// new attempts through $push, so existing attempts are never rewritten.
func (r *DocumentRepository) Update(ctx context.Context, id string, patch ports.DocumentPatch) (*domain.Document, error) {
	update := documentUpdate(patch)
	if len(update) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.findOneAndUpdate(ctx, id, update, "update document")
}

// AppendFile pushes an attachment key onto additional_documents.
func (r *DocumentRepository) AppendFile(ctx context.Context, id, key string) (*domain.Document, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$push": bson.M{"additional_documents": key}}, "append file")
}

func (r *DocumentRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M, op string) (*domain.Document, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var d domain.Document
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, errors.Wrap(err, op)
	}
	return &d, nil
}

// Delete removes the document and returns it as it was.
func (r *DocumentRepository) Delete(ctx context.Context, id string) (*domain.Document, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var d domain.Document
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, errors.Wrap(err, "delete document")
	}
	return &d, nil
}

// EnsureIndexes creates necessary indexes on the documents collection.
func (r *DocumentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "document_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "assigned_deputy", Value: 1}}},
		{Keys: bson.D{{Key: "client", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return errors.Wrap(err, "document indexes")
}

// documentUpdate translates a patch into a MongoDB update document.
func documentUpdate(p ports.DocumentPatch) bson.M {
	set := bson.M{}
	unset := bson.M{}

	if p.CaseNumber != nil {
		set["case_number"] = *p.CaseNumber
	}
	if p.Client != nil {
		set["client"] = *p.Client
	}
	if p.Plaintiff != nil {
		set["plaintiff"] = *p.Plaintiff
	}
	if p.Defendant != nil {
		set["defendant"] = *p.Defendant
	}
	if p.AddressToServe != nil {
		set["address_to_serve"] = *p.AddressToServe
	}
	if p.DocumentType != nil {
		set["document_type"] = string(*p.DocumentType)
	}
	if p.ServiceStatus != nil {
		set["service_status"] = string(*p.ServiceStatus)
	}
	if p.AssignedDeputy != nil {
		if *p.AssignedDeputy == "" {
			unset["assigned_deputy"] = ""
		} else {
			set["assigned_deputy"] = *p.AssignedDeputy
		}
	}
	if p.Location != nil {
		set["location"] = string(*p.Location)
	}
	if p.ServiceDetails != nil {
		set["service_details"] = *p.ServiceDetails
	}
	if p.FeesAndExpenses != nil {
		set["fees_and_expenses"] = *p.FeesAndExpenses
	}
	if p.Notes != nil {
		set["notes"] = *p.Notes
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	if len(p.Attempts) > 0 {
		update["$push"] = bson.M{"attempts": bson.M{"$each": p.Attempts}}
	}
	return update
}
