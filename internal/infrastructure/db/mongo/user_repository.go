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

const usersCollection = "users"

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID           string `bson:"_id"`
	Username     string `bson:"username"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	Name         string `bson:"name,omitempty"`
	Email        string `bson:"email,omitempty"`
	PhoneNumber  string `bson:"phone_number,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID,
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Role:         domain.Role(mu.Role),
		Name:         mu.Name,
		Email:        mu.Email,
		PhoneNumber:  mu.PhoneNumber,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc := mongoUser{
		ID:           newID(),
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		Name:         user.Name,
		Email:        user.Email,
		PhoneNumber:  user.PhoneNumber,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		switch {
		case isDuplicateOn(err, "username"):
			return nil, domain.ErrUsernameTaken
		case isDuplicateOn(err, "email"):
			return nil, domain.ErrEmailTaken
		}
		return nil, errors.Wrap(err, "insert user")
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find user")
	}
	return mu.toDomain(), nil
}

// FindByIDs returns the users found among ids, keyed by id. Missing ids are
// simply absent from the map.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	users, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	var rows []mongoUser
	if err := cur.All(ctx, &rows); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

// UpdateProfile sets the non-nil profile fields and returns the updated user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p ports.ProfileUpdate) (*domain.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.PhoneNumber != nil {
		set["phone_number"] = *p.PhoneNumber
	}

	var mu mongoUser
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mu)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, domain.ErrUserNotFound
		case isDuplicateOn(err, "email"):
			return nil, domain.ErrEmailTaken
		}
		return nil, errors.Wrap(err, "update user")
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique username index and a sparse unique email
// index (email is optional at registration).
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return errors.Wrap(err, "user indexes")
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
