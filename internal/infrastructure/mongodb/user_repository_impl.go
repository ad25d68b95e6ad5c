package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/internal/domain/repository"
)

const usersCollection = "users"

var withoutPassword = bson.D{{Key: "password", Value: 0}}

type UserRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

// NewUserRepository builds the repository on db. A nil db yields a repository
// whose every call fails with repository.ErrUnavailable.
func NewUserRepository(db *Database, timeout time.Duration) *UserRepository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UserRepository{coll: db.collection(usersCollection), timeout: timeout, now: time.Now}
}

func (r *UserRepository) op(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if r.coll == nil {
		return nil, nil, repository.ErrUnavailable
	}
	c, cancel := context.WithTimeout(ctx, r.timeout)
	return c, cancel, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	ctx, cancel, err := r.op(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	now := r.now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	res, err := r.coll.InsertOne(ctx, fromEntity(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	u.ID = oid.Hex()
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	ctx, cancel, err := r.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	opts := options.Find().
		SetProjection(withoutPassword).
		SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]entity.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toEntity())
	}
	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}
	ctx, cancel, err := r.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, options.FindOne().SetProjection(withoutPassword))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel, err := r.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, options.FindOne())
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D, opts *options.FindOneOptions) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, translate("find user", err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.D{{Key: "$set", Value: patchSet(patch, r.now().UTC())}})
}

func (r *UserRepository) ToggleBusiness(ctx context.Context, id string) (*entity.User, error) {
	return r.findOneAndUpdate(ctx, id, toggleBusinessPipeline(r.now().UTC()))
}

func (r *UserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) (*entity.User, error) {
	return r.findOneAndUpdate(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "isAdmin", Value: isAdmin},
		{Key: "updatedAt", Value: r.now().UTC()},
	}}})
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, id string, update interface{}) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}
	ctx, cancel, err := r.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)
	var doc userDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc); err != nil {
		return nil, translate("update user", err)
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrUserNotFound
	}
	ctx, cancel, err := r.op(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	opts := options.FindOneAndDelete().SetProjection(withoutPassword)
	var doc userDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}, opts).Decode(&doc); err != nil {
		return nil, translate("delete user", err)
	}
	return doc.toEntity(), nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrUserNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrEmailTaken
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
