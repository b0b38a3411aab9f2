package notice

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NoticeRepository handles DB operations for notices.
type NoticeRepository struct {
	collection *mongo.Collection
}

func NewNoticeRepository(db *mongo.Database) *NoticeRepository {
	return &NoticeRepository{collection: db.Collection("notices")}
}

func (r *NoticeRepository) Insert(ctx context.Context, notice *Notice) error {
	now := time.Now()
	notice.CreatedAt = now
	notice.UpdatedAt = now
	_, err := r.collection.InsertOne(ctx, notice)
	return err
}

func (r *NoticeRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Notice, error) {
	var notice Notice
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&notice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &notice, nil
}

// List returns every notice for the admin view, newest first.
func (r *NoticeRepository) List(ctx context.Context) ([]*Notice, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var notices []*Notice
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

// ListVisible returns the active, unexpired notices a member of the given
// audience and department may see, highest priority first then newest.
// Priority is ranked in the pipeline since the values do not sort lexically.
func (r *NoticeRepository) ListVisible(ctx context.Context, audience Audience, department string, now time.Time) ([]*Notice, error) {
	audiences := bson.A{
		bson.M{"targetAudience": AudienceAll},
		bson.M{"targetAudience": audience},
	}
	if department != "" {
		audiences = append(audiences, bson.M{
			"targetAudience": AudienceDepartment,
			"department":     department,
		})
	}

	match := bson.M{
		"isActive": true,
		"$and": bson.A{
			bson.M{"$or": bson.A{
				bson.M{"expiryDate": bson.M{"$exists": false}},
				bson.M{"expiryDate": nil},
				bson.M{"expiryDate": bson.M{"$gt": now}},
			}},
			bson.M{"$or": audiences},
		},
	}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{
			"priorityRank": bson.M{"$switch": bson.M{
				"branches": bson.A{
					bson.M{"case": bson.M{"$eq": bson.A{"$priority", PriorityHigh}}, "then": 3},
					bson.M{"case": bson.M{"$eq": bson.A{"$priority", PriorityMedium}}, "then": 2},
				},
				"default": 1,
			}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "priorityRank", Value: -1},
			{Key: "createdAt", Value: -1},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var notices []*Notice
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *NoticeRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Notice, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var notice Notice
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&notice)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &notice, nil
}

func (r *NoticeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkViewed appends the user to viewedBy unless already present.
func (r *NoticeRepository) MarkViewed(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "viewedBy.user": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"viewedBy": View{UserID: userID, ViewedAt: time.Now()}}},
	)
	return err
}

// DeactivateExpired flips isActive off for notices whose expiry has passed.
func (r *NoticeRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"isActive": true, "expiryDate": bson.M{"$ne": nil, "$lte": now}},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
