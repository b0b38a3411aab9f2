package profile

import (
	"context"
	"time"

	"CampusManager/internal/auth"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProfileRepository handles DB operations for role profiles. It also holds a
// handle on the users collection for the cascading writes that must touch
// both documents.
type ProfileRepository struct {
	client   *mongo.Client
	students *mongo.Collection
	teachers *mongo.Collection
	admins   *mongo.Collection
	users    *mongo.Collection
}

func NewProfileRepository(client *mongo.Client, db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		client:   client,
		students: db.Collection("students"),
		teachers: db.Collection("teachers"),
		admins:   db.Collection("admins"),
		users:    db.Collection("users"),
	}
}

// WithTransaction runs fn inside one multi-document transaction; on any
// error every write in the unit is rolled back.
func (r *ProfileRepository) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Student operations

func (r *ProfileRepository) FindStudentByID(ctx context.Context, id primitive.ObjectID) (*Student, error) {
	var student Student
	err := r.students.FindOne(ctx, bson.M{"_id": id}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *ProfileRepository) FindStudentByUser(ctx context.Context, userID primitive.ObjectID) (*Student, error) {
	var student Student
	err := r.students.FindOne(ctx, bson.M{"user": userID}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

func (r *ProfileRepository) FindStudentByRollNumber(ctx context.Context, rollNumber string) (*Student, error) {
	var student Student
	err := r.students.FindOne(ctx, bson.M{"rollNumber": rollNumber}).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// ListStudents filters on any combination of department, semester and year.
func (r *ProfileRepository) ListStudents(ctx context.Context, department string, semester, year int) ([]*Student, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = department
	}
	if semester > 0 {
		filter["semester"] = semester
	}
	if year > 0 {
		filter["year"] = year
	}

	cursor, err := r.students.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "studentId", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var students []*Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *ProfileRepository) UpdateStudentFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.students.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ProfileRepository) UpdateStudentFieldsByUser(ctx context.Context, userID primitive.ObjectID, fields bson.M) (*Student, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var student Student
	err := r.students.FindOneAndUpdate(ctx, bson.M{"user": userID}, bson.M{"$set": fields}, opts).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// DeleteStudentCascade removes the profile and its backing user account in
// one transaction.
func (r *ProfileRepository) DeleteStudentCascade(ctx context.Context, student *Student) error {
	return r.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.students.DeleteOne(sc, bson.M{"_id": student.ID}); err != nil {
			return err
		}
		_, err := r.users.DeleteOne(sc, bson.M{"_id": student.UserID})
		return err
	})
}

// Teacher operations

func (r *ProfileRepository) FindTeacherByID(ctx context.Context, id primitive.ObjectID) (*Teacher, error) {
	var teacher Teacher
	err := r.teachers.FindOne(ctx, bson.M{"_id": id}).Decode(&teacher)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &teacher, nil
}

func (r *ProfileRepository) FindTeacherByUser(ctx context.Context, userID primitive.ObjectID) (*Teacher, error) {
	var teacher Teacher
	err := r.teachers.FindOne(ctx, bson.M{"user": userID}).Decode(&teacher)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &teacher, nil
}

func (r *ProfileRepository) ListTeachers(ctx context.Context, department string) ([]*Teacher, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = department
	}

	cursor, err := r.teachers.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "teacherId", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var teachers []*Teacher
	if err := cursor.All(ctx, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

func (r *ProfileRepository) UpdateTeacherFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.teachers.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ProfileRepository) UpdateTeacherFieldsByUser(ctx context.Context, userID primitive.ObjectID, fields bson.M) (*Teacher, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var teacher Teacher
	err := r.teachers.FindOneAndUpdate(ctx, bson.M{"user": userID}, bson.M{"$set": fields}, opts).Decode(&teacher)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &teacher, nil
}

// DeleteTeacherCascade removes the profile and its backing user account in
// one transaction.
func (r *ProfileRepository) DeleteTeacherCascade(ctx context.Context, teacher *Teacher) error {
	return r.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.teachers.DeleteOne(sc, bson.M{"_id": teacher.ID}); err != nil {
			return err
		}
		_, err := r.users.DeleteOne(sc, bson.M{"_id": teacher.UserID})
		return err
	})
}

// Admin operations

func (r *ProfileRepository) FindAdminByUser(ctx context.Context, userID primitive.ObjectID) (*Admin, error) {
	var admin Admin
	err := r.admins.FindOne(ctx, bson.M{"user": userID}).Decode(&admin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// Insert helpers used inside transactions

func (r *ProfileRepository) InsertUserTx(sc mongo.SessionContext, user *auth.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := r.users.InsertOne(sc, user)
	return err
}

func (r *ProfileRepository) InsertStudentTx(sc mongo.SessionContext, student *Student) error {
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now
	_, err := r.students.InsertOne(sc, student)
	return err
}

func (r *ProfileRepository) InsertTeacherTx(sc mongo.SessionContext, teacher *Teacher) error {
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	_, err := r.teachers.InsertOne(sc, teacher)
	return err
}
