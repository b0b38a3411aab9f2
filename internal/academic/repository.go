package academic

import (
	"context"
	"time"

	"CampusManager/internal/profile"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AcademicRepository handles DB operations for subjects and attendance. It
// also touches the teachers collection to keep the teacher's subject list in
// step with assignments.
type AcademicRepository struct {
	client     *mongo.Client
	subjects   *mongo.Collection
	attendance *mongo.Collection
	teachers   *mongo.Collection
	students   *mongo.Collection
}

func NewAcademicRepository(client *mongo.Client, db *mongo.Database) *AcademicRepository {
	return &AcademicRepository{
		client:     client,
		subjects:   db.Collection("subjects"),
		attendance: db.Collection("attendance"),
		teachers:   db.Collection("teachers"),
		students:   db.Collection("students"),
	}
}

func (r *AcademicRepository) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
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

// Subject operations

func (r *AcademicRepository) InsertSubject(ctx context.Context, subject *Subject) error {
	now := time.Now()
	subject.CreatedAt = now
	subject.UpdatedAt = now
	_, err := r.subjects.InsertOne(ctx, subject)
	return err
}

func (r *AcademicRepository) FindSubjectByID(ctx context.Context, id primitive.ObjectID) (*Subject, error) {
	var subject Subject
	err := r.subjects.FindOne(ctx, bson.M{"_id": id}).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &subject, nil
}

func (r *AcademicRepository) FindSubjectByCode(ctx context.Context, code string) (*Subject, error) {
	var subject Subject
	err := r.subjects.FindOne(ctx, bson.M{"code": code}).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &subject, nil
}

// ListSubjects filters on any combination of department and semester.
func (r *AcademicRepository) ListSubjects(ctx context.Context, department string, semester int) ([]*Subject, error) {
	filter := bson.M{}
	if department != "" {
		filter["department"] = department
	}
	if semester > 0 {
		filter["semester"] = semester
	}

	cursor, err := r.subjects.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var subjects []*Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *AcademicRepository) ListSubjectsByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]*Subject, error) {
	cursor, err := r.subjects.Find(ctx, bson.M{"teacher": teacherID}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var subjects []*Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// ListSubjectsByStudent returns the subjects whose enrollment set contains
// the student.
func (r *AcademicRepository) ListSubjectsByStudent(ctx context.Context, studentID primitive.ObjectID) ([]*Subject, error) {
	cursor, err := r.subjects.Find(ctx, bson.M{"enrolledStudents": studentID}, options.Find().SetSort(bson.D{{Key: "code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var subjects []*Subject
	if err := cursor.All(ctx, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (r *AcademicRepository) UpdateSubjectFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updatedAt"] = time.Now()
	res, err := r.subjects.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ReassignTeacher moves the subject between the teachers' subject lists and
// sets the new reference in one transaction. Either side may be the zero ID.
func (r *AcademicRepository) ReassignTeacher(ctx context.Context, subjectID, from, to primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if !from.IsZero() {
			if _, err := r.teachers.UpdateByID(sc, from, bson.M{"$pull": bson.M{"subjects": subjectID}}); err != nil {
				return err
			}
		}
		if !to.IsZero() {
			if _, err := r.teachers.UpdateByID(sc, to, bson.M{"$addToSet": bson.M{"subjects": subjectID}}); err != nil {
				return err
			}
		}
		update := bson.M{"$set": bson.M{"teacher": to, "updatedAt": time.Now()}}
		if to.IsZero() {
			update = bson.M{
				"$unset": bson.M{"teacher": ""},
				"$set":   bson.M{"updatedAt": time.Now()},
			}
		}
		_, err := r.subjects.UpdateByID(sc, subjectID, update)
		return err
	})
}

// DeleteSubjectCascade removes the subject, its attendance history and the
// reference on the assigned teacher in one transaction.
func (r *AcademicRepository) DeleteSubjectCascade(ctx context.Context, subject *Subject) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.subjects.DeleteOne(sc, bson.M{"_id": subject.ID}); err != nil {
			return err
		}
		if _, err := r.attendance.DeleteMany(sc, bson.M{"subject": subject.ID}); err != nil {
			return err
		}
		if !subject.TeacherID.IsZero() {
			if _, err := r.teachers.UpdateByID(sc, subject.TeacherID, bson.M{"$pull": bson.M{"subjects": subject.ID}}); err != nil {
				return err
			}
		}
		return nil
	})
}

// EnrollStudent adds the student to the subject's enrollment set. Returns
// false when the student was already enrolled.
func (r *AcademicRepository) EnrollStudent(ctx context.Context, subjectID, studentID primitive.ObjectID) (bool, error) {
	res, err := r.subjects.UpdateByID(ctx, subjectID, bson.M{
		"$addToSet": bson.M{"enrolledStudents": studentID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// RemoveStudent pulls the student from the subject's enrollment set. Returns
// false when the student was not enrolled.
func (r *AcademicRepository) RemoveStudent(ctx context.Context, subjectID, studentID primitive.ObjectID) (bool, error) {
	res, err := r.subjects.UpdateByID(ctx, subjectID, bson.M{
		"$pull": bson.M{"enrolledStudents": studentID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// FindStudentsByIDs loads the student profiles for an enrollment set.
func (r *AcademicRepository) FindStudentsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*profile.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.students.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetSort(bson.D{{Key: "rollNumber", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var students []*profile.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Attendance operations

// UpsertAttendanceBatch writes one class session's markings in a single
// transaction, keyed on (student, subject, date). Resubmitting a session
// overwrites the earlier markings.
func (r *AcademicRepository) UpsertAttendanceBatch(ctx context.Context, records []*Attendance) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()
		for _, record := range records {
			filter := bson.M{
				"student": record.StudentID,
				"subject": record.SubjectID,
				"date":    record.Date,
			}
			update := bson.M{
				"$set": bson.M{
					"status":         record.Status,
					"remarks":        record.Remarks,
					"teacher":        record.TeacherID,
					"lastModifiedBy": record.LastModifiedBy,
					"updatedAt":      now,
				},
				"$setOnInsert": bson.M{"createdAt": now},
			}
			if _, err := r.attendance.UpdateOne(sc, filter, update, options.Update().SetUpsert(true)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AcademicRepository) FindAttendanceByID(ctx context.Context, id primitive.ObjectID) (*Attendance, error) {
	var record Attendance
	err := r.attendance.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *AcademicRepository) UpdateAttendanceFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*Attendance, error) {
	fields["updatedAt"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var record Attendance
	err := r.attendance.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListAttendance filters records by subject and/or student over an optional
// date range, newest first.
func (r *AcademicRepository) ListAttendance(ctx context.Context, subjectID, studentID primitive.ObjectID, from, to time.Time) ([]*Attendance, error) {
	filter := bson.M{}
	if !subjectID.IsZero() {
		filter["subject"] = subjectID
	}
	if !studentID.IsZero() {
		filter["student"] = studentID
	}
	if dateFilter := dateRangeFilter(from, to); len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	cursor, err := r.attendance.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var records []*Attendance
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CountByStatus groups a student's records by status, optionally scoped to
// one subject.
func (r *AcademicRepository) CountByStatus(ctx context.Context, studentID, subjectID primitive.ObjectID) (map[AttendanceStatus]int64, error) {
	match := bson.M{"student": studentID}
	if !subjectID.IsZero() {
		match["subject"] = subjectID
	}

	cursor, err := r.attendance.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}

	var results []struct {
		Status AttendanceStatus `bson:"_id"`
		Count  int64            `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	counts := make(map[AttendanceStatus]int64, len(results))
	for _, res := range results {
		counts[res.Status] = res.Count
	}
	return counts, nil
}

// CountByStudentAndStatus groups a subject's records per student per status
// over an optional date range.
func (r *AcademicRepository) CountByStudentAndStatus(ctx context.Context, subjectID primitive.ObjectID, from, to time.Time) (map[primitive.ObjectID]map[AttendanceStatus]int64, error) {
	match := bson.M{"subject": subjectID}
	if dateFilter := dateRangeFilter(from, to); len(dateFilter) > 0 {
		match["date"] = dateFilter
	}

	cursor, err := r.attendance.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"student": "$student", "status": "$status"},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, err
	}

	var results []struct {
		Key struct {
			Student primitive.ObjectID `bson:"student"`
			Status  AttendanceStatus   `bson:"status"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	totals := make(map[primitive.ObjectID]map[AttendanceStatus]int64)
	for _, res := range results {
		if totals[res.Key.Student] == nil {
			totals[res.Key.Student] = make(map[AttendanceStatus]int64)
		}
		totals[res.Key.Student][res.Key.Status] = res.Count
	}
	return totals, nil
}

func dateRangeFilter(from, to time.Time) bson.M {
	filter := bson.M{}
	if !from.IsZero() {
		filter["$gte"] = from
	}
	if !to.IsZero() {
		filter["$lte"] = to
	}
	return filter
}
