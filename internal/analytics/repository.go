package analytics

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// AnalyticsRepository runs the aggregation pipelines behind the admin
// reports. It reads across collections and owns none of them.
type AnalyticsRepository struct {
	students   *mongo.Collection
	teachers   *mongo.Collection
	notices    *mongo.Collection
	attendance *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{
		students:   db.Collection("students"),
		teachers:   db.Collection("teachers"),
		notices:    db.Collection("notices"),
		attendance: db.Collection("attendance"),
	}
}

func (r *AnalyticsRepository) CountStudents(ctx context.Context) (int64, error) {
	return r.students.CountDocuments(ctx, bson.M{})
}

func (r *AnalyticsRepository) CountTeachers(ctx context.Context) (int64, error) {
	return r.teachers.CountDocuments(ctx, bson.M{})
}

func (r *AnalyticsRepository) CountActiveNotices(ctx context.Context, now time.Time) (int64, error) {
	return r.notices.CountDocuments(ctx, bson.M{
		"isActive": true,
		"$or": bson.A{
			bson.M{"expiryDate": bson.M{"$exists": false}},
			bson.M{"expiryDate": nil},
			bson.M{"expiryDate": bson.M{"$gt": now}},
		},
	})
}

// StudentsByDepartment groups student counts per department, largest first.
func (r *AnalyticsRepository) StudentsByDepartment(ctx context.Context) ([]DepartmentCount, error) {
	cursor, err := r.students.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$department", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}
	var counts []DepartmentCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// StudentIDsByDepartment resolves a department to its student profile ids,
// used to scope attendance reports.
func (r *AnalyticsRepository) StudentIDsByDepartment(ctx context.Context, department string) ([]primitive.ObjectID, error) {
	cursor, err := r.students.Find(ctx, bson.M{"department": department})
	if err != nil {
		return nil, err
	}
	var students []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

type statusCount struct {
	Status string `bson:"_id"`
	Count  int64  `bson:"count"`
}

// AttendanceByStatus groups records by status over the range, optionally
// restricted to the given student ids.
func (r *AnalyticsRepository) AttendanceByStatus(ctx context.Context, from, to time.Time, studentIDs []primitive.ObjectID) (StatusBreakdown, error) {
	cursor, err := r.attendance.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: attendanceMatch(from, to, studentIDs)}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return StatusBreakdown{}, err
	}
	var results []statusCount
	if err := cursor.All(ctx, &results); err != nil {
		return StatusBreakdown{}, err
	}

	var breakdown StatusBreakdown
	for _, res := range results {
		breakdown.add(res.Status, res.Count)
	}
	return breakdown, nil
}

// AttendanceByDay buckets records per day and status over the range using
// day-granular $dateToString keys, oldest day first.
func (r *AnalyticsRepository) AttendanceByDay(ctx context.Context, from, to time.Time, studentIDs []primitive.ObjectID) ([]DailyBreakdown, error) {
	cursor, err := r.attendance.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: attendanceMatch(from, to, studentIDs)}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"day":    bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$date"}},
				"status": "$status",
			},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.day", Value: 1}}}},
	})
	if err != nil {
		return nil, err
	}

	var results []struct {
		Key struct {
			Day    string `bson:"day"`
			Status string `bson:"status"`
		} `bson:"_id"`
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	var daily []DailyBreakdown
	index := make(map[string]int)
	for _, res := range results {
		i, ok := index[res.Key.Day]
		if !ok {
			daily = append(daily, DailyBreakdown{Date: res.Key.Day})
			i = len(daily) - 1
			index[res.Key.Day] = i
		}
		daily[i].add(res.Key.Status, res.Count)
	}
	return daily, nil
}

func attendanceMatch(from, to time.Time, studentIDs []primitive.ObjectID) bson.M {
	match := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	if studentIDs != nil {
		match["student"] = bson.M{"$in": studentIDs}
	}
	return match
}

func (b *StatusBreakdown) add(status string, count int64) {
	switch status {
	case "PRESENT":
		b.Present += count
	case "ABSENT":
		b.Absent += count
	case "LATE":
		b.Late += count
	}
	b.Total += count
}
