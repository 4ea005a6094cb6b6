package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"forkful/apperr"
	"forkful/database"
	"forkful/models"
)

type ReportService struct {
	DB  *database.Mongo
	Log *logrus.Logger
}

// DateRange is always a closed, fully-populated interval: normalization
// happens before any query so the grouping stages never see an open bound.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange normalizes optional start/end strings (RFC 3339 or
// 2006-01-02). A missing start means the epoch; a missing end means now.
func ParseDateRange(start, end string) (DateRange, error) {
	dr := DateRange{Start: time.Unix(0, 0).UTC(), End: time.Now().UTC()}

	if start != "" {
		t, err := parseDate(start)
		if err != nil {
			return DateRange{}, apperr.Validation("startDate must be RFC 3339 or YYYY-MM-DD")
		}
		dr.Start = t
	}
	if end != "" {
		t, err := parseDate(end)
		if err != nil {
			return DateRange{}, apperr.Validation("endDate must be RFC 3339 or YYYY-MM-DD")
		}
		// A bare date as the end bound is inclusive of that whole day.
		if len(end) == len("2006-01-02") {
			t = t.Add(24*time.Hour - time.Second)
		}
		dr.End = t
	}
	if dr.Start.After(dr.End) {
		return DateRange{}, apperr.Validation("startDate must not be after endDate")
	}
	return dr, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// BucketFormat maps groupBy to the $dateToString format producing one stable
// key per bucket. Weeks use ISO year-week so buckets never straddle years.
func BucketFormat(groupBy string) (string, error) {
	switch groupBy {
	case "", "day":
		return "%Y-%m-%d", nil
	case "week":
		return "%G-W%V", nil
	case "month":
		return "%Y-%m", nil
	default:
		return "", apperr.Validation("groupBy must be one of: day, week, month")
	}
}

// TZString renders a minute offset as the ±HH:MM timezone $dateToString
// expects. Zero means UTC.
func TZString(offsetMinutes int) string {
	sign := "+"
	if offsetMinutes < 0 {
		sign = "-"
		offsetMinutes = -offsetMinutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, offsetMinutes/60, offsetMinutes%60)
}

// Percent computes count/total*100 rounded to two decimals; zero total yields
// zero rather than NaN.
func Percent(count, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}

// bucketStage groups documents holding a Unix-seconds field into period
// buckets, yielding {_id: bucket, ...accumulators}.
func bucketExpr(field, format, tz string) bson.D {
	return bson.D{{Key: "$dateToString", Value: bson.D{
		{Key: "format", Value: format},
		{Key: "date", Value: bson.D{{Key: "$toDate", Value: bson.D{
			{Key: "$multiply", Value: bson.A{"$" + field, 1000}},
		}}}},
		{Key: "timezone", Value: tz},
	}}}
}

func rangeMatch(field string, dr DateRange) bson.M {
	return bson.M{field: bson.M{"$gte": dr.Start.Unix(), "$lte": dr.End.Unix()}}
}

type GrowthPoint struct {
	Bucket     string `bson:"_id" json:"bucket"`
	Count      int64  `bson:"count" json:"count"`
	Cumulative int64  `bson:"-" json:"cumulative"`
}

// UserGrowth counts new registrations per bucket and accumulates a running
// total across the returned series.
func (s *ReportService) UserGrowth(ctx context.Context, dr DateRange, groupBy string, tzOffset int) ([]GrowthPoint, error) {
	format, err := BucketFormat(groupBy)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: rangeMatch("createdAt", dr)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bucketExpr("createdAt", format, TZString(tzOffset))},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.DB.Users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	points := []GrowthPoint{}
	if err := cursor.All(ctx, &points); err != nil {
		return nil, err
	}

	var running int64
	for i := range points {
		running += points[i].Count
		points[i].Cumulative = running
	}
	return points, nil
}

type DistributionEntry struct {
	Value   string  `json:"value"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type Demographics struct {
	TotalUsers int64               `json:"totalUsers"`
	Gender     []DistributionEntry `json:"gender"`
	Goals      []DistributionEntry `json:"goals"`
	Activity   []DistributionEntry `json:"activity"`
	Allergies  []DistributionEntry `json:"allergies"`
}

// Demographics breaks active users down by gender, goal, activity level, and
// allergy prevalence. Each distribution uses its own denominator: allergy
// percentages are relative to users with at least one allergy recorded.
func (s *ReportService) Demographics(ctx context.Context, dr DateRange) (*Demographics, error) {
	match := rangeMatch("createdAt", dr)

	total, err := s.DB.Users.CountDocuments(ctx, match)
	if err != nil {
		return nil, err
	}

	out := &Demographics{TotalUsers: total}

	out.Gender, err = s.distribution(ctx, match, "$gender", false, total)
	if err != nil {
		return nil, err
	}
	out.Activity, err = s.distribution(ctx, match, "$activityLevel", false, total)
	if err != nil {
		return nil, err
	}
	out.Goals, err = s.distribution(ctx, match, "$goals", true, total)
	if err != nil {
		return nil, err
	}

	allergyMatch := bson.M{}
	for k, v := range match {
		allergyMatch[k] = v
	}
	allergyMatch["allergies.0"] = bson.M{"$exists": true}
	allergyTotal, err := s.DB.Users.CountDocuments(ctx, allergyMatch)
	if err != nil {
		return nil, err
	}
	out.Allergies, err = s.distribution(ctx, allergyMatch, "$allergies", true, allergyTotal)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// distribution groups users by a scalar or array field and attaches
// percentages against the supplied denominator.
func (s *ReportService) distribution(ctx context.Context, match bson.M, field string, unwind bool, total int64) ([]DistributionEntry, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	if unwind {
		pipeline = append(pipeline, bson.D{{Key: "$unwind", Value: field}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$match", Value: bson.M{field[1:]: bson.M{"$nin": bson.A{nil, ""}}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	)

	cursor, err := s.DB.Users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	entries := make([]DistributionEntry, len(rows))
	for i, r := range rows {
		entries[i] = DistributionEntry{Value: r.Value, Count: r.Count, Percent: Percent(r.Count, total)}
	}
	return entries, nil
}

type FoodRanking struct {
	FoodName  string  `bson:"_id" json:"foodName"`
	Reviews   int64   `bson:"reviews" json:"reviews"`
	AvgRating float64 `bson:"avgRating" json:"avgRating"`
}

type HashtagRanking struct {
	Hashtag string `bson:"_id" json:"hashtag"`
	Posts   int64  `bson:"posts" json:"posts"`
}

type FoodPopularity struct {
	Foods    []FoodRanking    `json:"foods"`
	Hashtags []HashtagRanking `json:"hashtags"`
}

const popularityTopN = 20

// FoodPopularity ranks reviewed foods by review count (average rating as the
// secondary signal) and hashtags by usage.
func (s *ReportService) FoodPopularity(ctx context.Context, dr DateRange) (*FoodPopularity, error) {
	match := rangeMatch("createdAt", dr)

	foodPipeline := mongo.Pipeline{
		{{Key: "$match", Value: MergeFilters(bson.M{"type": models.PostTypeFoodReview}, match)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$foodReview.foodName"},
			{Key: "reviews", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "avgRating", Value: bson.D{{Key: "$avg", Value: "$foodReview.rating"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "reviews", Value: -1}, {Key: "avgRating", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: popularityTopN}},
	}

	cursor, err := s.DB.Posts.Aggregate(ctx, foodPipeline)
	if err != nil {
		return nil, err
	}
	foods := []FoodRanking{}
	if err := cursor.All(ctx, &foods); err != nil {
		cursor.Close(ctx)
		return nil, err
	}
	cursor.Close(ctx)

	tagPipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$hashtags"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$hashtags"},
			{Key: "posts", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "posts", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: popularityTopN}},
	}

	cursor, err = s.DB.Posts.Aggregate(ctx, tagPipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tags := []HashtagRanking{}
	if err := cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return &FoodPopularity{Foods: foods, Hashtags: tags}, nil
}

type EngagementPoint struct {
	Bucket   string `bson:"_id" json:"bucket"`
	Posts    int64  `bson:"posts" json:"posts"`
	Likes    int64  `bson:"likes" json:"likes"`
	Comments int64  `bson:"comments" json:"comments"`
}

// Engagement rolls up post creation and counter totals per bucket.
func (s *ReportService) Engagement(ctx context.Context, dr DateRange, groupBy string, tzOffset int) ([]EngagementPoint, error) {
	format, err := BucketFormat(groupBy)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: rangeMatch("createdAt", dr)}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bucketExpr("createdAt", format, TZString(tzOffset))},
			{Key: "posts", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "likes", Value: bson.D{{Key: "$sum", Value: "$engagement.likes"}}},
			{Key: "comments", Value: bson.D{{Key: "$sum", Value: "$engagement.comments"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.DB.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	points := []EngagementPoint{}
	if err := cursor.All(ctx, &points); err != nil {
		return nil, err
	}
	return points, nil
}

type NutritionPoint struct {
	Bucket   string  `bson:"_id" json:"bucket"`
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein" json:"protein"`
	Carbs    float64 `bson:"carbs" json:"carbs"`
	Fat      float64 `bson:"fat" json:"fat"`
	Meals    int64   `bson:"meals" json:"meals"`
}

type NutritionReport struct {
	Series  []NutritionPoint `json:"series"`
	ByMeal  []NutritionPoint `json:"byMeal"`
	GroupBy string           `json:"groupBy"`
}

// Nutrition aggregates one user's meal log per time bucket and per meal type.
func (s *ReportService) Nutrition(ctx context.Context, userID primitive.ObjectID, dr DateRange, groupBy string, tzOffset int) (*NutritionReport, error) {
	format, err := BucketFormat(groupBy)
	if err != nil {
		return nil, err
	}

	match := MergeFilters(bson.M{"userId": userID}, rangeMatch("ateAt", dr))

	sums := bson.D{
		{Key: "calories", Value: bson.D{{Key: "$sum", Value: "$calories"}}},
		{Key: "protein", Value: bson.D{{Key: "$sum", Value: "$protein"}}},
		{Key: "carbs", Value: bson.D{{Key: "$sum", Value: "$carbs"}}},
		{Key: "fat", Value: bson.D{{Key: "$sum", Value: "$fat"}}},
		{Key: "meals", Value: bson.D{{Key: "$sum", Value: 1}}},
	}

	series, err := s.nutritionGroup(ctx, match, append(bson.D{
		{Key: "_id", Value: bucketExpr("ateAt", format, TZString(tzOffset))},
	}, sums...))
	if err != nil {
		return nil, err
	}

	byMeal, err := s.nutritionGroup(ctx, match, append(bson.D{
		{Key: "_id", Value: "$mealType"},
	}, sums...))
	if err != nil {
		return nil, err
	}

	if groupBy == "" {
		groupBy = "day"
	}
	return &NutritionReport{Series: series, ByMeal: byMeal, GroupBy: groupBy}, nil
}

func (s *ReportService) nutritionGroup(ctx context.Context, match bson.M, group bson.D) ([]NutritionPoint, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: group}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := s.DB.Meals.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	points := []NutritionPoint{}
	if err := cursor.All(ctx, &points); err != nil {
		return nil, err
	}
	return points, nil
}
