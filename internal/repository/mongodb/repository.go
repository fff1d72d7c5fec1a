package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/liancar/yard/internal/domain/models"
)

// Repository defines the interface for daily close storage.
type Repository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
	ListDailyReports(ctx context.Context, period models.Period) ([]models.DailyReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// dailyReportDocument is the stored shape of a DailyReport. Amounts are kept as
// Decimal128 so totals round-trip without float drift.
type dailyReportDocument struct {
	Date              time.Time            `bson:"date"`
	ServicesScheduled int                  `bson:"services_scheduled"`
	ServicesDone      int                  `bson:"services_done"`
	Revenue           primitive.Decimal128 `bson:"revenue"`
	Pending           primitive.Decimal128 `bson:"pending"`
	Expenses          primitive.Decimal128 `bson:"expenses"`
	Profit            primitive.Decimal128 `bson:"profit"`
	CreatedAt         time.Time            `bson:"created_at"`
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "daily_reports",
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveDailyReport upserts the close for report.Date, so re-running a day replaces it.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	doc, err := toDocument(report)
	if err != nil {
		return err
	}

	filter := bson.M{"date": doc.Date}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection().ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("failed to save daily report: %w", err)
	}
	return nil
}

// ListDailyReports returns the stored closes inside period, oldest first.
func (r *MongoDBRepository) ListDailyReports(ctx context.Context, period models.Period) ([]models.DailyReport, error) {
	dateFilter := bson.M{}
	if !period.From.IsZero() {
		dateFilter["$gte"] = reportKey(period.From)
	}
	if !period.To.IsZero() {
		dateFilter["$lte"] = reportKey(period.To)
	}
	filter := bson.M{}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	cursor, err := r.collection().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query daily reports: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []dailyReportDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode daily reports: %w", err)
	}

	reports := make([]models.DailyReport, 0, len(docs))
	for _, doc := range docs {
		report, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// reportKey normalizes a report date to UTC midnight of its calendar day.
func reportKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toDocument(report models.DailyReport) (dailyReportDocument, error) {
	amounts := make([]primitive.Decimal128, 4)
	for i, value := range []decimal.Decimal{report.Revenue, report.Pending, report.Expenses, report.Profit} {
		d, err := primitive.ParseDecimal128(value.StringFixed(2))
		if err != nil {
			return dailyReportDocument{}, fmt.Errorf("convert amount %s: %w", value, err)
		}
		amounts[i] = d
	}

	return dailyReportDocument{
		Date:              reportKey(report.Date),
		ServicesScheduled: report.ServicesScheduled,
		ServicesDone:      report.ServicesDone,
		Revenue:           amounts[0],
		Pending:           amounts[1],
		Expenses:          amounts[2],
		Profit:            amounts[3],
		CreatedAt:         report.CreatedAt.UTC(),
	}, nil
}

func fromDocument(doc dailyReportDocument) (models.DailyReport, error) {
	amounts := make([]decimal.Decimal, 4)
	for i, value := range []primitive.Decimal128{doc.Revenue, doc.Pending, doc.Expenses, doc.Profit} {
		d, err := decimal.NewFromString(value.String())
		if err != nil {
			return models.DailyReport{}, fmt.Errorf("parse stored amount %s: %w", value, err)
		}
		amounts[i] = d
	}

	return models.DailyReport{
		Date:              doc.Date,
		ServicesScheduled: doc.ServicesScheduled,
		ServicesDone:      doc.ServicesDone,
		Revenue:           amounts[0],
		Pending:           amounts[1],
		Expenses:          amounts[2],
		Profit:            amounts[3],
		CreatedAt:         doc.CreatedAt,
	}, nil
}
