package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/ledger"
)

// Repository defines the interface for report storage.
type Repository interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "daily_reports",
	}, nil
}

// SaveDailyReport upserts the report for its calendar day, so a rerun of the
// scheduled job replaces the earlier snapshot.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	doc := NewReportDocument(report)
	collection := r.client.Database(r.dbName).Collection(r.collName)

	_, err := collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// ReportDocument is the archived shape of a daily report. Amounts are kept as
// decimal strings so no precision is lost in BSON doubles.
type ReportDocument struct {
	ID             string            `bson:"_id"`
	Date           time.Time         `bson:"date"`
	Currencies     []CurrencyDoc     `bson:"currencies"`
	InventoryValue map[string]string `bson:"inventory_value"`
	Orders         OrdersDoc         `bson:"orders"`
	LowStock       []string          `bson:"low_stock"`
	CreatedAt      time.Time         `bson:"created_at"`
}

// CurrencyDoc is one profitability bucket.
type CurrencyDoc struct {
	Currency         string `bson:"currency"`
	Code             string `bson:"code"`
	Revenue          string `bson:"revenue"`
	COGS             string `bson:"cogs"`
	OperatingExpense string `bson:"operating_expense"`
	NetProfit        string `bson:"net_profit"`
	Sales            int    `bson:"sales"`
	Expenses         int    `bson:"expenses"`
	CompletedOrders  int    `bson:"completed_orders"`
}

// OrdersDoc mirrors models.OrderVolume.
type OrdersDoc struct {
	Last7Days  int `bson:"last_7_days"`
	Last30Days int `bson:"last_30_days"`
	InProgress int `bson:"in_progress"`
}

// NewReportDocument converts a report into its archived form. Currency buckets
// are listed in display order.
func NewReportDocument(report models.DailyReport) ReportDocument {
	doc := ReportDocument{
		ID:             report.Date.Format("2006-01-02"),
		Date:           report.Date,
		InventoryValue: make(map[string]string, len(report.InventoryValue)),
		Orders: OrdersDoc{
			Last7Days:  report.Orders.Last7Days,
			Last30Days: report.Orders.Last30Days,
			InProgress: report.Orders.InProgress,
		},
		LowStock:  report.LowStock,
		CreatedAt: report.CreatedAt,
	}

	for _, currency := range ledger.SortedCurrencies(report.Profitability) {
		summary := report.Profitability[currency]
		doc.Currencies = append(doc.Currencies, CurrencyDoc{
			Currency:         string(currency),
			Code:             currency.Code(),
			Revenue:          summary.Revenue.String(),
			COGS:             summary.COGS.String(),
			OperatingExpense: summary.OperatingExpense.String(),
			NetProfit:        summary.NetProfit.String(),
			Sales:            summary.Sales,
			Expenses:         summary.Expenses,
			CompletedOrders:  summary.CompletedOrders,
		})
	}

	for currency, value := range report.InventoryValue {
		doc.InventoryValue[currency.Code()] = value.String()
	}

	return doc
}
