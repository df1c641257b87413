package services

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"wildebeast-llm-api/internal/faults"
	"wildebeast-llm-api/internal/models"
)

const (
	historyCollection = "forecasts"
	recordTimeout     = 5 * time.Second
)

// HistoryService persists successful forecasts to Firestore. It is not a
// cache: every question still produces exactly one downstream call. With no
// project configured the service degrades to a no-op.
type HistoryService struct {
	client *firestore.Client
}

func NewHistoryService(ctx context.Context, projectID string) *HistoryService {
	if projectID == "" {
		return &HistoryService{}
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		// Log error but don't fail - history is a non-essential surface
		log.Printf("Failed to initialize Firestore, forecast history disabled: %v", err)
		client = nil
	}

	return &HistoryService{client: client}
}

func (s *HistoryService) Enabled() bool {
	return s != nil && s.client != nil
}

// Record persists a history entry in the background so the request path
// never blocks on Firestore.
func (s *HistoryService) Record(question string, forecast *models.ForecastResponse) {
	if !s.Enabled() {
		return
	}

	rec := models.ForecastRecord{
		Question:            question,
		FinalProbability:    forecast.FinalProbability,
		ConfidenceRangeLow:  forecast.ConfidenceRangeLow,
		ConfidenceRangeHigh: forecast.ConfidenceRangeHigh,
		CreatedAt:           time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if _, _, err := s.client.Collection(historyCollection).Add(ctx, rec); err != nil {
			log.Printf("Failed to record forecast history: %v", err)
		}
	}()
}

// Recent returns the newest history entries, newest first. With history
// disabled it returns an empty list.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]models.ForecastRecord, error) {
	records := make([]models.ForecastRecord, 0, limit)
	if !s.Enabled() {
		return records, nil
	}

	iter := s.client.Collection(historyCollection).
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, faults.Wrap(err, faults.KindInternal, "Failed to load forecast history.")
		}

		var rec models.ForecastRecord
		if err := doc.DataTo(&rec); err != nil {
			log.Printf("Skipping malformed history document %s: %v", doc.Ref.ID, err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func (s *HistoryService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
