// Package docstore reads jobs and timecards from Firestore: jobs/{jobId}
// documents with a timecards sub-collection.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"jobtrack.com/jobtrack/reporting"
	"jobtrack.com/jobtrack/timecard"
)

const (
	jobsCollection      = "jobs"
	timecardsCollection = "timecards"
)

type jobDocument struct {
	Name   string `firestore:"name"`
	Number string `firestore:"number"`
}

type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) timecards(jobID string) *firestore.CollectionRef {
	return s.client.Collection(jobsCollection).Doc(jobID).Collection(timecardsCollection)
}

func (s *FirestoreStore) GetJob(ctx context.Context, jobID string) (*reporting.Job, error) {
	snap, err := s.client.Collection(jobsCollection).Doc(jobID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %s", reporting.ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", jobID, err)
	}

	var doc jobDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", jobID, err)
	}
	return &reporting.Job{ID: snap.Ref.ID, Name: doc.Name, Number: doc.Number}, nil
}

// ListTimecards returns the submitted timecards of the week ordered by
// employee name. Sorting happens here so no composite index is needed.
func (s *FirestoreStore) ListTimecards(ctx context.Context, jobID, weekStart string) ([]timecard.Timecard, error) {
	iter := s.timecards(jobID).
		Where("weekStart", "==", weekStart).
		Where("status", "==", reporting.StatusSubmitted).
		Documents(ctx)
	defer iter.Stop()

	snaps, err := iter.GetAll()
	if err != nil {
		return nil, fmt.Errorf("query timecards: %w", err)
	}

	out := make([]timecard.Timecard, 0, len(snaps))
	for _, snap := range snaps {
		tc, err := decodeTimecard(snap.Ref.ID, snap.Data())
		if err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	slices.SortStableFunc(out, func(a, b timecard.Timecard) int {
		return strings.Compare(a.EmployeeName, b.EmployeeName)
	})
	return out, nil
}

func (s *FirestoreStore) GetTimecard(ctx context.Context, jobID, weekStart, timecardID string) (*timecard.Timecard, error) {
	snap, err := s.timecards(jobID).Doc(timecardID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %s", reporting.ErrTimecardNotFound, timecardID)
	}
	if err != nil {
		return nil, fmt.Errorf("get timecard %s: %w", timecardID, err)
	}

	data := snap.Data()
	if !submittedIn(data, weekStart) {
		return nil, fmt.Errorf("%w: %s", reporting.ErrTimecardNotFound, timecardID)
	}
	tc, err := decodeTimecard(snap.Ref.ID, data)
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

func submittedIn(data map[string]any, weekStart string) bool {
	week, _ := data["weekStart"].(string)
	state, _ := data["status"].(string)
	return week == weekStart && state == reporting.StatusSubmitted
}

// decodeTimecard goes through JSON so the lenient timecard decoding applies
// to document data as well.
func decodeTimecard(id string, data map[string]any) (timecard.Timecard, error) {
	raw, err := json.Marshal(finiteValues(data))
	if err != nil {
		return timecard.Timecard{}, fmt.Errorf("encode timecard %s: %w", id, err)
	}
	var tc timecard.Timecard
	if err := json.Unmarshal(raw, &tc); err != nil {
		return timecard.Timecard{}, fmt.Errorf("decode timecard %s: %w", id, err)
	}
	if tc.ID == "" {
		tc.ID = id
	}
	return tc, nil
}

// finiteValues copies document data with NaN and ±Inf doubles replaced by 0,
// which encoding/json cannot represent.
func finiteValues(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0.0
		}
		return x
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = finiteValues(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = finiteValues(e)
		}
		return out
	}
	return v
}
