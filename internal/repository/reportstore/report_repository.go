package reportstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinixnote/backend/internal/model"
)

const collectionName = "patient_reports"

// ReportRepository stores patient reports as one document per patient in
// the document database.
type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionName)}
}

// Upsert creates the patient's report document if missing and applies the
// update, returning the resulting document.
func (r *ReportRepository) Upsert(ctx context.Context, patientID string, upd model.ReportUpdate) (*model.PatientReport, error) {
	set := bson.M{
		"patientId": patientID,
		"timestamp": time.Now(),
	}
	setIfNotEmpty(set, "patientName", upd.PatientName)
	setIfNotEmpty(set, "doctorName", upd.DoctorName)
	setIfNotEmpty(set, "contact", upd.Contact)
	setIfNotEmpty(set, "lastVisit", upd.LastVisit)
	setIfNotEmpty(set, "procedure", upd.Procedure)
	setIfNotEmpty(set, "image", upd.Image)

	push := bson.M{}
	pushEach(push, "notes", upd.Notes)
	pushEach(push, "history", upd.History)
	pushEach(push, "examFindings", upd.ExamFindings)
	pushEach(push, "transcription", upd.Transcription)
	pushEach(push, "audioUrl", upd.Audio)
	pushEach(push, "documents", upd.Documents)
	pushEach(push, "prescriptions", upd.Prescriptions)
	pushEach(push, "analysisResults", upd.AnalysisResults)

	update := bson.M{"$set": set}
	if len(push) > 0 {
		update["$push"] = push
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var report model.PatientReport
	err := r.col.FindOneAndUpdate(ctx, bson.M{"patientId": patientID}, update, opts).Decode(&report)
	if err != nil {
		return nil, fmt.Errorf("upsert report: %w", err)
	}
	return &report, nil
}

// FindByPatientID returns the patient's reports newest first.
func (r *ReportRepository) FindByPatientID(ctx context.Context, patientID string) ([]*model.PatientReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find reports: %w", err)
	}
	defer cur.Close(ctx)

	var reports []*model.PatientReport
	if err := cur.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return reports, nil
}

func setIfNotEmpty(m bson.M, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func pushEach[T any](m bson.M, key string, values []T) {
	if len(values) > 0 {
		m[key] = bson.M{"$each": values}
	}
}
