package reportstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinixnote/backend/internal/model"
	"github.com/clinixnote/backend/internal/repository"
)

const patientCollection = "patients"

// PatientRepository stores patient records in the document database. A
// patient is unique by name and contact.
type PatientRepository struct {
	col *mongo.Collection
}

func NewPatientRepository(db *mongo.Database) *PatientRepository {
	return &PatientRepository{col: db.Collection(patientCollection)}
}

// Create inserts the patient unless one with the same name and contact
// already exists.
func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) error {
	count, err := r.col.CountDocuments(ctx, bson.M{"name": p.Name, "contact": p.Contact})
	if err != nil {
		return fmt.Errorf("check patient exists: %w", err)
	}
	if count > 0 {
		return repository.ErrDuplicate
	}

	p.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("create patient: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// ListByDoctor returns the doctor's patients ordered by appointment date
// then time.
func (r *PatientRepository) ListByDoctor(ctx context.Context, doctorName string) ([]*model.Patient, error) {
	return r.list(ctx, bson.M{"doctor": doctorName})
}

func (r *PatientRepository) ListAll(ctx context.Context) ([]*model.Patient, error) {
	return r.list(ctx, bson.M{})
}

func (r *PatientRepository) list(ctx context.Context, filter bson.M) ([]*model.Patient, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "appointmentDate", Value: 1},
		{Key: "appointmentTime", Value: 1},
	})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find patients: %w", err)
	}
	defer cur.Close(ctx)

	var patients []*model.Patient
	if err := cur.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	return patients, nil
}

// SetImage stores the uploaded image filename on the patient record.
func (r *PatientRepository) SetImage(ctx context.Context, id, image string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrNotFound
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"image": image}})
	if err != nil {
		return fmt.Errorf("set patient image: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByDetails removes the patient matching every field of the key.
func (r *PatientRepository) DeleteByDetails(ctx context.Context, key model.PatientKey) error {
	res, err := r.col.DeleteOne(ctx, bson.M{
		"name":            key.Name,
		"contact":         key.Contact,
		"doctor":          key.Doctor,
		"appointmentDate": key.AppointmentDate,
		"appointmentTime": key.AppointmentTime,
	})
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
