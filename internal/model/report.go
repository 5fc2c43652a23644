package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TextEntry struct {
	Content string    `bson:"content" json:"content"`
	Date    time.Time `bson:"date" json:"date"`
}

type AudioFile struct {
	Name string    `bson:"name" json:"name"`
	URL  string    `bson:"url" json:"url"`
	Type string    `bson:"type" json:"type"`
	Date time.Time `bson:"date" json:"date"`
}

type DocumentFile struct {
	Name string    `bson:"name" json:"name"`
	Type string    `bson:"type" json:"type"`
	Size int64     `bson:"size" json:"size"`
	URL  string    `bson:"url" json:"url"`
	Date time.Time `bson:"date" json:"date"`
}

type PrescriptionEntry struct {
	Content string    `bson:"content" json:"content"`
	Date    time.Time `bson:"date" json:"date"`
	Time    string    `bson:"time" json:"time"`
	Doctor  string    `bson:"doctor" json:"doctor"`
}

type AnalysisResult struct {
	Input  string    `bson:"input" json:"input"`
	Result string    `bson:"result" json:"result"`
	Date   time.Time `bson:"date" json:"date"`
}

// PatientReport is the per-patient clinical record, one document per
// patient in the report store. Visit data is appended to the nested arrays,
// the identity fields are overwritten in place.
type PatientReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PatientID   string             `bson:"patientId" json:"patientId"`
	PatientName string             `bson:"patientName" json:"patientName"`
	DoctorName  string             `bson:"doctorName" json:"doctorName"`
	Contact     string             `bson:"contact" json:"contact"`
	LastVisit   string             `bson:"lastVisit" json:"lastVisit"`
	Procedure   string             `bson:"procedure" json:"procedure"`
	Image       string             `bson:"image" json:"image"`

	Notes         []TextEntry `bson:"notes" json:"notes"`
	History       []TextEntry `bson:"history" json:"history"`
	ExamFindings  []TextEntry `bson:"examFindings" json:"examFindings"`
	Transcription []string    `bson:"transcription" json:"transcription"`

	Audio           []AudioFile         `bson:"audioUrl" json:"audioUrl"`
	Documents       []DocumentFile      `bson:"documents" json:"documents"`
	Prescriptions   []PrescriptionEntry `bson:"prescriptions" json:"prescriptions"`
	AnalysisResults []AnalysisResult    `bson:"analysisResults" json:"analysisResults"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// ReportUpdate carries one visit's worth of additions to a patient report.
// Identity fields overwrite, the slices are appended to the matching
// nested arrays.
type ReportUpdate struct {
	PatientName string
	DoctorName  string
	Contact     string
	LastVisit   string
	Procedure   string
	Image       string

	Notes         []TextEntry
	History       []TextEntry
	ExamFindings  []TextEntry
	Transcription []string

	Audio           []AudioFile
	Documents       []DocumentFile
	Prescriptions   []PrescriptionEntry
	AnalysisResults []AnalysisResult
}
