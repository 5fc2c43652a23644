package controller

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinixnote/backend/internal/model"
)

// SaveReport takes a multipart form: identity fields, JSON-encoded entry
// arrays and uploaded audio/document files. Files land under the upload
// dir and are served back via /uploads.
func (ct *Controller) SaveReport(c echo.Context) error {
	patientID := c.FormValue("patientId")
	upd := model.ReportUpdate{
		PatientName: c.FormValue("patientName"),
		DoctorName:  c.FormValue("doctorName"),
		Contact:     c.FormValue("contact"),
		LastVisit:   c.FormValue("lastVisit"),
		Procedure:   c.FormValue("procedure"),
		Image:       c.FormValue("image"),
	}

	if err := formJSON(c, "notes", &upd.Notes); err != nil {
		return err
	}
	if err := formJSON(c, "history", &upd.History); err != nil {
		return err
	}
	if err := formJSON(c, "examFindings", &upd.ExamFindings); err != nil {
		return err
	}
	if err := formJSON(c, "transcription", &upd.Transcription); err != nil {
		return err
	}
	if err := formJSON(c, "prescriptions", &upd.Prescriptions); err != nil {
		return err
	}
	if err := formJSON(c, "analysisResults", &upd.AnalysisResults); err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err == nil {
		now := time.Now()
		for _, fh := range form.File["documents"] {
			url, err := ct.saveUpload(fh, "documents")
			if err != nil {
				return httpError(err)
			}
			upd.Documents = append(upd.Documents, model.DocumentFile{
				Name: fh.Filename,
				Type: fh.Header.Get("Content-Type"),
				Size: fh.Size,
				URL:  url,
				Date: now,
			})
		}
		for _, fh := range form.File["audio"] {
			url, err := ct.saveUpload(fh, "audio")
			if err != nil {
				return httpError(err)
			}
			upd.Audio = append(upd.Audio, model.AudioFile{
				Name: fh.Filename,
				URL:  url,
				Type: fh.Header.Get("Content-Type"),
				Date: now,
			})
		}
	}

	report, err := ct.reports.SaveReport(c.Request().Context(), patientID, upd)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (ct *Controller) ReportsByPatient(c echo.Context) error {
	reports, err := ct.reports.ReportsByPatient(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reports)
}

type savePrescriptionRequest struct {
	PatientName string `json:"patientName"`
	Contact     string `json:"contact"`
	DoctorName  string `json:"doctorName"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Text        string `json:"prescriptionText"`
}

func (ct *Controller) SavePrescription(c echo.Context) error {
	var req savePrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	date := time.Now()
	if req.Date != "" {
		var err error
		if date, err = parseDate(req.Date); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date")
		}
	}
	p := &model.Prescription{
		PatientName: req.PatientName,
		Contact:     req.Contact,
		DoctorName:  req.DoctorName,
		Date:        date,
		Time:        req.Time,
		Text:        req.Text,
	}
	if err := ct.reports.SavePrescription(c.Request().Context(), p); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (ct *Controller) PrescriptionsByContact(c echo.Context) error {
	items, err := ct.reports.PrescriptionsByContact(c.Request().Context(), c.Param("contact"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

// saveUpload writes the uploaded file under uploadDir/<sub> with a random
// name, keeping the original extension. Returns the public URL path.
func (ct *Controller) saveUpload(fh *multipart.FileHeader, sub string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dir := filepath.Join(ct.uploadDir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + sub + "/" + name, nil
}

// formJSON decodes an optional JSON-encoded form field into dst.
func formJSON(c echo.Context, field string, dst any) error {
	raw := c.FormValue(field)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid "+field)
	}
	return nil
}
