package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang-physiobackend/export"
	"golang-physiobackend/helpers"
	"golang-physiobackend/program"

	"github.com/gin-gonic/gin"
)

type exercisePick struct {
	Name string `json:"name" validate:"required"`
	Sets int    `json:"sets" validate:"omitempty,min=1,max=10"`
	Reps int    `json:"reps" validate:"omitempty,min=1,max=30"`
}

type createPatientRequest struct {
	PatientName string         `json:"patient_name" validate:"required,min=2,max=100"`
	VisitReason string         `json:"visit_reason"`
	Template    string         `json:"template"`
	Exercises   []exercisePick `json:"exercises" validate:"required_without=Template,dive"`
}

// CreatePatient builds a new program and issues the access code. Selections
// may come from a template, explicit picks, or both.
func CreatePatient() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req createPatientRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var picks []program.Pick
		if req.Template != "" {
			tmpl, ok := program.FindTemplate(req.Template)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown template %q", req.Template)})
				return
			}
			fromTemplate, missing := program.FromTemplate(tmpl, exerciseCatalog)
			if len(missing) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Template exercises no longer in catalog: %v", missing)})
				return
			}
			picks = fromTemplate
		}
		for _, pick := range req.Exercises {
			entry, ok := exerciseCatalog.Find(pick.Name)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Exercise %q is not in the catalog", pick.Name)})
				return
			}
			picks = append(picks, program.Pick{Entry: entry, Sets: pick.Sets, Reps: pick.Reps})
		}

		rec, err := program.Build(req.PatientName, req.VisitReason, picks, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec, err = physio.CreatePatient(ctx, rec)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_code":  rec.AccessCode,
			"patient_link": helpers.PatientLink(baseURL(), rec.AccessCode),
			"patient_name": rec.PatientName,
		})
	}
}

func GetPatients() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		summaries, err := physio.Summaries(ctx)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": "Error while fetching patients"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"patients": summaries})
	}
}

func GetPatient() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		view, err := physio.View(ctx, c.Param("code"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func GetPatientStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := physio.Stats(ctx, c.Param("code"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": "Patient not found"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// DeletePatient removes the record. Video blobs are cleaned up best effort;
// a storage failure never blocks the removal.
func DeletePatient() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := physio.DeletePatient(ctx, c.Param("code")); err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Patient deleted successfully"})
	}
}

func SetFeedback() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Exercise string `json:"exercise" validate:"required"`
			Index    int    `json:"index" validate:"min=0"`
			Feedback string `json:"feedback"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if err := validate.Struct(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		rec, err := physio.SaveFeedback(ctx, c.Param("code"), req.Exercise, req.Index, req.Feedback)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Feedback saved", "videos": rec.Videos[req.Exercise]})
	}
}

// ExportPatient renders the printable program. The renderer is an external
// collaborator; without one configured this answers 501.
func ExportPatient() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rec, err := physio.Resolve(ctx, c.Param("code"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": "Patient not found"})
			return
		}

		doc, err := pdfRenderer.Render(rec)
		if err != nil {
			if errors.Is(err, export.ErrNoRenderer) {
				c.JSON(http.StatusNotImplemented, gin.H{"error": "PDF export is not configured"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error while rendering document"})
			return
		}

		filename := fmt.Sprintf("%s_esercizi.pdf", rec.PatientName)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/pdf", doc)
	}
}
