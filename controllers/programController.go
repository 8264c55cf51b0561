package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang-physiobackend/helpers"
	"golang-physiobackend/models"
	"golang-physiobackend/session"

	"github.com/gin-gonic/gin"
)

const maxVideoMB = 100

// ResolveProgram serves the patient page. An absent or unknown code routes
// back to the therapist view; nothing about valid codes leaks either way.
func ResolveProgram() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		code := c.Query("paziente")
		if code == "" {
			c.Redirect(http.StatusFound, "/")
			return
		}

		view, err := physio.View(ctx, code)
		if err != nil {
			if err == session.ErrNotFound {
				c.Redirect(http.StatusFound, "/")
				return
			}
			c.JSON(statusFor(err), gin.H{"error": "Error while fetching program"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func MarkDone() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rec, err := physio.MarkDone(ctx, c.Param("code"), c.Param("exercise"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Exercise marked as done",
			"history": rec.History[c.Param("exercise")],
		})
	}
}

func UndoDone() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rec, err := physio.Undo(ctx, c.Param("code"), c.Param("exercise"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Today's entry removed",
			"history": rec.History[c.Param("exercise")],
		})
	}
}

func SaveNote() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Note string `json:"note"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		_, err := physio.SaveNote(ctx, c.Param("code"), c.Param("exercise"), req.Note)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Note saved"})
	}
}

// UploadVideo receives a proof-of-execution video. The blob goes to storage
// first; the submission is appended to the record only after a successful
// upload. An optional client-side AES key is wrapped with KMS and stored
// alongside the submission.
func UploadVideo() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()

		c.Request.ParseMultipartForm(maxVideoMB << 20)
		file, handler, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error occurred while uploading file"})
			return
		}
		defer file.Close()

		sizeMB := float64(handler.Size) / (1 << 20)
		if sizeMB > maxVideoMB {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Video exceeds the %d MB limit", maxVideoMB)})
			return
		}

		sub := models.VideoSubmission{
			OriginalFilename: handler.Filename,
			PatientComment:   c.PostForm("comment"),
			SizeMB:           sizeMB,
		}

		if aesKey := c.PostForm("aes_key"); aesKey != "" {
			wrapped, err := helpers.WrapKey(ctx, aesKey)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to wrap encryption key"})
				return
			}
			sub.WrappedKey = wrapped
		}

		rec, err := physio.AttachVideo(ctx, c.Param("code"), c.Param("exercise"), sub, file)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Video uploaded successfully",
			"videos":  rec.Videos[c.Param("exercise")],
		})
	}
}

func RemoveVideo() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var req struct {
			Index int `json:"index" validate:"min=0"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		rec, err := physio.RemoveVideo(ctx, c.Param("code"), c.Param("exercise"), req.Index)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Video removed",
			"videos":  rec.Videos[c.Param("exercise")],
		})
	}
}

// errorMessage keeps patient-facing errors generic: an unknown code is only
// ever "invalid code", never a hint about which codes exist.
func errorMessage(err error) string {
	if err == session.ErrNotFound {
		return "invalid code"
	}
	return err.Error()
}
