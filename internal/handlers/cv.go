package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sals-backend/internal/cvanalysis"
)

const (
	cvFormField  = "cv_file"
	maxCVSize    = 10 << 20
	msgNoFile    = "لم يتم رفع أي ملف"
	msgNoFileSel = "لم يتم اختيار أي ملف"
	msgFileLarge = "حجم الملف كبير جداً"
)

type CVAnalyzer interface {
	Analyze(ctx context.Context, upload cvanalysis.Upload) cvanalysis.Report
}

// AnalyzeCV always answers 200 once a file is present; collaborator failures
// are folded into a heuristic analysis and reported as degraded.
func AnalyzeCV(analyzer CVAnalyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /analyze-cv"
		defer handlePanic(c, route)

		header, err := c.FormFile(cvFormField)
		if err != nil {
			if _, named := c.GetPostForm(cvFormField); named {
				respondWithError(c, http.StatusBadRequest, route, msgNoFileSel)
				return
			}
			respondWithError(c, http.StatusBadRequest, route, msgNoFile)
			return
		}
		if header.Filename == "" {
			respondWithError(c, http.StatusBadRequest, route, msgNoFileSel)
			return
		}
		if header.Size > maxCVSize {
			respondWithError(c, http.StatusBadRequest, route, msgFileLarge)
			return
		}

		file, err := header.Open()
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, maxCVSize))
		if err != nil {
			respondWithAppError(c, route, err)
			return
		}

		report := analyzer.Analyze(c.Request.Context(), cvanalysis.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     content,
		})
		reportDegraded(c, report.Degraded)

		c.JSON(http.StatusOK, gin.H{"success": true, "analysis": report.Analysis})
	}
}
